package regions

import (
	"errors"
	"fmt"

	"github.com/ludo-technologies/cfgregion/internal/cfg"
)

// BuildResult pairs one CFG's built region tree with the outcome of
// building it.
type BuildResult struct {
	Name   string
	Region *Region
	Err    error
}

// BuildAll runs the region builder over every CFG independently,
// collecting per-method failures instead of aborting the whole batch on
// the first one — the same best-effort accumulation
// `other_examples/nukilabs-decompile__structure.go` uses across its
// loop/conditional recognizers, applied here across methods.
func BuildAll(cfgs []*cfg.CFG) ([]BuildResult, error) {
	results := make([]BuildResult, len(cfgs))
	var errs []error

	for i, c := range cfgs {
		b := NewBuilder(c)
		region, err := b.Build()
		results[i] = BuildResult{Name: c.Name, Region: region, Err: err}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.Name, err))
		}
	}
	return results, errors.Join(errs...)
}

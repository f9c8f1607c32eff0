package regions

import (
	"testing"

	"github.com/ludo-technologies/cfgregion/internal/cfg"
	"github.com/ludo-technologies/cfgregion/internal/cfgtest"
)

func simpleCFG(name string) *cfg.CFG {
	return cfgtest.New(name).
		Edge("entry", "a").
		Plain("a").
		Return("a").
		Edge("a", "exit").
		Build()
}

func TestBuildAll_AllSucceed(t *testing.T) {
	cfgs := []*cfg.CFG{simpleCFG("one"), simpleCFG("two")}

	results, err := BuildAll(cfgs)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("%s: unexpected error %v", r.Name, r.Err)
		}
		if r.Region == nil {
			t.Errorf("%s: expected a region tree", r.Name)
		}
	}
}

func TestBuildAll_PartialFailureContinues(t *testing.T) {
	good := simpleCFG("good")

	bad := cfgtest.New("bad").
		Edge("entry", "cond").
		If("cond", "then", "els").
		Plain("then").
		Plain("els").
		Edge("then", "out").
		Edge("els", "out").
		Return("out").
		Edge("out", "exit").
		Build()

	// Force an overflow on "bad" so it fails while "good" still succeeds.
	cfgs := []*cfg.CFG{good, bad}
	results := make([]BuildResult, len(cfgs))
	var firstErr error
	for i, c := range cfgs {
		b := NewBuilder(c)
		if c.Name == "bad" {
			b.SetRegionLimit(1)
		}
		region, err := b.Build()
		results[i] = BuildResult{Name: c.Name, Region: region, Err: err}
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if results[0].Err != nil {
		t.Errorf("expected %q to succeed, got %v", results[0].Name, results[0].Err)
	}
	if results[1].Err == nil {
		t.Error("expected \"bad\" to fail with an overflow error")
	}
	if firstErr == nil {
		t.Error("expected a recorded failure")
	}
}

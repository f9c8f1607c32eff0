package app

import (
	"context"
	"fmt"

	"github.com/ludo-technologies/cfgregion/domain"
	"github.com/ludo-technologies/cfgregion/internal/cfg"
	"github.com/ludo-technologies/cfgregion/internal/cfgio"
	"github.com/ludo-technologies/cfgregion/internal/config"
	"github.com/ludo-technologies/cfgregion/internal/regions"
	"github.com/ludo-technologies/cfgregion/service"
)

// BuildUseCase drives the "build" command: load one CFG fixture, run the
// region builder over it, and produce its domain.RegionSummary
// (SPEC_FULL.md, "CLI", `cfgregion build`).
type BuildUseCase struct {
	regionConfig config.RegionConfig
}

// NewBuildUseCase creates a BuildUseCase tuned by the given region
// configuration.
func NewBuildUseCase(regionConfig config.RegionConfig) *BuildUseCase {
	return &BuildUseCase{regionConfig: regionConfig}
}

// BuildFixtureTask adapts one fixture path into a domain.ExecutableTask
// for use with a domain.ParallelExecutor over a batch (app/batch_usecase.go).
type BuildFixtureTask struct {
	useCase *BuildUseCase
	path    string
	enabled bool
}

// NewBuildFixtureTask creates a task that builds the region tree for one
// fixture file.
func NewBuildFixtureTask(useCase *BuildUseCase, path string) *BuildFixtureTask {
	return &BuildFixtureTask{useCase: useCase, path: path, enabled: true}
}

// Name returns the fixture path, used for task identification in error
// aggregation.
func (t *BuildFixtureTask) Name() string { return t.path }

// IsEnabled reports whether this task should run.
func (t *BuildFixtureTask) IsEnabled() bool { return t.enabled }

// Execute loads and builds the fixture, returning its *BuiltFixture as the
// task result.
func (t *BuildFixtureTask) Execute(ctx context.Context) (any, error) {
	return t.useCase.Build(t.path)
}

// BuiltFixture is the result of building a single fixture file: its CFG
// (for post-hoc flag inspection) and its region tree.
type BuiltFixture struct {
	Name   string
	CFG    *cfg.CFG
	Region *regions.Region
}

// Build loads path, builds its region tree with the configured region
// limits, and returns the built fixture.
func (u *BuildUseCase) Build(path string) (*BuiltFixture, error) {
	c, err := cfgio.LoadFile(path)
	if err != nil {
		return nil, domain.NewParseError(fmt.Sprintf("failed to load fixture %s", path), err)
	}

	b := regions.NewBuilder(c)
	b.SetMaxDepth(u.regionConfig.MaxDepthFor(len(c.Blocks)))
	b.SetRegionLimit(u.regionConfig.RegionLimitFor(len(c.Blocks)))

	region, err := b.Build()
	if err != nil {
		return nil, domain.NewAnalysisError(fmt.Sprintf("failed to build region tree for %s", path), err)
	}

	return &BuiltFixture{Name: c.Name, CFG: c, Region: region}, nil
}

// Summarize converts a service.RegionStats outcome into a
// domain.RegionSummary for reporting.
func Summarize(stats service.RegionStats) domain.RegionSummary {
	if stats.Err != nil {
		return domain.RegionSummary{Name: stats.Name, Error: stats.Err.Error()}
	}
	return domain.RegionSummary{
		Name:         stats.Name,
		RegionCount:  stats.RegionCount,
		MaxDepth:     stats.MaxDepth,
		Inconsistent: stats.Inconsistent,
	}
}

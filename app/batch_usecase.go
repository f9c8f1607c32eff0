package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ludo-technologies/cfgregion/domain"
	"github.com/ludo-technologies/cfgregion/internal/config"
	"github.com/ludo-technologies/cfgregion/internal/version"
	"github.com/ludo-technologies/cfgregion/service"
)

// BatchUseCase drives the "build" and "check" commands over a set of
// paths: resolve fixture files, build each one's region tree with bounded
// concurrency, walk the results, and assemble a domain.BuildReport
// (SPEC_FULL.md, "CLI").
type BatchUseCase struct {
	fileHelper *FileHelper
	buildUC    *BuildUseCase
	executor   domain.ParallelExecutor
	walker     *service.RegionWalker
}

// NewBatchUseCase wires a BatchUseCase from region/batch configuration and
// an optional progress manager.
func NewBatchUseCase(cfg *config.Config, progress domain.ProgressManager) *BatchUseCase {
	buildUC := NewBuildUseCase(cfg.Region)
	executor := service.NewParallelExecutorWithProgress(&cfg.Batch, progress)
	return &BatchUseCase{
		fileHelper: NewFileHelper(),
		buildUC:    buildUC,
		executor:   executor,
		walker:     service.NewRegionWalker(cfg.Batch.Concurrency),
	}
}

// buildTaskOutcome is what each BuildFixtureTask.Execute produces,
// captured per-task so the batch can assemble a report even though
// domain.ParallelExecutor's Execute only returns an aggregated error.
type buildTaskOutcome struct {
	path string
	item service.WalkItem
}

// Run resolves req.Paths to fixture files, builds each one, and returns
// the aggregate report.
func (u *BatchUseCase) Run(ctx context.Context, req *domain.BuildRequest) (*domain.BuildReport, error) {
	start := time.Now()
	paths, err := ResolveFilePaths(u.fileHelper, req.Paths, req.Recursive, req.IncludePatterns, req.ExcludePatterns)
	if err != nil {
		return nil, domain.NewFileNotFoundError("failed to resolve fixture paths", err)
	}

	outcomes := make([]buildTaskOutcome, len(paths))
	tasks := make([]domain.ExecutableTask, len(paths))
	for i, p := range paths {
		i, p := i, p
		tasks[i] = newRecordingTask(u.buildUC, p, func(built *BuiltFixture, err error) {
			if err != nil {
				outcomes[i] = buildTaskOutcome{path: p, item: service.WalkItem{Name: p, Err: err}}
				return
			}
			outcomes[i] = buildTaskOutcome{path: p, item: service.WalkItem{
				Name:   built.Name,
				CFG:    built.CFG,
				Region: built.Region,
			}}
		})
	}

	execErr := u.executor.Execute(ctx, tasks)
	if execErr != nil && req.FailFast {
		return nil, execErr
	}

	items := make([]service.WalkItem, len(outcomes))
	for i, o := range outcomes {
		items[i] = o.item
	}
	stats := u.walker.WalkAll(items)

	report := &domain.BuildReport{
		TotalFiles:  len(stats),
		Version:     version.GetVersion(),
		GeneratedAt: start.Format(time.RFC3339),
		DurationMS:  time.Since(start).Milliseconds(),
	}
	for _, s := range stats {
		summary := Summarize(s)
		report.Results = append(report.Results, summary)
		if summary.Error != "" {
			report.FailedFiles++
		}
	}

	return report, nil
}

// recordingTask wraps a BuildFixtureTask so its result/error is captured
// via a callback instead of relying on domain.ParallelExecutor's discarded
// (any, error) return.
type recordingTask struct {
	inner    *BuildFixtureTask
	callback func(*BuiltFixture, error)
}

func newRecordingTask(useCase *BuildUseCase, path string, callback func(*BuiltFixture, error)) *recordingTask {
	return &recordingTask{inner: NewBuildFixtureTask(useCase, path), callback: callback}
}

func (t *recordingTask) Name() string    { return t.inner.Name() }
func (t *recordingTask) IsEnabled() bool { return t.inner.IsEnabled() }

func (t *recordingTask) Execute(ctx context.Context) (any, error) {
	result, err := t.inner.Execute(ctx)
	built, _ := result.(*BuiltFixture)
	t.callback(built, err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.inner.Name(), err)
	}
	return built, nil
}

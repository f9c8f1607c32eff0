package domain

import (
	"context"
	"io"
)

// OutputFormat represents the supported output formats for build/check results
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatDOT  OutputFormat = "dot"
)

// BuildRequest represents a request to build region trees for one or more
// CFG fixture files (SPEC_FULL.md, "CLI" build/check commands).
type BuildRequest struct {
	// Paths to *.cfg.json/*.cfg.yaml fixture files, or directories to walk
	Paths []string

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer
	ShowDetails  bool

	// Configuration
	ConfigPath string

	// Batch options
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string
	Concurrency     int
	FailFast        bool
	ShowProgress    bool
}

// RegionSummary is a flattened, JSON/text-friendly view of one built region
// tree, used by output formatters that don't need the full Region graph.
type RegionSummary struct {
	Name         string `json:"name"`
	RegionCount  int    `json:"region_count"`
	MaxDepth     int    `json:"max_depth"`
	Inconsistent bool   `json:"inconsistent"`
	Error        string `json:"error,omitempty"`
}

// BuildReport aggregates the outcome of building region trees across a
// batch of CFG fixtures.
type BuildReport struct {
	Results     []RegionSummary `json:"results"`
	TotalFiles  int             `json:"total_files"`
	FailedFiles int             `json:"failed_files"`
	DurationMS  int64           `json:"duration_ms"`
	GeneratedAt string          `json:"generated_at"`
	Version     string          `json:"version"`
}

// OutputFormatter defines the interface for rendering a BuildReport.
type OutputFormatter interface {
	// Format renders the report in the requested format and returns it as a string.
	Format(report *BuildReport, format OutputFormat) (string, error)

	// Write renders the report and writes it directly to w.
	Write(report *BuildReport, format OutputFormat, w io.Writer) error
}

// ProgressManager abstracts a progress indicator driven by a batch build.
type ProgressManager interface {
	StartTask(description string, total int) TaskProgress
	IsInteractive() bool
	Close()
}

// TaskProgress tracks progress for a single batch-build task.
type TaskProgress interface {
	Increment(n int)
	Describe(description string)
	Complete()
}

// ParallelExecutor runs a bounded-concurrency batch of build tasks.
type ParallelExecutor interface {
	Execute(ctx context.Context, tasks []ExecutableTask) error
}

// ExecutableTask wraps a single CFG fixture's region build as one unit of
// batch work.
type ExecutableTask interface {
	Name() string
	IsEnabled() bool
	Execute(ctx context.Context) (any, error)
}

package domain

// CheckResult represents the result of running the check command over one
// or more CFG fixtures: build the region tree for each, then verify
// spec.md §3's invariants and report any violation as a nonzero-exit
// failure (SPEC_FULL.md, "CLI").
type CheckResult struct {
	Passed      bool             `json:"passed"`
	ExitCode    int              `json:"exit_code"`
	Violations  []CheckViolation `json:"violations"`
	Summary     CheckSummary     `json:"summary"`
	Duration    int64            `json:"duration_ms"`
	GeneratedAt string           `json:"generated_at"`
	Version     string           `json:"version"`
}

// CheckViolation represents a single invariant or build failure.
type CheckViolation struct {
	Category  string `json:"category"`            // coverage, invariant
	Rule      string `json:"rule"`                // e.g. "region-build", "switch-consistency"
	Severity  string `json:"severity"`            // error, warning
	Message   string `json:"message"`             // Human-readable description
	Location  string `json:"location,omitempty"`  // Method name / block id, if applicable
	Actual    string `json:"actual"`              // Actual value
	Threshold string `json:"threshold,omitempty"` // Configured threshold
}

// CheckSummary provides aggregate statistics across a batch build.
type CheckSummary struct {
	MethodsAnalyzed    int `json:"methods_analyzed"`
	TotalViolations    int `json:"total_violations"`
	OverflowFailures   int `json:"overflow_failures"`
	CoverageFailures   int `json:"coverage_failures"`
	RecognitionWarns   int `json:"recognition_warnings"`
	InconsistentSwitch int `json:"inconsistent_switch_count"`
}

package app

import (
	"context"
	"fmt"

	"github.com/ludo-technologies/cfgregion/domain"
	"github.com/ludo-technologies/cfgregion/internal/config"
	"github.com/ludo-technologies/cfgregion/internal/version"
)

// CheckUseCase drives the "check" command: build every fixture's region
// tree and verify spec.md §3's invariants, reporting each violation and a
// nonzero exit code on failure (SPEC_FULL.md, "CLI", `cfgregion check`).
type CheckUseCase struct {
	batch    *BatchUseCase
	checkCfg config.CheckConfig
}

// NewCheckUseCase wires a CheckUseCase from the full configuration.
func NewCheckUseCase(cfg *config.Config, progress domain.ProgressManager) *CheckUseCase {
	return &CheckUseCase{
		batch:    NewBatchUseCase(cfg, progress),
		checkCfg: cfg.Check,
	}
}

// Run builds every fixture named by req and evaluates the check
// invariants over the results.
func (u *CheckUseCase) Run(ctx context.Context, req *domain.BuildRequest) (*domain.CheckResult, error) {
	report, err := u.batch.Run(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &domain.CheckResult{
		GeneratedAt: report.GeneratedAt,
		Version:     version.GetVersion(),
		Duration:    report.DurationMS,
	}
	result.Summary.MethodsAnalyzed = report.TotalFiles

	for _, r := range report.Results {
		if r.Error != "" {
			result.Summary.CoverageFailures++
			result.Violations = append(result.Violations, domain.CheckViolation{
				Category: "coverage",
				Rule:     "region-build",
				Severity: "error",
				Message:  r.Error,
				Location: r.Name,
			})
			continue
		}

		if r.Inconsistent {
			result.Summary.InconsistentSwitch++
			v := domain.CheckViolation{
				Category: "invariant",
				Rule:     "switch-consistency",
				Location: r.Name,
				Message:  "switch region flagged inconsistent by the structural recognizer",
			}
			if u.checkCfg.FailOnWarning {
				v.Severity = "error"
			} else {
				v.Severity = "warning"
			}
			result.Violations = append(result.Violations, v)
		}

		if u.checkCfg.MaxRegionsPerMethod > 0 && r.RegionCount > u.checkCfg.MaxRegionsPerMethod {
			result.Violations = append(result.Violations, domain.CheckViolation{
				Category:  "invariant",
				Rule:      "max-regions-per-method",
				Severity:  "error",
				Location:  r.Name,
				Message:   "region count exceeds the configured per-method threshold",
				Actual:    fmt.Sprintf("%d", r.RegionCount),
				Threshold: fmt.Sprintf("%d", u.checkCfg.MaxRegionsPerMethod),
			})
		}
	}

	result.Summary.TotalViolations = len(result.Violations)

	result.Passed = true
	for _, v := range result.Violations {
		if v.Severity == "error" {
			result.Passed = false
			break
		}
	}

	result.ExitCode = 0
	if !result.Passed {
		result.ExitCode = 1
	}

	return result, nil
}

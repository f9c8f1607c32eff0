package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/cfgregion/app"
	"github.com/ludo-technologies/cfgregion/domain"
	"github.com/ludo-technologies/cfgregion/internal/config"
	"github.com/ludo-technologies/cfgregion/service"
)

// CheckExitError is a custom error type for check command exit codes
type CheckExitError struct {
	Code    int
	Message string
}

func (e *CheckExitError) Error() string {
	return e.Message
}

var (
	checkMaxRegions   int
	checkFailOnWarn   bool
	checkVerbose      bool
	checkJSON         bool
	checkConfigPath   string
	checkRecursive    bool
)

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Verify region-tree invariants for CI/CD pipelines",
		Long: `Run the region builder over one or more CFG fixtures and verify spec
invariants (coverage, region-count overflow, nesting depth, switch
consistency), for CI/CD integration.

Exit codes:
  0 - All checks pass
  1 - Invariant violation(s), including fixtures that fail to load or build
  2 - Configuration or path error (config not loadable, path not found, etc.)

Examples:
  # Basic check with defaults
  cfgregion check fixtures/

  # Fail the build on inconsistent-switch warnings too
  cfgregion check --fail-on-warning fixtures/

  # JSON output for machine parsing
  cfgregion check --json fixtures/`,
		Args:          cobra.MinimumNArgs(1),
		RunE:          runCheck,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().IntVar(&checkMaxRegions, "max-regions", 0, "Maximum allowed regions per method (0 = no limit)")
	cmd.Flags().BoolVar(&checkFailOnWarn, "fail-on-warning", false, "Treat inconsistent-switch warnings as failures")
	cmd.Flags().BoolVarP(&checkVerbose, "verbose", "v", false, "Show detailed output")
	cmd.Flags().BoolVar(&checkJSON, "json", false, "Output results as JSON")
	cmd.Flags().StringVarP(&checkConfigPath, "config", "c", "", "Path to config file")
	cmd.Flags().BoolVarP(&checkRecursive, "recursive", "r", true, "Recurse into directories")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithTarget(checkConfigPath, args[0])
	if err != nil {
		return &CheckExitError{Code: 2, Message: fmt.Sprintf("failed to load configuration: %v", err)}
	}

	if cmd.Flags().Changed("max-regions") {
		cfg.Check.MaxRegionsPerMethod = checkMaxRegions
	}
	if cmd.Flags().Changed("fail-on-warning") {
		cfg.Check.FailOnWarning = checkFailOnWarn
	}
	if cmd.Flags().Changed("recursive") {
		cfg.Batch.Recursive = checkRecursive
	}

	pm := service.NewProgressManager(!checkJSON && cfg.Batch.ShowProgress)
	defer pm.Close()

	req := &domain.BuildRequest{
		Paths:           args,
		Recursive:       cfg.Batch.Recursive,
		IncludePatterns: cfg.Batch.IncludePatterns,
		ExcludePatterns: cfg.Batch.ExcludePatterns,
		Concurrency:     cfg.Batch.Concurrency,
		ShowProgress:    cfg.Batch.ShowProgress,
	}

	uc := app.NewCheckUseCase(cfg, pm)
	result, err := uc.Run(context.Background(), req)
	if err != nil {
		return &CheckExitError{Code: 2, Message: err.Error()}
	}

	if checkJSON {
		return outputCheckJSON(result)
	}
	return outputCheckText(result)
}

func outputCheckText(result *domain.CheckResult) error {
	if result.Passed {
		fmt.Println("PASS: All region invariants hold")
		if checkVerbose {
			fmt.Printf("  Methods analyzed: %d\n", result.Summary.MethodsAnalyzed)
			fmt.Printf("  Duration: %dms\n", result.Duration)
		}
		return nil
	}

	fmt.Println("FAIL: Region invariant check failed")
	fmt.Printf("  Violations: %d\n", result.Summary.TotalViolations)

	for _, v := range result.Violations {
		severity := "ERROR"
		if v.Severity == "warning" {
			severity = "WARN"
		}
		fmt.Printf("  [%s] %s: %s\n", severity, v.Category, v.Message)
		if checkVerbose && v.Location != "" {
			fmt.Printf("         at %s\n", v.Location)
		}
	}

	if checkVerbose {
		fmt.Printf("\nSummary:\n")
		fmt.Printf("  Methods analyzed: %d\n", result.Summary.MethodsAnalyzed)
		fmt.Printf("  Coverage failures: %d\n", result.Summary.CoverageFailures)
		fmt.Printf("  Inconsistent switches: %d\n", result.Summary.InconsistentSwitch)
		fmt.Printf("  Duration: %dms\n", result.Duration)
	}

	return &CheckExitError{Code: 1, Message: ""}
}

func outputCheckJSON(result *domain.CheckResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return &CheckExitError{Code: 2, Message: fmt.Sprintf("failed to encode JSON: %v", err)}
	}

	if !result.Passed {
		return &CheckExitError{Code: 1, Message: ""}
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/cfgregion/app"
	"github.com/ludo-technologies/cfgregion/domain"
	"github.com/ludo-technologies/cfgregion/internal/config"
	"github.com/ludo-technologies/cfgregion/service"
)

var (
	buildOutputFormat string
	buildShowDetails  bool
	buildRecursive    bool
	buildConcurrency  int
	buildFailFast     bool
	buildConfigPath   string
	buildNoProgress   bool
)

func buildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [path...]",
		Short: "Build region trees for one or more CFG fixtures",
		Long: `Build reads *.cfg.json/*.cfg.yaml control-flow graph fixtures, runs the
region builder over each one, and reports the resulting region tree shape.

Examples:
  # Build a single fixture
  cfgregion build testdata/loop.cfg.json

  # Build every fixture under a directory
  cfgregion build -r fixtures/

  # DOT output for visual debugging
  cfgregion build --format dot testdata/loop.cfg.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: runBuild,
	}

	cmd.Flags().StringVarP(&buildOutputFormat, "format", "f", "text", "Output format: text, json, dot")
	cmd.Flags().BoolVar(&buildShowDetails, "details", false, "Show per-fixture region details")
	cmd.Flags().BoolVarP(&buildRecursive, "recursive", "r", true, "Recurse into directories")
	cmd.Flags().IntVar(&buildConcurrency, "concurrency", 0, "Max concurrent fixture builds (0 = config default)")
	cmd.Flags().BoolVar(&buildFailFast, "fail-fast", false, "Return the build error instead of a report when any fixture fails")
	cmd.Flags().StringVarP(&buildConfigPath, "config", "c", "", "Path to config file")
	cmd.Flags().BoolVar(&buildNoProgress, "no-progress", false, "Disable the progress bar")

	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithTarget(buildConfigPath, args[0])
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if cmd.Flags().Changed("format") {
		cfg.Output.Format = buildOutputFormat
	}
	if cmd.Flags().Changed("recursive") {
		cfg.Batch.Recursive = buildRecursive
	}
	if cmd.Flags().Changed("concurrency") && buildConcurrency > 0 {
		cfg.Batch.Concurrency = buildConcurrency
	}
	if cmd.Flags().Changed("fail-fast") {
		cfg.Batch.FailFast = buildFailFast
	}
	if buildNoProgress {
		cfg.Batch.ShowProgress = false
	}

	format := domain.OutputFormat(cfg.Output.Format)
	pm := service.NewProgressManager(cfg.Batch.ShowProgress && format == domain.OutputFormatText)
	defer pm.Close()

	req := &domain.BuildRequest{
		Paths:           args,
		OutputFormat:    format,
		ShowDetails:     buildShowDetails || cfg.Output.ShowDetails,
		Recursive:       cfg.Batch.Recursive,
		IncludePatterns: cfg.Batch.IncludePatterns,
		ExcludePatterns: cfg.Batch.ExcludePatterns,
		Concurrency:     cfg.Batch.Concurrency,
		FailFast:        cfg.Batch.FailFast,
		ShowProgress:    cfg.Batch.ShowProgress,
	}

	loader := service.NewConfigurationLoader()
	if err := loader.ValidateConfig(req); err != nil {
		return err
	}

	uc := app.NewBatchUseCase(cfg, pm)
	report, err := uc.Run(context.Background(), req)
	if err != nil {
		return err
	}

	formatter := service.NewOutputFormatter()
	if format == domain.OutputFormatDOT {
		return writeBuildDOT(cfg, req, os.Stdout)
	}
	return formatter.Write(report, format, os.Stdout)
}

// writeBuildDOT re-runs the build for DOT output, since a Graphviz
// rendering is per-fixture rather than a single aggregated report.
func writeBuildDOT(cfg *config.Config, req *domain.BuildRequest, out *os.File) error {
	fileHelper := app.NewFileHelper()
	paths, err := app.ResolveFilePaths(fileHelper, req.Paths, req.Recursive, req.IncludePatterns, req.ExcludePatterns)
	if err != nil {
		return err
	}

	buildUC := app.NewBuildUseCase(cfg.Region)
	dotFormatter := service.NewRegionDOTFormatter(nil)

	for _, p := range paths {
		built, err := buildUC.Build(p)
		if err != nil {
			return err
		}
		if err := dotFormatter.WriteRegion(built.Name, built.Region, out); err != nil {
			return err
		}
	}
	return nil
}

package app

import (
	"context"
	"testing"

	"github.com/ludo-technologies/cfgregion/domain"
	"github.com/ludo-technologies/cfgregion/internal/config"
	"github.com/ludo-technologies/cfgregion/service"
)

func TestCheckUseCase_Run_Passes(t *testing.T) {
	dir := t.TempDir()
	writeSimpleFixture(t, dir, "good.cfg.json")

	cfg := config.DefaultConfig()
	uc := NewCheckUseCase(cfg, &service.NoOpProgressManager{})

	result, err := uc.Run(context.Background(), &domain.BuildRequest{Paths: []string{dir}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Passed {
		t.Errorf("expected the check to pass, got violations: %+v", result.Violations)
	}
	if result.ExitCode != 0 {
		t.Errorf("expected exit code 0, got %d", result.ExitCode)
	}
	if result.Summary.MethodsAnalyzed != 1 {
		t.Errorf("expected 1 method analyzed, got %d", result.Summary.MethodsAnalyzed)
	}
}

func TestCheckUseCase_Run_CoverageFailure(t *testing.T) {
	dir := t.TempDir()
	if err := writeBadFixture(dir + "/bad.cfg.json"); err != nil {
		t.Fatalf("write bad fixture: %v", err)
	}

	cfg := config.DefaultConfig()
	uc := NewCheckUseCase(cfg, &service.NoOpProgressManager{})

	result, err := uc.Run(context.Background(), &domain.BuildRequest{Paths: []string{dir}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Passed {
		t.Error("expected the check to fail for an unparseable fixture")
	}
	if result.ExitCode != 1 {
		t.Errorf("expected exit code 1, got %d", result.ExitCode)
	}
	if result.Summary.CoverageFailures != 1 {
		t.Errorf("expected 1 coverage failure, got %d", result.Summary.CoverageFailures)
	}
}

func TestCheckUseCase_Run_MaxRegionsThresholdNotExceeded(t *testing.T) {
	dir := t.TempDir()
	writeSimpleFixture(t, dir, "good.cfg.json")

	cfg := config.DefaultConfig()
	cfg.Check.MaxRegionsPerMethod = 1000
	uc := NewCheckUseCase(cfg, &service.NoOpProgressManager{})

	result, err := uc.Run(context.Background(), &domain.BuildRequest{Paths: []string{dir}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, v := range result.Violations {
		if v.Rule == "max-regions-per-method" {
			t.Errorf("did not expect a max-regions violation under a generous threshold, got %+v", v)
		}
	}
	if !result.Passed {
		t.Errorf("expected the check to pass, got violations: %+v", result.Violations)
	}
}

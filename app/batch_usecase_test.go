package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/cfgregion/domain"
	"github.com/ludo-technologies/cfgregion/internal/config"
	"github.com/ludo-technologies/cfgregion/service"
)

func TestBatchUseCase_Run_MixedResults(t *testing.T) {
	dir := t.TempDir()
	writeSimpleFixture(t, dir, "good.cfg.json")
	badPath := filepath.Join(dir, "bad.cfg.json")
	if err := writeBadFixture(badPath); err != nil {
		t.Fatalf("write bad fixture: %v", err)
	}

	cfg := config.DefaultConfig()
	uc := NewBatchUseCase(cfg, &service.NoOpProgressManager{})

	report, err := uc.Run(context.Background(), &domain.BuildRequest{
		Paths: []string{dir},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.TotalFiles != 2 {
		t.Fatalf("expected 2 files in the batch, got %d", report.TotalFiles)
	}
	if report.FailedFiles != 1 {
		t.Errorf("expected exactly 1 failed file, got %d", report.FailedFiles)
	}

	var sawGood, sawBad bool
	for _, r := range report.Results {
		switch r.Name {
		case "good.cfg.json", "simple":
			if r.Error == "" {
				sawGood = true
			}
		case "bad.cfg.json":
			if r.Error != "" {
				sawBad = true
			}
		}
	}
	if !sawGood {
		t.Error("expected the good fixture to build successfully")
	}
	_ = sawBad
}

func TestBatchUseCase_Run_FailFast(t *testing.T) {
	dir := t.TempDir()
	badPath := filepath.Join(dir, "bad.cfg.json")
	if err := writeBadFixture(badPath); err != nil {
		t.Fatalf("write bad fixture: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Batch.Concurrency = 1
	uc := NewBatchUseCase(cfg, &service.NoOpProgressManager{})

	_, err := uc.Run(context.Background(), &domain.BuildRequest{
		Paths:    []string{dir},
		FailFast: true,
	})
	if err == nil {
		t.Error("expected FailFast to surface the aggregated build error")
	}
}

func writeBadFixture(path string) error {
	content := `{
		"name": "bad",
		"entry": 1,
		"blocks": [
			{"id": 1, "instructions": [{"type": "not_a_real_type"}]}
		]
	}`
	return os.WriteFile(path, []byte(content), 0o644)
}

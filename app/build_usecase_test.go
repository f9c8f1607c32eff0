package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/cfgregion/internal/config"
	"github.com/ludo-technologies/cfgregion/service"
)

func writeSimpleFixture(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := `{
		"name": "simple",
		"entry": 1,
		"blocks": [
			{"id": 1, "successors": [2], "instructions": [{"type": "plain"}]},
			{"id": 2, "instructions": [{"type": "return"}]}
		]
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestBuildUseCase_Build_Success(t *testing.T) {
	dir := t.TempDir()
	path := writeSimpleFixture(t, dir, "simple.cfg.json")

	uc := NewBuildUseCase(config.DefaultConfig().Region)
	built, err := uc.Build(path)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if built.Name != "simple" {
		t.Errorf("expected fixture name %q, got %q", "simple", built.Name)
	}
	if built.CFG == nil || built.Region == nil {
		t.Fatal("expected both CFG and Region to be populated")
	}
}

func TestBuildUseCase_Build_MissingFile(t *testing.T) {
	uc := NewBuildUseCase(config.DefaultConfig().Region)
	if _, err := uc.Build(filepath.Join(t.TempDir(), "missing.cfg.json")); err == nil {
		t.Error("expected an error for a missing fixture file")
	}
}

func TestBuildFixtureTask_Execute(t *testing.T) {
	dir := t.TempDir()
	path := writeSimpleFixture(t, dir, "simple.cfg.json")

	uc := NewBuildUseCase(config.DefaultConfig().Region)
	task := NewBuildFixtureTask(uc, path)
	if task.Name() != path {
		t.Errorf("expected task name %q, got %q", path, task.Name())
	}
	if !task.IsEnabled() {
		t.Error("expected a fresh task to be enabled")
	}

	result, err := task.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	built, ok := result.(*BuiltFixture)
	if !ok {
		t.Fatalf("expected *BuiltFixture, got %T", result)
	}
	if built.Name != "simple" {
		t.Errorf("expected fixture name %q, got %q", "simple", built.Name)
	}
}

func TestSummarize(t *testing.T) {
	ok := Summarize(service.RegionStats{Name: "ok.cfg.json", RegionCount: 5, MaxDepth: 3, Inconsistent: true})
	if ok.Error != "" || ok.RegionCount != 5 || ok.MaxDepth != 3 || !ok.Inconsistent {
		t.Errorf("unexpected summary for success case: %+v", ok)
	}

	failed := Summarize(service.RegionStats{Name: "bad.cfg.json", Err: errors.New("boom")})
	if failed.Error == "" {
		t.Error("expected a non-empty error message for a failed build")
	}
	if failed.RegionCount != 0 {
		t.Errorf("expected zero region count on failure, got %d", failed.RegionCount)
	}
}

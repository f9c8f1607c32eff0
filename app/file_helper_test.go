package app

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFixture(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestFileHelper_IsValidFixtureFile(t *testing.T) {
	h := NewFileHelper()
	cases := map[string]bool{
		"loop.cfg.json": true,
		"loop.cfg.yaml": true,
		"loop.cfg.yml":  true,
		"loop.json":     false,
		"readme.md":     false,
	}
	for name, want := range cases {
		if got := h.IsValidFixtureFile(name); got != want {
			t.Errorf("IsValidFixtureFile(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestFileHelper_CollectFixtureFiles_NonRecursive(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "a.cfg.json")
	writeFixture(t, dir, "b.cfg.yaml")
	writeFixture(t, dir, "ignore.txt")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFixture(t, filepath.Join(dir, "sub"), "c.cfg.json")

	h := NewFileHelper()
	files, err := h.CollectFixtureFiles([]string{dir}, false, nil, nil)
	if err != nil {
		t.Fatalf("CollectFixtureFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 fixture files at the top level, got %d: %v", len(files), files)
	}
}

func TestFileHelper_CollectFixtureFiles_Recursive(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "a.cfg.json")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFixture(t, filepath.Join(dir, "sub"), "c.cfg.json")

	h := NewFileHelper()
	files, err := h.CollectFixtureFiles([]string{dir}, true, nil, nil)
	if err != nil {
		t.Fatalf("CollectFixtureFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 fixture files recursively, got %d: %v", len(files), files)
	}
}

func TestFileHelper_CollectFixtureFiles_ExcludePattern(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "keep.cfg.json")
	writeFixture(t, dir, "skip.cfg.json")

	h := NewFileHelper()
	files, err := h.CollectFixtureFiles([]string{dir}, false, nil, []string{"skip*"})
	if err != nil {
		t.Fatalf("CollectFixtureFiles: %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "keep.cfg.json" {
		t.Fatalf("expected only keep.cfg.json, got %v", files)
	}
}

func TestFileHelper_FileExists(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "a.cfg.json")

	h := NewFileHelper()
	exists, err := h.FileExists(path)
	if err != nil || !exists {
		t.Errorf("expected %s to exist, got exists=%v err=%v", path, exists, err)
	}

	exists, err = h.FileExists(filepath.Join(dir, "missing.cfg.json"))
	if err != nil || exists {
		t.Errorf("expected missing file to report exists=false, got exists=%v err=%v", exists, err)
	}
}

func TestResolveFilePaths_DirectFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFixture(t, dir, "a.cfg.json")
	b := writeFixture(t, dir, "b.cfg.json")

	h := NewFileHelper()
	paths, err := ResolveFilePaths(h, []string{a, b}, false, nil, nil)
	if err != nil {
		t.Fatalf("ResolveFilePaths: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected the two direct file paths to pass through unchanged, got %v", paths)
	}
}

func TestResolveFilePaths_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "a.cfg.json")
	writeFixture(t, dir, "b.cfg.json")

	h := NewFileHelper()
	paths, err := ResolveFilePaths(h, []string{dir}, false, nil, nil)
	if err != nil {
		t.Fatalf("ResolveFilePaths: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 resolved fixture paths, got %v", paths)
	}
}

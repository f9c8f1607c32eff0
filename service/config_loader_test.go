package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/cfgregion/domain"
)

func TestNewConfigurationLoader(t *testing.T) {
	loader := NewConfigurationLoader()

	if loader == nil {
		t.Fatal("NewConfigurationLoader should not return nil")
	}
}

func TestConfigurationLoader_LoadConfig_NonExistent(t *testing.T) {
	loader := NewConfigurationLoader()

	_, err := loader.LoadConfig("/nonexistent/config.json")
	if err == nil {
		t.Error("LoadConfig should return error for nonexistent file")
	}
}

func TestConfigurationLoader_LoadConfig_InvalidJSON(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "config.json")
	if err := os.WriteFile(configFile, []byte("invalid json"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	loader := NewConfigurationLoader()

	_, err := loader.LoadConfig(configFile)
	if err == nil {
		t.Error("LoadConfig should return error for invalid JSON")
	}
}

func TestConfigurationLoader_LoadConfig_Valid(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "config.json")
	content := `{
		"region": {
			"regionCountMultiplier": 50,
			"maxDepthFloor": 32
		},
		"output": {
			"format": "json",
			"show_details": true
		},
		"batch": {
			"recursive": true,
			"concurrency": 8
		}
	}`
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	loader := NewConfigurationLoader()

	req, err := loader.LoadConfig(configFile)
	if err != nil {
		t.Fatalf("LoadConfig should not return error: %v", err)
	}

	if req == nil {
		t.Fatal("Request should not be nil")
	}

	if req.OutputFormat != "json" {
		t.Errorf("OutputFormat should be 'json', got '%s'", req.OutputFormat)
	}
	if !req.ShowDetails {
		t.Error("ShowDetails should be true")
	}
	if !req.Recursive {
		t.Error("Recursive should be true")
	}
	if req.Concurrency != 8 {
		t.Errorf("Concurrency should be 8, got %d", req.Concurrency)
	}
}

func TestConfigurationLoader_LoadDefaultConfig(t *testing.T) {
	loader := NewConfigurationLoader()

	req := loader.LoadDefaultConfig()

	if req == nil {
		t.Fatal("LoadDefaultConfig should not return nil")
	}

	if req.Concurrency <= 0 {
		t.Error("Concurrency should be positive")
	}
	if len(req.IncludePatterns) == 0 {
		t.Error("IncludePatterns should not be empty")
	}
}

func TestConfigurationLoader_FindDefaultConfigFile_NotFound(t *testing.T) {
	tempDir := t.TempDir()
	origDir, _ := os.Getwd()
	defer func() { _ = os.Chdir(origDir) }()

	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}

	loader := NewConfigurationLoader()

	configFile := loader.FindDefaultConfigFile()

	if configFile != "" {
		t.Errorf("Should not find config file in empty directory, got '%s'", configFile)
	}
}

func TestConfigurationLoader_FindDefaultConfigFile_Found(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "cfgregion.config.json")
	if err := os.WriteFile(configFile, []byte("{}"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	origDir, _ := os.Getwd()
	defer func() { _ = os.Chdir(origDir) }()

	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}

	loader := NewConfigurationLoader()

	found := loader.FindDefaultConfigFile()

	if found != "cfgregion.config.json" {
		t.Errorf("Should find 'cfgregion.config.json', got '%s'", found)
	}
}

func TestConfigurationLoader_MergeConfig_Paths(t *testing.T) {
	loader := NewConfigurationLoader()

	base := &domain.BuildRequest{
		Paths: []string{"original.cfg.json"},
	}

	override := &domain.BuildRequest{
		Paths: []string{"new1.cfg.json", "new2.cfg.json"},
	}

	merged := loader.MergeConfig(base, override)

	if len(merged.Paths) != 2 {
		t.Errorf("Should have 2 paths, got %d", len(merged.Paths))
	}
	if merged.Paths[0] != "new1.cfg.json" {
		t.Error("First path should be 'new1.cfg.json'")
	}
}

func TestConfigurationLoader_MergeConfig_OutputFormat(t *testing.T) {
	loader := NewConfigurationLoader()

	base := &domain.BuildRequest{OutputFormat: "text"}
	override := &domain.BuildRequest{OutputFormat: "json"}

	merged := loader.MergeConfig(base, override)

	if merged.OutputFormat != "json" {
		t.Errorf("OutputFormat should be 'json', got '%s'", merged.OutputFormat)
	}
}

func TestConfigurationLoader_MergeConfig_ShowDetails(t *testing.T) {
	loader := NewConfigurationLoader()

	base := &domain.BuildRequest{ShowDetails: false}
	override := &domain.BuildRequest{ShowDetails: true}

	merged := loader.MergeConfig(base, override)

	if !merged.ShowDetails {
		t.Error("ShowDetails should be true")
	}
}

func TestConfigurationLoader_MergeConfig_Concurrency(t *testing.T) {
	loader := NewConfigurationLoader()

	base := &domain.BuildRequest{Concurrency: 4}
	override := &domain.BuildRequest{Concurrency: 16}

	merged := loader.MergeConfig(base, override)

	if merged.Concurrency != 16 {
		t.Errorf("Concurrency should be 16, got %d", merged.Concurrency)
	}
}

func TestConfigurationLoader_MergeConfig_ConfigPath(t *testing.T) {
	loader := NewConfigurationLoader()

	base := &domain.BuildRequest{ConfigPath: ""}
	override := &domain.BuildRequest{ConfigPath: "/path/to/config.json"}

	merged := loader.MergeConfig(base, override)

	if merged.ConfigPath != "/path/to/config.json" {
		t.Errorf("ConfigPath should be '/path/to/config.json', got '%s'", merged.ConfigPath)
	}
}

func TestConfigurationLoader_MergeConfig_PreserveBase(t *testing.T) {
	loader := NewConfigurationLoader()

	base := &domain.BuildRequest{
		Concurrency:  4,
		OutputFormat: "text",
	}

	override := &domain.BuildRequest{}

	merged := loader.MergeConfig(base, override)

	if merged.Concurrency != 4 {
		t.Error("Should preserve base Concurrency")
	}
	if merged.OutputFormat != "text" {
		t.Error("Should preserve base OutputFormat")
	}
}

func TestConfigurationLoader_ValidateConfig_Valid(t *testing.T) {
	loader := NewConfigurationLoader()

	req := &domain.BuildRequest{
		Concurrency:  4,
		OutputFormat: domain.OutputFormatJSON,
	}

	if err := loader.ValidateConfig(req); err != nil {
		t.Errorf("Valid config should not return error: %v", err)
	}
}

func TestConfigurationLoader_ValidateConfig_NegativeConcurrency(t *testing.T) {
	loader := NewConfigurationLoader()

	req := &domain.BuildRequest{Concurrency: -1}

	if err := loader.ValidateConfig(req); err == nil {
		t.Error("Should return error for negative concurrency")
	}
}

func TestConfigurationLoader_ValidateConfig_InvalidOutputFormat(t *testing.T) {
	loader := NewConfigurationLoader()

	req := &domain.BuildRequest{OutputFormat: "xml"}

	if err := loader.ValidateConfig(req); err == nil {
		t.Error("Should return error for invalid output format")
	}
}

func TestConfigurationLoader_ValidateConfig_ValidFormats(t *testing.T) {
	loader := NewConfigurationLoader()

	validFormats := []domain.OutputFormat{
		domain.OutputFormatText,
		domain.OutputFormatJSON,
		domain.OutputFormatDOT,
	}

	for _, format := range validFormats {
		req := &domain.BuildRequest{OutputFormat: format}

		if err := loader.ValidateConfig(req); err != nil {
			t.Errorf("Format '%s' should be valid, got error: %v", format, err)
		}
	}
}

func TestConfigurationLoader_convertToBuildRequest(t *testing.T) {
	loader := NewConfigurationLoader()

	req := loader.LoadDefaultConfig()

	if len(req.Paths) != 0 {
		t.Errorf("Paths should be empty, got %d", len(req.Paths))
	}

	if req.Concurrency <= 0 {
		t.Error("Concurrency should be positive")
	}
}

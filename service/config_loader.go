package service

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/cfgregion/domain"
	"github.com/ludo-technologies/cfgregion/internal/config"
)

// ConfigurationLoaderImpl implements a configuration loader service
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads configuration from the specified path
func (c *ConfigurationLoaderImpl) LoadConfig(path string) (*domain.BuildRequest, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}

	return c.convertToBuildRequest(cfg), nil
}

// LoadDefaultConfig loads the default configuration, first checking for cfgregion.yaml/.cfgregion.toml
func (c *ConfigurationLoaderImpl) LoadDefaultConfig() *domain.BuildRequest {
	cfg, err := config.LoadConfigWithTarget("", "")
	if err == nil {
		return c.convertToBuildRequest(cfg)
	}

	cfg = config.DefaultConfig()
	return c.convertToBuildRequest(cfg)
}

// FindDefaultConfigFile searches for a default configuration file
func (c *ConfigurationLoaderImpl) FindDefaultConfigFile() string {
	configFiles := []string{
		"cfgregion.config.json",
		".cfgregionrc.json",
		".cfgregionrc",
		"cfgregion.yaml",
		"cfgregion.yml",
		".cfgregion.toml",
		".cfgregion.yml",
		"cfgregion.json",
		".cfgregion.json",
	}

	for _, file := range configFiles {
		if _, err := os.Stat(file); err == nil {
			return file
		}
	}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, file := range configFiles {
			configPath := filepath.Join(currentDir, file)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

// MergeConfig merges CLI flags with configuration file, preferring override
// values whenever they differ from the field's zero/default value.
func (c *ConfigurationLoaderImpl) MergeConfig(base *domain.BuildRequest, override *domain.BuildRequest) *domain.BuildRequest {
	merged := *base

	if len(override.Paths) > 0 {
		merged.Paths = override.Paths
	}

	if override.OutputFormat != "" {
		merged.OutputFormat = override.OutputFormat
	}

	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}

	if override.ShowDetails {
		merged.ShowDetails = override.ShowDetails
	}

	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}

	if override.Concurrency != 0 {
		merged.Concurrency = override.Concurrency
	}

	if override.FailFast {
		merged.FailFast = override.FailFast
	}

	if len(override.IncludePatterns) > 0 {
		merged.IncludePatterns = override.IncludePatterns
	}

	if len(override.ExcludePatterns) > 0 {
		merged.ExcludePatterns = override.ExcludePatterns
	}

	return &merged
}

// convertToBuildRequest converts an internal/config.Config to a domain.BuildRequest
func (c *ConfigurationLoaderImpl) convertToBuildRequest(cfg *config.Config) *domain.BuildRequest {
	return &domain.BuildRequest{
		Paths: []string{},

		OutputFormat: domain.OutputFormat(cfg.Output.Format),
		ShowDetails:  cfg.Output.ShowDetails,

		Recursive:       cfg.Batch.Recursive,
		IncludePatterns: cfg.Batch.IncludePatterns,
		ExcludePatterns: cfg.Batch.ExcludePatterns,
		Concurrency:     cfg.Batch.Concurrency,
		FailFast:        cfg.Batch.FailFast,
		ShowProgress:    cfg.Batch.ShowProgress,
	}
}

// ValidateConfig validates the build request
func (c *ConfigurationLoaderImpl) ValidateConfig(req *domain.BuildRequest) error {
	if req.Concurrency < 0 {
		return fmt.Errorf("concurrency cannot be negative, got %d", req.Concurrency)
	}

	validFormats := map[domain.OutputFormat]bool{
		domain.OutputFormatText: true,
		domain.OutputFormatJSON: true,
		domain.OutputFormatDOT:  true,
	}

	if req.OutputFormat != "" && !validFormats[req.OutputFormat] {
		return fmt.Errorf("invalid output format: %s (must be one of: text, json, dot)", req.OutputFormat)
	}

	return nil
}

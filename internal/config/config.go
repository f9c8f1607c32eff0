package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Defaults for region reconstruction tunables.
const (
	// DefaultRegionCountMultiplier bounds the region-building safety limit
	// at blocksCount * DefaultRegionCountMultiplier before a build aborts
	// with an OverflowError.
	DefaultRegionCountMultiplier = 100

	// DefaultMaxDepthFloor is the minimum recursion-depth guard applied
	// regardless of block count, so tiny CFGs still get a sane floor.
	DefaultMaxDepthFloor = 64
)

// Config represents the main configuration structure
type Config struct {
	// Region holds region-builder tunables
	Region RegionConfig `json:"region" mapstructure:"region" yaml:"region"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Batch holds multi-file batch build configuration
	Batch BatchConfig `json:"batch" mapstructure:"batch" yaml:"batch"`

	// Check holds check-command thresholds
	Check CheckConfig `json:"check" mapstructure:"check" yaml:"check"`
}

// RegionConfig holds configuration for the region builder
type RegionConfig struct {
	// RegionCountMultiplier bounds regionsCount at blocksCount * multiplier
	// before Build aborts with an OverflowError (spec.md §3 invariant 6).
	RegionCountMultiplier int `json:"regionCountMultiplier" mapstructure:"region_count_multiplier" yaml:"region_count_multiplier"`

	// MaxDepthFloor is the minimum recursion-depth guard, independent of
	// the region-count limit (SPEC_FULL.md supplement 1).
	MaxDepthFloor int `json:"maxDepthFloor" mapstructure:"max_depth_floor" yaml:"max_depth_floor"`

	// FastBreakInsertion is loaded and stored but not read by the region
	// builder, which always uses the cached PathCrossCache for loop
	// out-block narrowing (spec.md §9 open question).
	FastBreakInsertion bool `json:"fastBreakInsertion" mapstructure:"fast_break_insertion" yaml:"fast_break_insertion"`

	// FlagInconsistentOnAmbiguity is loaded and stored but not read by the
	// region builder: a switch whose fallthrough order can't be made
	// consistent always sets FlagInconsistentCode and never fails the build.
	FlagInconsistentOnAmbiguity bool `json:"flagInconsistentOnAmbiguity" mapstructure:"flag_inconsistent_on_ambiguity" yaml:"flag_inconsistent_on_ambiguity"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, dot
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// ShowDetails controls whether to print the full region tree or a summary
	ShowDetails bool `json:"show_details" mapstructure:"show_details" yaml:"show_details"`

	// Directory specifies the output directory for reports (empty = current directory)
	Directory string `json:"directory" mapstructure:"directory" yaml:"directory"`
}

// BatchConfig holds configuration for multi-file batch builds
type BatchConfig struct {
	// Concurrency bounds how many CFG fixtures are built in parallel
	// (service.ParallelExecutor's errgroup pool).
	Concurrency int `json:"concurrency" mapstructure:"concurrency" yaml:"concurrency"`

	// FailFast makes a batch run return the aggregated build error instead
	// of a report when any fixture fails; every fixture is still built.
	FailFast bool `json:"fail_fast" mapstructure:"fail_fast" yaml:"fail_fast"`

	// IncludePatterns lists fixture file glob patterns. Fixture collection
	// does not apply them: files are selected by their .cfg.json,
	// .cfg.yaml or .cfg.yml suffix.
	IncludePatterns []string `json:"include_patterns" mapstructure:"include_patterns" yaml:"include_patterns"`

	// ExcludePatterns specifies fixture file glob patterns to exclude
	ExcludePatterns []string `json:"exclude_patterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns"`

	// Recursive controls whether to walk fixture directories recursively
	Recursive bool `json:"recursive" mapstructure:"recursive" yaml:"recursive"`

	// FollowSymlinks is loaded and stored but not read; directory walks use
	// filepath.Walk, which does not follow symbolic links.
	FollowSymlinks bool `json:"follow_symlinks" mapstructure:"follow_symlinks" yaml:"follow_symlinks"`

	// ShowProgress enables the schollz/progressbar batch indicator
	ShowProgress bool `json:"show_progress" mapstructure:"show_progress" yaml:"show_progress"`
}

// CheckConfig holds thresholds for the check command's pass/fail verdict
type CheckConfig struct {
	// FailOnWarning promotes recognition warnings (inconsistent switch,
	// handler coverage gaps) to check failures instead of advisory notes.
	FailOnWarning bool `json:"fail_on_warning" mapstructure:"fail_on_warning" yaml:"fail_on_warning"`

	// MaxRegionsPerMethod fails the check if a single build produces more
	// regions than this (0 = no limit beyond RegionCountMultiplier).
	MaxRegionsPerMethod int `json:"max_regions_per_method" mapstructure:"max_regions_per_method" yaml:"max_regions_per_method"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Region: RegionConfig{
			RegionCountMultiplier:       DefaultRegionCountMultiplier,
			MaxDepthFloor:               DefaultMaxDepthFloor,
			FastBreakInsertion:          true,
			FlagInconsistentOnAmbiguity: true,
		},
		Output: OutputConfig{
			Format:      "text",
			ShowDetails: false,
		},
		Batch: BatchConfig{
			Concurrency: 4,
			FailFast:    false,
			IncludePatterns: []string{
				"**/*.cfg.json", "**/*.cfg.yaml", "**/*.cfg.yml",
			},
			ExcludePatterns: []string{
				"node_modules", "vendor", ".git", "dist", "build",
			},
			Recursive:    true,
			ShowProgress: true,
		},
		Check: CheckConfig{
			FailOnWarning:       false,
			MaxRegionsPerMethod: 0,
		},
	}
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// discoverConfigFile finds the appropriate config file path
func discoverConfigFile(targetPath string) string {
	return findDefaultConfig(targetPath)
}

// loadConfigFromFile reads and parses a configuration file
func loadConfigFromFile(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	// Create a new viper instance to avoid race conditions
	v := viper.New()
	config := DefaultConfig()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadConfigWithTarget loads configuration with target path context
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = discoverConfigFile(targetPath)
	}
	return loadConfigFromFile(configPath)
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// findDefaultConfig looks for default configuration files in common locations
// targetPath is the path being analyzed (e.g., a directory of CFG fixtures)
func findDefaultConfig(targetPath string) string {
	candidates := []string{
		"cfgregion.yaml",
		"cfgregion.yml",
		".cfgregion.toml",
		".cfgregion.yml",
		"cfgregion.json",
		".cfgregion.json",
	}

	if targetPath != "" {
		absPath, err := filepath.Abs(targetPath)
		if err == nil {
			info, err := os.Stat(absPath)
			if err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, candidates); config != "" {
					return config
				}

				parent := filepath.Dir(dir)
				if parent == dir ||
					dir == volume ||
					(volume != "" && dir == volume+string(filepath.Separator)) {
					break
				}
			}
		}
	}

	if config := searchConfigInDirectory(".", candidates); config != "" {
		return config
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, "cfgregion"), candidates); config != "" {
			return config
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		configDir := filepath.Join(home, ".config", "cfgregion")
		if config := searchConfigInDirectory(configDir, candidates); config != "" {
			return config
		}
		if config := searchConfigInDirectory(home, candidates); config != "" {
			return config
		}
	}

	if envConfig := os.Getenv("CFGREGION_CONFIG"); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if c.Region.RegionCountMultiplier < 1 {
		return fmt.Errorf("region.region_count_multiplier must be >= 1, got %d", c.Region.RegionCountMultiplier)
	}

	if c.Region.MaxDepthFloor < 1 {
		return fmt.Errorf("region.max_depth_floor must be >= 1, got %d", c.Region.MaxDepthFloor)
	}

	validFormats := map[string]bool{"text": true, "json": true, "dot": true}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, dot", c.Output.Format)
	}

	if c.Batch.Concurrency < 1 {
		return fmt.Errorf("batch.concurrency must be >= 1, got %d", c.Batch.Concurrency)
	}

	if len(c.Batch.IncludePatterns) == 0 {
		return fmt.Errorf("batch.include_patterns cannot be empty")
	}

	if c.Check.MaxRegionsPerMethod < 0 {
		return fmt.Errorf("check.max_regions_per_method must be >= 0, got %d", c.Check.MaxRegionsPerMethod)
	}

	return nil
}

// MaxDepthFor derives the recursion-depth guard for a CFG with the given
// block count: the configured floor, or the block count itself if larger
// (SPEC_FULL.md supplement 1).
func (c *RegionConfig) MaxDepthFor(blockCount int) int {
	if blockCount > c.MaxDepthFloor {
		return blockCount
	}
	return c.MaxDepthFloor
}

// RegionLimitFor derives the region-count safety limit for a CFG with the
// given block count (spec.md §3 invariant 6).
func (c *RegionConfig) RegionLimitFor(blockCount int) int {
	return blockCount * c.RegionCountMultiplier
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("region", config.Region)
	v.Set("output", config.Output)
	v.Set("batch", config.Batch)
	v.Set("check", config.Check)

	return v.WriteConfig()
}

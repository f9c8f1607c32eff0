package config

import "strconv"

// Strictness represents the check command's strictness level
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// StrictnessPreset holds region/check threshold values for a strictness level
type StrictnessPreset struct {
	RegionCountMultiplier int
	MaxRegionsPerMethod   int
	FailOnWarning         bool
}

// GetStrictnessPresets returns presets for different strictness levels
func GetStrictnessPresets() map[Strictness]StrictnessPreset {
	return map[Strictness]StrictnessPreset{
		StrictnessRelaxed: {
			RegionCountMultiplier: 200,
			MaxRegionsPerMethod:   0,
			FailOnWarning:         false,
		},
		StrictnessStandard: {
			RegionCountMultiplier: DefaultRegionCountMultiplier,
			MaxRegionsPerMethod:   0,
			FailOnWarning:         false,
		},
		StrictnessStrict: {
			RegionCountMultiplier: 50,
			MaxRegionsPerMethod:   500,
			FailOnWarning:         true,
		},
	}
}

// GetFullConfigTemplate returns the documented config template as JSONC
func GetFullConfigTemplate(strictness Strictness) string {
	presets := GetStrictnessPresets()
	strict := presets[strictness]

	includePatterns := formatJSONArray(DefaultConfig().Batch.IncludePatterns)
	excludePatterns := formatJSONArray(DefaultConfig().Batch.ExcludePatterns)

	return `{
  // cfgregion configuration
  // Documentation: https://github.com/ludo-technologies/cfgregion

  // ============================================================================
  // REGION BUILDER
  // ============================================================================
  // Tunables for the control-flow region reconstruction pass
  "region": {
    // Safety limit: abort a build once regionsCount exceeds
    // blockCount * regionCountMultiplier
    "regionCountMultiplier": ` + strconv.Itoa(strict.RegionCountMultiplier) + `,

    // Minimum recursion-depth guard, independent of the region-count limit
    "maxDepthFloor": ` + strconv.Itoa(DefaultMaxDepthFloor) + `,

    // Stored but not read by the builder, which always uses the cached
    // PathCrossCache for loop-break out-block narrowing
    "fastBreakInsertion": true,

    // Stored but not read by the builder, which always sets
    // FlagInconsistentCode when switch fallthrough ordering can't be made
    // consistent and never fails the build for it
    "flagInconsistentOnAmbiguity": true
  },

  // ============================================================================
  // OUTPUT SETTINGS
  // ============================================================================
  "output": {
    // Output format: "text", "json", "dot"
    "format": "text",

    // Print the full region tree instead of a summary
    "show_details": true,

    // Output directory for reports (empty = current directory)
    "directory": ""
  },

  // ============================================================================
  // BATCH BUILD
  // ============================================================================
  // Controls multi-fixture build/check runs
  "batch": {
    // Number of CFG fixtures built concurrently
    "concurrency": 4,

    // Return the build error instead of a report when any fixture fails
    // (every fixture is still built)
    "fail_fast": false,

    // Fixture file patterns to include (glob patterns; stored, but fixture
    // collection selects files by their .cfg.json/.cfg.yaml/.cfg.yml suffix)
    "include_patterns": ` + includePatterns + `,

    // Fixture file patterns to exclude (glob patterns)
    "exclude_patterns": ` + excludePatterns + `,

    // Walk fixture directories recursively
    "recursive": true,

    // Show a progress bar across the batch
    "show_progress": true
  },

  // ============================================================================
  // CHECK THRESHOLDS
  // ============================================================================
  "check": {
    // Promote recognition warnings to check failures
    "fail_on_warning": ` + boolLit(strict.FailOnWarning) + `,

    // Fail the check if a single build exceeds this many regions (0 = no limit)
    "max_regions_per_method": ` + strconv.Itoa(strict.MaxRegionsPerMethod) + `
  }
}
`
}

// GetMinimalConfigTemplate returns a minimal config template
func GetMinimalConfigTemplate() string {
	return `{
  // cfgregion configuration (minimal)
  // See full options: https://github.com/ludo-technologies/cfgregion

  "region": {
    "regionCountMultiplier": ` + strconv.Itoa(DefaultRegionCountMultiplier) + `
  },

  "batch": {
    "include_patterns": ["**/*.cfg.json", "**/*.cfg.yaml"],
    "exclude_patterns": ["vendor", ".git"]
  }
}
`
}

// formatJSONArray formats a string slice as a JSON array with proper indentation
func formatJSONArray(items []string) string {
	if len(items) == 0 {
		return "[]"
	}

	result := "[\n"
	for i, item := range items {
		result += `      "` + item + `"`
		if i < len(items)-1 {
			result += ","
		}
		result += "\n"
	}
	result += "    ]"
	return result
}

func boolLit(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "cfgregion"

	// ConfigFileName is the default config file name
	ConfigFileName = ".cfgregion.toml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "CFGREGION"
)

// Fixture format constants
const (
	FixtureFormatJSON = "json"
	FixtureFormatYAML = "yaml"
)

// Output format constants
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
	OutputFormatDOT  = "dot"
)

// Region builder tunable defaults (spec.md §3 invariant 6, SPEC_FULL.md
// supplement 1).
const (
	DefaultRegionCountMultiplier = 100
	DefaultMaxDepth              = 256
)

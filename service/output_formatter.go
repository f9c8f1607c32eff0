package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ludo-technologies/cfgregion/domain"
	"github.com/ludo-technologies/cfgregion/internal/version"
)

// OutputFormatterImpl implements the domain.OutputFormatter interface
type OutputFormatterImpl struct{}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{}
}

// WriteJSON writes data as JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// BuildReportJSON wraps domain.BuildReport with JSON metadata
type BuildReportJSON struct {
	Version     string                `json:"version"`
	GeneratedAt string                `json:"generated_at"`
	DurationMs  int64                 `json:"duration_ms"`
	TotalFiles  int                   `json:"total_files"`
	FailedFiles int                   `json:"failed_files"`
	Results     []domain.RegionSummary `json:"results"`
}

// Format renders the report in the requested format and returns it as a string.
func (f *OutputFormatterImpl) Format(report *domain.BuildReport, format domain.OutputFormat) (string, error) {
	var sb strings.Builder
	if err := f.Write(report, format, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Write renders the report and writes it directly to w.
func (f *OutputFormatterImpl) Write(report *domain.BuildReport, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return f.writeJSON(report, writer)
	case domain.OutputFormatText, "":
		return f.writeText(report, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// writeJSON writes the build report as JSON
func (f *OutputFormatterImpl) writeJSON(report *domain.BuildReport, writer io.Writer) error {
	jsonReport := BuildReportJSON{
		Version:     version.GetVersion(),
		GeneratedAt: report.GeneratedAt,
		DurationMs:  report.DurationMS,
		TotalFiles:  report.TotalFiles,
		FailedFiles: report.FailedFiles,
		Results:     report.Results,
	}
	return WriteJSON(writer, jsonReport)
}

// writeText writes the build report as plain text
func (f *OutputFormatterImpl) writeText(report *domain.BuildReport, writer io.Writer) error {
	fmt.Fprintf(writer, "\n=== CFG Region Build Report ===\n\n")
	fmt.Fprintf(writer, "Generated: %s\n", report.GeneratedAt)
	fmt.Fprintf(writer, "Version: %s\n", version.GetVersion())
	fmt.Fprintf(writer, "Duration: %dms\n\n", report.DurationMS)

	fmt.Fprintf(writer, "Summary:\n")
	fmt.Fprintf(writer, "  Total fixtures: %d\n", report.TotalFiles)
	fmt.Fprintf(writer, "  Failed: %d\n", report.FailedFiles)
	fmt.Fprintf(writer, "\n")

	if len(report.Results) > 0 {
		fmt.Fprintf(writer, "Results:\n")
		for _, r := range report.Results {
			if r.Error != "" {
				fmt.Fprintf(writer, "  %s: FAILED - %s\n", r.Name, r.Error)
				continue
			}
			inconsistentTag := ""
			if r.Inconsistent {
				inconsistentTag = " [INCONSISTENT]"
			}
			fmt.Fprintf(writer, "  %s: %d regions, max depth %d%s\n",
				r.Name, r.RegionCount, r.MaxDepth, inconsistentTag)
		}
	}

	if report.TotalFiles == 0 {
		fmt.Fprintf(writer, "No fixtures processed.\n")
	}

	return nil
}

package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ArtifactWriter writes run reports into one directory.
type ArtifactWriter struct {
	outputDir string
}

// NewArtifactWriter creates a new artifact writer
func NewArtifactWriter(outputDir string) *ArtifactWriter {
	return &ArtifactWriter{
		outputDir: outputDir,
	}
}

// WriteAll writes run.json and summary.md.
func (w *ArtifactWriter) WriteAll(summary *RunSummary) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := w.WriteRunJSON(summary); err != nil {
		return fmt.Errorf("failed to write run JSON: %w", err)
	}

	if err := w.WriteSummaryMarkdown(summary); err != nil {
		return fmt.Errorf("failed to write summary markdown: %w", err)
	}

	return nil
}

// WriteRunJSON writes the full run summary as JSON
func (w *ArtifactWriter) WriteRunJSON(summary *RunSummary) error {
	path := filepath.Join(w.outputDir, "run.json")

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}

	if writeErr := os.WriteFile(path, data, 0600); writeErr != nil {
		return fmt.Errorf("failed to write run JSON: %w", writeErr)
	}

	return nil
}

// WriteSummaryMarkdown writes a human-readable markdown summary
func (w *ArtifactWriter) WriteSummaryMarkdown(summary *RunSummary) error {
	path := filepath.Join(w.outputDir, "summary.md")

	var md strings.Builder

	md.WriteString("# Acceptance Run Summary\n\n")
	md.WriteString(fmt.Sprintf("**Run:** %s\n\n", summary.RunID))
	md.WriteString(fmt.Sprintf("**Environment:** %s (%s)\n\n", summary.Environment, summary.BaseURL))
	md.WriteString(fmt.Sprintf("**Browser:** %s\n\n", summary.Browser))
	md.WriteString(fmt.Sprintf("**Status:** %s\n\n", summary.Status))
	md.WriteString(fmt.Sprintf("**Started:** %s\n\n", summary.StartTime.Format(time.RFC3339)))
	md.WriteString(fmt.Sprintf("**Completed:** %s\n\n", summary.EndTime.Format(time.RFC3339)))
	md.WriteString(fmt.Sprintf("**Duration:** %s\n\n", summary.Duration))

	md.WriteString("## Result\n\n")
	switch {
	case summary.Error != "":
		md.WriteString(fmt.Sprintf("❌ **Error:** %s\n\n", summary.Error))
	case summary.Metrics.Failed > 0:
		md.WriteString(fmt.Sprintf("❌ **%d of %d scenarios failed**\n\n", summary.Metrics.Failed, summary.Metrics.Total))
	default:
		md.WriteString("✅ **Success**\n\n")
	}

	if len(summary.Scenarios) > 0 {
		md.WriteString("## Scenarios\n\n")
		for _, sc := range summary.Scenarios {
			md.WriteString(fmt.Sprintf("%s **%s** (%s)\n", statusIcon(sc.Status), sc.Name, sc.Duration.Round(time.Millisecond)))
			if sc.FailedStep != "" {
				md.WriteString(fmt.Sprintf("   Step: %s\n", sc.FailedStep))
			}
			if sc.Error != "" {
				md.WriteString(fmt.Sprintf("   Error: %s\n", sc.Error))
			}
			if sc.Screenshot != "" {
				md.WriteString(fmt.Sprintf("   Screenshot: `%s`\n", sc.Screenshot))
			}
			if sc.DOM != "" {
				md.WriteString(fmt.Sprintf("   DOM: `%s`\n", sc.DOM))
			}
		}
		md.WriteString("\n")
	}

	md.WriteString("## Metrics\n\n")
	md.WriteString(fmt.Sprintf("- **Scenarios:** %d\n", summary.Metrics.Total))
	md.WriteString(fmt.Sprintf("- **Passed:** %d\n", summary.Metrics.Passed))
	md.WriteString(fmt.Sprintf("- **Failed:** %d\n", summary.Metrics.Failed))
	md.WriteString(fmt.Sprintf("- **Skipped:** %d\n", summary.Metrics.Skipped))
	if summary.Metrics.Undefined > 0 || summary.Metrics.Pending > 0 {
		md.WriteString(fmt.Sprintf("- **Undefined:** %d\n", summary.Metrics.Undefined))
		md.WriteString(fmt.Sprintf("- **Pending:** %d\n", summary.Metrics.Pending))
	}

	if writeErr := os.WriteFile(path, []byte(md.String()), 0600); writeErr != nil {
		return fmt.Errorf("failed to write summary markdown: %w", writeErr)
	}

	return nil
}

func statusIcon(s Status) string {
	switch s {
	case StatusPassed:
		return "✅"
	case StatusFailed:
		return "❌"
	case StatusUndefined, StatusPending:
		return "⚠️"
	default:
		return "⏭️"
	}
}

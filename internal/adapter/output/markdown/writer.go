package markdown

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/bkyoung/review-aggregator/internal/domain"
)

// Writer renders aggregated reports into Markdown files.
type Writer struct{}

// NewWriter constructs a Markdown writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write persists a Markdown artifact to disk.
func (w *Writer) Write(ctx context.Context, artifact domain.ReportArtifact) (string, error) {
	if err := os.MkdirAll(artifact.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(artifact.OutputDir, artifact.Basename+".md")

	content := buildContent(artifact.Report)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write markdown: %w", err)
	}

	return path, nil
}

func buildContent(report domain.Report) string {
	var builder strings.Builder
	caser := cases.Title(language.English)
	builder.WriteString("# Review Report\n\n")
	builder.WriteString(fmt.Sprintf("- Issues found: %d\n", report.Total))
	builder.WriteString(fmt.Sprintf("- Issues shown: %d\n", report.Emitted))
	builder.WriteString(fmt.Sprintf("- Comment cap: %d\n\n", report.MaxComments))

	if len(report.Issues) == 0 {
		builder.WriteString("No issues reported.\n")
		return builder.String()
	}

	for _, severity := range []domain.Severity{
		domain.SeverityBlocker,
		domain.SeverityMajor,
		domain.SeverityMinor,
		domain.SeverityNit,
	} {
		issues := bySeverity(report.Issues, severity)
		if len(issues) == 0 {
			continue
		}
		builder.WriteString(fmt.Sprintf("## %s\n\n", caser.String(string(severity))))
		for _, issue := range issues {
			builder.WriteString(fmt.Sprintf("- **%s** (%s): %s\n", issue.Location(), strings.Join(issue.Tools, "+"), issue.Message))
			if issue.Suggestion != "" {
				builder.WriteString(fmt.Sprintf("  - Suggestion: %s\n", issue.Suggestion))
			}
		}
		builder.WriteString("\n")
	}

	if len(report.Disagreements) > 0 {
		builder.WriteString("## Disagreements\n\n")
		for _, d := range report.Disagreements {
			sevs := make([]string, 0, len(d.Severities))
			for _, s := range d.Severities {
				sevs = append(sevs, string(s))
			}
			builder.WriteString(fmt.Sprintf("- %s: %s (%s)\n", d.Location, strings.Join(sevs, "/"), strings.Join(d.Tools, "+")))
		}
	}

	return builder.String()
}

func bySeverity(issues []domain.Issue, severity domain.Severity) []domain.Issue {
	var out []domain.Issue
	for _, issue := range issues {
		if issue.Severity == severity {
			out = append(out, issue)
		}
	}
	return out
}

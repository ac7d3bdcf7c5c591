package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bkyoung/review-aggregator/internal/domain"
)

// RenderText produces the human-readable summary. Downstream
// collaborators post this verbatim as a review comment, so the layout
// is stable: a header with total, per-severity, and per-tool counts, a
// bullet per capped issue, a truncation note when the cap hides
// issues, and a trailing Disagreements section when any exist.
func RenderText(sorted []domain.Issue, report domain.Report) string {
	var b strings.Builder

	severityCounts := make(map[domain.Severity]int)
	for _, issue := range sorted {
		severityCounts[issue.Severity]++
	}

	b.WriteString(fmt.Sprintf("Found %d issue(s) (blocker:%d major:%d minor:%d nit:%d)",
		report.Total,
		severityCounts[domain.SeverityBlocker],
		severityCounts[domain.SeverityMajor],
		severityCounts[domain.SeverityMinor],
		severityCounts[domain.SeverityNit],
	))
	if len(report.ToolCounts) > 0 {
		b.WriteString(" | tools: ")
		b.WriteString(strings.Join(formatToolCounts(report.ToolCounts), " "))
	}
	b.WriteString("\n\n")

	for _, issue := range report.Issues {
		b.WriteString(fmt.Sprintf("- [%s] (%s) %s: %s",
			issue.Severity,
			strings.Join(issue.Tools, "+"),
			renderLocation(issue),
			issue.Message,
		))
		if issue.Suggestion != "" {
			b.WriteString(fmt.Sprintf(" (suggestion: %s)", issue.Suggestion))
		}
		b.WriteString("\n")
	}

	if report.Total > report.Emitted {
		b.WriteString(fmt.Sprintf("\nShowing %d of %d issues.\n", report.Emitted, report.Total))
	}

	if len(report.Disagreements) > 0 {
		b.WriteString("\nDisagreements:\n")
		for _, d := range report.Disagreements {
			severities := make([]string, len(d.Severities))
			for i, s := range d.Severities {
				severities[i] = string(s)
			}
			b.WriteString(fmt.Sprintf("- %s: %s (%s)\n",
				d.Location,
				strings.Join(severities, "/"),
				strings.Join(d.Tools, "+"),
			))
		}
	}

	return b.String()
}

func renderLocation(issue domain.Issue) string {
	if issue.File == "" {
		return "unknown"
	}
	if issue.Line > 0 {
		return fmt.Sprintf("%s:%d", issue.File, issue.Line)
	}
	return issue.File
}

// formatToolCounts renders tool counters sorted by descending count,
// with ties broken alphabetically for deterministic output.
func formatToolCounts(counts map[string]int) []string {
	tools := make([]string, 0, len(counts))
	for tool := range counts {
		tools = append(tools, tool)
	}
	sort.Slice(tools, func(i, j int) bool {
		if counts[tools[i]] != counts[tools[j]] {
			return counts[tools[i]] > counts[tools[j]]
		}
		return tools[i] < tools[j]
	})

	out := make([]string, len(tools))
	for i, tool := range tools {
		out[i] = fmt.Sprintf("%s:%d", tool, counts[tool])
	}
	return out
}

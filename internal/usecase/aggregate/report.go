package aggregate

import "github.com/bkyoung/review-aggregator/internal/domain"

// BuildReport assembles the terminal Report artifact. Tool counts are
// taken over the full sorted sequence, not the capped prefix, so they
// reflect total findings even when the display is truncated.
func BuildReport(sorted, capped []domain.Issue, disagreements []domain.Disagreement, maxComments int) domain.Report {
	toolCounts := make(map[string]int)
	for _, issue := range sorted {
		for _, tool := range issue.Tools {
			toolCounts[tool]++
		}
	}

	issues := capped
	if issues == nil {
		issues = []domain.Issue{}
	}
	if disagreements == nil {
		disagreements = []domain.Disagreement{}
	}

	return domain.Report{
		Total:         len(sorted),
		Emitted:       len(capped),
		MaxComments:   maxComments,
		Issues:        issues,
		Disagreements: disagreements,
		ToolCounts:    toolCounts,
	}
}

package aggregate

import (
	"sort"

	"github.com/bkyoung/review-aggregator/internal/domain"
)

// Rank sorts merged issues most severe first and returns both the full
// sorted sequence and the capped display prefix. The sort is stable so
// equal severities keep merger order; maxComments of 0 yields an empty
// prefix while the sorted sequence still reflects every issue.
func Rank(issues []domain.Issue, maxComments int) (sorted, capped []domain.Issue) {
	sorted = make([]domain.Issue, len(issues))
	copy(sorted, issues)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Severity.Rank() < sorted[j].Severity.Rank()
	})

	capped = sorted
	if maxComments < len(sorted) {
		capped = sorted[:maxComments]
	}
	return sorted, capped
}

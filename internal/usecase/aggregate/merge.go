package aggregate

import "github.com/bkyoung/review-aggregator/internal/domain"

// LocationSummary accumulates the raw severities and tools seen at a
// single file:line location before merging collapses them. The
// disagreement detector consumes it; it is not part of the Issue
// contract.
type LocationSummary struct {
	Location   string
	Severities []domain.Severity // distinct, in first-seen order
	Tools      []string          // union, in first-seen order
}

// Merge folds normalized issues into one record per merge key.
// Severity only ever upgrades toward more severe, tools accumulate as
// a union, and a missing suggestion is backfilled from later
// duplicates, so the final state for a key does not depend on input
// order. The returned summaries record every raw severity per
// location, in first-seen location order.
func Merge(issues []domain.Issue) ([]domain.Issue, []LocationSummary) {
	byKey := make(map[string]int)
	merged := make([]domain.Issue, 0, len(issues))

	byLocation := make(map[string]int)
	var locations []LocationSummary

	for _, issue := range issues {
		key := issue.MergeKey()
		if idx, ok := byKey[key]; ok {
			existing := &merged[idx]
			if issue.Severity.Rank() < existing.Severity.Rank() {
				existing.Severity = issue.Severity
			}
			existing.Tools = unionTools(existing.Tools, issue.Tool, issue.Tools)
			if existing.Suggestion == "" {
				existing.Suggestion = issue.Suggestion
			}
		} else {
			byKey[key] = len(merged)
			next := issue
			next.Tools = unionTools(nil, issue.Tool, issue.Tools)
			merged = append(merged, next)
		}

		loc := issue.Location()
		idx, ok := byLocation[loc]
		if !ok {
			idx = len(locations)
			byLocation[loc] = idx
			locations = append(locations, LocationSummary{Location: loc})
		}
		summary := &locations[idx]
		summary.Severities = appendUniqueSeverity(summary.Severities, issue.Severity)
		summary.Tools = unionTools(summary.Tools, issue.Tool, issue.Tools)
	}

	return merged, locations
}

func unionTools(existing []string, tool string, tools []string) []string {
	out := existing
	if tool != "" {
		out = appendUnique(out, tool)
	}
	for _, t := range tools {
		if t != "" {
			out = appendUnique(out, t)
		}
	}
	return out
}

func appendUniqueSeverity(list []domain.Severity, value domain.Severity) []domain.Severity {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}

package aggregate_test

import (
	"testing"

	"github.com/bkyoung/review-aggregator/internal/domain"
	"github.com/bkyoung/review-aggregator/internal/usecase/aggregate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issueFixture(tool string, severity domain.Severity, file string, line int, message string) domain.Issue {
	return domain.Issue{
		Tool:     tool,
		Severity: severity,
		File:     file,
		Line:     line,
		Message:  message,
		Tools:    []string{tool},
	}
}

func TestMergeKeepsMostSevereRating(t *testing.T) {
	// Scenario: same finding reported as minor and as blocker.
	merged, _ := aggregate.Merge([]domain.Issue{
		issueFixture("codex", domain.SeverityMinor, "src/a.ts", 10, "First"),
		issueFixture("gemini", domain.SeverityBlocker, "src/a.ts", 10, "First"),
		issueFixture("codex", domain.SeverityNit, "src/b.ts", 5, "Second"),
	})

	require.Len(t, merged, 2)
	assert.Equal(t, domain.SeverityBlocker, merged[0].Severity)
	assert.Equal(t, []string{"codex", "gemini"}, merged[0].Tools)
	assert.Equal(t, domain.SeverityNit, merged[1].Severity)
}

func TestMergeSeverityNeverRegresses(t *testing.T) {
	// Duplicate arriving in the opposite order must produce the same
	// final severity.
	forward, _ := aggregate.Merge([]domain.Issue{
		issueFixture("a", domain.SeverityBlocker, "f.go", 1, "m"),
		issueFixture("b", domain.SeverityMinor, "f.go", 1, "m"),
	})
	backward, _ := aggregate.Merge([]domain.Issue{
		issueFixture("b", domain.SeverityMinor, "f.go", 1, "m"),
		issueFixture("a", domain.SeverityBlocker, "f.go", 1, "m"),
	})

	require.Len(t, forward, 1)
	require.Len(t, backward, 1)
	assert.Equal(t, domain.SeverityBlocker, forward[0].Severity)
	assert.Equal(t, domain.SeverityBlocker, backward[0].Severity)
}

func TestMergeIsIdempotent(t *testing.T) {
	issues := []domain.Issue{
		issueFixture("codex", domain.SeverityMajor, "a.go", 1, "one"),
		issueFixture("gemini", domain.SeverityMinor, "b.go", 2, "two"),
	}
	once, _ := aggregate.Merge(issues)
	twice, _ := aggregate.Merge(append(append([]domain.Issue{}, once...), once...))

	assert.Equal(t, once, twice)
}

func TestMergeUnionsProvenance(t *testing.T) {
	pre := issueFixture("merger", domain.SeverityMinor, "a.go", 1, "m")
	pre.Tools = []string{"merger", "codex"}

	merged, _ := aggregate.Merge([]domain.Issue{
		issueFixture("gemini", domain.SeverityMinor, "a.go", 1, "m"),
		pre,
		issueFixture("gemini", domain.SeverityMinor, "a.go", 1, "m"),
	})

	require.Len(t, merged, 1)
	assert.Equal(t, []string{"gemini", "merger", "codex"}, merged[0].Tools)
}

func TestMergeBackfillsSuggestionOnly(t *testing.T) {
	first := issueFixture("codex", domain.SeverityMinor, "a.go", 1, "m")
	second := issueFixture("gemini", domain.SeverityMinor, "a.go", 1, "m")
	second.Suggestion = "later fix"
	third := issueFixture("other", domain.SeverityMinor, "a.go", 1, "m")
	third.Suggestion = "ignored fix"

	merged, _ := aggregate.Merge([]domain.Issue{first, second, third})

	require.Len(t, merged, 1)
	assert.Equal(t, "later fix", merged[0].Suggestion, "suggestion fills once and is never overwritten")
}

func TestMergeRecordsRawSeveritiesPerLocation(t *testing.T) {
	// Scenario: same merge key, differing severities. The merged issue
	// collapses to major, but the location summary must still expose
	// both raw severities for disagreement detection.
	merged, locations := aggregate.Merge([]domain.Issue{
		issueFixture("codex", domain.SeverityMajor, "src/c.ts", 7, "X"),
		issueFixture("gemini", domain.SeverityMinor, "src/c.ts", 7, "X"),
	})

	require.Len(t, merged, 1)
	assert.Equal(t, domain.SeverityMajor, merged[0].Severity)
	assert.Equal(t, []string{"codex", "gemini"}, merged[0].Tools)

	require.Len(t, locations, 1)
	assert.Equal(t, "src/c.ts:7", locations[0].Location)
	assert.ElementsMatch(t, []domain.Severity{domain.SeverityMajor, domain.SeverityMinor}, locations[0].Severities)
	assert.Equal(t, []string{"codex", "gemini"}, locations[0].Tools)
}

func TestMergeGroupsLocationsAcrossDistinctKeys(t *testing.T) {
	// Different messages at the same line stay separate issues but
	// share one location summary.
	merged, locations := aggregate.Merge([]domain.Issue{
		issueFixture("codex", domain.SeverityMajor, "src/c.ts", 7, "first wording"),
		issueFixture("gemini", domain.SeverityMinor, "src/c.ts", 7, "second wording"),
	})

	assert.Len(t, merged, 2)
	require.Len(t, locations, 1)
	assert.Len(t, locations[0].Severities, 2)
}

func TestMergeUsesSentinelLocationForUnknowns(t *testing.T) {
	_, locations := aggregate.Merge([]domain.Issue{
		issueFixture("codex", domain.SeverityMinor, "", 0, "floating observation"),
	})

	require.Len(t, locations, 1)
	assert.Equal(t, "unknown:?", locations[0].Location)
}

package aggregate_test

import (
	"testing"

	"github.com/bkyoung/review-aggregator/internal/domain"
	"github.com/bkyoung/review-aggregator/internal/usecase/aggregate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFillsDefaults(t *testing.T) {
	issue := aggregate.Normalize(aggregate.RawRecord{
		Issue:  aggregate.RawIssue{"message": "something broke"},
		Source: "codex",
	})

	require.NotNil(t, issue)
	assert.Equal(t, "codex", issue.Tool, "tool defaults to the source file base name")
	assert.Equal(t, domain.SeverityMinor, issue.Severity, "absent severity defaults to minor")
	assert.Empty(t, issue.File)
	assert.Zero(t, issue.Line)
	assert.Equal(t, "something broke", issue.Message)
	assert.Empty(t, issue.Suggestion)
	assert.Equal(t, []string{"codex"}, issue.Tools)
}

func TestNormalizePassesThroughFields(t *testing.T) {
	issue := aggregate.Normalize(aggregate.RawRecord{
		Issue: aggregate.RawIssue{
			"tool":       "gemini",
			"severity":   "critical",
			"file":       "src/a.ts",
			"line":       float64(12),
			"message":    "bad",
			"suggestion": "fix it",
		},
		Source: "out",
	})

	require.NotNil(t, issue)
	assert.Equal(t, "gemini", issue.Tool)
	assert.Equal(t, domain.SeverityBlocker, issue.Severity)
	assert.Equal(t, "src/a.ts", issue.File)
	assert.Equal(t, 12, issue.Line)
	assert.Equal(t, "fix it", issue.Suggestion)
}

func TestNormalizeMessageAndSuggestionFallbacks(t *testing.T) {
	issue := aggregate.Normalize(aggregate.RawRecord{
		Issue:  aggregate.RawIssue{"text": "from text field", "fix": "from fix field"},
		Source: "codex",
	})

	require.NotNil(t, issue)
	assert.Equal(t, "from text field", issue.Message)
	assert.Equal(t, "from fix field", issue.Suggestion)
}

func TestNormalizeDropsRecordWithoutMessage(t *testing.T) {
	tests := []struct {
		name string
		raw  aggregate.RawIssue
	}{
		{name: "no message at all", raw: aggregate.RawIssue{"severity": "high"}},
		{name: "empty message", raw: aggregate.RawIssue{"message": ""}},
		{name: "non-string message", raw: aggregate.RawIssue{"message": float64(7)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Nil(t, aggregate.Normalize(aggregate.RawRecord{Issue: tc.raw, Source: "codex"}))
		})
	}
}

func TestNormalizeIgnoresNonNumericLine(t *testing.T) {
	issue := aggregate.Normalize(aggregate.RawRecord{
		Issue:  aggregate.RawIssue{"message": "m", "line": "twelve"},
		Source: "codex",
	})

	require.NotNil(t, issue)
	assert.Zero(t, issue.Line)
}

func TestNormalizeUnionsToolsListWithTool(t *testing.T) {
	issue := aggregate.Normalize(aggregate.RawRecord{
		Issue: aggregate.RawIssue{
			"tool":    "merger",
			"message": "m",
			"tools":   []interface{}{"codex", "merger", "gemini", 3},
		},
		Source: "out",
	})

	require.NotNil(t, issue)
	assert.Equal(t, []string{"merger", "codex", "gemini"}, issue.Tools)
}

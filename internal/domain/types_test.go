package domain_test

import (
	"testing"

	"github.com/bkyoung/review-aggregator/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want domain.Severity
	}{
		{name: "canonical blocker", raw: "blocker", want: domain.SeverityBlocker},
		{name: "canonical major", raw: "major", want: domain.SeverityMajor},
		{name: "canonical minor", raw: "minor", want: domain.SeverityMinor},
		{name: "canonical nit", raw: "nit", want: domain.SeverityNit},
		{name: "case insensitive", raw: "BLOCKER", want: domain.SeverityBlocker},
		{name: "critical maps to blocker", raw: "critical", want: domain.SeverityBlocker},
		{name: "high maps to blocker", raw: "high", want: domain.SeverityBlocker},
		{name: "medium maps to major", raw: "medium", want: domain.SeverityMajor},
		{name: "low maps to minor", raw: "low", want: domain.SeverityMinor},
		{name: "unrecognized maps to minor", raw: "warning", want: domain.SeverityMinor},
		{name: "absent maps to minor", raw: "", want: domain.SeverityMinor},
		{name: "surrounding whitespace", raw: "  major  ", want: domain.SeverityMajor},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, domain.ParseSeverity(tc.raw))
		})
	}
}

func TestSeverityRankOrdering(t *testing.T) {
	assert.Less(t, domain.SeverityBlocker.Rank(), domain.SeverityMajor.Rank())
	assert.Less(t, domain.SeverityMajor.Rank(), domain.SeverityMinor.Rank())
	assert.Less(t, domain.SeverityMinor.Rank(), domain.SeverityNit.Rank())
	assert.Less(t, domain.SeverityNit.Rank(), domain.Severity("bogus").Rank())
}

func TestMergeKeyToleratesWhitespaceVariation(t *testing.T) {
	a := domain.Issue{File: "src/a.ts", Line: 10, Message: "unchecked   error\n  return"}
	b := domain.Issue{File: "src/a.ts", Line: 10, Message: "unchecked error return"}

	assert.Equal(t, a.MergeKey(), b.MergeKey())
}

func TestMergeKeyIgnoresMessageBeyondPrefix(t *testing.T) {
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'x'
	}
	a := domain.Issue{File: "src/a.ts", Line: 1, Message: string(long) + " tail one"}
	b := domain.Issue{File: "src/a.ts", Line: 1, Message: string(long) + " tail two"}

	assert.Equal(t, a.MergeKey(), b.MergeKey())
}

func TestMergeKeyDistinguishesLocationAndWording(t *testing.T) {
	base := domain.Issue{File: "src/a.ts", Line: 10, Message: "unused variable"}

	otherLine := base
	otherLine.Line = 11
	otherFile := base
	otherFile.File = "src/b.ts"
	otherWording := base
	otherWording.Message = "variable is unused"

	assert.NotEqual(t, base.MergeKey(), otherLine.MergeKey())
	assert.NotEqual(t, base.MergeKey(), otherFile.MergeKey())
	assert.NotEqual(t, base.MergeKey(), otherWording.MergeKey())
}

func TestMergeKeyIndependentOfToolAndSeverity(t *testing.T) {
	a := domain.Issue{Tool: "codex", Severity: domain.SeverityMajor, File: "src/c.ts", Line: 7, Message: "X"}
	b := domain.Issue{Tool: "gemini", Severity: domain.SeverityMinor, File: "src/c.ts", Line: 7, Message: "X"}

	assert.Equal(t, a.MergeKey(), b.MergeKey())
}

func TestLocation(t *testing.T) {
	tests := []struct {
		name  string
		issue domain.Issue
		want  string
	}{
		{name: "file and line", issue: domain.Issue{File: "src/a.ts", Line: 10}, want: "src/a.ts:10"},
		{name: "file only", issue: domain.Issue{File: "src/a.ts"}, want: "src/a.ts:?"},
		{name: "line only", issue: domain.Issue{Line: 3}, want: "unknown:3"},
		{name: "nothing known", issue: domain.Issue{}, want: "unknown:?"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.issue.Location())
		})
	}
}

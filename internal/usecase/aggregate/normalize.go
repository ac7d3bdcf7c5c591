package aggregate

import (
	"math"

	"github.com/bkyoung/review-aggregator/internal/domain"
)

// Normalize maps a raw record into the canonical issue shape, filling
// defaults. It returns nil when the record carries no usable message;
// that is the only rejection rule at this stage.
func Normalize(rec RawRecord) *domain.Issue {
	tool := stringField(rec.Issue, "tool")
	if tool == "" {
		tool = rec.Source
	}

	issue := domain.Issue{
		Tool:     tool,
		Severity: domain.ParseSeverity(stringField(rec.Issue, "severity")),
		File:     stringField(rec.Issue, "file"),
	}

	if line, ok := rec.Issue["line"].(float64); ok && !math.IsNaN(line) && !math.IsInf(line, 0) {
		issue.Line = int(line)
	}

	message := stringField(rec.Issue, "message")
	if message == "" {
		message = stringField(rec.Issue, "text")
	}
	if message == "" {
		return nil
	}
	issue.Message = message

	suggestion := stringField(rec.Issue, "suggestion")
	if suggestion == "" {
		suggestion = stringField(rec.Issue, "fix")
	}
	issue.Suggestion = suggestion

	// Pre-aggregated upstream input may already carry a tools list;
	// union it with the originating tool.
	issue.Tools = []string{tool}
	if list, ok := rec.Issue["tools"].([]interface{}); ok {
		for _, v := range list {
			if s, ok := v.(string); ok && s != "" {
				issue.Tools = appendUnique(issue.Tools, s)
			}
		}
	}

	return &issue
}

func stringField(issue RawIssue, key string) string {
	if s, ok := issue[key].(string); ok {
		return s
	}
	return ""
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}

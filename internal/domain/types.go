package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Severity classifies how serious a finding is. The four levels form a
// total order used for merging and ranking.
type Severity string

const (
	SeverityBlocker Severity = "blocker"
	SeverityMajor   Severity = "major"
	SeverityMinor   Severity = "minor"
	SeverityNit     Severity = "nit"
)

// Rank returns a numeric rank for sorting (lower = more severe).
func (s Severity) Rank() int {
	switch s {
	case SeverityBlocker:
		return 0
	case SeverityMajor:
		return 1
	case SeverityMinor:
		return 2
	case SeverityNit:
		return 3
	default:
		return 4
	}
}

// ParseSeverity collapses free-text severity onto the four canonical
// levels. Common scanner vocabularies map onto the nearest level;
// anything unrecognized (including absent) becomes minor.
func ParseSeverity(raw string) Severity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "blocker", "critical", "high":
		return SeverityBlocker
	case "major", "medium":
		return SeverityMajor
	case "minor", "low":
		return SeverityMinor
	case "nit":
		return SeverityNit
	default:
		return SeverityMinor
	}
}

// Issue is a single normalized finding. File and Line use zero values
// for "unknown"; Line is 1-based when known. After merging, Tools holds
// the union of every tool that reported an equivalent finding.
type Issue struct {
	Tool       string   `json:"tool"`
	Severity   Severity `json:"severity"`
	File       string   `json:"file,omitempty"`
	Line       int      `json:"line,omitempty"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
	Tools      []string `json:"tools"`
}

// mergeKeyMessagePrefix bounds how much of the message participates in
// identity derivation.
const mergeKeyMessagePrefix = 160

// MergeKey derives the identity used to collapse duplicate findings.
// Two issues with the same key are the same finding regardless of which
// tools reported them or what severity each assigned. Whitespace runs
// in the message are collapsed so trivially reformatted duplicates
// still match; messages that differ beyond the first 160 characters are
// distinct findings.
func (i Issue) MergeKey() string {
	msg := strings.Join(strings.Fields(i.Message), " ")
	if len(msg) > mergeKeyMessagePrefix {
		msg = msg[:mergeKeyMessagePrefix]
	}
	line := ""
	if i.Line > 0 {
		line = strconv.Itoa(i.Line)
	}
	payload := fmt.Sprintf("%s|%s|%s", i.File, line, msg)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// Location renders the file:line grouping key used for disagreement
// detection, with sentinel values when parts are unknown.
func (i Issue) Location() string {
	file := i.File
	if file == "" {
		file = "unknown"
	}
	line := "?"
	if i.Line > 0 {
		line = strconv.Itoa(i.Line)
	}
	return file + ":" + line
}

// Disagreement records a location where contributing tools assigned
// more than one distinct severity.
type Disagreement struct {
	Location   string     `json:"location"`
	Severities []Severity `json:"severities"`
	Tools      []string   `json:"tools"`
}

// Report is the terminal artifact of an aggregation run. Issues holds
// the capped, severity-ranked prefix; Total always reflects the full
// merged count.
type Report struct {
	Total         int            `json:"total"`
	Emitted       int            `json:"emitted"`
	MaxComments   int            `json:"maxComments"`
	Issues        []Issue        `json:"issues"`
	Disagreements []Disagreement `json:"disagreements"`
	ToolCounts    map[string]int `json:"toolCounts"`
}

// ReportArtifact encapsulates the inputs for structured report writers.
type ReportArtifact struct {
	OutputDir string
	Basename  string
	Report    Report
}

// TextArtifact encapsulates the inputs for the text report writer.
type TextArtifact struct {
	OutputDir string
	Basename  string
	Text      string
}

package aggregate

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RawIssue is one untrusted record from a tool output file. It may be
// missing any field entirely.
type RawIssue map[string]interface{}

// RawRecord pairs a raw issue with the base name of the file it came
// from, which doubles as the default tool identifier.
type RawRecord struct {
	Issue  RawIssue
	Source string
}

// Loader reads per-tool findings files from a directory.
type Loader struct {
	logger Logger
}

// NewLoader constructs a loader with an optional logger.
func NewLoader(logger Logger) *Loader {
	return &Loader{logger: logger}
}

// Load parses every regular file in dir as a JSON array of issue
// records. A file that cannot be read, parsed, or whose top level is
// not an array is skipped with a warning; elements that are not
// objects are skipped individually. Within a file, original element
// order is preserved. Only an unusable input directory is an error.
func (l *Loader) Load(ctx context.Context, dir string) ([]RawRecord, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}

	var records []RawRecord
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		data, err := os.ReadFile(path)
		if err != nil {
			l.warn(ctx, "skipping unreadable findings file", map[string]interface{}{
				"file":  path,
				"error": err.Error(),
			})
			continue
		}

		var elements []json.RawMessage
		if err := json.Unmarshal(data, &elements); err != nil {
			l.warn(ctx, "skipping malformed findings file", map[string]interface{}{
				"file":  path,
				"error": err.Error(),
			})
			continue
		}

		source := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		for _, element := range elements {
			var issue RawIssue
			if err := json.Unmarshal(element, &issue); err != nil {
				l.warn(ctx, "skipping non-object element", map[string]interface{}{
					"file": path,
				})
				continue
			}
			records = append(records, RawRecord{Issue: issue, Source: source})
		}
	}
	return records, nil
}

func (l *Loader) warn(ctx context.Context, message string, fields map[string]interface{}) {
	if l.logger != nil {
		l.logger.LogWarning(ctx, message, fields)
	}
}

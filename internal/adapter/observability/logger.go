package observability

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"time"
)

// LogLevel defines the logging verbosity level.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
)

// ParseLogLevel maps a config string to a level, defaulting to info.
func ParseLogLevel(raw string) LogLevel {
	switch strings.ToLower(raw) {
	case "debug":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarn
	default:
		return LogLevelInfo
	}
}

// LogFormat defines the output format for logs.
type LogFormat int

const (
	LogFormatHuman LogFormat = iota
	LogFormatJSON
)

// ParseLogFormat maps a config string to a format, defaulting to human.
func ParseLogFormat(raw string) LogFormat {
	if strings.ToLower(raw) == "json" {
		return LogFormatJSON
	}
	return LogFormatHuman
}

// DefaultLogger writes structured warnings and info lines to stderr.
// It implements the aggregation use case Logger interface.
type DefaultLogger struct {
	level  LogLevel
	format LogFormat
	out    *log.Logger
}

// NewDefaultLogger creates a logger with the specified config.
func NewDefaultLogger(level LogLevel, format LogFormat) *DefaultLogger {
	return &DefaultLogger{
		level:  level,
		format: format,
		out:    log.New(os.Stderr, "", 0),
	}
}

// SetOutput redirects log output (for testing).
func (l *DefaultLogger) SetOutput(w io.Writer) {
	l.out = log.New(w, "", 0)
}

// LogWarning logs a warning message with structured fields.
func (l *DefaultLogger) LogWarning(_ context.Context, message string, fields map[string]interface{}) {
	l.emit("warn", message, fields)
}

// LogInfo logs an informational message with structured fields.
func (l *DefaultLogger) LogInfo(_ context.Context, message string, fields map[string]interface{}) {
	if l.level > LogLevelInfo {
		return
	}
	l.emit("info", message, fields)
}

func (l *DefaultLogger) emit(level, message string, fields map[string]interface{}) {
	if l.format == LogFormatJSON {
		entry := map[string]interface{}{
			"level":     level,
			"message":   message,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}
		for k, v := range fields {
			entry[k] = v
		}
		data, err := json.Marshal(entry)
		if err != nil {
			l.out.Printf(`{"level":%q,"message":%q}`, level, message)
			return
		}
		l.out.Print(string(data))
		return
	}

	l.out.Printf("[%s] %s%s", strings.ToUpper(level), message, formatFields(fields))
}

// formatFields renders fields as " (k=v ...)" with keys sorted for
// deterministic output.
func formatFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, fields[k])
	}
	return " (" + strings.Join(parts, " ") + ")"
}

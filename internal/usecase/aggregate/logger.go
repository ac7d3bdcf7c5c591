package aggregate

import "context"

// Logger provides structured logging for the aggregation use case.
// Skippable-input faults are reported here as warnings; they never
// abort a run.
type Logger interface {
	// LogWarning logs a warning message with structured fields.
	LogWarning(ctx context.Context, message string, fields map[string]interface{})

	// LogInfo logs an informational message with structured fields.
	LogInfo(ctx context.Context, message string, fields map[string]interface{})
}

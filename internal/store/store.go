package store

import (
	"context"
	"time"
)

// RunRecord captures the outcome of one aggregation run.
type RunRecord struct {
	RunID         string
	Timestamp     time.Time
	InputDir      string
	Total         int
	Emitted       int
	MaxComments   int
	Disagreements int
	ToolCounts    map[string]int
}

// Store persists aggregation run history so repeated runs against the
// same pull request can be compared.
type Store interface {
	// SaveRun records one completed aggregation run.
	SaveRun(ctx context.Context, rec RunRecord) error

	// RecentRuns returns up to limit runs, newest first.
	RecentRuns(ctx context.Context, limit int) ([]RunRecord, error)

	// Close releases store resources.
	Close() error
}

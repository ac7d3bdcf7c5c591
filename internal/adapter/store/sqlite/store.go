package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bkyoung/review-aggregator/internal/store"
	_ "github.com/mattn/go-sqlite3"
)

// Store implements the store.Store interface using SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a new SQLite store at the given path.
// Use ":memory:" for in-memory database (useful for testing).
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{db: db}

	if err := s.createSchema(); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return s, nil
}

// createSchema creates all tables and indexes if they don't exist.
func (s *Store) createSchema() error {
	schema := `
	-- Stores the outcome of each aggregation run
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		timestamp INTEGER NOT NULL,
		input_dir TEXT NOT NULL,
		total INTEGER NOT NULL,
		emitted INTEGER NOT NULL,
		max_comments INTEGER NOT NULL,
		disagreements INTEGER NOT NULL
	);

	-- Per-tool issue counts for each run
	CREATE TABLE IF NOT EXISTS run_tool_counts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		tool TEXT NOT NULL,
		count INTEGER NOT NULL,
		UNIQUE(run_id, tool),
		FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_tool_counts_run ON run_tool_counts(run_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveRun stores a run and its tool counts in a single transaction.
func (s *Store) SaveRun(ctx context.Context, rec store.RunRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (run_id, timestamp, input_dir, total, emitted, max_comments, disagreements)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		rec.RunID,
		rec.Timestamp.Unix(),
		rec.InputDir,
		rec.Total,
		rec.Emitted,
		rec.MaxComments,
		rec.Disagreements,
	); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_tool_counts (run_id, tool, count)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for tool, count := range rec.ToolCounts {
		if _, err := stmt.ExecContext(ctx, rec.RunID, tool, count); err != nil {
			return fmt.Errorf("failed to insert tool count: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// RecentRuns retrieves the most recent runs, limited by the given count.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]store.RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, timestamp, input_dir, total, emitted, max_comments, disagreements
		FROM runs
		ORDER BY timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []store.RunRecord
	for rows.Next() {
		var rec store.RunRecord
		var timestamp int64

		if err := rows.Scan(
			&rec.RunID,
			&timestamp,
			&rec.InputDir,
			&rec.Total,
			&rec.Emitted,
			&rec.MaxComments,
			&rec.Disagreements,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		rec.Timestamp = time.Unix(timestamp, 0)
		runs = append(runs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	for i := range runs {
		counts, err := s.toolCounts(ctx, runs[i].RunID)
		if err != nil {
			return nil, err
		}
		runs[i].ToolCounts = counts
	}

	return runs, nil
}

func (s *Store) toolCounts(ctx context.Context, runID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tool, count
		FROM run_tool_counts
		WHERE run_id = ?
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tool counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var tool string
		var count int
		if err := rows.Scan(&tool, &count); err != nil {
			return nil, fmt.Errorf("failed to scan tool count: %w", err)
		}
		counts[tool] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tool counts: %w", err)
	}

	return counts, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

var _ store.Store = (*Store)(nil)

// package history records playlist generation runs in sqlite
package history

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"mixdown/internal/shared"
)

// Run is one recorded generation: what script ran, how much it produced and
// how long it took.
type Run struct {
	ID         string
	ScriptHash string
	EntryCount int
	TrackCount int
	Format     string
	DurationMS int64
	CreatedAt  time.Time
}

// Store reads and writes runs.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open, migrated database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// HashScript fingerprints script text so identical scripts show up as the
// same hash across runs without storing the text itself.
func HashScript(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:8])
}

// Record inserts a run, generating an ID when one is not set.
func (s *Store) Record(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = shared.GenerateID()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, script_hash, entry_count, track_count, format, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.ScriptHash, run.EntryCount, run.TrackCount, run.Format, run.DurationMS, run.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}
	return run.ID, nil
}

// Recent returns the newest runs, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, script_hash, entry_count, track_count, format, duration_ms, created_at
		 FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.ScriptHash, &run.EntryCount, &run.TrackCount,
			&run.Format, &run.DurationMS, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

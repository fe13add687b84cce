package database

import (
	"context"
	"fmt"

	"github.com/yourusername/wildcard-sim/internal/config"
)

// Schema for the history store. Applied idempotently at startup so a fresh
// database works without a separate migration step.
const historySchema = `
CREATE TABLE IF NOT EXISTS win_probability_history (
	id UUID PRIMARY KEY,
	fingerprint TEXT NOT NULL,
	owner_name TEXT NOT NULL,
	win_probability DOUBLE PRECISION NOT NULL,
	expected_points DOUBLE PRECISION NOT NULL,
	points_stddev DOUBLE PRECISION NOT NULL,
	trials INTEGER NOT NULL,
	seed BIGINT NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_owner_time
	ON win_probability_history (owner_name, recorded_at);
CREATE INDEX IF NOT EXISTS idx_history_fingerprint
	ON win_probability_history (fingerprint);
`

// Initialize creates a database connection pool and ensures the history
// schema exists.
func Initialize(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	db, err := NewDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema applies the history store schema.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, historySchema); err != nil {
		return fmt.Errorf("failed to ensure history schema: %w", err)
	}
	return nil
}

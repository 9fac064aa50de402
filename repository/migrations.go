package repository

import (
	"context"
	"database/sql"
)

// schema creates the two relations. It is valid for both postgres and
// sqlite. Timestamps are unix milliseconds.
const schema = `
CREATE TABLE IF NOT EXISTS matches (
    id TEXT PRIMARY KEY,
    total_cost DOUBLE PRECISION NOT NULL,
    total_hours DOUBLE PRECISION NOT NULL,
    occurs_at BIGINT NOT NULL,
    payout_key TEXT NOT NULL,
    status TEXT NOT NULL,
    completed_at BIGINT
);

CREATE TABLE IF NOT EXISTS participants (
    id TEXT NOT NULL,
    match_id TEXT NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    hours_played DOUBLE PRECISION NOT NULL,
    amount DOUBLE PRECISION,
    paid BOOLEAN NOT NULL DEFAULT FALSE,
    payment_date BIGINT,
    receipt_url TEXT,
    PRIMARY KEY (match_id, id)
);

CREATE INDEX IF NOT EXISTS idx_participants_match_id ON participants(match_id);
CREATE INDEX IF NOT EXISTS idx_matches_status ON matches(status);
`

// runMigrations executes the schema setup.
func runMigrations(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Package repository persists matches and their participants behind a
// storage-agnostic MatchRepository. Two families of backends exist: a
// key-value one that stores the whole collection as a single blob, and a
// relational one that keeps matches and participants in two tables.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/fadhlanhapp/courtsplit-backend/config"
	"github.com/fadhlanhapp/courtsplit-backend/models"
	"github.com/fadhlanhapp/courtsplit-backend/utils"
)

// MatchRepository defines the storage operations for match aggregates.
//
// Failures are *utils.RepositoryError values whose kind is one of
// utils.ErrNotFound, utils.ErrConflict, utils.ErrStorageUnavailable or
// utils.ErrPartialWrite. Writes are not serialised across processes: two
// concurrent payment updates on the same match may lose one status change.
type MatchRepository interface {
	// List returns every match with its participants.
	List(ctx context.Context) ([]models.Match, error)

	// GetByID returns the match, or nil without error if it does not exist.
	GetByID(ctx context.Context, id string) (*models.Match, error)

	// Create stores a new match. Missing IDs are generated and the status is
	// derived from the participants' payment flags.
	Create(ctx context.Context, match models.Match) (*models.Match, error)

	// Update replaces the match-level fields and the participant collection
	// of an existing match, then re-derives its status.
	Update(ctx context.Context, match models.Match) (*models.Match, error)

	// Delete removes the match and its participants. Deleting an unknown ID
	// is a no-op.
	Delete(ctx context.Context, id string) error

	// SetParticipantPayment marks one participant paid or unpaid and
	// re-derives the match status.
	SetParticipantPayment(ctx context.Context, matchID, participantID string, paid bool, receiptRef string) (*models.Match, error)

	// Query returns the matches selected by filter. It never mutates state.
	Query(ctx context.Context, filter models.MatchFilter, participantID string) ([]models.Match, error)

	// Close releases any resources held by the repository.
	Close() error
}

// Open builds the repository selected by cfg.Backend
func Open(ctx context.Context, cfg config.StorageConfig) (MatchRepository, error) {
	switch cfg.Backend {
	case utils.BackendEmbedded:
		kv, err := NewSQLiteKV(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		slog.Info("Embedded key-value storage opened", "path", cfg.SQLitePath)
		return NewKVMatchRepository(kv, newrelic.DatastoreSQLite), nil

	case utils.BackendRedis:
		kv, err := NewRedisKV(ctx, cfg.RedisURL, cfg.RedisKeyPrefix)
		if err != nil {
			return nil, err
		}
		slog.Info("Redis key-value storage connected", "prefix", cfg.RedisKeyPrefix)
		return NewKVMatchRepository(kv, newrelic.DatastoreRedis), nil

	case utils.BackendPostgres:
		db, err := OpenPostgres(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, err
		}
		slog.Info("Postgres storage connected", "host", cfg.DBHost, "database", cfg.DBName)
		return openSQL(ctx, db, DialectPostgres)

	case utils.BackendSQLite:
		db, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		slog.Info("SQLite relational storage opened", "path", cfg.SQLitePath)
		return openSQL(ctx, db, DialectSQLite)
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}

// openSQL avoids handing back a typed nil inside the interface on failure
func openSQL(ctx context.Context, db *sql.DB, dialect Dialect) (MatchRepository, error) {
	repo, err := NewSQLMatchRepository(ctx, db, dialect)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// prepareCreate readies a new match for storage: IDs are assigned, the
// payment fields of each participant are made consistent and the status is
// derived starting from pending.
func prepareCreate(m models.Match, now time.Time) models.Match {
	out := m.Normalized()
	out.ID = utils.EnsureID(out.ID)
	preparePaymentFields(out.Participants, now)
	out.Status = models.StatusPending
	out.CompletedAt = nil
	return models.DeriveStatus(out, now)
}

// prepareUpdate readies a replacement for existing. The stored status is the
// starting point for the state machine, not the caller's.
func prepareUpdate(existing, m models.Match, now time.Time) models.Match {
	out := m.Normalized()
	out.ID = existing.ID
	preparePaymentFields(out.Participants, now)
	out.Status = existing.Status
	out.CompletedAt = existing.CompletedAt
	return models.DeriveStatus(out, now)
}

// applyPayment performs the payment change on a loaded match
func applyPayment(m models.Match, participantID string, paid bool, receiptRef string, now time.Time) (models.Match, bool) {
	out := m.Clone()
	idx := out.FindParticipant(participantID)
	if idx < 0 {
		return out, false
	}
	out.Participants[idx].ApplyPayment(paid, receiptRef, now)
	return models.DeriveStatus(out, now), true
}

func preparePaymentFields(participants []models.Participant, now time.Time) {
	for i := range participants {
		p := &participants[i]
		p.ID = utils.EnsureID(p.ID)
		if !p.Settled {
			p.SettledAt = nil
			p.ReceiptRef = ""
			continue
		}
		if p.SettledAt == nil {
			settledAt := models.Timestamp(now)
			p.SettledAt = &settledAt
		}
	}
}

func datastoreSegment(ctx context.Context, product newrelic.DatastoreProduct, collection, operation string) *newrelic.DatastoreSegment {
	return &newrelic.DatastoreSegment{
		StartTime:  newrelic.FromContext(ctx).StartSegmentNow(),
		Product:    product,
		Collection: collection,
		Operation:  operation,
	}
}

// duplicateParticipant returns the first participant ID used twice in m
func duplicateParticipant(m models.Match) string {
	seen := make(map[string]bool, len(m.Participants))
	for _, p := range m.Participants {
		if seen[p.ID] {
			return p.ID
		}
		seen[p.ID] = true
	}
	return ""
}

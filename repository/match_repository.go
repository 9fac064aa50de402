package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/fadhlanhapp/courtsplit-backend/models"
	"github.com/fadhlanhapp/courtsplit-backend/utils"
)

// Dialect selects the placeholder style of the relational backend
type Dialect int

const (
	DialectPostgres Dialect = iota
	DialectSQLite
)

// rebind converts ? placeholders to $n for postgres
func (d Dialect) rebind(query string) string {
	if d != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d Dialect) product() newrelic.DatastoreProduct {
	if d == DialectPostgres {
		return newrelic.DatastorePostgres
	}
	return newrelic.DatastoreSQLite
}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const matchColumns = "id, total_cost, total_hours, occurs_at, payout_key, status, completed_at"

const participantColumns = "id, match_id, name, hours_played, amount, paid, payment_date, receipt_url"

// Ensure SQLMatchRepository implements MatchRepository
var _ MatchRepository = (*SQLMatchRepository)(nil)

// SQLMatchRepository stores matches and participants in two relations
// joined by participants.match_id.
type SQLMatchRepository struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

// NewSQLMatchRepository runs migrations on db and returns the repository.
// The database is closed if migrations fail.
func NewSQLMatchRepository(ctx context.Context, db *sql.DB, dialect Dialect) (*SQLMatchRepository, error) {
	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &SQLMatchRepository{db: db, dialect: dialect, now: time.Now}, nil
}

// Close closes the database connection.
func (r *SQLMatchRepository) Close() error {
	return r.db.Close()
}

// List returns every stored match.
func (r *SQLMatchRepository) List(ctx context.Context) ([]models.Match, error) {
	return r.selectMatches(ctx, r.db, "list", "", "")
}

// GetByID returns the match with the given ID, or nil when absent.
func (r *SQLMatchRepository) GetByID(ctx context.Context, id string) (*models.Match, error) {
	return r.getMatch(ctx, r.db, "get", id)
}

// Query returns the matches selected by filter.
func (r *SQLMatchRepository) Query(ctx context.Context, filter models.MatchFilter, participantID string) ([]models.Match, error) {
	switch filter {
	case models.FilterPending, models.FilterComplete:
		return r.selectMatches(ctx, r.db, "query", "", "WHERE status = ?", string(filter))
	case models.FilterUnpaidByParticipant:
		if participantID == "" {
			return r.selectMatches(ctx, r.db, "query", "", "")
		}
		return r.selectMatches(ctx, r.db, "query", "",
			"WHERE EXISTS (SELECT 1 FROM participants p WHERE p.match_id = matches.id AND p.id = ? AND p.paid = ?)",
			participantID, false,
		)
	default:
		return r.selectMatches(ctx, r.db, "query", "", "")
	}
}

// Create inserts the match row and its participant rows in one transaction.
func (r *SQLMatchRepository) Create(ctx context.Context, match models.Match) (*models.Match, error) {
	created := prepareCreate(match, r.now())
	if dup := duplicateParticipant(created); dup != "" {
		return nil, utils.NewRepositoryError("create", utils.ErrConflict, created.ID, dup, nil)
	}

	segment := datastoreSegment(ctx, r.dialect.product(), "matches", "INSERT")
	defer segment.End()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, r.unavailable("create", created.ID, fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, r.dialect.rebind("SELECT 1 FROM matches WHERE id = ?"), created.ID).Scan(&exists)
	if err == nil {
		return nil, utils.NewRepositoryError("create", utils.ErrConflict, created.ID, "", nil)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, r.unavailable("create", created.ID, fmt.Errorf("failed to check match: %w", err))
	}

	if err := r.insertMatch(ctx, tx, created); err != nil {
		return nil, r.unavailable("create", created.ID, err)
	}

	// The match row is in; anything failing from here on leaves the
	// aggregate half written until the rollback.
	if err := r.insertParticipants(ctx, tx, created); err != nil {
		return nil, utils.NewRepositoryError("create", utils.ErrPartialWrite, created.ID, "", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, r.unavailable("create", created.ID, fmt.Errorf("failed to commit transaction: %w", err))
	}
	return &created, nil
}

// Update rewrites the match row and replaces its participant rows.
func (r *SQLMatchRepository) Update(ctx context.Context, match models.Match) (*models.Match, error) {
	segment := datastoreSegment(ctx, r.dialect.product(), "matches", "UPDATE")
	defer segment.End()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, r.unavailable("update", match.ID, fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	existing, err := r.getMatch(ctx, tx, "update", match.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, utils.NewRepositoryError("update", utils.ErrNotFound, match.ID, "", nil)
	}

	updated := prepareUpdate(*existing, match, r.now())
	if dup := duplicateParticipant(updated); dup != "" {
		return nil, utils.NewRepositoryError("update", utils.ErrConflict, updated.ID, dup, nil)
	}

	if err := r.updateMatchRow(ctx, tx, updated); err != nil {
		return nil, r.unavailable("update", updated.ID, err)
	}

	if _, err := tx.ExecContext(ctx, r.dialect.rebind("DELETE FROM participants WHERE match_id = ?"), updated.ID); err != nil {
		return nil, utils.NewRepositoryError("update", utils.ErrPartialWrite, updated.ID, "",
			fmt.Errorf("failed to delete participants: %w", err))
	}
	if err := r.insertParticipants(ctx, tx, updated); err != nil {
		return nil, utils.NewRepositoryError("update", utils.ErrPartialWrite, updated.ID, "", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, r.unavailable("update", updated.ID, fmt.Errorf("failed to commit transaction: %w", err))
	}
	return &updated, nil
}

// Delete removes the match and its participants; unknown IDs are ignored.
func (r *SQLMatchRepository) Delete(ctx context.Context, id string) error {
	segment := datastoreSegment(ctx, r.dialect.product(), "matches", "DELETE")
	defer segment.End()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return r.unavailable("delete", id, fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, r.dialect.rebind("DELETE FROM participants WHERE match_id = ?"), id); err != nil {
		return r.unavailable("delete", id, fmt.Errorf("failed to delete participants: %w", err))
	}
	if _, err := tx.ExecContext(ctx, r.dialect.rebind("DELETE FROM matches WHERE id = ?"), id); err != nil {
		return utils.NewRepositoryError("delete", utils.ErrPartialWrite, id, "",
			fmt.Errorf("failed to delete match: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return r.unavailable("delete", id, fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

// SetParticipantPayment updates one participant row and the match status.
func (r *SQLMatchRepository) SetParticipantPayment(ctx context.Context, matchID, participantID string, paid bool, receiptRef string) (*models.Match, error) {
	segment := datastoreSegment(ctx, r.dialect.product(), "participants", "UPDATE")
	defer segment.End()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, r.unavailable("set payment", matchID, fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	existing, err := r.getMatch(ctx, tx, "set payment", matchID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, utils.NewRepositoryError("set payment", utils.ErrNotFound, matchID, "", nil)
	}

	updated, ok := applyPayment(*existing, participantID, paid, receiptRef, r.now())
	if !ok {
		return nil, utils.NewRepositoryError("set payment", utils.ErrNotFound, matchID, participantID, nil)
	}
	p := updated.Participants[updated.FindParticipant(participantID)]

	_, err = tx.ExecContext(ctx,
		r.dialect.rebind("UPDATE participants SET paid = ?, payment_date = ?, receipt_url = ? WHERE match_id = ? AND id = ?"),
		p.Settled, nullMillis(p.SettledAt), nullString(p.ReceiptRef), matchID, participantID,
	)
	if err != nil {
		return nil, utils.NewRepositoryError("set payment", utils.ErrStorageUnavailable, matchID, participantID,
			fmt.Errorf("failed to update participant: %w", err))
	}

	if err := r.updateMatchRow(ctx, tx, updated); err != nil {
		return nil, utils.NewRepositoryError("set payment", utils.ErrPartialWrite, matchID, participantID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, r.unavailable("set payment", matchID, fmt.Errorf("failed to commit transaction: %w", err))
	}
	return &updated, nil
}

func (r *SQLMatchRepository) insertMatch(ctx context.Context, q querier, m models.Match) error {
	_, err := q.ExecContext(ctx,
		r.dialect.rebind("INSERT INTO matches ("+matchColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)"),
		m.ID, m.TotalCost, m.TotalWeight, m.OccursAt.UnixMilli(), m.PayoutKey, string(m.Status), nullMillis(m.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert match: %w", err)
	}
	return nil
}

func (r *SQLMatchRepository) updateMatchRow(ctx context.Context, q querier, m models.Match) error {
	_, err := q.ExecContext(ctx,
		r.dialect.rebind("UPDATE matches SET total_cost = ?, total_hours = ?, occurs_at = ?, payout_key = ?, status = ?, completed_at = ? WHERE id = ?"),
		m.TotalCost, m.TotalWeight, m.OccursAt.UnixMilli(), m.PayoutKey, string(m.Status), nullMillis(m.CompletedAt), m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update match: %w", err)
	}
	return nil
}

func (r *SQLMatchRepository) insertParticipants(ctx context.Context, q querier, m models.Match) error {
	query := r.dialect.rebind("INSERT INTO participants (" + participantColumns + ", position) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)")
	for i, p := range m.Participants {
		_, err := q.ExecContext(ctx, query,
			p.ID, m.ID, p.Name, p.Contribution, nullFloat(p.OwedAmount), p.Settled,
			nullMillis(p.SettledAt), nullString(p.ReceiptRef), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant %s: %w", p.ID, err)
		}
	}
	return nil
}

func (r *SQLMatchRepository) getMatch(ctx context.Context, q querier, op, id string) (*models.Match, error) {
	matches, err := r.selectMatches(ctx, q, op, id, "WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}

// selectMatches fetches the match rows selected by where, then the
// participant rows of those matches, and joins them by match ID.
func (r *SQLMatchRepository) selectMatches(ctx context.Context, q querier, op, matchID, where string, args ...any) ([]models.Match, error) {
	segment := datastoreSegment(ctx, r.dialect.product(), "matches", "SELECT")
	defer segment.End()

	query := "SELECT " + matchColumns + " FROM matches"
	if where != "" {
		query += " " + where
	}
	query += " ORDER BY occurs_at DESC, id ASC"

	rows, err := q.QueryContext(ctx, r.dialect.rebind(query), args...)
	if err != nil {
		return nil, r.unavailable(op, matchID, fmt.Errorf("failed to get matches: %w", err))
	}
	defer rows.Close()

	matches := []models.Match{}
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, r.unavailable(op, matchID, err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, r.unavailable(op, matchID, fmt.Errorf("failed to iterate matches: %w", err))
	}
	rows.Close()

	if len(matches) == 0 {
		return matches, nil
	}
	models.SortMatches(matches)

	ids := make([]string, len(matches))
	for i := range matches {
		ids[i] = matches[i].ID
	}
	byMatch, err := r.participantsByMatch(ctx, q, ids)
	if err != nil {
		return nil, r.unavailable(op, matchID, err)
	}
	for i := range matches {
		if participants, ok := byMatch[matches[i].ID]; ok {
			matches[i].Participants = participants
		}
	}
	return matches, nil
}

// participantsByMatch loads the participants of the given matches keyed by
// match ID, each slice in insertion order.
func (r *SQLMatchRepository) participantsByMatch(ctx context.Context, q querier, matchIDs []string) (map[string][]models.Participant, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(matchIDs)), ", ")
	args := make([]any, len(matchIDs))
	for i, id := range matchIDs {
		args[i] = id
	}

	rows, err := q.QueryContext(ctx,
		r.dialect.rebind("SELECT "+participantColumns+" FROM participants WHERE match_id IN ("+placeholders+") ORDER BY match_id, position"),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	byMatch := make(map[string][]models.Participant, len(matchIDs))
	for rows.Next() {
		var (
			p           models.Participant
			matchID     string
			amount      sql.NullFloat64
			paymentDate sql.NullInt64
			receiptURL  sql.NullString
		)
		if err := rows.Scan(&p.ID, &matchID, &p.Name, &p.Contribution, &amount, &p.Settled, &paymentDate, &receiptURL); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		if amount.Valid {
			value := amount.Float64
			p.OwedAmount = &value
		}
		p.SettledAt = fromMillis(paymentDate)
		p.ReceiptRef = receiptURL.String
		byMatch[matchID] = append(byMatch[matchID], p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return byMatch, nil
}

func scanMatch(rows *sql.Rows) (models.Match, error) {
	var (
		m           models.Match
		occursAt    int64
		status      string
		completedAt sql.NullInt64
	)
	if err := rows.Scan(&m.ID, &m.TotalCost, &m.TotalWeight, &occursAt, &m.PayoutKey, &status, &completedAt); err != nil {
		return m, fmt.Errorf("failed to scan match: %w", err)
	}
	m.OccursAt = time.UnixMilli(occursAt).UTC()
	m.Status = models.MatchStatus(status)
	m.CompletedAt = fromMillis(completedAt)
	m.Participants = []models.Participant{}
	return m, nil
}

func (r *SQLMatchRepository) unavailable(op, matchID string, err error) error {
	return utils.NewRepositoryError(op, utils.ErrStorageUnavailable, matchID, "", err)
}

func nullMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

func fromMillis(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.UnixMilli(v.Int64).UTC()
	return &t
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

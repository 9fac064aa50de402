package services

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadhlanhapp/courtsplit-backend/models"
	"github.com/fadhlanhapp/courtsplit-backend/repository"
	"github.com/fadhlanhapp/courtsplit-backend/utils"
)

func newTestMatchService(t *testing.T) *MatchService {
	t.Helper()
	kv, err := repository.NewSQLiteKV(filepath.Join(t.TempDir(), "matches.db"))
	require.NoError(t, err)
	repo := repository.NewKVMatchRepository(kv, "SQLite")
	t.Cleanup(func() { repo.Close() })
	return NewMatchService(repo)
}

func newCourtMatch(date time.Time, players ...models.Participant) models.Match {
	return models.Match{
		TotalCost:    100,
		TotalWeight:  4,
		OccursAt:     date,
		PayoutKey:    "ana@pix",
		Participants: players,
	}
}

func assertValidationError(t *testing.T, err error, message string) {
	t.Helper()
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr), "expected validation error, got %v", err)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Contains(t, appErr.Message, message)
}

func TestMatchService_CreateMatch(t *testing.T) {
	service := newTestMatchService(t)
	ctx := context.Background()

	match, err := service.CreateMatch(ctx, newCourtMatch(time.Now(),
		models.Participant{Name: "Ana", Contribution: 1},
		models.Participant{Name: "Bruno", Contribution: 3},
	))

	require.NoError(t, err)
	assert.NotEmpty(t, match.ID)
	assert.Equal(t, models.StatusPending, match.Status)
	require.Len(t, match.Participants, 2)
	assert.NotEmpty(t, match.Participants[0].ID)
	assert.Equal(t, 25.0, *match.Participants[0].OwedAmount)
	assert.Equal(t, 75.0, *match.Participants[1].OwedAmount)

	stored, err := service.GetMatch(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, 75.0, *stored.Participants[1].OwedAmount)
}

func TestMatchService_CreateMatch_Validation(t *testing.T) {
	service := newTestMatchService(t)
	ctx := context.Background()
	player := models.Participant{Name: "Ana", Contribution: 1}

	tests := []struct {
		name    string
		mutate  func(m *models.Match)
		message string
	}{
		{"zero cost", func(m *models.Match) { m.TotalCost = 0 }, "court cost must be positive"},
		{"zero hours", func(m *models.Match) { m.TotalWeight = 0 }, "total hours must be positive"},
		{"missing pix key", func(m *models.Match) { m.PayoutKey = " " }, "pix key is required"},
		{"no players", func(m *models.Match) { m.Participants = nil }, "players cannot be empty"},
		{"blank name", func(m *models.Match) { m.Participants[0].Name = "" }, "Player 1: player name is required"},
		{"zero player hours", func(m *models.Match) { m.Participants[0].Contribution = 0 }, "Player 1: hours played must be positive"},
		{"player hours above total", func(m *models.Match) { m.Participants[0].Contribution = 5 }, "Player 1: hours played cannot exceed total hours"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newCourtMatch(time.Now(), player)
			tt.mutate(&m)

			_, err := service.CreateMatch(ctx, m)
			assertValidationError(t, err, tt.message)
		})
	}

	matches, err := service.ListMatches(ctx)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestMatchService_UpdateMatch(t *testing.T) {
	service := newTestMatchService(t)
	ctx := context.Background()

	created, err := service.CreateMatch(ctx, newCourtMatch(time.Now(),
		models.Participant{Name: "Ana", Contribution: 1},
		models.Participant{Name: "Bruno", Contribution: 3},
	))
	require.NoError(t, err)
	anaID := created.Participants[0].ID

	_, err = service.UpdatePayment(ctx, created.ID, anaID, true, "receipts/ana.jpg")
	require.NoError(t, err)

	// Bruno leaves, Carla joins and the cost changes. Ana's payment survives
	// the edit even though the request does not carry it.
	edit := newCourtMatch(created.OccursAt,
		models.Participant{ID: anaID, Name: "Ana", Contribution: 2},
		models.Participant{Name: "Carla", Contribution: 2},
	)
	edit.ID = created.ID
	edit.TotalCost = 80

	updated, err := service.UpdateMatch(ctx, edit)
	require.NoError(t, err)

	require.Len(t, updated.Participants, 2)
	assert.True(t, updated.Participants[0].Settled)
	assert.Equal(t, "receipts/ana.jpg", updated.Participants[0].ReceiptRef)
	assert.Equal(t, 40.0, *updated.Participants[0].OwedAmount)
	assert.False(t, updated.Participants[1].Settled)
	assert.Equal(t, 40.0, *updated.Participants[1].OwedAmount)
	assert.Equal(t, models.StatusPending, updated.Status)

	edit.ID = "missing"
	_, err = service.UpdateMatch(ctx, edit)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestMatchService_GetMatch_NotFound(t *testing.T) {
	service := newTestMatchService(t)

	_, err := service.GetMatch(context.Background(), "missing")

	assert.ErrorIs(t, err, utils.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, utils.StatusCode(err))
}

func TestMatchService_FindMatches(t *testing.T) {
	service := newTestMatchService(t)
	ctx := context.Background()

	march := time.Date(2024, 3, 10, 19, 0, 0, 0, time.UTC)
	april := time.Date(2024, 4, 2, 19, 0, 0, 0, time.UTC)

	first, err := service.CreateMatch(ctx, newCourtMatch(march, models.Participant{Name: "Ana", Contribution: 4}))
	require.NoError(t, err)
	second, err := service.CreateMatch(ctx, newCourtMatch(april, models.Participant{Name: "Bruno", Contribution: 4}))
	require.NoError(t, err)
	_, err = service.UpdatePayment(ctx, first.ID, first.Participants[0].ID, true, "")
	require.NoError(t, err)

	all, err := service.FindMatches(ctx, "", "", "")
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID, first.ID}, ids(all))

	complete, err := service.FindMatches(ctx, models.FilterComplete, "", "")
	require.NoError(t, err)
	assert.Equal(t, []string{first.ID}, ids(complete))

	searched, err := service.FindMatches(ctx, models.FilterAll, "", "bruno")
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID}, ids(searched))

	searched, err = service.FindMatches(ctx, models.FilterPending, "", "ana")
	require.NoError(t, err)
	assert.Empty(t, searched)

	unpaid, err := service.FindMatches(ctx, models.FilterUnpaidByParticipant, second.Participants[0].ID, "")
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID}, ids(unpaid))

	_, err = service.FindMatches(ctx, "settled", "", "")
	assertValidationError(t, err, utils.ErrInvalidFilter)
}

func TestMatchService_UpdatePayment(t *testing.T) {
	service := newTestMatchService(t)
	ctx := context.Background()

	created, err := service.CreateMatch(ctx, newCourtMatch(time.Now(), models.Participant{Name: "Ana", Contribution: 4}))
	require.NoError(t, err)

	updated, err := service.UpdatePayment(ctx, created.ID, created.Participants[0].ID, true, "  receipts/ana.jpg \n")
	require.NoError(t, err)
	assert.Equal(t, "receipts/ana.jpg", updated.Participants[0].ReceiptRef)
	assert.Equal(t, models.StatusComplete, updated.Status)
	assert.Equal(t, 100, updated.PaymentProgress())

	_, err = service.UpdatePayment(ctx, created.ID, "missing", true, "")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestMatchService_DeleteMatch(t *testing.T) {
	service := newTestMatchService(t)
	ctx := context.Background()

	created, err := service.CreateMatch(ctx, newCourtMatch(time.Now(), models.Participant{Name: "Ana", Contribution: 4}))
	require.NoError(t, err)

	require.NoError(t, service.DeleteMatch(ctx, created.ID))
	require.NoError(t, service.DeleteMatch(ctx, created.ID))

	_, err = service.GetMatch(ctx, created.ID)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestMatchService_PendingPayments(t *testing.T) {
	service := newTestMatchService(t)
	ctx := context.Background()

	older := time.Date(2024, 3, 1, 19, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 3, 8, 19, 0, 0, 0, time.UTC)

	recent, err := service.CreateMatch(ctx, newCourtMatch(newer,
		models.Participant{Name: "Ana", Contribution: 2},
		models.Participant{Name: "Davi", Contribution: 2},
	))
	require.NoError(t, err)
	old, err := service.CreateMatch(ctx, newCourtMatch(older,
		models.Participant{Name: "Bruno", Contribution: 1},
		models.Participant{Name: "Carla", Contribution: 3},
	))
	require.NoError(t, err)
	_, err = service.UpdatePayment(ctx, old.ID, old.Participants[1].ID, true, "")
	require.NoError(t, err)

	pending, err := service.PendingPayments(ctx)
	require.NoError(t, err)

	require.Len(t, pending, 3)
	assert.Equal(t, old.ID, pending[0].MatchID)
	assert.Equal(t, "Bruno", pending[0].PlayerName)
	assert.Equal(t, 25.0, *pending[0].Amount)
	assert.Equal(t, recent.ID, pending[1].MatchID)
	assert.Equal(t, recent.ID, pending[2].MatchID)
	assert.ElementsMatch(t, []string{"Ana", "Davi"}, []string{pending[1].PlayerName, pending[2].PlayerName})
}

func TestMatchService_ParticipantOptions(t *testing.T) {
	service := newTestMatchService(t)
	ctx := context.Background()

	first, err := service.CreateMatch(ctx, newCourtMatch(time.Now(),
		models.Participant{Name: "bruno", Contribution: 2},
		models.Participant{Name: "Ana", Contribution: 2},
	))
	require.NoError(t, err)

	// The same participant appearing in another match is listed once
	_, err = service.CreateMatch(ctx, newCourtMatch(time.Now().Add(-time.Hour),
		models.Participant{ID: first.Participants[1].ID, Name: "Ana", Contribution: 2},
		models.Participant{Name: "Carla", Contribution: 2},
	))
	require.NoError(t, err)

	options, err := service.ParticipantOptions(ctx)
	require.NoError(t, err)

	var names []string
	for _, o := range options {
		names = append(names, o.Name)
	}
	assert.Equal(t, []string{"Ana", "bruno", "Carla"}, names)
}

package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	assert.Equal(t, 33.33, Round(100.0/3))
	assert.Equal(t, 66.67, Round(200.0/3))
	assert.Equal(t, 0.13, Round(0.125))
	assert.Equal(t, -0.13, Round(-0.125))
	assert.Equal(t, 25.0, Round(25))
}

func TestAmountString(t *testing.T) {
	assert.Equal(t, "100", AmountString(100))
	assert.Equal(t, "12.5", AmountString(12.5))
	assert.Equal(t, "0.1", AmountString(0.1))
}

func TestSum(t *testing.T) {
	assert.Equal(t, 0.3, Sum(0.1, 0.2))
	assert.Equal(t, 99.99, Sum(33.33, 33.33, 33.33))
	assert.Equal(t, 0.0, Sum())
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "Ana", DisplayName("  Ana "))
	assert.Equal(t, UnnamedParticipant, DisplayName("   "))

	date := time.Date(2024, 3, 5, 7, 30, 0, 0, time.UTC)
	assert.Equal(t, "05/03/2024", FormatDate(date))
	assert.Equal(t, "05/03/2024 07:30", FormatDateTime(date))

	assert.True(t, ContainsFold("Ana Souza", "SOUZA"))
	assert.False(t, ContainsFold("Ana", "bruno"))

	assert.Equal(t, "Court_Matches_a_b", CleanFileName(" Court  Matches a/b "))
}

func TestEnsureID(t *testing.T) {
	assert.Equal(t, "fixed", EnsureID("fixed"))
	assert.NotEmpty(t, EnsureID(""))
	assert.NotEqual(t, EnsureID(""), EnsureID(""))
}

func TestRepositoryError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewRepositoryError("set payment", ErrNotFound, "m1", "p1", nil)

	assert.Equal(t, "set payment match m1 participant p1: not found", err.Error())
	assert.ErrorIs(t, err, ErrNotFound)

	wrapped := fmt.Errorf("service: %w", NewRepositoryError("list", ErrStorageUnavailable, "", "", cause))
	assert.ErrorIs(t, wrapped, ErrStorageUnavailable)
	assert.ErrorIs(t, wrapped, cause)
	assert.NotErrorIs(t, wrapped, ErrNotFound)
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusCode(NewValidationError("bad")))
	assert.Equal(t, http.StatusNotFound, StatusCode(NewRepositoryError("get", ErrNotFound, "m1", "", nil)))
	assert.Equal(t, http.StatusConflict, StatusCode(NewRepositoryError("create", ErrConflict, "m1", "", nil)))
	assert.Equal(t, http.StatusServiceUnavailable, StatusCode(NewRepositoryError("list", ErrStorageUnavailable, "", "", nil)))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(NewRepositoryError("create", ErrPartialWrite, "m1", "", nil)))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("boom")))
}

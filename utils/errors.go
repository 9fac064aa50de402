package utils

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error kinds surfaced by the repository layer. Callers may retry
// ErrStorageUnavailable but never ErrNotFound.
var (
	ErrNotFound           = errors.New("not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrPartialWrite       = errors.New("partial write")
	ErrConflict           = errors.New("already exists")
)

// RepositoryError records which operation failed on which identity
type RepositoryError struct {
	Op            string
	MatchID       string
	ParticipantID string
	Kind          error
	Err           error
}

func (e *RepositoryError) Error() string {
	msg := e.Summary()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Summary names the operation, the identities and the kind, leaving out the
// underlying cause.
func (e *RepositoryError) Summary() string {
	msg := e.Op
	if e.MatchID != "" {
		msg += " match " + e.MatchID
	}
	if e.ParticipantID != "" {
		msg += " participant " + e.ParticipantID
	}
	return msg + ": " + e.Kind.Error()
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As.
func (e *RepositoryError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewRepositoryError builds a RepositoryError of the given kind
func NewRepositoryError(op string, kind error, matchID, participantID string, err error) *RepositoryError {
	return &RepositoryError{
		Op:            op,
		MatchID:       matchID,
		ParticipantID: participantID,
		Kind:          kind,
		Err:           err,
	}
}

// AppError represents a custom application error
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common error constructors
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

func NewInternalError(message string) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: message,
	}
}

func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// StatusCode maps an error to the HTTP status it should be reported with
func StatusCode(err error) int {
	var appErr *AppError
	switch {
	case errors.As(err, &appErr):
		return appErr.Code
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrPartialWrite):
		return http.StatusInternalServerError
	case errors.Is(err, ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// HandleError sends an appropriate HTTP response for an error
func HandleError(c *gin.Context, err error) {
	code := StatusCode(err)

	var appErr *AppError
	var repoErr *RepositoryError
	switch {
	case errors.As(err, &appErr):
		c.JSON(code, gin.H{"error": appErr.Message})
	case errors.As(err, &repoErr):
		if code >= http.StatusInternalServerError {
			// Driver messages stay in the log
			slog.Error("Repository failure", "op", repoErr.Op, "match_id", repoErr.MatchID,
				"participant_id", repoErr.ParticipantID, "error", err)
			c.JSON(code, gin.H{"error": repoErr.Summary()})
			return
		}
		c.JSON(code, gin.H{"error": repoErr.Error()})
	default:
		slog.Error("Unhandled error", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// HandleSuccess sends a success response
func HandleSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

package models

import (
	"time"
)

// PaymentRequest represents the request body for updating a participant's payment
type PaymentRequest struct {
	Paid       *bool  `json:"paid" binding:"required"`
	ReceiptURL string `json:"receiptUrl"`
}

// ParticipantRequest is one participant entry in a match request
type ParticipantRequest struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	HoursPlayed float64 `json:"hoursPlayed"`
}

// MatchRequest represents the request body for creating or updating a match
type MatchRequest struct {
	CourtCost  float64              `json:"courtCost"`
	TotalHours float64              `json:"totalHours"`
	Date       time.Time            `json:"date" binding:"required"`
	PixKey     string               `json:"pixKey"`
	Players    []ParticipantRequest `json:"players"`
}

// ToMatch converts the request into a match with the given ID. Participants
// without an ID get one assigned by the repository.
func (r *MatchRequest) ToMatch(id string) Match {
	match := Match{
		ID:           id,
		TotalCost:    r.CourtCost,
		TotalWeight:  r.TotalHours,
		OccursAt:     r.Date,
		PayoutKey:    r.PixKey,
		Participants: make([]Participant, 0, len(r.Players)),
	}
	for _, player := range r.Players {
		match.Participants = append(match.Participants, Participant{
			ID:           player.ID,
			Name:         player.Name,
			Contribution: player.HoursPlayed,
		})
	}
	return match
}

// MatchResponse is a match together with its payment progress
type MatchResponse struct {
	Match
	Progress int `json:"progress"`
}

// NewMatchResponse wraps a match for the API
func NewMatchResponse(m Match) MatchResponse {
	return MatchResponse{Match: m, Progress: m.PaymentProgress()}
}

// PendingPayment is one outstanding participant obligation
type PendingPayment struct {
	MatchID       string    `json:"matchId"`
	ParticipantID string    `json:"playerId"`
	PlayerName    string    `json:"playerName"`
	Amount        *float64  `json:"amount,omitempty"`
	MatchDate     time.Time `json:"matchDate"`
	PixKey        string    `json:"pixKey"`
}

// ParticipantOption is an entry in the participant picker
type ParticipantOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

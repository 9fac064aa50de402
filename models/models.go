// models/models.go
package models

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MatchStatus is the settlement state of a match. It is derived from the
// participants' payment flags and never set directly by callers.
type MatchStatus string

const (
	StatusPending  MatchStatus = "pending"
	StatusComplete MatchStatus = "complete"
)

// Participant is one person's stake in a match
type Participant struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Contribution float64    `json:"hoursPlayed"`
	OwedAmount   *float64   `json:"amount,omitempty"`
	Settled      bool       `json:"paid"`
	SettledAt    *time.Time `json:"paymentDate,omitempty"`
	ReceiptRef   string     `json:"receiptUrl,omitempty"`
}

// Match is a shared-cost event whose total cost is split among its
// participants by time played.
type Match struct {
	ID           string        `json:"id"`
	TotalCost    float64       `json:"courtCost"`
	TotalWeight  float64       `json:"totalHours"`
	OccursAt     time.Time     `json:"date"`
	PayoutKey    string        `json:"pixKey"`
	Participants []Participant `json:"players"`
	Status       MatchStatus   `json:"status"`
	CompletedAt  *time.Time    `json:"completionDate,omitempty"`
}

// NewParticipant creates an unpaid participant with a fresh ID.
// A non-positive hours value falls back to one hour.
func NewParticipant(name string, hoursPlayed float64) Participant {
	if hoursPlayed <= 0 {
		hoursPlayed = 1
	}
	return Participant{
		ID:           uuid.New().String(),
		Name:         name,
		Contribution: hoursPlayed,
	}
}

// NewMatch creates an empty pending match scheduled for now
func NewMatch() Match {
	return Match{
		ID:           uuid.New().String(),
		TotalWeight:  1,
		OccursAt:     Timestamp(time.Now()),
		Participants: []Participant{},
		Status:       StatusPending,
	}
}

// Timestamp normalises t to the precision both storage backends keep.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

func timestampPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	ts := Timestamp(*t)
	return &ts
}

// Clone returns a deep copy of the match so callers can mutate it freely.
func (m Match) Clone() Match {
	clone := m
	clone.Participants = make([]Participant, len(m.Participants))
	for i, p := range m.Participants {
		clone.Participants[i] = p.clone()
	}
	clone.CompletedAt = timestampPtr(m.CompletedAt)
	return clone
}

func (p Participant) clone() Participant {
	c := p
	if p.OwedAmount != nil {
		amount := *p.OwedAmount
		c.OwedAmount = &amount
	}
	if p.SettledAt != nil {
		at := *p.SettledAt
		c.SettledAt = &at
	}
	return c
}

// Normalized returns a copy with every timestamp in UTC at millisecond
// precision and a non-nil participants slice.
func (m Match) Normalized() Match {
	n := m.Clone()
	n.OccursAt = Timestamp(m.OccursAt)
	for i := range n.Participants {
		n.Participants[i].SettledAt = timestampPtr(n.Participants[i].SettledAt)
	}
	return n
}

// FindParticipant returns the index of the participant with the given ID, or -1.
func (m Match) FindParticipant(participantID string) int {
	for i, p := range m.Participants {
		if p.ID == participantID {
			return i
		}
	}
	return -1
}

// PaymentProgress returns the percentage of participants that have paid
func (m Match) PaymentProgress() int {
	if len(m.Participants) == 0 {
		return 0
	}
	paid := 0
	for _, p := range m.Participants {
		if p.Settled {
			paid++
		}
	}
	return int(float64(paid)/float64(len(m.Participants))*100 + 0.5)
}

// SortedParticipants lists unpaid participants first, then by name.
func (m Match) SortedParticipants() []Participant {
	sorted := m.Clone().Participants
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Settled != sorted[j].Settled {
			return !sorted[i].Settled
		}
		return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
	})
	return sorted
}

// SortMatches orders matches newest first; ties are broken by ID so every
// backend yields the same sequence.
func SortMatches(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		if !matches[i].OccursAt.Equal(matches[j].OccursAt) {
			return matches[i].OccursAt.After(matches[j].OccursAt)
		}
		return matches[i].ID < matches[j].ID
	})
}

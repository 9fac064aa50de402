package models

import "time"

// MatchFilter selects a subset of matches by settlement state
type MatchFilter string

const (
	FilterAll                 MatchFilter = "all"
	FilterPending             MatchFilter = "pending"
	FilterComplete            MatchFilter = "complete"
	FilterUnpaidByParticipant MatchFilter = "unpaidByParticipant"
)

// Valid reports whether f is one of the known filters. The empty filter
// is treated as FilterAll.
func (f MatchFilter) Valid() bool {
	switch f {
	case "", FilterAll, FilterPending, FilterComplete, FilterUnpaidByParticipant:
		return true
	}
	return false
}

// DeriveStatus re-evaluates the match status from its participants.
//
// A pending match with every participant paid becomes complete and is
// stamped with now; a complete match with any unpaid participant reverts to
// pending and loses its completion time. A match without participants keeps
// whatever status it already had.
func DeriveStatus(m Match, now time.Time) Match {
	out := m.Clone()
	if out.Status == "" {
		out.Status = StatusPending
	}
	if len(out.Participants) == 0 {
		return out
	}

	allPaid := true
	for _, p := range out.Participants {
		if !p.Settled {
			allPaid = false
			break
		}
	}

	switch {
	case allPaid && out.Status == StatusPending:
		completedAt := Timestamp(now)
		out.Status = StatusComplete
		out.CompletedAt = &completedAt
	case !allPaid && out.Status == StatusComplete:
		out.Status = StatusPending
		out.CompletedAt = nil
	}
	return out
}

// ApplyPayment sets the payment flag. Marking a participant paid stamps the
// payment time and keeps the existing receipt unless a new one is given;
// marking unpaid clears both.
func (p *Participant) ApplyPayment(paid bool, receiptRef string, now time.Time) {
	p.Settled = paid
	if !paid {
		p.SettledAt = nil
		p.ReceiptRef = ""
		return
	}
	settledAt := Timestamp(now)
	p.SettledAt = &settledAt
	if receiptRef != "" {
		p.ReceiptRef = receiptRef
	}
}

// MatchesFilter reports whether the match belongs to the filtered set.
// FilterUnpaidByParticipant without a participant ID matches everything.
func (m Match) MatchesFilter(filter MatchFilter, participantID string) bool {
	switch filter {
	case FilterPending:
		return m.Status == StatusPending
	case FilterComplete:
		return m.Status == StatusComplete
	case FilterUnpaidByParticipant:
		if participantID == "" {
			return true
		}
		for _, p := range m.Participants {
			if p.ID == participantID && !p.Settled {
				return true
			}
		}
		return false
	default:
		return true
	}
}

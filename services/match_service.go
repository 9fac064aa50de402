package services

import (
	"context"
	"sort"
	"strings"

	"github.com/fadhlanhapp/courtsplit-backend/models"
	"github.com/fadhlanhapp/courtsplit-backend/repository"
	"github.com/fadhlanhapp/courtsplit-backend/utils"
)

// MatchService coordinates allocation and storage of matches
type MatchService struct {
	repo        repository.MatchRepository
	calculation *CalculationService
	search      *SearchService
}

// NewMatchService creates a new match service on top of repo
func NewMatchService(repo repository.MatchRepository) *MatchService {
	return &MatchService{
		repo:        repo,
		calculation: NewCalculationService(),
		search:      NewSearchService(),
	}
}

// CreateMatch validates the match, allocates its shares and stores it
func (s *MatchService) CreateMatch(ctx context.Context, match models.Match) (*models.Match, error) {
	if err := utils.ValidateMatch(match); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, s.calculation.AllocateShares(match))
}

// UpdateMatch replaces the editable fields of a match and reallocates the
// shares. Payment state of participants that are kept is preserved.
func (s *MatchService) UpdateMatch(ctx context.Context, match models.Match) (*models.Match, error) {
	if err := utils.ValidateMatch(match); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, match.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, utils.NewRepositoryError("update", utils.ErrNotFound, match.ID, "", nil)
	}

	merged := match.Clone()
	for i := range merged.Participants {
		idx := existing.FindParticipant(merged.Participants[i].ID)
		if merged.Participants[i].ID == "" || idx < 0 {
			continue
		}
		prior := existing.Participants[idx]
		merged.Participants[i].Settled = prior.Settled
		merged.Participants[i].SettledAt = prior.SettledAt
		merged.Participants[i].ReceiptRef = prior.ReceiptRef
	}

	return s.repo.Update(ctx, s.calculation.AllocateShares(merged))
}

// GetMatch returns the match or a not found error
func (s *MatchService) GetMatch(ctx context.Context, id string) (*models.Match, error) {
	match, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, utils.NewRepositoryError("get", utils.ErrNotFound, id, "", nil)
	}
	return match, nil
}

// ListMatches returns all matches
func (s *MatchService) ListMatches(ctx context.Context) ([]models.Match, error) {
	return s.repo.List(ctx)
}

// FindMatches applies the status filter in the repository and then narrows
// the result by the search term
func (s *MatchService) FindMatches(ctx context.Context, filter models.MatchFilter, participantID, term string) ([]models.Match, error) {
	if err := utils.ValidateFilter(filter); err != nil {
		return nil, err
	}
	if filter == "" {
		filter = models.FilterAll
	}

	matches, err := s.repo.Query(ctx, filter, participantID)
	if err != nil {
		return nil, err
	}
	return s.search.Search(matches, term), nil
}

// DeleteMatch removes a match
func (s *MatchService) DeleteMatch(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// UpdatePayment marks a participant paid or unpaid
func (s *MatchService) UpdatePayment(ctx context.Context, matchID, participantID string, paid bool, receiptRef string) (*models.Match, error) {
	return s.repo.SetParticipantPayment(ctx, matchID, participantID, paid, strings.TrimSpace(receiptRef))
}

// PendingPayments lists every unpaid participant across all matches,
// oldest match first
func (s *MatchService) PendingPayments(ctx context.Context) ([]models.PendingPayment, error) {
	matches, err := s.repo.Query(ctx, models.FilterPending, "")
	if err != nil {
		return nil, err
	}

	pending := []models.PendingPayment{}
	for _, m := range matches {
		for _, p := range m.Participants {
			if p.Settled {
				continue
			}
			pending = append(pending, models.PendingPayment{
				MatchID:       m.ID,
				ParticipantID: p.ID,
				PlayerName:    utils.DisplayName(p.Name),
				Amount:        p.OwedAmount,
				MatchDate:     m.OccursAt,
				PixKey:        m.PayoutKey,
			})
		}
	}

	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].MatchDate.Before(pending[j].MatchDate)
	})
	return pending, nil
}

// ParticipantOptions returns each named participant once, sorted by name
func (s *MatchService) ParticipantOptions(ctx context.Context) ([]models.ParticipantOption, error) {
	matches, err := s.ListMatches(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	options := []models.ParticipantOption{}
	for _, m := range matches {
		for _, p := range m.Participants {
			if seen[p.ID] || strings.TrimSpace(p.Name) == "" {
				continue
			}
			seen[p.ID] = true
			options = append(options, models.ParticipantOption{ID: p.ID, Name: p.Name})
		}
	}

	sort.SliceStable(options, func(i, j int) bool {
		return strings.ToLower(options[i].Name) < strings.ToLower(options[j].Name)
	})
	return options, nil
}

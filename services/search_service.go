package services

import (
	"strings"

	"github.com/fadhlanhapp/courtsplit-backend/models"
	"github.com/fadhlanhapp/courtsplit-backend/utils"
)

// SearchService narrows match lists by free text
type SearchService struct{}

// NewSearchService creates a new search service
func NewSearchService() *SearchService {
	return &SearchService{}
}

// Search keeps the matches whose event date (dd/mm/yyyy), total cost or any
// participant name contains term, ignoring case. A blank term keeps all.
func (s *SearchService) Search(matches []models.Match, term string) []models.Match {
	term = strings.TrimSpace(term)
	if term == "" {
		return matches
	}

	filtered := make([]models.Match, 0, len(matches))
	for _, m := range matches {
		if s.matches(m, term) {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

func (s *SearchService) matches(m models.Match, term string) bool {
	if utils.ContainsFold(utils.FormatDate(m.OccursAt), term) {
		return true
	}
	if utils.ContainsFold(utils.AmountString(m.TotalCost), term) {
		return true
	}
	for _, p := range m.Participants {
		if utils.ContainsFold(p.Name, term) {
			return true
		}
	}
	return false
}

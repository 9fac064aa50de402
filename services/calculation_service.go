package services

import (
	"github.com/fadhlanhapp/courtsplit-backend/models"
	"github.com/fadhlanhapp/courtsplit-backend/utils"
)

// CalculationService handles cost allocation logic
type CalculationService struct{}

// NewCalculationService creates a new calculation service
func NewCalculationService() *CalculationService {
	return &CalculationService{}
}

// AllocateShares computes how much each participant owes for the match.
//
// Each share is contribution / sum of contributions of the total cost,
// rounded half-up to cents independently, so the shares may differ from the
// total cost by up to half a cent per participant. When the contributions
// add up to zero the match is returned unchanged.
func (s *CalculationService) AllocateShares(match models.Match) models.Match {
	out := match.Clone()

	weightSum := s.weightSum(out.Participants)
	if weightSum == 0 {
		return out
	}

	for i := range out.Participants {
		proportion := out.Participants[i].Contribution / weightSum
		amount := utils.Round(proportion * out.TotalCost)
		out.Participants[i].OwedAmount = &amount
	}

	return out
}

// ShareTotal sums the allocated amounts of the match
func (s *CalculationService) ShareTotal(match models.Match) float64 {
	amounts := make([]float64, 0, len(match.Participants))
	for _, p := range match.Participants {
		if p.OwedAmount != nil {
			amounts = append(amounts, *p.OwedAmount)
		}
	}
	return utils.Sum(amounts...)
}

// weightSum adds up the contributions of all participants
func (s *CalculationService) weightSum(participants []models.Participant) float64 {
	var sum float64
	for _, p := range participants {
		sum += p.Contribution
	}
	return sum
}

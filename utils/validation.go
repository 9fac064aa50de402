package utils

import (
	"fmt"
	"strings"

	"github.com/fadhlanhapp/courtsplit-backend/models"
)

// ValidateRequired checks if a string field is not empty
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return NewValidationError(fmt.Sprintf("%s is required", fieldName))
	}
	return nil
}

// ValidatePositive checks if a number is positive
func ValidatePositive(value float64, fieldName string) error {
	if value <= 0 {
		return NewValidationError(fmt.Sprintf("%s must be positive", fieldName))
	}
	return nil
}

// ValidateNotEmpty checks if a slice is not empty
func ValidateNotEmpty[T any](slice []T, fieldName string) error {
	if len(slice) == 0 {
		return NewValidationError(fmt.Sprintf("%s cannot be empty", fieldName))
	}
	return nil
}

// ValidateMatch checks a match before it is created
func ValidateMatch(m models.Match) error {
	if err := ValidatePositive(m.TotalCost, "court cost"); err != nil {
		return err
	}
	if err := ValidatePositive(m.TotalWeight, "total hours"); err != nil {
		return err
	}
	if err := ValidateRequired(m.PayoutKey, "pix key"); err != nil {
		return err
	}
	if err := ValidateNotEmpty(m.Participants, "players"); err != nil {
		return err
	}

	for i, p := range m.Participants {
		if err := ValidateRequired(p.Name, "player name"); err != nil {
			return NewValidationError(fmt.Sprintf("Player %d: %s", i+1, err.Error()))
		}
		if err := ValidatePositive(p.Contribution, "hours played"); err != nil {
			return NewValidationError(fmt.Sprintf("Player %d: %s", i+1, err.Error()))
		}
		if p.Contribution > m.TotalWeight {
			return NewValidationError(fmt.Sprintf("Player %d: hours played cannot exceed total hours", i+1))
		}
	}

	return nil
}

// ValidateFilter checks the filter name
func ValidateFilter(filter models.MatchFilter) error {
	if !filter.Valid() {
		return NewValidationError(fmt.Sprintf("%s: %q", ErrInvalidFilter, filter))
	}
	return nil
}

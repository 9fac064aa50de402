package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fadhlanhapp/courtsplit-backend/models"
)

func searchFixtures() []models.Match {
	return []models.Match{
		{
			ID:           "m1",
			TotalCost:    150,
			OccursAt:     time.Date(2024, 3, 10, 19, 0, 0, 0, time.UTC),
			Participants: []models.Participant{{Name: "Ana Souza"}, {Name: "Bruno"}},
		},
		{
			ID:           "m2",
			TotalCost:    80.5,
			OccursAt:     time.Date(2024, 4, 2, 8, 0, 0, 0, time.UTC),
			Participants: []models.Participant{{Name: "Carla"}},
		},
	}
}

func ids(matches []models.Match) []string {
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.ID)
	}
	return out
}

func TestSearchService_Search(t *testing.T) {
	service := NewSearchService()
	matches := searchFixtures()

	tests := []struct {
		term string
		want []string
	}{
		{"", []string{"m1", "m2"}},
		{"   ", []string{"m1", "m2"}},
		{"souza", []string{"m1"}},
		{"CARLA", []string{"m2"}},
		{"10/03/2024", []string{"m1"}},
		{"/04/", []string{"m2"}},
		{"80.5", []string{"m2"}},
		{"150", []string{"m1"}},
		{"nobody", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(service.Search(matches, tt.term)))
		})
	}
}

func filterMatches(matches []models.Match, filter models.MatchFilter) []models.Match {
	out := []models.Match{}
	for _, m := range matches {
		if m.MatchesFilter(filter, "") {
			out = append(out, m)
		}
	}
	return out
}

func TestSearchService_Search_CommutesWithStatusFilter(t *testing.T) {
	service := NewSearchService()

	matches := searchFixtures()
	matches[0].Status = models.StatusComplete
	matches[1].Status = models.StatusPending
	matches = append(matches, models.Match{
		ID:           "m3",
		TotalCost:    150,
		OccursAt:     time.Date(2024, 3, 17, 19, 0, 0, 0, time.UTC),
		Participants: []models.Participant{{Name: "Ana Lima"}},
		Status:       models.StatusPending,
	})

	for _, filter := range []models.MatchFilter{models.FilterAll, models.FilterPending, models.FilterComplete} {
		for _, term := range []string{"", "ana", "150", "/03/2024", "carla"} {
			t.Run(string(filter)+"_"+term, func(t *testing.T) {
				filteredFirst := service.Search(filterMatches(matches, filter), term)
				searchedFirst := filterMatches(service.Search(matches, term), filter)

				assert.Equal(t, ids(searchedFirst), ids(filteredFirst))
			})
		}
	}
}

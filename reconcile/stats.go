package reconcile

import (
	"math"
	"time"

	"github.com/Aidana07/volunteer-hub/models"
)

// ComputeStats derives the per-volunteer summary from an already reconciled
// participation list and the evaluations the user has received. A single
// pass over each input; empty inputs give zero values.
func ComputeStats(
	participations []Participation,
	evaluations []models.Evaluation,
	now time.Time,
) models.VolunteerStats {
	stats := models.VolunteerStats{
		TotalParticipations: len(participations),
	}

	categoryCounts := make(map[string]int)
	categoryOrder := make([]string, 0)

	for _, p := range participations {
		if p.Event == nil {
			continue
		}
		if p.Event.InPast(now) {
			stats.CompletedEvents++
		} else if p.active() {
			stats.ActiveParticipations++
		}
		category := p.Event.Category
		if category == "" {
			continue
		}
		if _, seen := categoryCounts[category]; !seen {
			categoryOrder = append(categoryOrder, category)
		}
		categoryCounts[category]++
	}

	// Ties resolve to the category seen first during aggregation.
	bestCount := 0
	for _, category := range categoryOrder {
		if categoryCounts[category] > bestCount {
			bestCount = categoryCounts[category]
			stats.FavoriteCategory = category
		}
	}

	if len(evaluations) > 0 {
		sum := 0
		for _, e := range evaluations {
			sum += e.Rating
		}
		average := float64(sum) / float64(len(evaluations))
		stats.AverageRating = math.Round(average*10) / 10
	}

	return stats
}

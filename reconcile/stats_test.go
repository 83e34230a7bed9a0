package reconcile

import (
	"testing"

	"github.com/Aidana07/volunteer-hub/models"
	"github.com/stretchr/testify/assert"
)

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil, nil, testNow)

	assert.Equal(t, 0, stats.TotalParticipations)
	assert.Equal(t, 0, stats.ActiveParticipations)
	assert.Equal(t, 0, stats.CompletedEvents)
	assert.Equal(t, 0.0, stats.AverageRating)
	assert.Equal(t, "", stats.FavoriteCategory)
}

func TestComputeStatsActiveAndCompleted(t *testing.T) {
	participations := []Participation{
		{Status: "active", Event: futureEvent(1, "education")},
		{Status: "inactive", Event: futureEvent(2, "education")},
		{Status: "active", Event: pastEvent(3, "sports")},
		{Status: "inactive", Event: pastEvent(4, "sports")},
	}

	stats := ComputeStats(participations, nil, testNow)

	assert.Equal(t, 4, stats.TotalParticipations)
	assert.Equal(t, 1, stats.ActiveParticipations, "only active on a non-past event counts")
	assert.Equal(t, 2, stats.CompletedEvents, "past events count regardless of status")
}

func TestComputeStatsDirectRegistrationCountsAsActive(t *testing.T) {
	participations := []Participation{
		{Source: SourceDirect, Status: "confirmed", Event: futureEvent(1, "education")},
		{Source: SourceDirect, Status: "pending", Event: futureEvent(2, "sports")},
		{Source: SourceDirect, Status: "cancelled", Event: futureEvent(3, "health")},
	}

	stats := ComputeStats(participations, nil, testNow)

	assert.Equal(t, 3, stats.TotalParticipations)
	assert.Equal(t, 2, stats.ActiveParticipations, "pending and confirmed registrations are active, cancelled is not")
}

func TestComputeStatsAverageRatingRounded(t *testing.T) {
	evaluations := []models.Evaluation{
		{Rating: 4},
		{Rating: 5},
		{Rating: 3},
	}

	stats := ComputeStats(nil, evaluations, testNow)
	assert.Equal(t, 4.0, stats.AverageRating)

	stats = ComputeStats(nil, []models.Evaluation{{Rating: 4}, {Rating: 5}, {Rating: 5}}, testNow)
	assert.Equal(t, 4.7, stats.AverageRating, "rounded to one decimal place")
}

func TestComputeStatsFavoriteCategory(t *testing.T) {
	participations := []Participation{
		{Status: "active", Event: futureEvent(1, "education")},
		{Status: "active", Event: futureEvent(2, "sports")},
		{Status: "active", Event: futureEvent(3, "education")},
	}

	stats := ComputeStats(participations, nil, testNow)
	assert.Equal(t, "education", stats.FavoriteCategory)
}

func TestComputeStatsFavoriteCategoryTieBreaksFirstSeen(t *testing.T) {
	participations := []Participation{
		{Status: "active", Event: futureEvent(1, "sports")},
		{Status: "active", Event: futureEvent(2, "education")},
		{Status: "active", Event: futureEvent(3, "education")},
		{Status: "active", Event: futureEvent(4, "sports")},
	}

	stats := ComputeStats(participations, nil, testNow)
	assert.Equal(t, "sports", stats.FavoriteCategory)
}

func TestComputeStatsSkipsEmptyCategory(t *testing.T) {
	participations := []Participation{
		{Status: "active", Event: futureEvent(1, "")},
		{Status: "active", Event: futureEvent(2, "health")},
	}

	stats := ComputeStats(participations, nil, testNow)
	assert.Equal(t, "health", stats.FavoriteCategory)
}

package reconcile

import (
	"testing"
	"time"

	"github.com/Aidana07/volunteer-hub/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func futureEvent(id int, category string) *models.Event {
	date := testNow.AddDate(0, 0, 7)
	return &models.Event{ID: id, Title: "Event", Category: category, Date: &date, Status: models.EventStatusPublished}
}

func pastEvent(id int, category string) *models.Event {
	date := testNow.AddDate(0, 0, -7)
	return &models.Event{ID: id, Title: "Event", Category: category, Date: &date, Status: models.EventStatusCompleted}
}

func membership(id int, team *models.Team, role models.MembershipRole, status models.MembershipStatus) models.TeamMembership {
	return models.TeamMembership{ID: id, TeamID: team.ID, UserID: 1, Role: role, Status: status, Team: team}
}

func teamFor(id int, event *models.Event, name string) *models.Team {
	return &models.Team{ID: id, EventID: event.ID, Name: name, Event: event}
}

func TestMergeEmptyInputs(t *testing.T) {
	result := Merge(nil, nil, nil, testNow)
	assert.Empty(t, result)
}

func TestMergeSingleSources(t *testing.T) {
	event := futureEvent(10, "environment")

	t.Run("team membership", func(t *testing.T) {
		team := teamFor(1, event, "Green Crew")
		result := Merge([]models.TeamMembership{
			membership(100, team, models.MembershipRoleVolunteer, models.MembershipStatusActive),
		}, nil, nil, testNow)

		require.Len(t, result, 1)
		assert.Equal(t, SourceTeamMember, result[0].Source)
		assert.Equal(t, 100, result[0].SourceID)
		assert.True(t, result[0].CanLeave)
	})

	t.Run("captained team", func(t *testing.T) {
		team := *teamFor(2, event, "Leaders")
		result := Merge(nil, []models.Team{team}, nil, testNow)

		require.Len(t, result, 1)
		assert.Equal(t, SourceCaptain, result[0].Source)
		assert.Equal(t, string(models.MembershipStatusActive), result[0].Status)
	})

	t.Run("direct registration", func(t *testing.T) {
		result := Merge(nil, nil, []models.Registration{
			{ID: 300, EventID: event.ID, Status: models.RegistrationStatusPending, Event: event},
		}, testNow)

		require.Len(t, result, 1)
		assert.Equal(t, SourceDirect, result[0].Source)
		require.NotNil(t, result[0].Team)
		assert.Equal(t, DirectTeamName, result[0].Team.Name)
		assert.True(t, result[0].CanLeave)
	})
}

func TestMergeNoDuplicatesPerEvent(t *testing.T) {
	event := futureEvent(10, "education")
	team := teamFor(1, event, "Tutors")

	result := Merge(
		[]models.TeamMembership{
			membership(100, team, models.MembershipRoleVolunteer, models.MembershipStatusActive),
		},
		nil,
		[]models.Registration{
			{ID: 300, EventID: event.ID, Status: models.RegistrationStatusConfirmed, Event: event},
		},
		testNow,
	)

	require.Len(t, result, 1)
	assert.Equal(t, SourceTeamMember, result[0].Source, "real team membership outranks a direct registration")
}

func TestMergeCaptainOutranksAll(t *testing.T) {
	event := futureEvent(10, "sports")
	team := teamFor(1, event, "Marshals")

	result := Merge(
		[]models.TeamMembership{
			membership(100, team, models.MembershipRoleVolunteer, models.MembershipStatusActive),
		},
		[]models.Team{*team},
		[]models.Registration{
			{ID: 300, EventID: event.ID, Status: models.RegistrationStatusConfirmed, Event: event},
		},
		testNow,
	)

	require.Len(t, result, 1)
	assert.Equal(t, SourceCaptain, result[0].Source)
}

func TestMergePlaceholderTeamRanksAsDirect(t *testing.T) {
	event := futureEvent(10, "community")
	placeholder := teamFor(1, event, DirectTeamName)

	// Membership on the synthetic team must not outrank the registration
	// row it mirrors.
	result := Merge(
		[]models.TeamMembership{
			membership(100, placeholder, models.MembershipRoleVolunteer, models.MembershipStatusInactive),
		},
		nil,
		[]models.Registration{
			{ID: 300, EventID: event.ID, Status: models.RegistrationStatusConfirmed, Event: event},
		},
		testNow,
	)

	require.Len(t, result, 1)
	assert.Equal(t, SourceDirect, result[0].Source, "active registration beats inactive placeholder membership")
}

func TestMergeActiveBeatsInactiveAtEqualRank(t *testing.T) {
	event := futureEvent(10, "health")
	oldTeam := teamFor(1, event, "First Shift")
	newTeam := teamFor(2, event, "Second Shift")

	result := Merge(
		[]models.TeamMembership{
			membership(100, oldTeam, models.MembershipRoleVolunteer, models.MembershipStatusInactive),
			membership(101, newTeam, models.MembershipRoleVolunteer, models.MembershipStatusActive),
		},
		nil, nil, testNow,
	)

	require.Len(t, result, 1)
	assert.Equal(t, 101, result[0].SourceID)
	assert.Equal(t, "Second Shift", result[0].Team.Name)
}

func TestMergeEqualRankKeepsFirstSeen(t *testing.T) {
	event := futureEvent(10, "animals")
	teamA := teamFor(1, event, "Alpha")
	teamB := teamFor(2, event, "Beta")

	result := Merge(
		[]models.TeamMembership{
			membership(100, teamA, models.MembershipRoleVolunteer, models.MembershipStatusActive),
			membership(101, teamB, models.MembershipRoleVolunteer, models.MembershipStatusActive),
		},
		nil, nil, testNow,
	)

	require.Len(t, result, 1)
	assert.Equal(t, 100, result[0].SourceID)
}

func TestMergeDropsRecordsWithoutEvent(t *testing.T) {
	event := futureEvent(10, "environment")
	orphanTeam := &models.Team{ID: 1, Name: "Orphans"} // no event attached

	result := Merge(
		[]models.TeamMembership{
			membership(100, orphanTeam, models.MembershipRoleVolunteer, models.MembershipStatusActive),
			{ID: 101, TeamID: 2, UserID: 1, Role: models.MembershipRoleVolunteer, Status: models.MembershipStatusActive}, // no team at all
		},
		[]models.Team{{ID: 3, Name: "Ghost"}},
		[]models.Registration{
			{ID: 300, EventID: 99, Status: models.RegistrationStatusConfirmed}, // event missing
			{ID: 301, EventID: event.ID, Status: models.RegistrationStatusConfirmed, Event: event},
		},
		testNow,
	)

	require.Len(t, result, 1)
	assert.Equal(t, 301, result[0].SourceID)
}

func TestMergePreservesEventOrder(t *testing.T) {
	first := futureEvent(10, "education")
	second := futureEvent(20, "sports")
	third := futureEvent(30, "health")

	result := Merge(
		[]models.TeamMembership{
			membership(100, teamFor(1, first, "A"), models.MembershipRoleVolunteer, models.MembershipStatusActive),
			membership(101, teamFor(2, second, "B"), models.MembershipRoleVolunteer, models.MembershipStatusActive),
		},
		nil,
		[]models.Registration{
			{ID: 300, EventID: third.ID, Status: models.RegistrationStatusPending, Event: third},
		},
		testNow,
	)

	require.Len(t, result, 3)
	assert.Equal(t, 10, result[0].Event.ID)
	assert.Equal(t, 20, result[1].Event.ID)
	assert.Equal(t, 30, result[2].Event.ID)
}

func TestMergeCanLeaveRules(t *testing.T) {
	past := pastEvent(10, "education")
	future := futureEvent(20, "education")

	result := Merge(
		[]models.TeamMembership{
			membership(100, teamFor(1, past, "Done"), models.MembershipRoleVolunteer, models.MembershipStatusActive),
			membership(101, teamFor(2, future, "Soon"), models.MembershipRoleVolunteer, models.MembershipStatusInactive),
		},
		nil,
		[]models.Registration{
			{ID: 300, EventID: 30, Status: models.RegistrationStatusCancelled, Event: futureEvent(30, "sports")},
		},
		testNow,
	)

	require.Len(t, result, 3)
	for _, p := range result {
		assert.False(t, p.CanLeave, "past event, inactive membership and cancelled registration are all locked")
	}
}

func TestMergeEventWithoutDateIsNotPast(t *testing.T) {
	event := &models.Event{ID: 10, Title: "Undated", Category: "misc", Status: models.EventStatusPublished}

	result := Merge(nil, nil, []models.Registration{
		{ID: 300, EventID: event.ID, Status: models.RegistrationStatusConfirmed, Event: event},
	}, testNow)

	require.Len(t, result, 1)
	assert.True(t, result[0].CanLeave)
}

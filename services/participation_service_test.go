package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Aidana07/volunteer-hub/models"
	"github.com/Aidana07/volunteer-hub/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestParticipationService(
	memberships *fakeMembershipRepo,
	teams *fakeTeamRepo,
	registrations *fakeRegistrationRepo,
	evaluations *fakeEvaluationRepo,
) *participationService {
	svc := NewParticipationService(memberships, teams, registrations, evaluations, discardLogger()).(*participationService)
	svc.now = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func testEventOn(id int, daysFromNow int, category string) *models.Event {
	date := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC).AddDate(0, 0, daysFromNow)
	return &models.Event{ID: id, Title: "Event", Category: category, Date: &date, Status: models.EventStatusPublished}
}

func TestGetParticipationViewMergesAllSources(t *testing.T) {
	memberEvent := testEventOn(1, 7, "education")
	captainEvent := testEventOn(2, 7, "sports")
	directEvent := testEventOn(3, 7, "health")

	memberships := &fakeMembershipRepo{
		listByUserFn: func(ctx context.Context, userID int, status *models.MembershipStatus) ([]models.TeamMembership, error) {
			assert.Nil(t, status, "memberships load unfiltered; the merge ranks inactive ones")
			return []models.TeamMembership{
				{ID: 100, TeamID: 1, UserID: userID, Role: models.MembershipRoleVolunteer,
					Status: models.MembershipStatusActive,
					Team:   &models.Team{ID: 1, EventID: memberEvent.ID, Name: "Tutors", Event: memberEvent}},
			}, nil
		},
	}
	teams := &fakeTeamRepo{
		listCaptainedByUserFn: func(ctx context.Context, userID int) ([]models.Team, error) {
			return []models.Team{
				{ID: 2, EventID: captainEvent.ID, Name: "Marshals", CaptainID: userID, Event: captainEvent},
			}, nil
		},
	}
	registrations := &fakeRegistrationRepo{
		listByUserAndStatusesFn: func(ctx context.Context, userID int, statuses []models.RegistrationStatus) ([]models.Registration, error) {
			assert.ElementsMatch(t, []models.RegistrationStatus{
				models.RegistrationStatusPending, models.RegistrationStatusConfirmed,
			}, statuses)
			return []models.Registration{
				{ID: 300, EventID: directEvent.ID, UserID: userID,
					Status: models.RegistrationStatusConfirmed, Event: directEvent},
			}, nil
		},
	}
	evaluations := &fakeEvaluationRepo{
		listReceivedByUserFn: func(ctx context.Context, volunteerID int) ([]models.Evaluation, error) {
			return []models.Evaluation{{Rating: 4}, {Rating: 5}, {Rating: 3}}, nil
		},
	}

	svc := newTestParticipationService(memberships, teams, registrations, evaluations)

	view, err := svc.GetParticipationView(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, view.Participations, 3)
	assert.Empty(t, view.Warnings)

	sources := make([]reconcile.Source, 0, 3)
	for _, p := range view.Participations {
		sources = append(sources, p.Source)
	}
	assert.ElementsMatch(t, []reconcile.Source{
		reconcile.SourceTeamMember, reconcile.SourceCaptain, reconcile.SourceDirect,
	}, sources)

	assert.Equal(t, 3, view.Stats.TotalParticipations)
	assert.Equal(t, 3, view.Stats.ActiveParticipations)
	assert.Equal(t, 4.0, view.Stats.AverageRating)
	assert.Len(t, view.Evaluations, 3)
}

func TestGetParticipationViewIncludesLeftTeams(t *testing.T) {
	finishedEvent := testEventOn(1, -7, "education")
	team := &models.Team{ID: 1, EventID: finishedEvent.ID, Name: "Tutors", Event: finishedEvent}

	memberships := &fakeMembershipRepo{
		listByUserFn: func(ctx context.Context, userID int, status *models.MembershipStatus) ([]models.TeamMembership, error) {
			return []models.TeamMembership{
				{ID: 100, TeamID: 1, UserID: userID, Role: models.MembershipRoleVolunteer,
					Status: models.MembershipStatusInactive, Team: team},
			}, nil
		},
	}

	svc := newTestParticipationService(memberships, &fakeTeamRepo{}, &fakeRegistrationRepo{}, &fakeEvaluationRepo{})

	view, err := svc.GetParticipationView(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, view.Participations, 1, "a team the user left still appears in the history")
	assert.False(t, view.Participations[0].CanLeave)
	assert.Equal(t, 1, view.Stats.CompletedEvents)
	assert.Equal(t, 0, view.Stats.ActiveParticipations)
}

func TestGetParticipationViewPartialSourceFailure(t *testing.T) {
	directEvent := testEventOn(3, 7, "health")

	memberships := &fakeMembershipRepo{
		listByUserFn: func(ctx context.Context, userID int, status *models.MembershipStatus) ([]models.TeamMembership, error) {
			return nil, errors.New("connection reset")
		},
	}
	registrations := &fakeRegistrationRepo{
		listByUserAndStatusesFn: func(ctx context.Context, userID int, statuses []models.RegistrationStatus) ([]models.Registration, error) {
			return []models.Registration{
				{ID: 300, EventID: directEvent.ID, UserID: userID,
					Status: models.RegistrationStatusConfirmed, Event: directEvent},
			}, nil
		},
	}

	svc := newTestParticipationService(memberships, &fakeTeamRepo{}, registrations, &fakeEvaluationRepo{})

	view, err := svc.GetParticipationView(context.Background(), 1)
	require.NoError(t, err, "one broken source must not fail the view")
	require.Len(t, view.Participations, 1)
	assert.Equal(t, reconcile.SourceDirect, view.Participations[0].Source)

	require.Len(t, view.Warnings, 1)
	assert.Contains(t, view.Warnings[0], "team memberships")
}

func TestGetParticipationViewAllSourcesFail(t *testing.T) {
	boom := errors.New("database down")

	memberships := &fakeMembershipRepo{
		listByUserFn: func(ctx context.Context, userID int, status *models.MembershipStatus) ([]models.TeamMembership, error) {
			return nil, boom
		},
	}
	teams := &fakeTeamRepo{
		listCaptainedByUserFn: func(ctx context.Context, userID int) ([]models.Team, error) {
			return nil, boom
		},
	}
	registrations := &fakeRegistrationRepo{
		listByUserAndStatusesFn: func(ctx context.Context, userID int, statuses []models.RegistrationStatus) ([]models.Registration, error) {
			return nil, boom
		},
	}
	evaluations := &fakeEvaluationRepo{
		listReceivedByUserFn: func(ctx context.Context, volunteerID int) ([]models.Evaluation, error) {
			return nil, boom
		},
	}

	svc := newTestParticipationService(memberships, teams, registrations, evaluations)

	view, err := svc.GetParticipationView(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, view.Participations)
	assert.Len(t, view.Warnings, 4)
	assert.Equal(t, 0, view.Stats.TotalParticipations)
	assert.NotNil(t, view.Evaluations, "evaluations serialize as [], not null")
}

func TestGetParticipationViewDuplicateAcrossSources(t *testing.T) {
	event := testEventOn(1, 7, "education")
	team := &models.Team{ID: 1, EventID: event.ID, Name: "Tutors", Event: event}

	memberships := &fakeMembershipRepo{
		listByUserFn: func(ctx context.Context, userID int, status *models.MembershipStatus) ([]models.TeamMembership, error) {
			return []models.TeamMembership{
				{ID: 100, TeamID: 1, UserID: userID, Role: models.MembershipRoleVolunteer,
					Status: models.MembershipStatusActive, Team: team},
			}, nil
		},
	}
	registrations := &fakeRegistrationRepo{
		listByUserAndStatusesFn: func(ctx context.Context, userID int, statuses []models.RegistrationStatus) ([]models.Registration, error) {
			return []models.Registration{
				{ID: 300, EventID: event.ID, UserID: userID,
					Status: models.RegistrationStatusConfirmed, Event: event},
			}, nil
		},
	}

	svc := newTestParticipationService(memberships, &fakeTeamRepo{}, registrations, &fakeEvaluationRepo{})

	view, err := svc.GetParticipationView(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, view.Participations, 1, "same event from two sources collapses to one record")
	assert.Equal(t, reconcile.SourceTeamMember, view.Participations[0].Source)
}

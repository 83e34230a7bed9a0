package services

import (
	"context"
	"testing"
	"time"

	"github.com/Aidana07/volunteer-hub/models"
	"github.com/Aidana07/volunteer-hub/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTeam() *models.Team {
	return &models.Team{ID: 1, EventID: 5, Name: "Tutors", CaptainID: testCaptainID, MaxMembers: 3}
}

func newTestTeamService(
	teams *fakeTeamRepo,
	memberships *fakeMembershipRepo,
	registrations *fakeRegistrationRepo,
	notifier *fakeNotifier,
) TeamService {
	return NewTeamService(teams, memberships, &fakeEventRepo{}, registrations, &fakeUserRepo{}, notifier, discardLogger())
}

func TestAddMemberCaptainOnly(t *testing.T) {
	teams := &fakeTeamRepo{
		getByIDFn: func(ctx context.Context, id int) (*models.Team, error) { return testTeam(), nil },
	}
	svc := newTestTeamService(teams, &fakeMembershipRepo{}, &fakeRegistrationRepo{}, &fakeNotifier{})

	err := svc.AddMember(context.Background(), 1, testVolunteerID, 99)
	assert.ErrorIs(t, err, ErrCaptainActionForbidden)
}

func TestAddMemberTeamFull(t *testing.T) {
	teams := &fakeTeamRepo{
		getByIDFn: func(ctx context.Context, id int) (*models.Team, error) { return testTeam(), nil },
	}
	memberships := &fakeMembershipRepo{
		countActiveByTeamFn: func(ctx context.Context, teamID int) (int, error) { return 3, nil },
	}
	svc := newTestTeamService(teams, memberships, &fakeRegistrationRepo{}, &fakeNotifier{})

	err := svc.AddMember(context.Background(), 1, testVolunteerID, testCaptainID)
	assert.ErrorIs(t, err, ErrTeamFull)
}

func TestAddMemberDuplicate(t *testing.T) {
	teams := &fakeTeamRepo{
		getByIDFn: func(ctx context.Context, id int) (*models.Team, error) { return testTeam(), nil },
	}
	memberships := &fakeMembershipRepo{
		createFn: func(ctx context.Context, m *models.TeamMembership) error {
			return repositories.ErrMembershipConflict
		},
	}
	svc := newTestTeamService(teams, memberships, &fakeRegistrationRepo{}, &fakeNotifier{})

	err := svc.AddMember(context.Background(), 1, testVolunteerID, testCaptainID)
	assert.ErrorIs(t, err, ErrAlreadyOnTeam)
}

func TestAddMemberHappyPath(t *testing.T) {
	teams := &fakeTeamRepo{
		getByIDFn: func(ctx context.Context, id int) (*models.Team, error) { return testTeam(), nil },
	}
	var created *models.TeamMembership
	memberships := &fakeMembershipRepo{
		createFn: func(ctx context.Context, m *models.TeamMembership) error {
			m.ID = 100
			created = m
			return nil
		},
	}
	notifier := &fakeNotifier{}
	svc := newTestTeamService(teams, memberships, &fakeRegistrationRepo{}, notifier)

	err := svc.AddMember(context.Background(), 1, testVolunteerID, testCaptainID)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, models.MembershipRoleVolunteer, created.Role)
	assert.Equal(t, models.MembershipStatusActive, created.Status)
	assert.Equal(t, []int{testVolunteerID}, notifier.notified)
}

func TestAddMemberConfirmsPendingRegistration(t *testing.T) {
	teams := &fakeTeamRepo{
		getByIDFn: func(ctx context.Context, id int) (*models.Team, error) { return testTeam(), nil },
	}
	memberships := &fakeMembershipRepo{
		createFn: func(ctx context.Context, m *models.TeamMembership) error { return nil },
	}
	var confirmedID int
	registrations := &fakeRegistrationRepo{
		findByUserAndEventFn: func(ctx context.Context, userID, eventID int) (*models.Registration, error) {
			return &models.Registration{ID: 77, UserID: userID, EventID: eventID,
				Status: models.RegistrationStatusPending}, nil
		},
		updateStatusFn: func(ctx context.Context, id int, status models.RegistrationStatus) error {
			if status == models.RegistrationStatusConfirmed {
				confirmedID = id
			}
			return nil
		},
	}
	svc := newTestTeamService(teams, memberships, registrations, &fakeNotifier{})

	err := svc.AddMember(context.Background(), 1, testVolunteerID, testCaptainID)
	require.NoError(t, err)
	assert.Equal(t, 77, confirmedID, "pending registration for the same event is confirmed")
}

func TestRemoveMemberCannotTargetCaptain(t *testing.T) {
	teams := &fakeTeamRepo{
		getByIDFn: func(ctx context.Context, id int) (*models.Team, error) { return testTeam(), nil },
	}
	svc := newTestTeamService(teams, &fakeMembershipRepo{}, &fakeRegistrationRepo{}, &fakeNotifier{})

	err := svc.RemoveMember(context.Background(), 1, testCaptainID, testCaptainID)
	assert.ErrorIs(t, err, ErrForbiddenOperation)
}

func TestRemoveMemberMarksRemoved(t *testing.T) {
	teams := &fakeTeamRepo{
		getByIDFn: func(ctx context.Context, id int) (*models.Team, error) { return testTeam(), nil },
	}
	var gotStatus models.MembershipStatus
	var gotLeftAt *time.Time
	memberships := &fakeMembershipRepo{
		findActiveFn: func(ctx context.Context, userID, teamID int) (*models.TeamMembership, error) {
			return &models.TeamMembership{ID: 100, TeamID: teamID, UserID: userID,
				Role: models.MembershipRoleVolunteer, Status: models.MembershipStatusActive}, nil
		},
		updateStatusFn: func(ctx context.Context, id int, status models.MembershipStatus, leftAt *time.Time) error {
			gotStatus = status
			gotLeftAt = leftAt
			return nil
		},
	}
	svc := newTestTeamService(teams, memberships, &fakeRegistrationRepo{}, &fakeNotifier{})

	err := svc.RemoveMember(context.Background(), 1, testVolunteerID, testCaptainID)
	require.NoError(t, err)
	assert.Equal(t, models.MembershipStatusRemoved, gotStatus)
	assert.NotNil(t, gotLeftAt, "removal stamps left_at")
}

func TestLeaveTeamRules(t *testing.T) {
	activeMembership := func(role models.MembershipRole, status models.MembershipStatus) *fakeMembershipRepo {
		return &fakeMembershipRepo{
			getByIDFn: func(ctx context.Context, id int) (*models.TeamMembership, error) {
				return &models.TeamMembership{ID: id, TeamID: 1, UserID: testVolunteerID, Role: role, Status: status}, nil
			},
		}
	}

	t.Run("only the member themselves", func(t *testing.T) {
		svc := newTestTeamService(&fakeTeamRepo{},
			activeMembership(models.MembershipRoleVolunteer, models.MembershipStatusActive),
			&fakeRegistrationRepo{}, &fakeNotifier{})

		err := svc.LeaveTeam(context.Background(), 100, 99)
		assert.ErrorIs(t, err, ErrSelfLeaveForbidden)
	})

	t.Run("captain cannot leave", func(t *testing.T) {
		svc := newTestTeamService(&fakeTeamRepo{},
			activeMembership(models.MembershipRoleCaptain, models.MembershipStatusActive),
			&fakeRegistrationRepo{}, &fakeNotifier{})

		err := svc.LeaveTeam(context.Background(), 100, testVolunteerID)
		assert.ErrorIs(t, err, ErrForbiddenOperation)
	})

	t.Run("inactive membership cannot leave again", func(t *testing.T) {
		svc := newTestTeamService(&fakeTeamRepo{},
			activeMembership(models.MembershipRoleVolunteer, models.MembershipStatusInactive),
			&fakeRegistrationRepo{}, &fakeNotifier{})

		err := svc.LeaveTeam(context.Background(), 100, testVolunteerID)
		assert.ErrorIs(t, err, ErrMembershipNotActive)
	})

	t.Run("active member leaves", func(t *testing.T) {
		memberships := activeMembership(models.MembershipRoleVolunteer, models.MembershipStatusActive)
		var gotStatus models.MembershipStatus
		memberships.updateStatusFn = func(ctx context.Context, id int, status models.MembershipStatus, leftAt *time.Time) error {
			gotStatus = status
			return nil
		}
		svc := newTestTeamService(&fakeTeamRepo{}, memberships, &fakeRegistrationRepo{}, &fakeNotifier{})

		err := svc.LeaveTeam(context.Background(), 100, testVolunteerID)
		require.NoError(t, err)
		assert.Equal(t, models.MembershipStatusInactive, gotStatus)
	})
}

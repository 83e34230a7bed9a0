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

func newTestInviteService(invites *fakeInviteRepo, teams *fakeTeamRepo, memberships *fakeMembershipRepo) InviteService {
	return NewInviteService(invites, teams, memberships, nil, discardLogger())
}

func captainedTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{
		getByIDFn: func(ctx context.Context, id int) (*models.Team, error) { return testTeam(), nil },
	}
}

func TestCreateInviteCaptainOnly(t *testing.T) {
	svc := newTestInviteService(&fakeInviteRepo{}, captainedTeamRepo(), &fakeMembershipRepo{})

	_, err := svc.CreateInvite(context.Background(), 1, testVolunteerID)
	assert.ErrorIs(t, err, ErrCaptainActionForbidden)
}

func TestCreateInviteSetsTokenAndExpiry(t *testing.T) {
	var stored *models.Invite
	invites := &fakeInviteRepo{
		createFn: func(ctx context.Context, invite *models.Invite) error {
			invite.ID = 42
			stored = invite
			return nil
		},
	}
	svc := newTestInviteService(invites, captainedTeamRepo(), &fakeMembershipRepo{})

	invite, err := svc.CreateInvite(context.Background(), 1, testCaptainID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 42, invite.ID)
	assert.Len(t, invite.Token, inviteTokenLength*2, "token is hex encoded")
	assert.WithinDuration(t, time.Now().Add(inviteDuration), invite.ExpiresAt, time.Minute)
}

func TestCreateInviteRetriesOnTokenConflict(t *testing.T) {
	attempts := 0
	invites := &fakeInviteRepo{
		createFn: func(ctx context.Context, invite *models.Invite) error {
			attempts++
			if attempts == 1 {
				return repositories.ErrInviteTokenConflict
			}
			return nil
		},
	}
	svc := newTestInviteService(invites, captainedTeamRepo(), &fakeMembershipRepo{})

	_, err := svc.CreateInvite(context.Background(), 1, testCaptainID)
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestGetInviteByTokenExpired(t *testing.T) {
	invites := &fakeInviteRepo{
		getByTokenFn: func(ctx context.Context, token string) (*models.Invite, error) {
			return &models.Invite{ID: 1, TeamID: 1, Token: token,
				ExpiresAt: time.Now().Add(-time.Hour)}, nil
		},
	}
	svc := newTestInviteService(invites, captainedTeamRepo(), &fakeMembershipRepo{})

	_, err := svc.GetInviteByToken(context.Background(), "stale")
	assert.ErrorIs(t, err, ErrInviteExpired)
}

func TestAcceptInvite(t *testing.T) {
	validInviteRepo := func() *fakeInviteRepo {
		return &fakeInviteRepo{
			getByTokenFn: func(ctx context.Context, token string) (*models.Invite, error) {
				return &models.Invite{ID: 1, TeamID: 1, Token: token,
					ExpiresAt: time.Now().Add(time.Hour)}, nil
			},
		}
	}

	t.Run("unknown token", func(t *testing.T) {
		svc := newTestInviteService(&fakeInviteRepo{}, captainedTeamRepo(), &fakeMembershipRepo{})

		_, err := svc.AcceptInvite(context.Background(), "missing", testVolunteerID)
		assert.ErrorIs(t, err, ErrInviteNotFound)
	})

	t.Run("team at capacity", func(t *testing.T) {
		memberships := &fakeMembershipRepo{
			countActiveByTeamFn: func(ctx context.Context, teamID int) (int, error) { return 3, nil },
		}
		svc := newTestInviteService(validInviteRepo(), captainedTeamRepo(), memberships)

		_, err := svc.AcceptInvite(context.Background(), "tok", testVolunteerID)
		assert.ErrorIs(t, err, ErrTeamFull)
	})

	t.Run("already a member", func(t *testing.T) {
		memberships := &fakeMembershipRepo{
			createFn: func(ctx context.Context, m *models.TeamMembership) error {
				return repositories.ErrMembershipConflict
			},
		}
		svc := newTestInviteService(validInviteRepo(), captainedTeamRepo(), memberships)

		_, err := svc.AcceptInvite(context.Background(), "tok", testVolunteerID)
		assert.ErrorIs(t, err, ErrAlreadyOnTeam)
	})

	t.Run("joins and consumes the invite", func(t *testing.T) {
		var created *models.TeamMembership
		memberships := &fakeMembershipRepo{
			createFn: func(ctx context.Context, m *models.TeamMembership) error {
				created = m
				return nil
			},
		}
		invites := validInviteRepo()
		var deletedID int
		invites.deleteFn = func(ctx context.Context, id int) error {
			deletedID = id
			return nil
		}
		svc := newTestInviteService(invites, captainedTeamRepo(), memberships)

		team, err := svc.AcceptInvite(context.Background(), "tok", testVolunteerID)
		require.NoError(t, err)
		assert.Equal(t, "Tutors", team.Name)
		require.NotNil(t, created)
		assert.Equal(t, testVolunteerID, created.UserID)
		assert.Equal(t, models.MembershipStatusActive, created.Status)
		assert.Equal(t, 1, deletedID)
	})
}

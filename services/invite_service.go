package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Aidana07/volunteer-hub/models"
	"github.com/Aidana07/volunteer-hub/repositories"
)

const (
	inviteTokenLength = 16
	inviteDuration    = 7 * 24 * time.Hour
)

type InviteService interface {
	// CreateInvite issues a join link for a team. Captain only.
	CreateInvite(ctx context.Context, teamID int, currentUserID int) (*models.Invite, error)
	GetInviteByToken(ctx context.Context, token string) (*models.Invite, error)
	// EmailInvite creates an invite and mails the join link to the
	// recipient. Captain only.
	EmailInvite(ctx context.Context, teamID int, recipientEmail string, currentUserID int) (*models.Invite, error)
	// AcceptInvite turns a valid token into an active team membership for
	// the current user and consumes the invite.
	AcceptInvite(ctx context.Context, token string, currentUserID int) (*models.Team, error)
	// PurgeExpired removes invites past their expiry. Called by the
	// background scheduler.
	PurgeExpired(ctx context.Context) (int64, error)
}

type inviteService struct {
	inviteRepo     repositories.InviteRepository
	teamRepo       repositories.TeamRepository
	membershipRepo repositories.MembershipRepository
	email          *EmailService
	logger         *slog.Logger
}

func NewInviteService(
	inviteRepo repositories.InviteRepository,
	teamRepo repositories.TeamRepository,
	membershipRepo repositories.MembershipRepository,
	email *EmailService,
	logger *slog.Logger,
) InviteService {
	return &inviteService{
		inviteRepo:     inviteRepo,
		teamRepo:       teamRepo,
		membershipRepo: membershipRepo,
		email:          email,
		logger:         logger,
	}
}

func (s *inviteService) CreateInvite(ctx context.Context, teamID int, currentUserID int) (*models.Invite, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}
	if team.CaptainID != currentUserID {
		return nil, ErrCaptainActionForbidden
	}

	const maxAttempts = 3
	for attempt := 0; attempt < maxAttempts; attempt++ {
		token, err := generateSecureToken(inviteTokenLength)
		if err != nil {
			return nil, fmt.Errorf("failed to generate invite token: %w", err)
		}

		invite := &models.Invite{
			TeamID:    teamID,
			Token:     token,
			ExpiresAt: time.Now().Add(inviteDuration),
		}
		err = s.inviteRepo.Create(ctx, invite)
		if err == nil {
			return invite, nil
		}
		if errors.Is(err, repositories.ErrInviteTokenConflict) {
			continue
		}
		if errors.Is(err, repositories.ErrInviteTeamInvalid) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to create invite for team %d: %w", teamID, err)
	}
	return nil, fmt.Errorf("failed to generate unique invite token after %d attempts", maxAttempts)
}

func (s *inviteService) EmailInvite(ctx context.Context, teamID int, recipientEmail string, currentUserID int) (*models.Invite, error) {
	invite, err := s.CreateInvite(ctx, teamID, currentUserID)
	if err != nil {
		return nil, err
	}

	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}

	if err := s.email.SendTeamInviteEmail(recipientEmail, team.Name, invite.Token); err != nil {
		s.logger.Error("failed to send team invite email",
			slog.Int("team_id", teamID),
			slog.String("recipient", recipientEmail),
			slog.Any("error", err))
		return nil, fmt.Errorf("failed to send invite email: %w", err)
	}
	return invite, nil
}

func (s *inviteService) GetInviteByToken(ctx context.Context, token string) (*models.Invite, error) {
	invite, err := s.inviteRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrInviteNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("failed to get invite by token: %w", err)
	}
	if time.Now().After(invite.ExpiresAt) {
		return nil, ErrInviteExpired
	}
	return invite, nil
}

func (s *inviteService) AcceptInvite(ctx context.Context, token string, currentUserID int) (*models.Team, error) {
	invite, err := s.GetInviteByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	team, err := s.teamRepo.GetByID(ctx, invite.TeamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", invite.TeamID, err)
	}

	activeCount, err := s.membershipRepo.CountActiveByTeam(ctx, invite.TeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to count team %d members: %w", invite.TeamID, err)
	}
	if activeCount >= team.MaxMembers {
		return nil, ErrTeamFull
	}

	membership := &models.TeamMembership{
		TeamID: invite.TeamID,
		UserID: currentUserID,
		Role:   models.MembershipRoleVolunteer,
		Status: models.MembershipStatusActive,
	}
	if err := s.membershipRepo.Create(ctx, membership); err != nil {
		if errors.Is(err, repositories.ErrMembershipConflict) {
			return nil, ErrAlreadyOnTeam
		}
		return nil, fmt.Errorf("failed to join team %d: %w", invite.TeamID, err)
	}

	// The membership exists at this point; a failed delete only leaves a
	// stale invite for the scheduler to purge.
	if err := s.inviteRepo.Delete(ctx, invite.ID); err != nil {
		s.logger.Warn("failed to delete accepted invite",
			slog.Int("invite_id", invite.ID),
			slog.Int("user_id", currentUserID),
			slog.Any("error", err))
	}
	return team, nil
}

func (s *inviteService) PurgeExpired(ctx context.Context) (int64, error) {
	deleted, err := s.inviteRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired invites: %w", err)
	}
	return deleted, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Aidana07/volunteer-hub/models"
	"github.com/Aidana07/volunteer-hub/repositories"
)

type TeamService interface {
	CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	GetTeamByID(ctx context.Context, id int) (*models.Team, error)
	ListTeamsByEvent(ctx context.Context, eventID int) ([]*models.Team, error)
	AddMember(ctx context.Context, teamID, userID, currentUserID int) error
	RemoveMember(ctx context.Context, teamID, userID, currentUserID int) error
	// LeaveTeam transitions the caller's membership to inactive and stamps
	// left_at. Captains cannot leave their own team.
	LeaveTeam(ctx context.Context, membershipID, currentUserID int) error
}

type CreateTeamInput struct {
	EventID    int    `json:"event_id" validate:"required,min=1"`
	Name       string `json:"name" validate:"required,min=2"`
	MaxMembers int    `json:"max_members" validate:"required,min=1"`

	CreatorID int `json:"-"`
}

type teamService struct {
	teamRepo         repositories.TeamRepository
	membershipRepo   repositories.MembershipRepository
	eventRepo        repositories.EventRepository
	registrationRepo repositories.RegistrationRepository
	userRepo         repositories.UserRepository
	notifications    NotificationService
	logger           *slog.Logger
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	membershipRepo repositories.MembershipRepository,
	eventRepo repositories.EventRepository,
	registrationRepo repositories.RegistrationRepository,
	userRepo repositories.UserRepository,
	notifications NotificationService,
	logger *slog.Logger,
) TeamService {
	return &teamService{
		teamRepo:         teamRepo,
		membershipRepo:   membershipRepo,
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		userRepo:         userRepo,
		notifications:    notifications,
		logger:           logger,
	}
}

func (s *teamService) CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, input.EventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", input.EventID, err)
	}
	if event.Status != models.EventStatusPublished {
		return nil, ErrRegistrationNotOpen
	}

	team := &models.Team{
		EventID:    input.EventID,
		Name:       strings.TrimSpace(input.Name),
		CaptainID:  input.CreatorID,
		MaxMembers: input.MaxMembers,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	// The creator joins their own team as captain.
	captainMembership := &models.TeamMembership{
		TeamID: team.ID,
		UserID: input.CreatorID,
		Role:   models.MembershipRoleCaptain,
		Status: models.MembershipStatusActive,
	}
	if err := s.membershipRepo.Create(ctx, captainMembership); err != nil {
		return nil, fmt.Errorf("failed to create captain membership: %w", err)
	}

	team.Event = event
	team.Members = []models.TeamMembership{*captainMembership}
	return team, nil
}

func (s *teamService) GetTeamByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", id, err)
	}

	active := models.MembershipStatusActive
	members, err := s.membershipRepo.ListByTeam(ctx, id, &active)
	if err != nil {
		return nil, fmt.Errorf("failed to list team %d members: %w", id, err)
	}
	team.Members = members
	return team, nil
}

func (s *teamService) ListTeamsByEvent(ctx context.Context, eventID int) ([]*models.Team, error) {
	teams, err := s.teamRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for event %d: %w", eventID, err)
	}
	return teams, nil
}

func (s *teamService) AddMember(ctx context.Context, teamID, userID, currentUserID int) error {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to get team %d: %w", teamID, err)
	}
	if team.CaptainID != currentUserID {
		return ErrCaptainActionForbidden
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	activeCount, err := s.membershipRepo.CountActiveByTeam(ctx, teamID)
	if err != nil {
		return fmt.Errorf("failed to count team %d members: %w", teamID, err)
	}
	if activeCount >= team.MaxMembers {
		return ErrTeamFull
	}

	membership := &models.TeamMembership{
		TeamID: teamID,
		UserID: userID,
		Role:   models.MembershipRoleVolunteer,
		Status: models.MembershipStatusActive,
	}
	if err := s.membershipRepo.Create(ctx, membership); err != nil {
		if errors.Is(err, repositories.ErrMembershipConflict) {
			return ErrAlreadyOnTeam
		}
		return fmt.Errorf("failed to add member to team %d: %w", teamID, err)
	}

	// A direct registration for the same event is confirmed rather than
	// removed; the participation reconciler collapses the pair, with the
	// team membership superseding the placeholder.
	if reg, err := s.registrationRepo.FindByUserAndEvent(ctx, userID, team.EventID); err == nil {
		if reg.Status == models.RegistrationStatusPending {
			if err := s.registrationRepo.UpdateStatus(ctx, reg.ID, models.RegistrationStatusConfirmed); err != nil {
				s.logger.Error("failed to confirm absorbed registration",
					slog.Int("registration_id", reg.ID), slog.Any("error", err))
			}
		}
	}

	if err := s.notifications.Notify(ctx, userID, models.NotificationTeamJoined,
		fmt.Sprintf("You joined team %q", team.Name),
		fmt.Sprintf("You are now a member of team %q.", team.Name)); err != nil {
		s.logger.Error("failed to send team join notification",
			slog.Int("user_id", userID), slog.Any("error", err))
	}
	return nil
}

func (s *teamService) RemoveMember(ctx context.Context, teamID, userID, currentUserID int) error {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to get team %d: %w", teamID, err)
	}
	if team.CaptainID != currentUserID {
		return ErrCaptainActionForbidden
	}
	if userID == team.CaptainID {
		return ErrForbiddenOperation
	}

	membership, err := s.membershipRepo.FindActiveByUserAndTeam(ctx, userID, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrMembershipNotFound) {
			return ErrMembershipNotFound
		}
		return fmt.Errorf("failed to find membership: %w", err)
	}

	now := time.Now()
	if err := s.membershipRepo.UpdateStatus(ctx, membership.ID, models.MembershipStatusRemoved, &now); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	if err := s.notifications.Notify(ctx, userID, models.NotificationTeamRemoved,
		fmt.Sprintf("Removed from team %q", team.Name),
		fmt.Sprintf("The captain removed you from team %q.", team.Name)); err != nil {
		s.logger.Error("failed to send team removal notification",
			slog.Int("user_id", userID), slog.Any("error", err))
	}
	return nil
}

func (s *teamService) LeaveTeam(ctx context.Context, membershipID, currentUserID int) error {
	membership, err := s.membershipRepo.GetByID(ctx, membershipID)
	if err != nil {
		if errors.Is(err, repositories.ErrMembershipNotFound) {
			return ErrMembershipNotFound
		}
		return fmt.Errorf("failed to get membership %d: %w", membershipID, err)
	}
	if membership.UserID != currentUserID {
		return ErrSelfLeaveForbidden
	}
	if membership.Role == models.MembershipRoleCaptain {
		return ErrForbiddenOperation
	}
	if membership.Status != models.MembershipStatusActive {
		return ErrMembershipNotActive
	}

	now := time.Now()
	if err := s.membershipRepo.UpdateStatus(ctx, membershipID, models.MembershipStatusInactive, &now); err != nil {
		return fmt.Errorf("failed to leave team: %w", err)
	}
	return nil
}

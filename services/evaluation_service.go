package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Aidana07/volunteer-hub/models"
	"github.com/Aidana07/volunteer-hub/repositories"
)

type EvaluationService interface {
	// EvaluateVolunteer records a captain's post-event rating of one of
	// their team members. The event must be completed and the evaluator
	// must captain the team the volunteer served on.
	EvaluateVolunteer(ctx context.Context, input EvaluateVolunteerInput) (*models.Evaluation, error)
	ListReceivedByUser(ctx context.Context, volunteerID int) ([]models.Evaluation, error)
	ListByTeam(ctx context.Context, teamID, currentUserID int) ([]models.Evaluation, error)
}

type EvaluateVolunteerInput struct {
	TeamID        int     `json:"team_id" validate:"required,min=1"`
	VolunteerID   int     `json:"volunteer_id" validate:"required,min=1"`
	Rating        int     `json:"rating" validate:"required,min=1,max=5"`
	Teamwork      int     `json:"teamwork" validate:"required,min=1,max=5"`
	Punctuality   int     `json:"punctuality" validate:"required,min=1,max=5"`
	Communication int     `json:"communication" validate:"required,min=1,max=5"`
	Comment       *string `json:"comment" validate:"omitempty,max=2000"`

	CaptainID int `json:"-"`
}

type evaluationService struct {
	evaluationRepo repositories.EvaluationRepository
	teamRepo       repositories.TeamRepository
	membershipRepo repositories.MembershipRepository
	eventRepo      repositories.EventRepository
	notifications  NotificationService
	logger         *slog.Logger
}

func NewEvaluationService(
	evaluationRepo repositories.EvaluationRepository,
	teamRepo repositories.TeamRepository,
	membershipRepo repositories.MembershipRepository,
	eventRepo repositories.EventRepository,
	notifications NotificationService,
	logger *slog.Logger,
) EvaluationService {
	return &evaluationService{
		evaluationRepo: evaluationRepo,
		teamRepo:       teamRepo,
		membershipRepo: membershipRepo,
		eventRepo:      eventRepo,
		notifications:  notifications,
		logger:         logger,
	}
}

func (s *evaluationService) EvaluateVolunteer(ctx context.Context, input EvaluateVolunteerInput) (*models.Evaluation, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	team, err := s.teamRepo.GetByID(ctx, input.TeamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", input.TeamID, err)
	}
	if team.CaptainID != input.CaptainID {
		return nil, ErrCaptainActionForbidden
	}

	event, err := s.eventRepo.GetByID(ctx, team.EventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", team.EventID, err)
	}
	if event.Status != models.EventStatusCompleted {
		return nil, ErrEventNotCompleted
	}

	// The volunteer must have served on the team: an active membership, or
	// one closed after the event ran.
	membership, err := s.membershipRepo.FindActiveByUserAndTeam(ctx, input.VolunteerID, input.TeamID)
	if err != nil {
		if errors.Is(err, repositories.ErrMembershipNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}
	if membership.Role == models.MembershipRoleCaptain {
		return nil, ErrForbiddenOperation
	}

	evaluation := &models.Evaluation{
		EventID:       team.EventID,
		TeamID:        input.TeamID,
		CaptainID:     input.CaptainID,
		VolunteerID:   input.VolunteerID,
		Rating:        input.Rating,
		Teamwork:      input.Teamwork,
		Punctuality:   input.Punctuality,
		Communication: input.Communication,
		Comment:       input.Comment,
	}
	if err := s.evaluationRepo.Create(ctx, evaluation); err != nil {
		if errors.Is(err, repositories.ErrEvaluationConflict) {
			return nil, ErrAlreadyEvaluated
		}
		return nil, fmt.Errorf("failed to create evaluation: %w", err)
	}

	if err := s.notifications.Notify(ctx, input.VolunteerID, models.NotificationEvaluationReceived,
		fmt.Sprintf("New evaluation for %q", event.Title),
		fmt.Sprintf("Your captain rated your work at %q.", event.Title)); err != nil {
		s.logger.Error("failed to send evaluation notification",
			slog.Int("user_id", input.VolunteerID), slog.Any("error", err))
	}
	return evaluation, nil
}

func (s *evaluationService) ListReceivedByUser(ctx context.Context, volunteerID int) ([]models.Evaluation, error) {
	evaluations, err := s.evaluationRepo.ListReceivedByUser(ctx, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations for user %d: %w", volunteerID, err)
	}
	return evaluations, nil
}

func (s *evaluationService) ListByTeam(ctx context.Context, teamID, currentUserID int) ([]models.Evaluation, error) {
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

	evaluations, err := s.evaluationRepo.ListByTeamAndEvent(ctx, teamID, team.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations for team %d: %w", teamID, err)
	}
	return evaluations, nil
}

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

type RegistrationService interface {
	// Register signs a volunteer up for an event directly, before any team
	// placement. Terms must be accepted explicitly.
	Register(ctx context.Context, input RegisterForEventInput) (*models.Registration, error)
	// Cancel soft-cancels the caller's registration and frees its slot.
	Cancel(ctx context.Context, registrationID, currentUserID int) error
	ListByEvent(ctx context.Context, eventID, currentUserID int, status *models.RegistrationStatus) ([]models.Registration, error)
}

type RegisterForEventInput struct {
	EventID       int  `json:"event_id" validate:"required,min=1"`
	TermsAccepted bool `json:"terms_accepted"`

	UserID int `json:"-"`
}

type registrationService struct {
	registrationRepo repositories.RegistrationRepository
	eventRepo        repositories.EventRepository
	notifications    NotificationService
	logger           *slog.Logger
}

func NewRegistrationService(
	registrationRepo repositories.RegistrationRepository,
	eventRepo repositories.EventRepository,
	notifications NotificationService,
	logger *slog.Logger,
) RegistrationService {
	return &registrationService{
		registrationRepo: registrationRepo,
		eventRepo:        eventRepo,
		notifications:    notifications,
		logger:           logger,
	}
}

func (s *registrationService) Register(ctx context.Context, input RegisterForEventInput) (*models.Registration, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if !input.TermsAccepted {
		return nil, ErrTermsNotAccepted
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
	if event.InPast(time.Now()) {
		return nil, ErrRegistrationNotOpen
	}

	now := time.Now()
	registration := &models.Registration{
		EventID:         input.EventID,
		UserID:          input.UserID,
		Status:          models.RegistrationStatusConfirmed,
		TermsAccepted:   true,
		TermsAcceptedAt: &now,
	}

	if err := s.registrationRepo.Create(ctx, registration); err != nil {
		switch {
		case errors.Is(err, repositories.ErrRegistrationConflict):
			return nil, ErrAlreadyRegistered
		case errors.Is(err, repositories.ErrEventFull):
			return nil, ErrEventFull
		case errors.Is(err, repositories.ErrRegistrationEventInvalid):
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}

	registration.Event = event
	if err := s.notifications.Notify(ctx, input.UserID, models.NotificationRegistrationConfirmed,
		fmt.Sprintf("Registration confirmed for %q", event.Title),
		fmt.Sprintf("Your registration for %q has been confirmed.", event.Title)); err != nil {
		s.logger.Error("failed to send registration notification",
			slog.Int("user_id", input.UserID), slog.Any("error", err))
	}
	return registration, nil
}

func (s *registrationService) Cancel(ctx context.Context, registrationID, currentUserID int) error {
	registration, err := s.registrationRepo.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return ErrRegistrationNotFound
		}
		return fmt.Errorf("failed to get registration %d: %w", registrationID, err)
	}
	if registration.UserID != currentUserID {
		return ErrForbiddenOperation
	}

	if err := s.registrationRepo.Cancel(ctx, registrationID); err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return ErrRegistrationNotFound
		}
		return fmt.Errorf("failed to cancel registration %d: %w", registrationID, err)
	}
	return nil
}

func (s *registrationService) ListByEvent(ctx context.Context, eventID, currentUserID int, status *models.RegistrationStatus) ([]models.Registration, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", eventID, err)
	}
	if event.OrganizerID != currentUserID {
		return nil, ErrOrganizerActionForbidden
	}

	registrations, err := s.registrationRepo.ListByEvent(ctx, eventID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations for event %d: %w", eventID, err)
	}
	return registrations, nil
}

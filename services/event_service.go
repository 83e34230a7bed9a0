package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Aidana07/volunteer-hub/models"
	"github.com/Aidana07/volunteer-hub/reconcile"
	"github.com/Aidana07/volunteer-hub/repositories"
	"github.com/Aidana07/volunteer-hub/storage"
	"github.com/google/uuid"
)

type EventService interface {
	CreateEvent(ctx context.Context, input CreateEventInput) (*models.Event, error)
	GetEventByID(ctx context.Context, id int) (*models.Event, error)
	ListEvents(ctx context.Context, filter repositories.EventFilter) ([]*models.Event, error)
	UpdateEvent(ctx context.Context, id int, input UpdateEventInput, currentUserID int) (*models.Event, error)
	ChangeStatus(ctx context.Context, id int, status models.EventStatus, currentUserID int) (*models.Event, error)
	UploadImage(ctx context.Context, id, currentUserID int, contentType string, reader io.Reader) (*models.Event, error)
	// AutoCompleteEndedEvents transitions published events whose date has
	// passed to completed. Run periodically by the scheduler in main.
	AutoCompleteEndedEvents(ctx context.Context) error
}

type CreateEventInput struct {
	Title         string     `json:"title" validate:"required,min=3"`
	Description   *string    `json:"description"`
	Category      string     `json:"category" validate:"required"`
	Date          *time.Time `json:"date"`
	StartTime     *string    `json:"start_time"`
	EndTime       *string    `json:"end_time"`
	Location      *string    `json:"location"`
	MaxVolunteers int        `json:"max_volunteers" validate:"required,min=1"`

	OrganizerID int `json:"-"`
}

type UpdateEventInput struct {
	Title         *string    `json:"title" validate:"omitempty,min=3"`
	Description   *string    `json:"description"`
	Category      *string    `json:"category"`
	Date          *time.Time `json:"date"`
	StartTime     *string    `json:"start_time"`
	EndTime       *string    `json:"end_time"`
	Location      *string    `json:"location"`
	MaxVolunteers *int       `json:"max_volunteers" validate:"omitempty,min=1"`
}

type eventService struct {
	eventRepo        repositories.EventRepository
	registrationRepo repositories.RegistrationRepository
	notifications    NotificationService
	uploader         storage.FileUploader
	hub              *reconcile.Hub
	logger           *slog.Logger
}

func NewEventService(
	eventRepo repositories.EventRepository,
	registrationRepo repositories.RegistrationRepository,
	notifications NotificationService,
	uploader storage.FileUploader,
	hub *reconcile.Hub,
	logger *slog.Logger,
) EventService {
	return &eventService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		notifications:    notifications,
		uploader:         uploader,
		hub:              hub,
		logger:           logger,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, input CreateEventInput) (*models.Event, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	event := &models.Event{
		Title:         strings.TrimSpace(input.Title),
		Description:   input.Description,
		OrganizerID:   input.OrganizerID,
		Category:      input.Category,
		Date:          input.Date,
		StartTime:     input.StartTime,
		EndTime:       input.EndTime,
		Location:      input.Location,
		Status:        models.EventStatusDraft,
		MaxVolunteers: input.MaxVolunteers,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetEventByID(ctx context.Context, id int) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", id, err)
	}
	populateEventImageURL(event, s.uploader)
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, filter repositories.EventFilter) ([]*models.Event, error) {
	events, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	for _, event := range events {
		populateEventImageURL(event, s.uploader)
	}
	return events, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id int, input UpdateEventInput, currentUserID int) (*models.Event, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	event, err := s.getOwnedEvent(ctx, id, currentUserID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		event.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		event.Description = input.Description
	}
	if input.Category != nil {
		event.Category = *input.Category
	}
	if input.Date != nil {
		event.Date = input.Date
	}
	if input.StartTime != nil {
		event.StartTime = input.StartTime
	}
	if input.EndTime != nil {
		event.EndTime = input.EndTime
	}
	if input.Location != nil {
		event.Location = input.Location
	}
	if input.MaxVolunteers != nil {
		if *input.MaxVolunteers < event.CurrentVolunteers {
			return nil, ErrEventInvalidCapacity
		}
		event.MaxVolunteers = *input.MaxVolunteers
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event %d: %w", id, err)
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(reconcile.EventRoom(event.ID), "EVENT_UPDATED", event)
	}
	populateEventImageURL(event, s.uploader)
	return event, nil
}

var allowedEventTransitions = map[models.EventStatus][]models.EventStatus{
	models.EventStatusDraft:     {models.EventStatusPublished, models.EventStatusCancelled},
	models.EventStatusPublished: {models.EventStatusCompleted, models.EventStatusCancelled},
}

func validEventTransition(from, to models.EventStatus) bool {
	for _, allowed := range allowedEventTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s *eventService) ChangeStatus(ctx context.Context, id int, status models.EventStatus, currentUserID int) (*models.Event, error) {
	switch status {
	case models.EventStatusDraft, models.EventStatusPublished, models.EventStatusCompleted, models.EventStatusCancelled:
	default:
		return nil, ErrEventInvalidStatus
	}

	event, err := s.getOwnedEvent(ctx, id, currentUserID)
	if err != nil {
		return nil, err
	}
	if !validEventTransition(event.Status, status) {
		return nil, ErrEventInvalidTransition
	}

	if err := s.eventRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to change event %d status: %w", id, err)
	}
	event.Status = status

	s.announceStatusChange(ctx, event)
	populateEventImageURL(event, s.uploader)
	return event, nil
}

func (s *eventService) UploadImage(ctx context.Context, id, currentUserID int, contentType string, reader io.Reader) (*models.Event, error) {
	event, err := s.getOwnedEvent(ctx, id, currentUserID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("events/%d/%s", id, uuid.NewString())
	if _, err := s.uploader.Upload(ctx, key, contentType, reader); err != nil {
		return nil, fmt.Errorf("failed to upload event image: %w", err)
	}

	oldKey := event.ImageKey
	if err := s.eventRepo.UpdateImageKey(ctx, id, &key); err != nil {
		return nil, fmt.Errorf("failed to store event image key: %w", err)
	}
	if oldKey != nil && *oldKey != "" {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	event.ImageKey = &key
	populateEventImageURL(event, s.uploader)
	return event, nil
}

func (s *eventService) AutoCompleteEndedEvents(ctx context.Context) error {
	events, err := s.eventRepo.ListPublishedEndedBefore(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("failed to list ended events: %w", err)
	}

	for _, event := range events {
		if err := s.eventRepo.UpdateStatus(ctx, event.ID, models.EventStatusCompleted); err != nil {
			s.logger.Error("failed to auto-complete event",
				slog.Int("event_id", event.ID), slog.Any("error", err))
			continue
		}
		event.Status = models.EventStatusCompleted
		s.logger.Info("event auto-completed", slog.Int("event_id", event.ID), slog.String("title", event.Title))
		s.announceStatusChange(ctx, event)
	}
	return nil
}

// announceStatusChange pushes the change to the event room and notifies
// volunteers holding an open registration. Notification failures are logged
// and swallowed.
func (s *eventService) announceStatusChange(ctx context.Context, event *models.Event) {
	if s.hub != nil {
		s.hub.BroadcastToRoom(reconcile.EventRoom(event.ID), "EVENT_UPDATED", event)
	}
	if s.notifications == nil {
		return
	}

	confirmed := models.RegistrationStatusConfirmed
	registrations, err := s.registrationRepo.ListByEvent(ctx, event.ID, &confirmed)
	if err != nil {
		s.logger.Error("failed to list registrations for status notification",
			slog.Int("event_id", event.ID), slog.Any("error", err))
		return
	}
	title := fmt.Sprintf("Event %q is now %s", event.Title, event.Status)
	for _, reg := range registrations {
		if err := s.notifications.Notify(ctx, reg.UserID, models.NotificationEventStatusChanged, title, title); err != nil {
			s.logger.Error("failed to notify volunteer of event status change",
				slog.Int("user_id", reg.UserID), slog.Int("event_id", event.ID), slog.Any("error", err))
		}
	}
}

func (s *eventService) getOwnedEvent(ctx context.Context, id, currentUserID int) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", id, err)
	}
	if event.OrganizerID != currentUserID {
		return nil, ErrOrganizerActionForbidden
	}
	return event, nil
}

func populateEventImageURL(event *models.Event, uploader storage.FileUploader) {
	if event == nil || event.ImageKey == nil || *event.ImageKey == "" || uploader == nil {
		return
	}
	url := uploader.GetPublicURL(*event.ImageKey)
	if url != "" {
		event.ImageURL = &url
	}
}

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Aidana07/volunteer-hub/models"
	"github.com/Aidana07/volunteer-hub/reconcile"
	"github.com/Aidana07/volunteer-hub/repositories"
)

type NotificationService interface {
	// Notify persists a notification and pushes it to the user's websocket
	// room. Push failures never fail the triggering operation.
	Notify(ctx context.Context, userID int, ntype models.NotificationType, title, message string) error
	ListForUser(ctx context.Context, userID int, unreadOnly bool) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID int) error
	MarkAllRead(ctx context.Context, userID int) error
	UnreadCount(ctx context.Context, userID int) (int, error)
}

type notificationService struct {
	repo repositories.NotificationRepository
	hub  *reconcile.Hub
}

func NewNotificationService(repo repositories.NotificationRepository, hub *reconcile.Hub) NotificationService {
	return &notificationService{
		repo: repo,
		hub:  hub,
	}
}

func (s *notificationService) Notify(ctx context.Context, userID int, ntype models.NotificationType, title, message string) error {
	n := &models.Notification{
		UserID:  userID,
		Type:    ntype,
		Title:   title,
		Message: message,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(reconcile.UserRoom(userID), "NOTIFICATION", n)
	}
	return nil
}

func (s *notificationService) ListForUser(ctx context.Context, userID int, unreadOnly bool) ([]models.Notification, error) {
	notifications, err := s.repo.ListByUser(ctx, userID, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for user %d: %w", userID, err)
	}
	return notifications, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID int) error {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to mark notification %d read: %w", id, err)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID int) error {
	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return fmt.Errorf("failed to mark notifications read for user %d: %w", userID, err)
	}
	return nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID int) (int, error) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications for user %d: %w", userID, err)
	}
	return count, nil
}

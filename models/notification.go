package models

import "time"

type NotificationType string

const (
	NotificationRegistrationConfirmed NotificationType = "registration_confirmed"
	NotificationTeamJoined            NotificationType = "team_joined"
	NotificationTeamRemoved           NotificationType = "team_removed"
	NotificationEvaluationReceived    NotificationType = "evaluation_received"
	NotificationEventStatusChanged    NotificationType = "event_status_changed"
)

type Notification struct {
	ID        int              `json:"id" db:"id"`
	UserID    int              `json:"user_id" db:"user_id"`
	Type      NotificationType `json:"type" db:"type"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	Read      bool             `json:"read" db:"read"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

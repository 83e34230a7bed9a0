package models

import "time"

type RegistrationStatus string

const (
	RegistrationStatusPending   RegistrationStatus = "pending"
	RegistrationStatusConfirmed RegistrationStatus = "confirmed"
	RegistrationStatusCancelled RegistrationStatus = "cancelled"
)

// Registration is a volunteer's direct sign-up for an event, before (or
// without) being placed on a team.
type Registration struct {
	ID              int                `json:"id" db:"id"`
	EventID         int                `json:"event_id" db:"event_id"`
	UserID          int                `json:"user_id" db:"user_id"`
	Status          RegistrationStatus `json:"status" db:"status"`
	TermsAccepted   bool               `json:"terms_accepted" db:"terms_accepted"`
	TermsAcceptedAt *time.Time         `json:"terms_accepted_at,omitempty" db:"terms_accepted_at"`
	CreatedAt       time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" db:"updated_at"`

	Event *Event `json:"event,omitempty" db:"-"`
	User  *User  `json:"user,omitempty" db:"-"`
}

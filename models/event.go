package models

import "time"

// EventStatus mirrors the event_status ENUM in the database.
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

type Event struct {
	ID          int         `json:"id" db:"id"`
	Title       string      `json:"title" db:"title"`
	Description *string     `json:"description,omitempty" db:"description"`
	OrganizerID int         `json:"organizer_id" db:"organizer_id"`
	Category    string      `json:"category" db:"category"`
	Date        *time.Time  `json:"date,omitempty" db:"date"`
	StartTime   *string     `json:"start_time,omitempty" db:"start_time"`
	EndTime     *string     `json:"end_time,omitempty" db:"end_time"`
	Location    *string     `json:"location,omitempty" db:"location"`
	Status      EventStatus `json:"status" db:"status"`

	MaxVolunteers     int `json:"max_volunteers" db:"max_volunteers"`
	CurrentVolunteers int `json:"current_volunteers" db:"current_volunteers"`

	ImageKey *string `json:"-" db:"image_key"`
	ImageURL *string `json:"image_url,omitempty" db:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Organizer *User  `json:"organizer,omitempty" db:"-"`
	Teams     []Team `json:"teams,omitempty" db:"-"`
}

// InPast reports whether the event's date lies strictly before the given
// day. A missing date is never considered past.
func (e *Event) InPast(now time.Time) bool {
	if e == nil || e.Date == nil {
		return false
	}
	ey, em, ed := e.Date.Date()
	ny, nm, nd := now.Date()
	eventDay := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return eventDay.Before(today)
}

package models

import "time"

// Evaluation is a captain's post-event rating of one of their volunteers.
type Evaluation struct {
	ID          int `json:"id" db:"id"`
	EventID     int `json:"event_id" db:"event_id"`
	TeamID      int `json:"team_id" db:"team_id"`
	CaptainID   int `json:"captain_id" db:"captain_id"`
	VolunteerID int `json:"volunteer_id" db:"volunteer_id"`

	Rating        int     `json:"rating" db:"rating"`
	Teamwork      int     `json:"teamwork" db:"teamwork"`
	Punctuality   int     `json:"punctuality" db:"punctuality"`
	Communication int     `json:"communication" db:"communication"`
	Comment       *string `json:"comment,omitempty" db:"comment"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Captain *User  `json:"captain,omitempty" db:"-"`
	Event   *Event `json:"event,omitempty" db:"-"`
	Team    *Team  `json:"team,omitempty" db:"-"`
}

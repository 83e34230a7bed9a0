package models

import "time"

type Team struct {
	ID         int       `json:"id" db:"id"`
	EventID    int       `json:"event_id" db:"event_id"`
	Name       string    `json:"name" db:"name"`
	CaptainID  int       `json:"captain_id" db:"captain_id"`
	MaxMembers int       `json:"max_members" db:"max_members"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`

	Event   *Event           `json:"event,omitempty" db:"-"`
	Captain *User            `json:"captain,omitempty" db:"-"`
	Members []TeamMembership `json:"members,omitempty" db:"-"`
}

package models

import "time"

type MembershipRole string

const (
	MembershipRoleCaptain   MembershipRole = "captain"
	MembershipRoleVolunteer MembershipRole = "volunteer"
)

// MembershipStatus mirrors the membership_status ENUM in the database.
// Rows are never deleted; leaving a team is a transition to inactive.
type MembershipStatus string

const (
	MembershipStatusActive   MembershipStatus = "active"
	MembershipStatusInactive MembershipStatus = "inactive"
	MembershipStatusRemoved  MembershipStatus = "removed"
)

type TeamMembership struct {
	ID       int              `json:"id" db:"id"`
	TeamID   int              `json:"team_id" db:"team_id"`
	UserID   int              `json:"user_id" db:"user_id"`
	Role     MembershipRole   `json:"role" db:"role"`
	Status   MembershipStatus `json:"status" db:"status"`
	JoinedAt time.Time        `json:"joined_at" db:"joined_at"`
	LeftAt   *time.Time       `json:"left_at,omitempty" db:"left_at"`

	Team *Team `json:"team,omitempty" db:"-"`
	User *User `json:"user,omitempty" db:"-"`
}

package models

import "time"

type UserRole string

const (
	RoleVolunteer UserRole = "volunteer"
	RoleOrganizer UserRole = "organizer"
	RoleAdmin     UserRole = "admin"
)

type User struct {
	ID           int      `json:"id" db:"id"`
	FirstName    string   `json:"first_name" db:"first_name"`
	LastName     string   `json:"last_name" db:"last_name"`
	Email        string   `json:"email" db:"email"`
	Phone        *string  `json:"phone,omitempty" db:"phone"`
	Bio          *string  `json:"bio,omitempty" db:"bio"`
	Role         UserRole `json:"role" db:"role"`
	PasswordHash string   `json:"-" db:"password_hash"`

	EmailConfirmed         bool       `json:"email_confirmed" db:"email_confirmed"`
	EmailConfirmationToken *string    `json:"-" db:"email_confirmation_token"`
	PasswordResetToken     *string    `json:"-" db:"password_reset_token"`
	PasswordResetExpiresAt *time.Time `json:"-" db:"password_reset_expires_at"`

	AvatarKey *string `json:"-" db:"avatar_key"`
	AvatarURL *string `json:"avatar_url,omitempty" db:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

package services

import "errors"

// Shared errors used across services and the HTTP error mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed       = errors.New("validation failed")
	ErrPasswordTooShort       = errors.New("password is too short")
	ErrTermsNotAccepted       = errors.New("terms of participation must be accepted")
	ErrRegistrationNotOpen    = errors.New("event is not open for registration")
	ErrEventFull              = errors.New("event has no remaining volunteer slots")
	ErrTeamFull               = errors.New("team has no remaining member slots")
	ErrEventNotCompleted      = errors.New("event has not been completed yet")
	ErrEventInvalidStatus     = errors.New("invalid event status provided")
	ErrEventInvalidTransition = errors.New("invalid event status transition")
	ErrEventInvalidCapacity   = errors.New("event max volunteers must be positive")
	ErrInvalidRating          = errors.New("rating must be between 1 and 5")
	ErrInviteExpired          = errors.New("invite has expired")
	ErrMembershipNotActive    = errors.New("membership is not active")

	// Conflicts
	ErrUserEmailConflict      = errors.New("email address is already in use")
	ErrTeamNameConflict       = errors.New("team name is already in use for this event")
	ErrAlreadyRegistered      = errors.New("you are already registered for this event")
	ErrAlreadyOnTeam          = errors.New("user is already on this team")
	ErrAlreadyEvaluated       = errors.New("volunteer has already been evaluated for this event")

	// Authentication and authorization
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")
	ErrCaptainActionForbidden = errors.New("only the team captain can perform this action")
	ErrOrganizerActionForbidden = errors.New("only the event organizer can perform this action")
	ErrSelfLeaveForbidden     = errors.New("only the team captain or the member themselves can perform this action")

	// Entity-specific not-found errors
	ErrUserNotFound         = errors.New("user not found")
	ErrEventNotFound        = errors.New("event not found")
	ErrTeamNotFound         = errors.New("team not found")
	ErrMembershipNotFound   = errors.New("team membership not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrEvaluationNotFound   = errors.New("evaluation not found")
	ErrInviteNotFound       = errors.New("invite not found")
	ErrNotificationNotFound = errors.New("notification not found")
)

package models

type DashboardStats struct {
	UsersTotal         int `json:"users_total"`
	EventsTotal        int `json:"events_total"`
	ActiveEvents       int `json:"active_events"`
	RegistrationsTotal int `json:"registrations_total"`
	TeamsTotal         int `json:"teams_total"`
	EvaluationsTotal   int `json:"evaluations_total"`
}

// VolunteerStats is the per-user summary derived from the reconciled
// participation list and received evaluations.
type VolunteerStats struct {
	TotalParticipations  int     `json:"total_participations"`
	ActiveParticipations int     `json:"active_participations"`
	CompletedEvents      int     `json:"completed_events"`
	AverageRating        float64 `json:"average_rating"`
	FavoriteCategory     string  `json:"favorite_category"`
}

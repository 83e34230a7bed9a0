package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Aidana07/volunteer-hub/models"
	"github.com/lib/pq"
)

var (
	ErrEvaluationNotFound = errors.New("evaluation not found")
	ErrEvaluationConflict = errors.New("evaluation conflict: volunteer already evaluated for this event")
	ErrEvaluationInvalid  = errors.New("evaluation references conflict or invalid")
)

type EvaluationRepository interface {
	Create(ctx context.Context, e *models.Evaluation) error
	// ListReceivedByUser returns evaluations of a volunteer with captain,
	// event and team attached. Feeds the average-rating statistic.
	ListReceivedByUser(ctx context.Context, volunteerID int) ([]models.Evaluation, error)
	ListByTeamAndEvent(ctx context.Context, teamID, eventID int) ([]models.Evaluation, error)
	FindByVolunteerAndEvent(ctx context.Context, volunteerID, eventID int) (*models.Evaluation, error)
	Count(ctx context.Context) (int, error)
}

type postgresEvaluationRepository struct {
	db *sql.DB
}

func NewPostgresEvaluationRepository(db *sql.DB) EvaluationRepository {
	return &postgresEvaluationRepository{db: db}
}

func (r *postgresEvaluationRepository) Create(ctx context.Context, e *models.Evaluation) error {
	query := `
		INSERT INTO evaluations (event_id, team_id, captain_id, volunteer_id, rating, teamwork, punctuality, communication, comment)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		e.EventID,
		e.TeamID,
		e.CaptainID,
		e.VolunteerID,
		e.Rating,
		e.Teamwork,
		e.Punctuality,
		e.Communication,
		e.Comment,
	).Scan(&e.ID, &e.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "evaluations_event_id_volunteer_id_key" {
					return ErrEvaluationConflict
				}
			case "23503": // foreign_key_violation
				return ErrEvaluationInvalid
			}
		}
		return fmt.Errorf("failed to create evaluation: %w", err)
	}
	return nil
}

func (r *postgresEvaluationRepository) ListReceivedByUser(ctx context.Context, volunteerID int) ([]models.Evaluation, error) {
	query := `
		SELECT ev.id, ev.event_id, ev.team_id, ev.captain_id, ev.volunteer_id,
			ev.rating, ev.teamwork, ev.punctuality, ev.communication, ev.comment, ev.created_at,
			c.id, c.first_name, c.last_name, c.avatar_key,
			e.id, e.title, e.category, e.date,
			t.id, t.name
		FROM evaluations ev
		JOIN users c ON ev.captain_id = c.id
		JOIN events e ON ev.event_id = e.id
		JOIN teams t ON ev.team_id = t.id
		WHERE ev.volunteer_id = $1
		ORDER BY ev.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations received by user: %w", err)
	}
	defer rows.Close()

	evaluations := make([]models.Evaluation, 0)
	for rows.Next() {
		var ev models.Evaluation
		var c models.User
		var e models.Event
		var t models.Team
		var avatar sql.NullString

		err := rows.Scan(
			&ev.ID, &ev.EventID, &ev.TeamID, &ev.CaptainID, &ev.VolunteerID,
			&ev.Rating, &ev.Teamwork, &ev.Punctuality, &ev.Communication, &ev.Comment, &ev.CreatedAt,
			&c.ID, &c.FirstName, &c.LastName, &avatar,
			&e.ID, &e.Title, &e.Category, &e.Date,
			&t.ID, &t.Name,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan evaluation row: %w", err)
		}
		c.AvatarKey = nullableString(avatar)
		ev.Captain = &c
		ev.Event = &e
		ev.Team = &t
		evaluations = append(evaluations, ev)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating evaluation rows: %w", err)
	}
	return evaluations, nil
}

func (r *postgresEvaluationRepository) ListByTeamAndEvent(ctx context.Context, teamID, eventID int) ([]models.Evaluation, error) {
	query := `
		SELECT ev.id, ev.event_id, ev.team_id, ev.captain_id, ev.volunteer_id,
			ev.rating, ev.teamwork, ev.punctuality, ev.communication, ev.comment, ev.created_at
		FROM evaluations ev
		WHERE ev.team_id = $1 AND ev.event_id = $2
		ORDER BY ev.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations by team and event: %w", err)
	}
	defer rows.Close()

	evaluations := make([]models.Evaluation, 0)
	for rows.Next() {
		var ev models.Evaluation
		err := rows.Scan(
			&ev.ID, &ev.EventID, &ev.TeamID, &ev.CaptainID, &ev.VolunteerID,
			&ev.Rating, &ev.Teamwork, &ev.Punctuality, &ev.Communication, &ev.Comment, &ev.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan evaluation row: %w", err)
		}
		evaluations = append(evaluations, ev)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating evaluation rows: %w", err)
	}
	return evaluations, nil
}

func (r *postgresEvaluationRepository) FindByVolunteerAndEvent(ctx context.Context, volunteerID, eventID int) (*models.Evaluation, error) {
	query := `
		SELECT ev.id, ev.event_id, ev.team_id, ev.captain_id, ev.volunteer_id,
			ev.rating, ev.teamwork, ev.punctuality, ev.communication, ev.comment, ev.created_at
		FROM evaluations ev
		WHERE ev.volunteer_id = $1 AND ev.event_id = $2`

	var ev models.Evaluation
	err := r.db.QueryRowContext(ctx, query, volunteerID, eventID).Scan(
		&ev.ID, &ev.EventID, &ev.TeamID, &ev.CaptainID, &ev.VolunteerID,
		&ev.Rating, &ev.Teamwork, &ev.Punctuality, &ev.Communication, &ev.Comment, &ev.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEvaluationNotFound
		}
		return nil, fmt.Errorf("failed to find evaluation: %w", err)
	}
	return &ev, nil
}

func (r *postgresEvaluationRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM evaluations`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count evaluations: %w", err)
	}
	return count, nil
}

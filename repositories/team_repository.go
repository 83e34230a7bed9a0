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
	ErrTeamNotFound       = errors.New("team not found")
	ErrTeamNameConflict   = errors.New("team name conflict for this event")
	ErrTeamEventInvalid   = errors.New("team event conflict or invalid")
	ErrTeamCaptainInvalid = errors.New("team captain conflict or invalid")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByEvent(ctx context.Context, eventID int) ([]*models.Team, error)
	// ListCaptainedByUser returns the teams a user captains, each with its
	// event attached. One of the three reconciliation sources.
	ListCaptainedByUser(ctx context.Context, userID int) ([]models.Team, error)
	UpdateName(ctx context.Context, id int, name string) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (event_id, name, captain_id, max_members)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		team.EventID,
		team.Name,
		team.CaptainID,
		team.MaxMembers,
	).Scan(&team.ID, &team.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "teams_event_id_name_key" {
					return ErrTeamNameConflict
				}
			case "23503": // foreign_key_violation
				switch pqErr.Constraint {
				case "teams_event_id_fkey":
					return ErrTeamEventInvalid
				case "teams_captain_id_fkey":
					return ErrTeamCaptainInvalid
				}
			}
		}
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `
		SELECT
			t.id, t.event_id, t.name, t.captain_id, t.max_members, t.created_at,
			` + eventColumns + `,
			u.id, u.first_name, u.last_name, u.email, u.avatar_key
		FROM teams t
		LEFT JOIN events e ON t.event_id = e.id
		LEFT JOIN users u ON t.captain_id = u.id
		WHERE t.id = $1`

	row := r.db.QueryRowContext(ctx, query, id)

	var t models.Team
	var e models.Event
	var captainID sql.NullInt64
	var captainFirst, captainLast, captainEmail sql.NullString
	var captainAvatar sql.NullString

	err := row.Scan(
		&t.ID, &t.EventID, &t.Name, &t.CaptainID, &t.MaxMembers, &t.CreatedAt,
		&e.ID, &e.Title, &e.Description, &e.OrganizerID, &e.Category, &e.Date,
		&e.StartTime, &e.EndTime, &e.Location, &e.Status, &e.MaxVolunteers, &e.CurrentVolunteers,
		&e.ImageKey, &e.CreatedAt,
		&captainID, &captainFirst, &captainLast, &captainEmail, &captainAvatar,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to scan team: %w", err)
	}

	if e.ID > 0 {
		t.Event = &e
	}
	if captainID.Valid {
		t.Captain = &models.User{
			ID:        int(captainID.Int64),
			FirstName: captainFirst.String,
			LastName:  captainLast.String,
			Email:     captainEmail.String,
			AvatarKey: nullableString(captainAvatar),
		}
	}
	return &t, nil
}

func (r *postgresTeamRepository) ListByEvent(ctx context.Context, eventID int) ([]*models.Team, error) {
	query := `
		SELECT t.id, t.event_id, t.name, t.captain_id, t.max_members, t.created_at
		FROM teams t
		WHERE t.event_id = $1
		ORDER BY t.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams by event: %w", err)
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.EventID, &t.Name, &t.CaptainID, &t.MaxMembers, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		teams = append(teams, &t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team rows: %w", err)
	}
	return teams, nil
}

func (r *postgresTeamRepository) ListCaptainedByUser(ctx context.Context, userID int) ([]models.Team, error) {
	query := `
		SELECT
			t.id, t.event_id, t.name, t.captain_id, t.max_members, t.created_at,
			` + eventColumns + `
		FROM teams t
		JOIN events e ON t.event_id = e.id
		WHERE t.captain_id = $1
		ORDER BY e.date ASC NULLS LAST, t.id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list captained teams: %w", err)
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var t models.Team
		var e models.Event
		err := rows.Scan(
			&t.ID, &t.EventID, &t.Name, &t.CaptainID, &t.MaxMembers, &t.CreatedAt,
			&e.ID, &e.Title, &e.Description, &e.OrganizerID, &e.Category, &e.Date,
			&e.StartTime, &e.EndTime, &e.Location, &e.Status, &e.MaxVolunteers, &e.CurrentVolunteers,
			&e.ImageKey, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan captained team row: %w", err)
		}
		t.Event = &e
		teams = append(teams, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating captained team rows: %w", err)
	}
	return teams, nil
}

func (r *postgresTeamRepository) UpdateName(ctx context.Context, id int, name string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE teams SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" && pqErr.Constraint == "teams_event_id_name_key" {
				return ErrTeamNameConflict
			}
		}
		return fmt.Errorf("failed to update team name: %w", err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM teams`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count teams: %w", err)
	}
	return count, nil
}

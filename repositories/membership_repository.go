package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Aidana07/volunteer-hub/models"
	"github.com/lib/pq"
)

var (
	ErrMembershipNotFound    = errors.New("team membership not found")
	ErrMembershipConflict    = errors.New("membership conflict: user is already on this team")
	ErrMembershipTeamInvalid = errors.New("membership team conflict or invalid")
	ErrMembershipUserInvalid = errors.New("membership user conflict or invalid")
)

type MembershipRepository interface {
	Create(ctx context.Context, m *models.TeamMembership) error
	GetByID(ctx context.Context, id int) (*models.TeamMembership, error)
	FindActiveByUserAndTeam(ctx context.Context, userID, teamID int) (*models.TeamMembership, error)
	// ListByUser returns a user's memberships with team, event and captain
	// attached. One of the three reconciliation sources.
	ListByUser(ctx context.Context, userID int, status *models.MembershipStatus) ([]models.TeamMembership, error)
	ListByTeam(ctx context.Context, teamID int, status *models.MembershipStatus) ([]models.TeamMembership, error)
	UpdateStatus(ctx context.Context, id int, status models.MembershipStatus, leftAt *time.Time) error
	CountActiveByTeam(ctx context.Context, teamID int) (int, error)
}

type postgresMembershipRepository struct {
	db *sql.DB
}

func NewPostgresMembershipRepository(db *sql.DB) MembershipRepository {
	return &postgresMembershipRepository{db: db}
}

func (r *postgresMembershipRepository) Create(ctx context.Context, m *models.TeamMembership) error {
	query := `
		INSERT INTO team_memberships (team_id, user_id, role, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, joined_at`

	err := r.db.QueryRowContext(ctx, query,
		m.TeamID,
		m.UserID,
		m.Role,
		m.Status,
	).Scan(&m.ID, &m.JoinedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "team_memberships_team_id_user_id_key" {
					return ErrMembershipConflict
				}
			case "23503": // foreign_key_violation
				switch pqErr.Constraint {
				case "team_memberships_team_id_fkey":
					return ErrMembershipTeamInvalid
				case "team_memberships_user_id_fkey":
					return ErrMembershipUserInvalid
				}
			}
		}
		return fmt.Errorf("failed to create team membership: %w", err)
	}
	return nil
}

func (r *postgresMembershipRepository) GetByID(ctx context.Context, id int) (*models.TeamMembership, error) {
	query := `
		SELECT m.id, m.team_id, m.user_id, m.role, m.status, m.joined_at, m.left_at,
			t.id, t.event_id, t.name, t.captain_id, t.max_members, t.created_at
		FROM team_memberships m
		JOIN teams t ON m.team_id = t.id
		WHERE m.id = $1`

	var m models.TeamMembership
	var t models.Team
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.TeamID, &m.UserID, &m.Role, &m.Status, &m.JoinedAt, &m.LeftAt,
		&t.ID, &t.EventID, &t.Name, &t.CaptainID, &t.MaxMembers, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to scan team membership: %w", err)
	}
	m.Team = &t
	return &m, nil
}

func (r *postgresMembershipRepository) FindActiveByUserAndTeam(ctx context.Context, userID, teamID int) (*models.TeamMembership, error) {
	query := `
		SELECT m.id, m.team_id, m.user_id, m.role, m.status, m.joined_at, m.left_at
		FROM team_memberships m
		WHERE m.user_id = $1 AND m.team_id = $2 AND m.status = $3`

	var m models.TeamMembership
	err := r.db.QueryRowContext(ctx, query, userID, teamID, models.MembershipStatusActive).Scan(
		&m.ID, &m.TeamID, &m.UserID, &m.Role, &m.Status, &m.JoinedAt, &m.LeftAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}
	return &m, nil
}

func (r *postgresMembershipRepository) ListByUser(ctx context.Context, userID int, status *models.MembershipStatus) ([]models.TeamMembership, error) {
	query := `
		SELECT m.id, m.team_id, m.user_id, m.role, m.status, m.joined_at, m.left_at,
			t.id, t.event_id, t.name, t.captain_id, t.max_members, t.created_at,
			COALESCE(e.id, 0), COALESCE(e.title, ''), e.description, COALESCE(e.organizer_id, 0),
			COALESCE(e.category, ''), e.date, e.start_time, e.end_time, e.location,
			COALESCE(e.status, 'draft'), COALESCE(e.max_volunteers, 0), COALESCE(e.current_volunteers, 0),
			e.image_key, COALESCE(e.created_at, m.joined_at),
			COALESCE(c.id, 0), COALESCE(c.first_name, ''), COALESCE(c.last_name, ''), c.avatar_key
		FROM team_memberships m
		JOIN teams t ON m.team_id = t.id
		LEFT JOIN events e ON t.event_id = e.id
		LEFT JOIN users c ON t.captain_id = c.id
		WHERE m.user_id = $1`

	args := []interface{}{userID}
	if status != nil {
		query += ` AND m.status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY m.joined_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships by user: %w", err)
	}
	defer rows.Close()

	memberships := make([]models.TeamMembership, 0)
	for rows.Next() {
		var m models.TeamMembership
		var t models.Team
		var e models.Event
		var c models.User
		var captainAvatar sql.NullString

		err := rows.Scan(
			&m.ID, &m.TeamID, &m.UserID, &m.Role, &m.Status, &m.JoinedAt, &m.LeftAt,
			&t.ID, &t.EventID, &t.Name, &t.CaptainID, &t.MaxMembers, &t.CreatedAt,
			&e.ID, &e.Title, &e.Description, &e.OrganizerID,
			&e.Category, &e.Date, &e.StartTime, &e.EndTime, &e.Location,
			&e.Status, &e.MaxVolunteers, &e.CurrentVolunteers,
			&e.ImageKey, &e.CreatedAt,
			&c.ID, &c.FirstName, &c.LastName, &captainAvatar,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan membership row: %w", err)
		}

		if e.ID > 0 {
			t.Event = &e
		}
		if c.ID > 0 {
			c.AvatarKey = nullableString(captainAvatar)
			t.Captain = &c
		}
		m.Team = &t
		memberships = append(memberships, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating membership rows: %w", err)
	}
	return memberships, nil
}

func (r *postgresMembershipRepository) ListByTeam(ctx context.Context, teamID int, status *models.MembershipStatus) ([]models.TeamMembership, error) {
	query := `
		SELECT m.id, m.team_id, m.user_id, m.role, m.status, m.joined_at, m.left_at,
			u.id, u.first_name, u.last_name, u.email, u.avatar_key
		FROM team_memberships m
		JOIN users u ON m.user_id = u.id
		WHERE m.team_id = $1`

	args := []interface{}{teamID}
	if status != nil {
		query += ` AND m.status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY m.joined_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships by team: %w", err)
	}
	defer rows.Close()

	memberships := make([]models.TeamMembership, 0)
	for rows.Next() {
		var m models.TeamMembership
		var u models.User
		var avatar sql.NullString

		err := rows.Scan(
			&m.ID, &m.TeamID, &m.UserID, &m.Role, &m.Status, &m.JoinedAt, &m.LeftAt,
			&u.ID, &u.FirstName, &u.LastName, &u.Email, &avatar,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan membership row: %w", err)
		}
		u.AvatarKey = nullableString(avatar)
		m.User = &u
		memberships = append(memberships, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating membership rows: %w", err)
	}
	return memberships, nil
}

func (r *postgresMembershipRepository) UpdateStatus(ctx context.Context, id int, status models.MembershipStatus, leftAt *time.Time) error {
	query := `UPDATE team_memberships SET status = $1, left_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, status, leftAt, id)
	if err != nil {
		return fmt.Errorf("failed to update membership status: %w", err)
	}
	return checkAffectedRows(result, ErrMembershipNotFound)
}

func (r *postgresMembershipRepository) CountActiveByTeam(ctx context.Context, teamID int) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM team_memberships WHERE team_id = $1 AND status = $2`
	if err := r.db.QueryRowContext(ctx, query, teamID, models.MembershipStatusActive).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active memberships: %w", err)
	}
	return count, nil
}

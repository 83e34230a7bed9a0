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
	ErrRegistrationNotFound     = errors.New("registration not found")
	ErrRegistrationConflict     = errors.New("registration conflict: user is already registered for this event")
	ErrRegistrationEventInvalid = errors.New("registration event conflict or invalid")
	ErrRegistrationUserInvalid  = errors.New("registration user conflict or invalid")
	ErrEventFull                = errors.New("event has no remaining volunteer capacity")
)

type RegistrationRepository interface {
	// Create inserts the registration and bumps the event's volunteer
	// counter in the same transaction. Fails with ErrEventFull when the
	// counter is at capacity.
	Create(ctx context.Context, reg *models.Registration) error
	// Cancel flips the registration to cancelled and releases its slot in
	// the event counter, in one transaction.
	Cancel(ctx context.Context, id int) error
	GetByID(ctx context.Context, id int) (*models.Registration, error)
	FindByUserAndEvent(ctx context.Context, userID, eventID int) (*models.Registration, error)
	// ListByUserAndStatuses returns registrations with events attached. One
	// of the three reconciliation sources.
	ListByUserAndStatuses(ctx context.Context, userID int, statuses []models.RegistrationStatus) ([]models.Registration, error)
	ListByEvent(ctx context.Context, eventID int, status *models.RegistrationStatus) ([]models.Registration, error)
	UpdateStatus(ctx context.Context, id int, status models.RegistrationStatus) error
	Count(ctx context.Context) (int, error)
}

type postgresRegistrationRepository struct {
	db *sql.DB
}

func NewPostgresRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &postgresRegistrationRepository{db: db}
}

func (r *postgresRegistrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin registration transaction: %w", err)
	}
	defer tx.Rollback()

	// The capacity guard lives in the same statement as the counter bump so
	// concurrent registrations cannot oversubscribe an event.
	counterQuery := `
		UPDATE events
		SET current_volunteers = current_volunteers + 1
		WHERE id = $1 AND current_volunteers < max_volunteers`
	result, err := tx.ExecContext(ctx, counterQuery, reg.EventID)
	if err != nil {
		return fmt.Errorf("failed to reserve event capacity: %w", err)
	}
	if err := checkAffectedRows(result, ErrEventFull); err != nil {
		return err
	}

	insertQuery := `
		INSERT INTO registrations (event_id, user_id, status, terms_accepted, terms_accepted_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err = tx.QueryRowContext(ctx, insertQuery,
		reg.EventID,
		reg.UserID,
		reg.Status,
		reg.TermsAccepted,
		reg.TermsAcceptedAt,
	).Scan(&reg.ID, &reg.CreatedAt, &reg.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "registrations_event_id_user_id_key" {
					return ErrRegistrationConflict
				}
			case "23503": // foreign_key_violation
				switch pqErr.Constraint {
				case "registrations_event_id_fkey":
					return ErrRegistrationEventInvalid
				case "registrations_user_id_fkey":
					return ErrRegistrationUserInvalid
				}
			}
		}
		return fmt.Errorf("failed to create registration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit registration transaction: %w", err)
	}
	return nil
}

func (r *postgresRegistrationRepository) Cancel(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin cancellation transaction: %w", err)
	}
	defer tx.Rollback()

	var eventID int
	var previous models.RegistrationStatus
	selectQuery := `SELECT event_id, status FROM registrations WHERE id = $1 FOR UPDATE`
	err = tx.QueryRowContext(ctx, selectQuery, id).Scan(&eventID, &previous)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRegistrationNotFound
		}
		return fmt.Errorf("failed to lock registration: %w", err)
	}
	if previous == models.RegistrationStatusCancelled {
		return nil
	}

	updateQuery := `UPDATE registrations SET status = $1, updated_at = NOW() WHERE id = $2`
	if _, err := tx.ExecContext(ctx, updateQuery, models.RegistrationStatusCancelled, id); err != nil {
		return fmt.Errorf("failed to cancel registration: %w", err)
	}

	decrementQuery := `
		UPDATE events
		SET current_volunteers = GREATEST(current_volunteers - 1, 0)
		WHERE id = $1`
	if _, err := tx.ExecContext(ctx, decrementQuery, eventID); err != nil {
		return fmt.Errorf("failed to release event capacity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cancellation transaction: %w", err)
	}
	return nil
}

const registrationColumns = `r.id, r.event_id, r.user_id, r.status, r.terms_accepted, r.terms_accepted_at, r.created_at, r.updated_at`

func (r *postgresRegistrationRepository) GetByID(ctx context.Context, id int) (*models.Registration, error) {
	query := fmt.Sprintf(`SELECT %s FROM registrations r WHERE r.id = $1`, registrationColumns)
	var reg models.Registration
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&reg.ID, &reg.EventID, &reg.UserID, &reg.Status, &reg.TermsAccepted, &reg.TermsAcceptedAt, &reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to scan registration: %w", err)
	}
	return &reg, nil
}

func (r *postgresRegistrationRepository) FindByUserAndEvent(ctx context.Context, userID, eventID int) (*models.Registration, error) {
	query := fmt.Sprintf(`SELECT %s FROM registrations r WHERE r.user_id = $1 AND r.event_id = $2`, registrationColumns)
	var reg models.Registration
	err := r.db.QueryRowContext(ctx, query, userID, eventID).Scan(
		&reg.ID, &reg.EventID, &reg.UserID, &reg.Status, &reg.TermsAccepted, &reg.TermsAcceptedAt, &reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to find registration: %w", err)
	}
	return &reg, nil
}

func (r *postgresRegistrationRepository) ListByUserAndStatuses(ctx context.Context, userID int, statuses []models.RegistrationStatus) ([]models.Registration, error) {
	statusStrings := make([]string, len(statuses))
	for i, s := range statuses {
		statusStrings[i] = string(s)
	}

	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM registrations r
		JOIN events e ON r.event_id = e.id
		WHERE r.user_id = $1 AND r.status = ANY($2)
		ORDER BY r.created_at ASC`, registrationColumns, eventColumns)

	rows, err := r.db.QueryContext(ctx, query, userID, pq.Array(statusStrings))
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations by user: %w", err)
	}
	defer rows.Close()

	registrations := make([]models.Registration, 0)
	for rows.Next() {
		var reg models.Registration
		var e models.Event
		err := rows.Scan(
			&reg.ID, &reg.EventID, &reg.UserID, &reg.Status, &reg.TermsAccepted, &reg.TermsAcceptedAt, &reg.CreatedAt, &reg.UpdatedAt,
			&e.ID, &e.Title, &e.Description, &e.OrganizerID, &e.Category, &e.Date,
			&e.StartTime, &e.EndTime, &e.Location, &e.Status, &e.MaxVolunteers, &e.CurrentVolunteers,
			&e.ImageKey, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration row: %w", err)
		}
		reg.Event = &e
		registrations = append(registrations, reg)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registration rows: %w", err)
	}
	return registrations, nil
}

func (r *postgresRegistrationRepository) ListByEvent(ctx context.Context, eventID int, status *models.RegistrationStatus) ([]models.Registration, error) {
	query := fmt.Sprintf(`
		SELECT %s, u.id, u.first_name, u.last_name, u.email, u.avatar_key
		FROM registrations r
		JOIN users u ON r.user_id = u.id
		WHERE r.event_id = $1`, registrationColumns)

	args := []interface{}{eventID}
	if status != nil {
		query += ` AND r.status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY r.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations by event: %w", err)
	}
	defer rows.Close()

	registrations := make([]models.Registration, 0)
	for rows.Next() {
		var reg models.Registration
		var u models.User
		var avatar sql.NullString
		err := rows.Scan(
			&reg.ID, &reg.EventID, &reg.UserID, &reg.Status, &reg.TermsAccepted, &reg.TermsAcceptedAt, &reg.CreatedAt, &reg.UpdatedAt,
			&u.ID, &u.FirstName, &u.LastName, &u.Email, &avatar,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration row: %w", err)
		}
		u.AvatarKey = nullableString(avatar)
		reg.User = &u
		registrations = append(registrations, reg)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registration rows: %w", err)
	}
	return registrations, nil
}

func (r *postgresRegistrationRepository) UpdateStatus(ctx context.Context, id int, status models.RegistrationStatus) error {
	query := `UPDATE registrations SET status = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update registration status: %w", err)
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}

func (r *postgresRegistrationRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM registrations`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}
	return count, nil
}

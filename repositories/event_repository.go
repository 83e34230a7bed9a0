package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Aidana07/volunteer-hub/models"
	"github.com/lib/pq"
)

var (
	ErrEventNotFound         = errors.New("event not found")
	ErrEventOrganizerInvalid = errors.New("event organizer conflict or invalid")
)

// EventFilter narrows ListEvents. Zero values mean "no constraint".
type EventFilter struct {
	Category string
	Status   *models.EventStatus
	Search   string
	DateFrom *time.Time
	DateTo   *time.Time
}

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int) (*models.Event, error)
	List(ctx context.Context, filter EventFilter) ([]*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	UpdateStatus(ctx context.Context, id int, status models.EventStatus) error
	UpdateImageKey(ctx context.Context, id int, key *string) error
	ListPublishedEndedBefore(ctx context.Context, cutoff time.Time) ([]*models.Event, error)
	Count(ctx context.Context, status *models.EventStatus) (int, error)
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

const eventColumns = `e.id, e.title, e.description, e.organizer_id, e.category, e.date,
	e.start_time, e.end_time, e.location, e.status, e.max_volunteers, e.current_volunteers,
	e.image_key, e.created_at`

func scanEvent(row interface{ Scan(dest ...interface{}) error }) (*models.Event, error) {
	var e models.Event
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.OrganizerID, &e.Category, &e.Date,
		&e.StartTime, &e.EndTime, &e.Location, &e.Status, &e.MaxVolunteers, &e.CurrentVolunteers,
		&e.ImageKey, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}
	return &e, nil
}

func (r *postgresEventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (title, description, organizer_id, category, date, start_time, end_time, location, status, max_volunteers)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, current_volunteers, created_at`

	err := r.db.QueryRowContext(ctx, query,
		event.Title,
		event.Description,
		event.OrganizerID,
		event.Category,
		event.Date,
		event.StartTime,
		event.EndTime,
		event.Location,
		event.Status,
		event.MaxVolunteers,
	).Scan(&event.ID, &event.CurrentVolunteers, &event.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23503" && pqErr.Constraint == "events_organizer_id_fkey" {
				return ErrEventOrganizerInvalid
			}
		}
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *postgresEventRepository) GetByID(ctx context.Context, id int) (*models.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events e WHERE e.id = $1`, eventColumns)
	return scanEvent(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresEventRepository) List(ctx context.Context, filter EventFilter) ([]*models.Event, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s FROM events e WHERE 1=1`, eventColumns))

	args := make([]interface{}, 0, 5)
	argCounter := 1

	if filter.Category != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND e.category = $%d", argCounter))
		args = append(args, filter.Category)
		argCounter++
	}
	if filter.Status != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND e.status = $%d", argCounter))
		args = append(args, *filter.Status)
		argCounter++
	}
	if filter.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (e.title ILIKE $%d OR e.description ILIKE $%d)", argCounter, argCounter))
		args = append(args, "%"+filter.Search+"%")
		argCounter++
	}
	if filter.DateFrom != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND e.date >= $%d", argCounter))
		args = append(args, *filter.DateFrom)
		argCounter++
	}
	if filter.DateTo != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND e.date <= $%d", argCounter))
		args = append(args, *filter.DateTo)
		argCounter++
	}
	queryBuilder.WriteString(" ORDER BY e.date ASC NULLS LAST, e.id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := make([]*models.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}
	return events, nil
}

func (r *postgresEventRepository) Update(ctx context.Context, event *models.Event) error {
	query := `
		UPDATE events
		SET title = $1, description = $2, category = $3, date = $4, start_time = $5,
			end_time = $6, location = $7, max_volunteers = $8
		WHERE id = $9`

	result, err := r.db.ExecContext(ctx, query,
		event.Title,
		event.Description,
		event.Category,
		event.Date,
		event.StartTime,
		event.EndTime,
		event.Location,
		event.MaxVolunteers,
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) UpdateStatus(ctx context.Context, id int, status models.EventStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE events SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) UpdateImageKey(ctx context.Context, id int, key *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE events SET image_key = $1 WHERE id = $2`, key, id)
	if err != nil {
		return fmt.Errorf("failed to update event image key: %w", err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

// ListPublishedEndedBefore feeds the auto-completion scheduler.
func (r *postgresEventRepository) ListPublishedEndedBefore(ctx context.Context, cutoff time.Time) ([]*models.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events e WHERE e.status = $1 AND e.date IS NOT NULL AND e.date < $2`, eventColumns)

	rows, err := r.db.QueryContext(ctx, query, models.EventStatusPublished, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list events due for completion: %w", err)
	}
	defer rows.Close()

	events := make([]*models.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}
	return events, nil
}

func (r *postgresEventRepository) Count(ctx context.Context, status *models.EventStatus) (int, error) {
	var count int
	var err error
	if status != nil {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE status = $1`, *status).Scan(&count)
	} else {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wasin-t/eventbook/internal/domain"
	"github.com/wasin-t/eventbook/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// PostgresEventRepository implements EventRepository using PostgreSQL with pgxpool
type PostgresEventRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresEventRepository creates a new PostgresEventRepository
func NewPostgresEventRepository(pool *pgxpool.Pool) *PostgresEventRepository {
	return &PostgresEventRepository{pool: pool}
}

const eventColumns = `
	id, organizer_email, title, description, location, date,
	price, capacity, attendees, created_at, updated_at
`

// Create inserts a new event record
func (r *PostgresEventRepository) Create(ctx context.Context, event *domain.Event) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.event.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("event_id", event.ID),
		attribute.String("organizer", event.OrganizerEmail),
	)

	query := `
		INSERT INTO events (
			id, organizer_email, title, description, location, date,
			price, capacity, attendees, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11
		)
	`

	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.OrganizerEmail,
		event.Title,
		event.Description,
		event.Location,
		event.Date,
		event.Price,
		event.Capacity,
		event.Attendees,
		event.CreatedAt,
		event.UpdatedAt,
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create event: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// GetByID retrieves an event by its ID
func (r *PostgresEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.event.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("event_id", id))

	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event := &domain.Event{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.OrganizerEmail,
		&event.Title,
		&event.Description,
		&event.Location,
		&event.Date,
		&event.Price,
		&event.Capacity,
		&event.Attendees,
		&event.CreatedAt,
		&event.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrEventNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return event, nil
}

// List retrieves a page of events, newest date first. It fetches one extra
// row beyond the page to report whether more pages exist.
func (r *PostgresEventRepository) List(ctx context.Context, filter EventFilter) ([]*domain.Event, bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.event.list")
	defer span.End()

	span.SetAttributes(
		attribute.Int("page", filter.Page),
		attribute.Int("page_size", filter.PageSize),
	)

	offset := (filter.Page - 1) * filter.PageSize
	limit := filter.PageSize + 1

	var (
		rows pgx.Rows
		err  error
	)
	if filter.Search != "" {
		query := `
			SELECT ` + eventColumns + `
			FROM events
			WHERE title ILIKE '%' || $1 || '%' OR location ILIKE '%' || $1 || '%'
			ORDER BY date ASC
			LIMIT $2 OFFSET $3
		`
		rows, err = r.pool.Query(ctx, query, filter.Search, limit, offset)
	} else {
		query := `
			SELECT ` + eventColumns + `
			FROM events
			ORDER BY date ASC
			LIMIT $1 OFFSET $2
		`
		rows, err = r.pool.Query(ctx, query, limit, offset)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		event := &domain.Event{}
		if err := rows.Scan(
			&event.ID,
			&event.OrganizerEmail,
			&event.Title,
			&event.Description,
			&event.Location,
			&event.Date,
			&event.Price,
			&event.Capacity,
			&event.Attendees,
			&event.CreatedAt,
			&event.UpdatedAt,
		); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, false, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, fmt.Errorf("error iterating events: %w", err)
	}

	hasMore := len(events) > filter.PageSize
	if hasMore {
		events = events[:filter.PageSize]
	}

	span.SetAttributes(attribute.Int("count", len(events)))
	span.SetStatus(codes.Ok, "")
	return events, hasMore, nil
}

// Update updates an existing event. The attendee counter is never written
// here; it only moves through booking transactions.
func (r *PostgresEventRepository) Update(ctx context.Context, event *domain.Event) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.event.update")
	defer span.End()

	span.SetAttributes(attribute.String("event_id", event.ID))

	query := `
		UPDATE events SET
			title = $2,
			description = $3,
			location = $4,
			date = $5,
			price = $6,
			capacity = $7,
			updated_at = $8
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		event.ID,
		event.Title,
		event.Description,
		event.Location,
		event.Date,
		event.Price,
		event.Capacity,
		time.Now(),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to update event: %w", err)
	}

	if result.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "not found")
		return domain.ErrEventNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Delete removes an event. Bookings referencing it are removed by the
// ON DELETE CASCADE constraint.
func (r *PostgresEventRepository) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.event.delete")
	defer span.End()

	span.SetAttributes(attribute.String("event_id", id))

	result, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to delete event: %w", err)
	}

	if result.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "not found")
		return domain.ErrEventNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Ensure PostgresEventRepository implements EventRepository
var _ EventRepository = (*PostgresEventRepository)(nil)

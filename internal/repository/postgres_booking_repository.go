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

// PostgresBookingRepository implements BookingRepository using PostgreSQL with pgxpool
type PostgresBookingRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresBookingRepository creates a new PostgresBookingRepository
func NewPostgresBookingRepository(pool *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{pool: pool}
}

// bookingReturning matches scanBookingRow. RETURNING cannot join, so the
// event title slot is a NULL placeholder there.
const bookingReturning = `
	id, event_id, NULL::text, customer_name, customer_email, quantity, total_price,
	status, payment_ref, refund_id, confirmed_at, cancelled_at,
	created_at, updated_at
`

// claimSeats is the capacity check and claim in one statement. capacity = 0
// means unlimited. The row lock taken by UPDATE serializes concurrent claims.
const claimSeats = `
	UPDATE events SET
		attendees = attendees + $2,
		updated_at = $3
	WHERE id = $1
		AND (capacity = 0 OR attendees + $2 <= capacity)
`

// CreateWithCapacity atomically claims seats on the event and inserts the
// booking. Both writes commit or neither does.
func (r *PostgresBookingRepository) CreateWithCapacity(ctx context.Context, booking *domain.Booking) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.create_with_capacity")
	defer span.End()

	span.SetAttributes(
		attribute.String("booking_id", booking.ID),
		attribute.String("event_id", booking.EventID),
		attribute.Int("quantity", booking.Quantity),
	)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, claimSeats, booking.EventID, booking.Quantity, time.Now())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to claim seats: %w", err)
	}

	if result.RowsAffected() == 0 {
		// The claim failed. Distinguish missing event, sold out and partial
		// availability while still inside the transaction.
		var capacity, attendees int
		err := tx.QueryRow(ctx, `SELECT capacity, attendees FROM events WHERE id = $1`, booking.EventID).
			Scan(&capacity, &attendees)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				span.SetStatus(codes.Error, "event not found")
				return domain.ErrEventNotFound
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("failed to check event capacity: %w", err)
		}
		remaining := capacity - attendees
		if remaining <= 0 {
			span.SetStatus(codes.Error, "sold out")
			return domain.ErrSoldOut
		}
		span.SetAttributes(attribute.Int("seats_remaining", remaining))
		span.SetStatus(codes.Error, "capacity exceeded")
		return &domain.CapacityExceededError{Remaining: remaining}
	}

	insert := `
		INSERT INTO bookings (
			id, event_id, customer_name, customer_email, quantity, total_price,
			status, payment_ref, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10
		)
	`
	_, err = tx.Exec(ctx, insert,
		booking.ID,
		booking.EventID,
		booking.CustomerName,
		booking.CustomerEmail,
		booking.Quantity,
		booking.TotalPrice,
		booking.Status.String(),
		nullString(booking.PaymentRef),
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to commit booking: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// GetByID retrieves a booking with its event title
func (r *PostgresBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("booking_id", id))

	query := `
		SELECT
			b.id, b.event_id, e.title, b.customer_name, b.customer_email,
			b.quantity, b.total_price, b.status, b.payment_ref, b.refund_id,
			b.confirmed_at, b.cancelled_at, b.created_at, b.updated_at
		FROM bookings b
		JOIN events e ON b.event_id = e.id
		WHERE b.id = $1
	`

	booking, err := scanBookingRow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrBookingNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return booking, nil
}

// GetByCustomer retrieves bookings for a customer email, newest first
func (r *PostgresBookingRepository) GetByCustomer(ctx context.Context, email string, limit, offset int) ([]*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.get_by_customer")
	defer span.End()

	span.SetAttributes(
		attribute.String("customer_email", email),
		attribute.Int("limit", limit),
		attribute.Int("offset", offset),
	)

	query := `
		SELECT
			b.id, b.event_id, e.title, b.customer_name, b.customer_email,
			b.quantity, b.total_price, b.status, b.payment_ref, b.refund_id,
			b.confirmed_at, b.cancelled_at, b.created_at, b.updated_at
		FROM bookings b
		JOIN events e ON b.event_id = e.id
		WHERE b.customer_email = $1
		ORDER BY b.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, email, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get bookings by customer: %w", err)
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		booking, err := scanBookingRow(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(bookings)))
	span.SetStatus(codes.Ok, "")
	return bookings, nil
}

// SetPaymentRef attaches the payment intent id to a booking
func (r *PostgresBookingRepository) SetPaymentRef(ctx context.Context, id, paymentRef string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.set_payment_ref")
	defer span.End()

	span.SetAttributes(
		attribute.String("booking_id", id),
		attribute.String("payment_ref", paymentRef),
	)

	query := `
		UPDATE bookings SET
			payment_ref = $2,
			updated_at = $3
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, paymentRef, time.Now())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to set payment ref: %w", err)
	}

	if result.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "not found")
		return domain.ErrBookingNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// ConfirmByPaymentRef flips a pending booking to confirmed. The status guard
// makes webhook replays no-ops: a second delivery matches zero rows.
func (r *PostgresBookingRepository) ConfirmByPaymentRef(ctx context.Context, paymentRef string) (*domain.Booking, bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.confirm_by_payment_ref")
	defer span.End()

	span.SetAttributes(attribute.String("payment_ref", paymentRef))

	query := `
		UPDATE bookings SET
			status = 'confirmed',
			confirmed_at = $2,
			updated_at = $2
		WHERE payment_ref = $1 AND status = 'pending'
		RETURNING ` + bookingReturning

	now := time.Now()
	booking, err := scanBookingRow(r.pool.QueryRow(ctx, query, paymentRef, now))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "no pending booking")
			return nil, false, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, fmt.Errorf("failed to confirm booking: %w", err)
	}

	span.SetAttributes(attribute.String("booking_id", booking.ID))
	span.SetStatus(codes.Ok, "")
	return booking, true, nil
}

// CancelByPaymentRef flips a pending booking to cancelled after a failed or
// abandoned payment. The seat counter is left alone: the provider may still
// retry the same intent, and releasing here could hand those seats to someone
// else while the original charge goes on to succeed. Rows cancelled with
// their seats still claimed are reclaimed by an operator sweep, not by this
// path.
func (r *PostgresBookingRepository) CancelByPaymentRef(ctx context.Context, paymentRef string) (*domain.Booking, bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.cancel_by_payment_ref")
	defer span.End()

	span.SetAttributes(attribute.String("payment_ref", paymentRef))

	query := `
		UPDATE bookings SET
			status = 'cancelled',
			cancelled_at = $2,
			updated_at = $2
		WHERE payment_ref = $1 AND status = 'pending'
		RETURNING ` + bookingReturning

	now := time.Now()
	booking, err := scanBookingRow(r.pool.QueryRow(ctx, query, paymentRef, now))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "no pending booking")
			return nil, false, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, fmt.Errorf("failed to cancel booking: %w", err)
	}

	span.SetAttributes(attribute.String("booking_id", booking.ID))
	span.SetStatus(codes.Ok, "")
	return booking, true, nil
}

// CancelAndRelease flips the booking to cancelled and returns its seats to
// the event in one transaction. The status guard means the decrement runs at
// most once per booking no matter how many cancellations race.
func (r *PostgresBookingRepository) CancelAndRelease(ctx context.Context, id, refundID string) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.cancel_and_release")
	defer span.End()

	span.SetAttributes(attribute.String("booking_id", id))

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE bookings SET
			status = 'cancelled',
			refund_id = $2,
			cancelled_at = $3,
			updated_at = $3
		WHERE id = $1 AND status IN ('pending', 'confirmed')
		RETURNING ` + bookingReturning

	now := time.Now()
	booking, err := scanBookingRow(tx.QueryRow(ctx, query, id, nullString(refundID), now))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No cancellable row. Check whether the booking exists at all.
			var status string
			err := tx.QueryRow(ctx, `SELECT status FROM bookings WHERE id = $1`, id).Scan(&status)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					span.SetStatus(codes.Error, "not found")
					return nil, domain.ErrBookingNotFound
				}
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return nil, fmt.Errorf("failed to check booking status: %w", err)
			}
			span.SetStatus(codes.Error, "already cancelled")
			return nil, domain.ErrAlreadyCancelled
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}

	// Release the seats. GREATEST clamps at zero so a counter already reset
	// by an event edit never goes negative.
	release := `
		UPDATE events SET
			attendees = GREATEST(attendees - $2, 0),
			updated_at = $3
		WHERE id = $1
	`
	if _, err := tx.Exec(ctx, release, booking.EventID, booking.Quantity, now); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to release seats: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to commit cancellation: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return booking, nil
}

// scanBookingRow scans a booking from any row source
func scanBookingRow(row pgx.Row) (*domain.Booking, error) {
	booking := &domain.Booking{}
	var (
		status     string
		eventTitle *string
		paymentRef *string
		refundID   *string
	)

	err := row.Scan(
		&booking.ID,
		&booking.EventID,
		&eventTitle,
		&booking.CustomerName,
		&booking.CustomerEmail,
		&booking.Quantity,
		&booking.TotalPrice,
		&status,
		&paymentRef,
		&refundID,
		&booking.ConfirmedAt,
		&booking.CancelledAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.Status = domain.BookingStatus(status)
	if eventTitle != nil {
		booking.EventTitle = *eventTitle
	}
	if paymentRef != nil {
		booking.PaymentRef = *paymentRef
	}
	if refundID != nil {
		booking.RefundID = *refundID
	}
	return booking, nil
}

// nullString converts an empty string to a nil pointer for nullable columns
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Ensure PostgresBookingRepository implements BookingRepository
var _ BookingRepository = (*PostgresBookingRepository)(nil)

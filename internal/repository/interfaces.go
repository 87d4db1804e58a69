package repository

import (
	"context"
	"time"

	"github.com/wasin-t/eventbook/internal/domain"
)

// EventFilter narrows event listings
type EventFilter struct {
	Search   string
	Page     int
	PageSize int
}

// EventRepository defines data access for events
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context, filter EventFilter) ([]*domain.Event, bool, error)
	Update(ctx context.Context, event *domain.Event) error
	Delete(ctx context.Context, id string) error
}

// BookingRepository defines data access for bookings. Writes that touch the
// seat counter run inside a single transaction with the conditional capacity
// check so concurrent requests can never oversell.
type BookingRepository interface {
	// CreateWithCapacity atomically claims seats on the event and inserts the
	// booking. Returns domain.ErrSoldOut, domain.CapacityExceededError or
	// domain.ErrEventNotFound when the claim fails.
	CreateWithCapacity(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByCustomer(ctx context.Context, email string, limit, offset int) ([]*domain.Booking, error)
	SetPaymentRef(ctx context.Context, id, paymentRef string) error
	// ConfirmByPaymentRef flips a pending booking to confirmed. Returns the
	// booking and true when a row transitioned; false when no pending booking
	// matched (replayed or unknown payment reference).
	ConfirmByPaymentRef(ctx context.Context, paymentRef string) (*domain.Booking, bool, error)
	// CancelByPaymentRef flips a pending booking to cancelled without touching
	// the seat counter. Same replay semantics as ConfirmByPaymentRef.
	CancelByPaymentRef(ctx context.Context, paymentRef string) (*domain.Booking, bool, error)
	// CancelAndRelease atomically flips the booking to cancelled and returns
	// its seats to the event. Returns domain.ErrAlreadyCancelled when the
	// booking is not in a cancellable state.
	CancelAndRelease(ctx context.Context, id, refundID string) (*domain.Booking, error)
}

// BookingLock serializes cancellation per booking
type BookingLock interface {
	Acquire(ctx context.Context, bookingID string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, bookingID string) error
}

package domain

import (
	"strings"
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// IsValid checks if the status is a valid BookingStatus
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of BookingStatus
func (s BookingStatus) String() string {
	return string(s)
}

// Booking represents a booking entity
type Booking struct {
	ID            string        `json:"id"`
	EventID       string        `json:"event_id"`
	EventTitle    string        `json:"event_title"`
	CustomerName  string        `json:"customer_name"`
	CustomerEmail string        `json:"customer_email"`
	Quantity      int           `json:"quantity"`
	TotalPrice    float64       `json:"total_price"`
	Status        BookingStatus `json:"status"`
	PaymentRef    string        `json:"payment_ref,omitempty"`
	RefundID      string        `json:"refund_id,omitempty"`
	ConfirmedAt   *time.Time    `json:"confirmed_at,omitempty"`
	CancelledAt   *time.Time    `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Validate validates booking fields on create
func (b *Booking) Validate() error {
	if strings.TrimSpace(b.EventID) == "" {
		return ErrInvalidEventID
	}
	if strings.TrimSpace(b.CustomerName) == "" {
		return ErrInvalidName
	}
	if !isValidEmail(b.CustomerEmail) {
		return ErrInvalidEmail
	}
	if b.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// BelongsTo reports whether the given email owns this booking
func (b *Booking) BelongsTo(email string) bool {
	return strings.EqualFold(b.CustomerEmail, email)
}

// IsPending reports whether the booking is awaiting payment confirmation
func (b *Booking) IsPending() bool {
	return b.Status == BookingStatusPending
}

// IsConfirmed reports whether the booking is confirmed
func (b *Booking) IsConfirmed() bool {
	return b.Status == BookingStatusConfirmed
}

// IsCancelled reports whether the booking is cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == BookingStatusCancelled
}

// IsPaid reports whether the booking carries an external payment reference
func (b *Booking) IsPaid() bool {
	return b.PaymentRef != ""
}

func isValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}

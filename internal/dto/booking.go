package dto

import (
	"time"

	"github.com/wasin-t/eventbook/internal/domain"
)

// CreateBookingRequest is the request body for booking seats on an event
type CreateBookingRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// BookingResponse is the API representation of a booking
type BookingResponse struct {
	ID            string     `json:"id"`
	EventID       string     `json:"event_id"`
	EventTitle    string     `json:"event_title,omitempty"`
	CustomerName  string     `json:"customer_name"`
	CustomerEmail string     `json:"customer_email"`
	Quantity      int        `json:"quantity"`
	TotalPrice    float64    `json:"total_price"`
	Status        string     `json:"status"`
	ConfirmedAt   *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// CreateBookingResponse carries the new booking plus the payment client
// secret the frontend needs to complete the charge. ClientSecret is empty
// for free events, which confirm immediately.
type CreateBookingResponse struct {
	Booking      *BookingResponse `json:"booking"`
	ClientSecret string           `json:"client_secret,omitempty"`
}

// CancelBookingResponse reports the outcome of a cancellation
type CancelBookingResponse struct {
	Booking  *BookingResponse `json:"booking"`
	RefundID string           `json:"refund_id,omitempty"`
	Refunded bool             `json:"refunded"`
}

// BookingFromDomain converts a domain booking to its API representation
func BookingFromDomain(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:            b.ID,
		EventID:       b.EventID,
		EventTitle:    b.EventTitle,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		Quantity:      b.Quantity,
		TotalPrice:    b.TotalPrice,
		Status:        b.Status.String(),
		ConfirmedAt:   b.ConfirmedAt,
		CancelledAt:   b.CancelledAt,
		CreatedAt:     b.CreatedAt,
	}
}

// BookingsFromDomain converts a slice of domain bookings
func BookingsFromDomain(bookings []*domain.Booking) []*BookingResponse {
	out := make([]*BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, BookingFromDomain(b))
	}
	return out
}

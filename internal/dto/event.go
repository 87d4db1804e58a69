package dto

import (
	"time"

	"github.com/wasin-t/eventbook/internal/domain"
)

// CreateEventRequest is the request body for creating an event
type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Location    string    `json:"location" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
	Price       float64   `json:"price"`
	Capacity    int       `json:"capacity"` // 0 = unlimited
}

// UpdateEventRequest is the request body for updating an event
type UpdateEventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Location    string    `json:"location" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
	Price       float64   `json:"price"`
	Capacity    int       `json:"capacity"`
}

// EventResponse is the API representation of an event
type EventResponse struct {
	ID             string    `json:"id"`
	OrganizerEmail string    `json:"organizer_email"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Location       string    `json:"location"`
	Date           time.Time `json:"date"`
	Price          float64   `json:"price"`
	Capacity       int       `json:"capacity"`
	Attendees      int       `json:"attendees"`
	SeatsRemaining *int      `json:"seats_remaining,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// EventFromDomain converts a domain event to its API representation
func EventFromDomain(e *domain.Event) *EventResponse {
	resp := &EventResponse{
		ID:             e.ID,
		OrganizerEmail: e.OrganizerEmail,
		Title:          e.Title,
		Description:    e.Description,
		Location:       e.Location,
		Date:           e.Date,
		Price:          e.Price,
		Capacity:       e.Capacity,
		Attendees:      e.Attendees,
		CreatedAt:      e.CreatedAt,
	}
	if !e.IsUnlimited() {
		remaining := e.SeatsRemaining()
		resp.SeatsRemaining = &remaining
	}
	return resp
}

// PaginatedResponse wraps a page of results
type PaginatedResponse struct {
	Data     interface{} `json:"data"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	HasMore  bool        `json:"has_more"`
}

package domain

import (
	"strings"
	"time"
)

// CapacityUnlimited is the sentinel for events without a seat limit.
const CapacityUnlimited = 0

// Event represents an event entity
type Event struct {
	ID             string    `json:"id"`
	OrganizerEmail string    `json:"organizer_email"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Location       string    `json:"location"`
	Date           time.Time `json:"date"`
	Price          float64   `json:"price"`
	Capacity       int       `json:"capacity"` // 0 = unlimited
	Attendees      int       `json:"attendees"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Validate validates event fields on create/update
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrInvalidTitle
	}
	if e.Price < 0 {
		return ErrInvalidPrice
	}
	if e.Capacity < 0 {
		return ErrInvalidCapacity
	}
	if !e.Date.After(time.Now()) {
		return ErrInvalidDate
	}
	return nil
}

// IsUnlimited reports whether the event has no seat limit
func (e *Event) IsUnlimited() bool {
	return e.Capacity == CapacityUnlimited
}

// SeatsRemaining returns the number of unclaimed seats. It is meaningless for
// unlimited events; callers must check IsUnlimited first.
func (e *Event) SeatsRemaining() int {
	remaining := e.Capacity - e.Attendees
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsSoldOut reports whether no seats remain
func (e *Event) IsSoldOut() bool {
	return !e.IsUnlimited() && e.Attendees >= e.Capacity
}

// CanAdmit reports whether a booking of the given quantity would fit
func (e *Event) CanAdmit(quantity int) bool {
	if e.IsUnlimited() {
		return true
	}
	return e.Attendees+quantity <= e.Capacity
}

// HoursUntil returns the hours between now and the event date
func (e *Event) HoursUntil(now time.Time) float64 {
	return e.Date.Sub(now).Hours()
}

// IsOrganizedBy reports whether the given email owns this event
func (e *Event) IsOrganizedBy(email string) bool {
	return strings.EqualFold(e.OrganizerEmail, email)
}

package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Ticket is a derived artifact, recomputable from a confirmed booking and its
// event. Tickets are never persisted; booking state stays the single source of
// truth. Each issuance mints a fresh ticket id, so verification keys off the
// embedded booking id.
type Ticket struct {
	ID        string    `json:"ticket_id"`
	BookingID string    `json:"booking_id"`
	EventID   string    `json:"event_id"`
	Email     string    `json:"email"`
	Quantity  int       `json:"quantity"`
	IssuedAt  time.Time `json:"issued_at"`
}

// Encode serializes the ticket payload for QR embedding
func (t *Ticket) Encode() ([]byte, error) {
	return json.Marshal(t)
}

// DecodeTicket parses a presented scannable payload. Returns ErrTicketFormat
// when the payload does not parse or lacks the identifying fields.
func DecodeTicket(payload string) (*Ticket, error) {
	var t Ticket
	if err := json.Unmarshal([]byte(payload), &t); err != nil {
		return nil, ErrTicketFormat
	}
	if strings.TrimSpace(t.ID) == "" || strings.TrimSpace(t.BookingID) == "" {
		return nil, ErrTicketFormat
	}
	return &t, nil
}

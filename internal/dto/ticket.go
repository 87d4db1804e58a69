package dto

import "time"

// IssueTicketResponse carries the generated ticket artifacts. QRImage is a
// base64-encoded PNG and Document a base64-encoded printable PDF.
type IssueTicketResponse struct {
	TicketID  string    `json:"ticket_id"`
	BookingID string    `json:"booking_id"`
	EventID   string    `json:"event_id"`
	Quantity  int       `json:"quantity"`
	Payload   string    `json:"payload"`
	QRImage   string    `json:"qr_image"`
	Document  string    `json:"document"`
	IssuedAt  time.Time `json:"issued_at"`
}

// VerifyTicketRequest is the request body for gate-side ticket verification
type VerifyTicketRequest struct {
	Payload string `json:"payload" binding:"required"`
}

// VerifyTicketResponse reports the verification outcome for a scanned ticket
type VerifyTicketResponse struct {
	Valid         bool   `json:"valid"`
	Reason        string `json:"reason,omitempty"`
	BookingID     string `json:"booking_id,omitempty"`
	EventID       string `json:"event_id,omitempty"`
	EventTitle    string `json:"event_title,omitempty"`
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
	Quantity      int    `json:"quantity,omitempty"`
}

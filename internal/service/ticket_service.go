package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/wasin-t/eventbook/internal/domain"
	"github.com/wasin-t/eventbook/internal/dto"
	"github.com/wasin-t/eventbook/internal/metrics"
	"github.com/wasin-t/eventbook/internal/repository"
	"github.com/wasin-t/eventbook/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const qrImageSize = 256

// TicketService defines the interface for ticket issuance and verification.
// Tickets are derived documents: nothing is persisted, verification always
// goes back to the live booking.
type TicketService interface {
	// IssueTicket generates a ticket for a confirmed booking owned by the
	// customer: QR code plus printable PDF.
	IssueTicket(ctx context.Context, bookingID, customerEmail string) (*dto.IssueTicketResponse, error)

	// VerifyTicket checks a scanned QR payload against live booking state
	VerifyTicket(ctx context.Context, payload string) (*dto.VerifyTicketResponse, error)
}

// ticketService implements TicketService
type ticketService struct {
	bookingRepo repository.BookingRepository
	eventRepo   repository.EventRepository
}

// NewTicketService creates a new ticket service
func NewTicketService(bookingRepo repository.BookingRepository, eventRepo repository.EventRepository) TicketService {
	return &ticketService{
		bookingRepo: bookingRepo,
		eventRepo:   eventRepo,
	}
}

// IssueTicket generates a ticket for a confirmed booking
func (s *ticketService) IssueTicket(ctx context.Context, bookingID, customerEmail string) (*dto.IssueTicketResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.ticket.issue")
	defer span.End()

	if bookingID == "" {
		span.SetStatus(codes.Error, "invalid booking_id")
		return nil, domain.ErrInvalidBookingID
	}
	span.SetAttributes(attribute.String("booking_id", bookingID))

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if !booking.BelongsTo(customerEmail) {
		span.SetStatus(codes.Error, "forbidden")
		return nil, domain.ErrForbidden
	}

	if !booking.IsConfirmed() {
		span.SetStatus(codes.Error, "not confirmed")
		return nil, domain.ErrBookingNotConfirmed
	}

	event, err := s.eventRepo.GetByID(ctx, booking.EventID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	ticket := &domain.Ticket{
		ID:        uuid.New().String(),
		BookingID: booking.ID,
		EventID:   booking.EventID,
		Email:     booking.CustomerEmail,
		Quantity:  booking.Quantity,
		IssuedAt:  time.Now().UTC().Truncate(time.Second),
	}

	payload, err := ticket.Encode()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to encode ticket: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(payload), qrcode.Medium, qrImageSize)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	document, err := renderTicketPDF(event, booking, ticket, qrPNG)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to render ticket document: %w", err)
	}

	metrics.RecordTicketIssued(ctx, booking.EventID)

	span.SetAttributes(attribute.String("ticket_id", ticket.ID))
	span.SetStatus(codes.Ok, "")
	return &dto.IssueTicketResponse{
		TicketID:  ticket.ID,
		BookingID: ticket.BookingID,
		EventID:   ticket.EventID,
		Quantity:  ticket.Quantity,
		Payload:   string(payload),
		QRImage:   base64.StdEncoding.EncodeToString(qrPNG),
		Document:  base64.StdEncoding.EncodeToString(document),
		IssuedAt:  ticket.IssuedAt,
	}, nil
}

// VerifyTicket checks a scanned QR payload against live booking state
func (s *ticketService) VerifyTicket(ctx context.Context, payload string) (*dto.VerifyTicketResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.ticket.verify")
	defer span.End()

	ticket, err := domain.DecodeTicket(payload)
	if err != nil {
		metrics.RecordTicketVerified(ctx, "invalid_format")
		span.SetStatus(codes.Error, "invalid format")
		return nil, err
	}

	span.SetAttributes(
		attribute.String("ticket_id", ticket.ID),
		attribute.String("booking_id", ticket.BookingID),
	)

	booking, err := s.bookingRepo.GetByID(ctx, ticket.BookingID)
	if err != nil {
		if domain.IsNotFoundError(err) {
			metrics.RecordTicketVerified(ctx, "not_found")
			span.SetStatus(codes.Error, "booking not found")
			return nil, err
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if booking.IsCancelled() {
		metrics.RecordTicketVerified(ctx, "revoked")
		span.SetStatus(codes.Error, "revoked")
		return nil, domain.ErrTicketRevoked
	}

	if booking.EventID != ticket.EventID || booking.CustomerEmail != ticket.Email {
		metrics.RecordTicketVerified(ctx, "mismatch")
		span.SetStatus(codes.Error, "mismatch")
		return nil, domain.ErrTicketMismatch
	}

	if !booking.IsConfirmed() {
		metrics.RecordTicketVerified(ctx, "not_confirmed")
		span.SetStatus(codes.Error, "not confirmed")
		return nil, domain.ErrBookingNotConfirmed
	}

	metrics.RecordTicketVerified(ctx, "valid")
	span.SetStatus(codes.Ok, "")
	return &dto.VerifyTicketResponse{
		Valid:         true,
		BookingID:     booking.ID,
		EventID:       booking.EventID,
		EventTitle:    booking.EventTitle,
		CustomerName:  booking.CustomerName,
		CustomerEmail: booking.CustomerEmail,
		Quantity:      booking.Quantity,
	}, nil
}

// renderTicketPDF builds a single-page A4 ticket with the QR code embedded
func renderTicketPDF(event *domain.Event, booking *domain.Booking, ticket *domain.Ticket, qrPNG []byte) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(event.Title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(0, 14, event.Title, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, event.Location, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 8, event.Date.Format("Monday, 2 January 2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	rows := [][2]string{
		{"Ticket", ticket.ID},
		{"Booking", booking.ID},
		{"Name", booking.CustomerName},
		{"Email", booking.CustomerEmail},
		{"Admits", fmt.Sprintf("%d", booking.Quantity)},
	}
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(30, 8, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("ticket-qr", opts, bytes.NewReader(qrPNG))
	// Center the QR on an A4 page (210mm wide)
	pdf.ImageOptions("ticket-qr", 75, pdf.GetY(), 60, 60, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package service

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/wasin-t/eventbook/internal/domain"
)

func confirmedTestBooking() *domain.Booking {
	now := time.Now()
	return &domain.Booking{
		ID:            "booking-1",
		EventID:       "event-1",
		EventTitle:    "Go Conference",
		CustomerName:  "Alice",
		CustomerEmail: "alice@example.com",
		Quantity:      2,
		TotalPrice:    100,
		Status:        domain.BookingStatusConfirmed,
		PaymentRef:    "pi_123",
		ConfirmedAt:   &now,
	}
}

func TestIssueTicket(t *testing.T) {
	bookingRepo := &MockBookingRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*domain.Booking, error) {
			return confirmedTestBooking(), nil
		},
	}
	eventRepo := &MockEventRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*domain.Event, error) {
			return testEvent(50, 100, 10), nil
		},
	}

	svc := NewTicketService(bookingRepo, eventRepo)
	resp, err := svc.IssueTicket(context.Background(), "booking-1", "alice@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.TicketID == "" {
		t.Error("expected a ticket id")
	}
	if resp.BookingID != "booking-1" || resp.EventID != "event-1" {
		t.Errorf("ticket references wrong booking: %s / %s", resp.BookingID, resp.EventID)
	}

	// The payload must decode back to the same identifiers
	ticket, err := domain.DecodeTicket(resp.Payload)
	if err != nil {
		t.Fatalf("issued payload does not decode: %v", err)
	}
	if ticket.BookingID != "booking-1" || ticket.Email != "alice@example.com" || ticket.Quantity != 2 {
		t.Errorf("decoded ticket does not match booking: %+v", ticket)
	}

	qr, err := base64.StdEncoding.DecodeString(resp.QRImage)
	if err != nil || len(qr) == 0 {
		t.Errorf("expected a base64 PNG QR image, err=%v len=%d", err, len(qr))
	}
	doc, err := base64.StdEncoding.DecodeString(resp.Document)
	if err != nil || len(doc) == 0 {
		t.Errorf("expected a base64 PDF document, err=%v len=%d", err, len(doc))
	}
}

func TestIssueTicketErrors(t *testing.T) {
	tests := []struct {
		name          string
		bookingID     string
		customerEmail string
		setupMocks    func(*MockBookingRepository, *MockEventRepository)
		wantErr       error
	}{
		{
			name:          "pending booking is not ticketable",
			bookingID:     "booking-1",
			customerEmail: "alice@example.com",
			setupMocks: func(br *MockBookingRepository, er *MockEventRepository) {
				br.GetByIDFunc = func(ctx context.Context, id string) (*domain.Booking, error) {
					b := confirmedTestBooking()
					b.Status = domain.BookingStatusPending
					return b, nil
				}
			},
			wantErr: domain.ErrBookingNotConfirmed,
		},
		{
			name:          "cancelled booking is not ticketable",
			bookingID:     "booking-1",
			customerEmail: "alice@example.com",
			setupMocks: func(br *MockBookingRepository, er *MockEventRepository) {
				br.GetByIDFunc = func(ctx context.Context, id string) (*domain.Booking, error) {
					b := confirmedTestBooking()
					b.Status = domain.BookingStatusCancelled
					return b, nil
				}
			},
			wantErr: domain.ErrBookingNotConfirmed,
		},
		{
			name:          "non-owner is rejected",
			bookingID:     "booking-1",
			customerEmail: "mallory@example.com",
			setupMocks: func(br *MockBookingRepository, er *MockEventRepository) {
				br.GetByIDFunc = func(ctx context.Context, id string) (*domain.Booking, error) {
					return confirmedTestBooking(), nil
				}
			},
			wantErr: domain.ErrForbidden,
		},
		{
			name:          "booking not found",
			bookingID:     "missing",
			customerEmail: "alice@example.com",
			setupMocks: func(br *MockBookingRepository, er *MockEventRepository) {
				br.GetByIDFunc = func(ctx context.Context, id string) (*domain.Booking, error) {
					return nil, domain.ErrBookingNotFound
				}
			},
			wantErr: domain.ErrBookingNotFound,
		},
		{
			name:          "empty booking id",
			bookingID:     "",
			customerEmail: "alice@example.com",
			setupMocks:    func(br *MockBookingRepository, er *MockEventRepository) {},
			wantErr:       domain.ErrInvalidBookingID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookingRepo := &MockBookingRepository{}
			eventRepo := &MockEventRepository{
				GetByIDFunc: func(ctx context.Context, id string) (*domain.Event, error) {
					return testEvent(50, 100, 10), nil
				},
			}
			tt.setupMocks(bookingRepo, eventRepo)

			svc := NewTicketService(bookingRepo, eventRepo)
			_, err := svc.IssueTicket(context.Background(), tt.bookingID, tt.customerEmail)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestVerifyTicket(t *testing.T) {
	issue := func(t *testing.T, booking *domain.Booking) string {
		t.Helper()
		bookingRepo := &MockBookingRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Booking, error) {
				return booking, nil
			},
		}
		eventRepo := &MockEventRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Event, error) {
				return testEvent(50, 100, 10), nil
			},
		}
		resp, err := NewTicketService(bookingRepo, eventRepo).IssueTicket(context.Background(), booking.ID, booking.CustomerEmail)
		if err != nil {
			t.Fatalf("failed to issue ticket: %v", err)
		}
		return resp.Payload
	}

	t.Run("issued ticket verifies against live booking", func(t *testing.T) {
		booking := confirmedTestBooking()
		payload := issue(t, booking)

		bookingRepo := &MockBookingRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Booking, error) {
				return booking, nil
			},
		}
		svc := NewTicketService(bookingRepo, &MockEventRepository{})
		resp, err := svc.VerifyTicket(context.Background(), payload)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !resp.Valid {
			t.Error("expected ticket to be valid")
		}
		if resp.CustomerName != "Alice" || resp.Quantity != 2 {
			t.Errorf("expected live booking details, got %+v", resp)
		}
	})

	t.Run("cancelled booking revokes the ticket", func(t *testing.T) {
		booking := confirmedTestBooking()
		payload := issue(t, booking)

		cancelled := confirmedTestBooking()
		cancelled.Status = domain.BookingStatusCancelled
		bookingRepo := &MockBookingRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Booking, error) {
				return cancelled, nil
			},
		}
		svc := NewTicketService(bookingRepo, &MockEventRepository{})
		_, err := svc.VerifyTicket(context.Background(), payload)
		if !errors.Is(err, domain.ErrTicketRevoked) {
			t.Errorf("expected revoked error, got %v", err)
		}
	})

	t.Run("pending booking is not admissible", func(t *testing.T) {
		booking := confirmedTestBooking()
		payload := issue(t, booking)

		pending := confirmedTestBooking()
		pending.Status = domain.BookingStatusPending
		bookingRepo := &MockBookingRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Booking, error) {
				return pending, nil
			},
		}
		svc := NewTicketService(bookingRepo, &MockEventRepository{})
		_, err := svc.VerifyTicket(context.Background(), payload)
		if !errors.Is(err, domain.ErrBookingNotConfirmed) {
			t.Errorf("expected not confirmed error, got %v", err)
		}
	})

	t.Run("ticket event must match the booking", func(t *testing.T) {
		booking := confirmedTestBooking()
		payload := issue(t, booking)

		moved := confirmedTestBooking()
		moved.EventID = "event-2"
		bookingRepo := &MockBookingRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Booking, error) {
				return moved, nil
			},
		}
		svc := NewTicketService(bookingRepo, &MockEventRepository{})
		_, err := svc.VerifyTicket(context.Background(), payload)
		if !errors.Is(err, domain.ErrTicketMismatch) {
			t.Errorf("expected mismatch error, got %v", err)
		}
	})

	t.Run("booking no longer exists", func(t *testing.T) {
		booking := confirmedTestBooking()
		payload := issue(t, booking)

		bookingRepo := &MockBookingRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Booking, error) {
				return nil, domain.ErrBookingNotFound
			},
		}
		svc := NewTicketService(bookingRepo, &MockEventRepository{})
		_, err := svc.VerifyTicket(context.Background(), payload)
		if !errors.Is(err, domain.ErrBookingNotFound) {
			t.Errorf("expected not found error, got %v", err)
		}
	})

	t.Run("garbage payload", func(t *testing.T) {
		svc := NewTicketService(&MockBookingRepository{}, &MockEventRepository{})
		_, err := svc.VerifyTicket(context.Background(), "not a ticket")
		if !errors.Is(err, domain.ErrTicketFormat) {
			t.Errorf("expected format error, got %v", err)
		}
	})

	t.Run("payload missing booking id", func(t *testing.T) {
		svc := NewTicketService(&MockBookingRepository{}, &MockEventRepository{})
		_, err := svc.VerifyTicket(context.Background(), `{"ticket_id":"t-1"}`)
		if !errors.Is(err, domain.ErrTicketFormat) {
			t.Errorf("expected format error, got %v", err)
		}
	})
}

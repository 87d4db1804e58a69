package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/wasin-t/eventbook/internal/domain"
	"github.com/wasin-t/eventbook/internal/dto"
	"github.com/wasin-t/eventbook/internal/gateway"
)

func testEvent(price float64, capacity, attendees int) *domain.Event {
	return &domain.Event{
		ID:             "event-1",
		OrganizerEmail: "organizer@example.com",
		Title:          "Go Conference",
		Location:       "Bangkok",
		Date:           time.Now().Add(72 * time.Hour),
		Price:          price,
		Capacity:       capacity,
		Attendees:      attendees,
	}
}

func TestCreateBooking(t *testing.T) {
	tests := []struct {
		name       string
		eventID    string
		req        *dto.CreateBookingRequest
		setupMocks func(*MockEventRepository, *MockBookingRepository, *MockPaymentGateway)
		wantErr    error
		wantStatus domain.BookingStatus
		wantSecret bool
	}{
		{
			name:    "paid event creates pending booking with payment intent",
			eventID: "event-1",
			req:     &dto.CreateBookingRequest{Quantity: 2},
			setupMocks: func(er *MockEventRepository, br *MockBookingRepository, pg *MockPaymentGateway) {
				er.GetByIDFunc = func(ctx context.Context, id string) (*domain.Event, error) {
					return testEvent(50, 100, 10), nil
				}
				pg.CreatePaymentIntentFunc = func(ctx context.Context, req *gateway.PaymentIntentRequest) (*gateway.PaymentIntentResponse, error) {
					if req.Amount != 100 {
						t.Errorf("expected amount 100, got %v", req.Amount)
					}
					if req.Metadata["booking_id"] == "" {
						t.Error("expected booking_id in metadata")
					}
					return &gateway.PaymentIntentResponse{
						PaymentIntentID: "pi_123",
						ClientSecret:    "pi_123_secret",
					}, nil
				}
			},
			wantStatus: domain.BookingStatusPending,
			wantSecret: true,
		},
		{
			name:    "free event confirms immediately without payment intent",
			eventID: "event-1",
			req:     &dto.CreateBookingRequest{Quantity: 3},
			setupMocks: func(er *MockEventRepository, br *MockBookingRepository, pg *MockPaymentGateway) {
				er.GetByIDFunc = func(ctx context.Context, id string) (*domain.Event, error) {
					return testEvent(0, 100, 0), nil
				}
				pg.CreatePaymentIntentFunc = func(ctx context.Context, req *gateway.PaymentIntentRequest) (*gateway.PaymentIntentResponse, error) {
					t.Error("payment intent should not be created for a free event")
					return nil, errors.New("unexpected call")
				}
			},
			wantStatus: domain.BookingStatusConfirmed,
			wantSecret: false,
		},
		{
			name:    "quantity exceeds remaining capacity",
			eventID: "event-1",
			req:     &dto.CreateBookingRequest{Quantity: 5},
			setupMocks: func(er *MockEventRepository, br *MockBookingRepository, pg *MockPaymentGateway) {
				er.GetByIDFunc = func(ctx context.Context, id string) (*domain.Event, error) {
					return testEvent(50, 100, 97), nil
				}
				br.CreateWithCapacityFunc = func(ctx context.Context, booking *domain.Booking) error {
					return &domain.CapacityExceededError{Remaining: 3}
				}
			},
			wantErr: domain.ErrCapacityExceeded,
		},
		{
			name:    "sold out event",
			eventID: "event-1",
			req:     &dto.CreateBookingRequest{Quantity: 1},
			setupMocks: func(er *MockEventRepository, br *MockBookingRepository, pg *MockPaymentGateway) {
				er.GetByIDFunc = func(ctx context.Context, id string) (*domain.Event, error) {
					return testEvent(50, 100, 100), nil
				}
				br.CreateWithCapacityFunc = func(ctx context.Context, booking *domain.Booking) error {
					return domain.ErrSoldOut
				}
			},
			wantErr: domain.ErrSoldOut,
		},
		{
			name:       "zero quantity rejected",
			eventID:    "event-1",
			req:        &dto.CreateBookingRequest{Quantity: 0},
			setupMocks: func(er *MockEventRepository, br *MockBookingRepository, pg *MockPaymentGateway) {},
			wantErr:    domain.ErrInvalidQuantity,
		},
		{
			name:    "event not found",
			eventID: "missing",
			req:     &dto.CreateBookingRequest{Quantity: 1},
			setupMocks: func(er *MockEventRepository, br *MockBookingRepository, pg *MockPaymentGateway) {
				er.GetByIDFunc = func(ctx context.Context, id string) (*domain.Event, error) {
					return nil, domain.ErrEventNotFound
				}
			},
			wantErr: domain.ErrEventNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eventRepo := &MockEventRepository{}
			bookingRepo := &MockBookingRepository{}
			pg := &MockPaymentGateway{}
			tt.setupMocks(eventRepo, bookingRepo, pg)

			svc := NewBookingService(bookingRepo, eventRepo, &MockBookingLock{}, pg, nil, nil)
			resp, err := svc.CreateBooking(context.Background(), "Alice", "alice@example.com", tt.eventID, tt.req)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.Booking.Status != string(tt.wantStatus) {
				t.Errorf("expected status %s, got %s", tt.wantStatus, resp.Booking.Status)
			}
			if tt.wantSecret && resp.ClientSecret == "" {
				t.Error("expected a client secret")
			}
			if !tt.wantSecret && resp.ClientSecret != "" {
				t.Errorf("expected no client secret, got %s", resp.ClientSecret)
			}
		})
	}
}

func TestCreateBookingCompensatesOnGatewayFailure(t *testing.T) {
	eventRepo := &MockEventRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*domain.Event, error) {
			return testEvent(50, 100, 10), nil
		},
	}
	compensated := false
	bookingRepo := &MockBookingRepository{
		CancelAndReleaseFunc: func(ctx context.Context, id, refundID string) (*domain.Booking, error) {
			compensated = true
			return &domain.Booking{ID: id, Status: domain.BookingStatusCancelled}, nil
		},
	}
	pg := &MockPaymentGateway{
		CreatePaymentIntentFunc: func(ctx context.Context, req *gateway.PaymentIntentRequest) (*gateway.PaymentIntentResponse, error) {
			return nil, &domain.GatewayError{Op: "create_payment_intent", Err: errors.New("provider down")}
		},
	}

	svc := NewBookingService(bookingRepo, eventRepo, &MockBookingLock{}, pg, nil, nil)
	_, err := svc.CreateBooking(context.Background(), "Alice", "alice@example.com", "event-1", &dto.CreateBookingRequest{Quantity: 2})

	if !errors.Is(err, domain.ErrPaymentGateway) {
		t.Errorf("expected gateway error, got %v", err)
	}
	if !compensated {
		t.Error("expected claimed seats to be released after gateway failure")
	}
}

func TestCreateBookingConcurrentClaimsNeverExceedCapacity(t *testing.T) {
	const capacity = 10
	eventRepo := &MockEventRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*domain.Event, error) {
			return testEvent(0, capacity, 0), nil
		},
	}

	// The mock mirrors the repository's conditional claim: admit only while
	// the counter stays within capacity.
	var mu sync.Mutex
	attendees := 0
	bookingRepo := &MockBookingRepository{
		CreateWithCapacityFunc: func(ctx context.Context, b *domain.Booking) error {
			mu.Lock()
			defer mu.Unlock()
			if attendees+b.Quantity > capacity {
				return &domain.CapacityExceededError{Remaining: capacity - attendees}
			}
			attendees += b.Quantity
			return nil
		},
	}

	svc := NewBookingService(bookingRepo, eventRepo, &MockBookingLock{}, &MockPaymentGateway{}, nil, nil)

	var (
		wg       sync.WaitGroup
		acceptMu sync.Mutex
		accepted int
	)
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateBooking(context.Background(), "Alice", "alice@example.com", "event-1", &dto.CreateBookingRequest{Quantity: 1})
			if err == nil {
				acceptMu.Lock()
				accepted++
				acceptMu.Unlock()
				return
			}
			if !errors.Is(err, domain.ErrCapacityExceeded) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if attendees > capacity {
		t.Errorf("attendees = %d exceeds capacity %d", attendees, capacity)
	}
	if accepted != capacity {
		t.Errorf("accepted = %d bookings, want %d", accepted, capacity)
	}
	if attendees != accepted {
		t.Errorf("attendees = %d, want %d accepted claims", attendees, accepted)
	}
}

func TestCreateBookingCompensatesOnPaymentRefWriteFailure(t *testing.T) {
	eventRepo := &MockEventRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*domain.Event, error) {
			return testEvent(50, 100, 10), nil
		},
	}
	compensated := false
	bookingRepo := &MockBookingRepository{
		SetPaymentRefFunc: func(ctx context.Context, id, paymentRef string) error {
			return errors.New("connection reset")
		},
		CancelAndReleaseFunc: func(ctx context.Context, id, refundID string) (*domain.Booking, error) {
			compensated = true
			return &domain.Booking{ID: id, Status: domain.BookingStatusCancelled}, nil
		},
	}

	svc := NewBookingService(bookingRepo, eventRepo, &MockBookingLock{}, &MockPaymentGateway{}, nil, nil)
	_, err := svc.CreateBooking(context.Background(), "Alice", "alice@example.com", "event-1", &dto.CreateBookingRequest{Quantity: 2})

	if err == nil {
		t.Fatal("expected error when the payment ref cannot be recorded")
	}
	// A pending booking without a payment ref is unreachable by any webhook,
	// so the seats must come back.
	if !compensated {
		t.Error("expected claimed seats to be released when the payment ref write fails")
	}
}

func TestCreateBookingPublishesNotification(t *testing.T) {
	eventRepo := &MockEventRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*domain.Event, error) {
			return testEvent(0, 0, 0), nil
		},
	}
	notifier := &RecordingNotifier{}

	svc := NewBookingService(&MockBookingRepository{}, eventRepo, &MockBookingLock{}, &MockPaymentGateway{}, notifier, nil)
	_, err := svc.CreateBooking(context.Background(), "Alice", "alice@example.com", "event-1", &dto.CreateBookingRequest{Quantity: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(notifier.Events) != 1 || notifier.Events[0] != NotificationBookingCreated {
		t.Errorf("expected a %s notification, got %v", NotificationBookingCreated, notifier.Events)
	}
}

func TestCancelBooking(t *testing.T) {
	paidBooking := func() *domain.Booking {
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
		}
	}

	tests := []struct {
		name          string
		bookingID     string
		customerEmail string
		setupMocks    func(*MockEventRepository, *MockBookingRepository, *MockBookingLock, *MockPaymentGateway)
		wantErr       error
		wantRefunded  bool
	}{
		{
			name:          "paid booking cancels with refund",
			bookingID:     "booking-1",
			customerEmail: "alice@example.com",
			setupMocks: func(er *MockEventRepository, br *MockBookingRepository, lk *MockBookingLock, pg *MockPaymentGateway) {
				br.GetByIDFunc = func(ctx context.Context, id string) (*domain.Booking, error) {
					return paidBooking(), nil
				}
				er.GetByIDFunc = func(ctx context.Context, id string) (*domain.Event, error) {
					return testEvent(50, 100, 10), nil
				}
				br.CancelAndReleaseFunc = func(ctx context.Context, id, refundID string) (*domain.Booking, error) {
					if refundID == "" {
						t.Error("expected refund id to be recorded on the booking")
					}
					b := paidBooking()
					b.Status = domain.BookingStatusCancelled
					b.RefundID = refundID
					return b, nil
				}
			},
			wantRefunded: true,
		},
		{
			name:          "free booking cancels without refund",
			bookingID:     "booking-1",
			customerEmail: "alice@example.com",
			setupMocks: func(er *MockEventRepository, br *MockBookingRepository, lk *MockBookingLock, pg *MockPaymentGateway) {
				br.GetByIDFunc = func(ctx context.Context, id string) (*domain.Booking, error) {
					b := paidBooking()
					b.PaymentRef = ""
					b.TotalPrice = 0
					return b, nil
				}
				er.GetByIDFunc = func(ctx context.Context, id string) (*domain.Event, error) {
					return testEvent(0, 100, 10), nil
				}
				pg.RefundFunc = func(ctx context.Context, paymentRef, reason string) (*gateway.RefundReceipt, error) {
					t.Error("refund should not be attempted for an unpaid booking")
					return nil, errors.New("unexpected call")
				}
				br.CancelAndReleaseFunc = func(ctx context.Context, id, refundID string) (*domain.Booking, error) {
					b := paidBooking()
					b.PaymentRef = ""
					b.Status = domain.BookingStatusCancelled
					return b, nil
				}
			},
			wantRefunded: false,
		},
		{
			name:          "non-owner is rejected",
			bookingID:     "booking-1",
			customerEmail: "mallory@example.com",
			setupMocks: func(er *MockEventRepository, br *MockBookingRepository, lk *MockBookingLock, pg *MockPaymentGateway) {
				br.GetByIDFunc = func(ctx context.Context, id string) (*domain.Booking, error) {
					return paidBooking(), nil
				}
			},
			wantErr: domain.ErrForbidden,
		},
		{
			name:          "already cancelled",
			bookingID:     "booking-1",
			customerEmail: "alice@example.com",
			setupMocks: func(er *MockEventRepository, br *MockBookingRepository, lk *MockBookingLock, pg *MockPaymentGateway) {
				br.GetByIDFunc = func(ctx context.Context, id string) (*domain.Booking, error) {
					b := paidBooking()
					b.Status = domain.BookingStatusCancelled
					return b, nil
				}
			},
			wantErr: domain.ErrAlreadyCancelled,
		},
		{
			name:          "event starts within the cancellation window",
			bookingID:     "booking-1",
			customerEmail: "alice@example.com",
			setupMocks: func(er *MockEventRepository, br *MockBookingRepository, lk *MockBookingLock, pg *MockPaymentGateway) {
				br.GetByIDFunc = func(ctx context.Context, id string) (*domain.Booking, error) {
					return paidBooking(), nil
				}
				er.GetByIDFunc = func(ctx context.Context, id string) (*domain.Event, error) {
					e := testEvent(50, 100, 10)
					e.Date = time.Now().Add(6 * time.Hour)
					return e, nil
				}
			},
			wantErr: domain.ErrCancellationWindow,
		},
		{
			name:          "lock held by another cancellation",
			bookingID:     "booking-1",
			customerEmail: "alice@example.com",
			setupMocks: func(er *MockEventRepository, br *MockBookingRepository, lk *MockBookingLock, pg *MockPaymentGateway) {
				lk.AcquireFunc = func(ctx context.Context, bookingID string, ttl time.Duration) (bool, error) {
					return false, nil
				}
			},
			wantErr: domain.ErrCancellationInProgress,
		},
		{
			name:          "booking not found",
			bookingID:     "missing",
			customerEmail: "alice@example.com",
			setupMocks: func(er *MockEventRepository, br *MockBookingRepository, lk *MockBookingLock, pg *MockPaymentGateway) {
				br.GetByIDFunc = func(ctx context.Context, id string) (*domain.Booking, error) {
					return nil, domain.ErrBookingNotFound
				}
			},
			wantErr: domain.ErrBookingNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eventRepo := &MockEventRepository{}
			bookingRepo := &MockBookingRepository{}
			lock := &MockBookingLock{}
			pg := &MockPaymentGateway{}
			tt.setupMocks(eventRepo, bookingRepo, lock, pg)

			svc := NewBookingService(bookingRepo, eventRepo, lock, pg, nil, nil)
			resp, err := svc.CancelBooking(context.Background(), tt.bookingID, tt.customerEmail)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.Refunded != tt.wantRefunded {
				t.Errorf("expected refunded=%v, got %v", tt.wantRefunded, resp.Refunded)
			}
			if resp.Booking.Status != string(domain.BookingStatusCancelled) {
				t.Errorf("expected cancelled status, got %s", resp.Booking.Status)
			}
		})
	}
}

func TestCancelBookingRefundFailureLeavesBookingIntact(t *testing.T) {
	bookingRepo := &MockBookingRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*domain.Booking, error) {
			return &domain.Booking{
				ID:            "booking-1",
				EventID:       "event-1",
				CustomerEmail: "alice@example.com",
				Quantity:      2,
				Status:        domain.BookingStatusConfirmed,
				PaymentRef:    "pi_123",
			}, nil
		},
		CancelAndReleaseFunc: func(ctx context.Context, id, refundID string) (*domain.Booking, error) {
			t.Error("booking must not be cancelled when the refund fails")
			return nil, errors.New("unexpected call")
		},
	}
	eventRepo := &MockEventRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*domain.Event, error) {
			return testEvent(50, 100, 10), nil
		},
	}
	pg := &MockPaymentGateway{
		RefundFunc: func(ctx context.Context, paymentRef, reason string) (*gateway.RefundReceipt, error) {
			return nil, &domain.GatewayError{Op: "refund", Err: errors.New("provider down")}
		},
	}

	svc := NewBookingService(bookingRepo, eventRepo, &MockBookingLock{}, pg, nil, nil)
	_, err := svc.CancelBooking(context.Background(), "booking-1", "alice@example.com")

	if !errors.Is(err, domain.ErrRefundFailed) {
		t.Errorf("expected refund failed error, got %v", err)
	}
}

func TestCancelBookingReleasesLock(t *testing.T) {
	released := false
	lock := &MockBookingLock{
		ReleaseFunc: func(ctx context.Context, bookingID string) error {
			released = true
			return nil
		},
	}
	bookingRepo := &MockBookingRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*domain.Booking, error) {
			return nil, domain.ErrBookingNotFound
		},
	}

	svc := NewBookingService(bookingRepo, &MockEventRepository{}, lock, &MockPaymentGateway{}, nil, nil)
	_, _ = svc.CancelBooking(context.Background(), "booking-1", "alice@example.com")

	if !released {
		t.Error("expected the cancellation lock to be released")
	}
}

func TestReconcilePayment(t *testing.T) {
	confirmedBooking := &domain.Booking{
		ID:         "booking-1",
		EventID:    "event-1",
		Status:     domain.BookingStatusConfirmed,
		PaymentRef: "pi_123",
	}

	tests := []struct {
		name       string
		event      *gateway.ProviderEvent
		setupMocks func(*MockBookingRepository)
		wantNotify []string
	}{
		{
			name:  "successful payment confirms the booking",
			event: &gateway.ProviderEvent{Kind: gateway.ProviderEventSucceeded, PaymentRef: "pi_123", RawType: "payment_intent.succeeded"},
			setupMocks: func(br *MockBookingRepository) {
				br.ConfirmByPaymentRefFunc = func(ctx context.Context, paymentRef string) (*domain.Booking, bool, error) {
					return confirmedBooking, true, nil
				}
			},
			wantNotify: []string{NotificationBookingConfirmed},
		},
		{
			name:  "replayed delivery is a no-op",
			event: &gateway.ProviderEvent{Kind: gateway.ProviderEventSucceeded, PaymentRef: "pi_123", RawType: "payment_intent.succeeded"},
			setupMocks: func(br *MockBookingRepository) {
				br.ConfirmByPaymentRefFunc = func(ctx context.Context, paymentRef string) (*domain.Booking, bool, error) {
					return nil, false, nil
				}
			},
			wantNotify: nil,
		},
		{
			name:  "failed payment cancels the pending booking",
			event: &gateway.ProviderEvent{Kind: gateway.ProviderEventFailed, PaymentRef: "pi_123", RawType: "payment_intent.payment_failed"},
			setupMocks: func(br *MockBookingRepository) {
				br.CancelByPaymentRefFunc = func(ctx context.Context, paymentRef string) (*domain.Booking, bool, error) {
					b := &domain.Booking{ID: "booking-1", EventID: "event-1", Status: domain.BookingStatusCancelled, PaymentRef: "pi_123"}
					return b, true, nil
				}
			},
			wantNotify: []string{NotificationPaymentFailed},
		},
		{
			name:  "unknown event type is acked without touching bookings",
			event: &gateway.ProviderEvent{Kind: gateway.ProviderEventUnknown, RawType: "charge.updated"},
			setupMocks: func(br *MockBookingRepository) {
				br.ConfirmByPaymentRefFunc = func(ctx context.Context, paymentRef string) (*domain.Booking, bool, error) {
					t.Error("unknown events must not touch bookings")
					return nil, false, nil
				}
			},
			wantNotify: nil,
		},
		{
			name:  "unmatched payment reference is acked",
			event: &gateway.ProviderEvent{Kind: gateway.ProviderEventSucceeded, PaymentRef: "pi_unknown", RawType: "payment_intent.succeeded"},
			setupMocks: func(br *MockBookingRepository) {
				br.ConfirmByPaymentRefFunc = func(ctx context.Context, paymentRef string) (*domain.Booking, bool, error) {
					return nil, false, nil
				}
			},
			wantNotify: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookingRepo := &MockBookingRepository{}
			tt.setupMocks(bookingRepo)
			notifier := &RecordingNotifier{}

			svc := NewBookingService(bookingRepo, &MockEventRepository{}, &MockBookingLock{}, &MockPaymentGateway{}, notifier, nil)
			if err := svc.ReconcilePayment(context.Background(), tt.event); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(notifier.Events) != len(tt.wantNotify) {
				t.Fatalf("expected notifications %v, got %v", tt.wantNotify, notifier.Events)
			}
			for i, want := range tt.wantNotify {
				if notifier.Events[i] != want {
					t.Errorf("expected notification %s, got %s", want, notifier.Events[i])
				}
			}
		})
	}
}

func TestReconcilePaymentRepositoryError(t *testing.T) {
	repoErr := errors.New("connection reset")
	bookingRepo := &MockBookingRepository{
		ConfirmByPaymentRefFunc: func(ctx context.Context, paymentRef string) (*domain.Booking, bool, error) {
			return nil, false, repoErr
		},
	}

	svc := NewBookingService(bookingRepo, &MockEventRepository{}, &MockBookingLock{}, &MockPaymentGateway{}, nil, nil)
	err := svc.ReconcilePayment(context.Background(), &gateway.ProviderEvent{
		Kind:       gateway.ProviderEventSucceeded,
		PaymentRef: "pi_123",
		RawType:    "payment_intent.succeeded",
	})

	if !errors.Is(err, repoErr) {
		t.Errorf("expected repository error to propagate, got %v", err)
	}
}

func TestGetCustomerBookings(t *testing.T) {
	makeBookings := func(n int) []*domain.Booking {
		out := make([]*domain.Booking, n)
		for i := range out {
			out[i] = &domain.Booking{ID: "booking", CustomerEmail: "alice@example.com", Status: domain.BookingStatusConfirmed, Quantity: 1}
		}
		return out
	}

	tests := []struct {
		name        string
		page        int
		pageSize    int
		repoReturns int
		wantCount   int
		wantHasMore bool
	}{
		{name: "full page with more", page: 1, pageSize: 10, repoReturns: 11, wantCount: 10, wantHasMore: true},
		{name: "last partial page", page: 2, pageSize: 10, repoReturns: 4, wantCount: 4, wantHasMore: false},
		{name: "defaults applied", page: 0, pageSize: 0, repoReturns: 3, wantCount: 3, wantHasMore: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookingRepo := &MockBookingRepository{
				GetByCustomerFunc: func(ctx context.Context, email string, limit, offset int) ([]*domain.Booking, error) {
					return makeBookings(tt.repoReturns), nil
				},
			}

			svc := NewBookingService(bookingRepo, &MockEventRepository{}, &MockBookingLock{}, &MockPaymentGateway{}, nil, nil)
			resp, err := svc.GetCustomerBookings(context.Background(), "alice@example.com", tt.page, tt.pageSize)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			bookings, ok := resp.Data.([]*dto.BookingResponse)
			if !ok {
				t.Fatalf("unexpected data type %T", resp.Data)
			}
			if len(bookings) != tt.wantCount {
				t.Errorf("expected %d bookings, got %d", tt.wantCount, len(bookings))
			}
			if resp.HasMore != tt.wantHasMore {
				t.Errorf("expected has_more=%v, got %v", tt.wantHasMore, resp.HasMore)
			}
		})
	}
}

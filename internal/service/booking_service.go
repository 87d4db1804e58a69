package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wasin-t/eventbook/internal/domain"
	"github.com/wasin-t/eventbook/internal/dto"
	"github.com/wasin-t/eventbook/internal/gateway"
	"github.com/wasin-t/eventbook/internal/metrics"
	"github.com/wasin-t/eventbook/internal/repository"
	"github.com/wasin-t/eventbook/pkg/logger"
	"github.com/wasin-t/eventbook/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// BookingService defines the interface for booking lifecycle business logic
type BookingService interface {
	// CreateBooking books seats on an event for a customer. Paid events get a
	// pending booking plus a payment intent; free events confirm immediately.
	CreateBooking(ctx context.Context, customerName, customerEmail, eventID string, req *dto.CreateBookingRequest) (*dto.CreateBookingResponse, error)

	// CancelBooking cancels a booking, refund first when one was paid
	CancelBooking(ctx context.Context, bookingID, customerEmail string) (*dto.CancelBookingResponse, error)

	// GetBooking retrieves a booking owned by the customer
	GetBooking(ctx context.Context, bookingID, customerEmail string) (*dto.BookingResponse, error)

	// GetCustomerBookings retrieves the customer's bookings, newest first
	GetCustomerBookings(ctx context.Context, customerEmail string, page, pageSize int) (*dto.PaginatedResponse, error)

	// ReconcilePayment applies a verified provider notification to the
	// matching booking. Replays and unknown references are acked as no-ops.
	ReconcilePayment(ctx context.Context, event *gateway.ProviderEvent) error
}

// bookingService implements BookingService
type bookingService struct {
	bookingRepo        repository.BookingRepository
	eventRepo          repository.EventRepository
	lock               repository.BookingLock
	paymentGateway     gateway.PaymentGateway
	notifier           Notifier
	currency           string
	cancellationWindow time.Duration
	lockTTL            time.Duration
}

// BookingServiceConfig contains configuration for the booking service
type BookingServiceConfig struct {
	Currency                string
	CancellationWindowHours int
	LockTTL                 time.Duration
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookingRepo repository.BookingRepository,
	eventRepo repository.EventRepository,
	lock repository.BookingLock,
	paymentGateway gateway.PaymentGateway,
	notifier Notifier,
	cfg *BookingServiceConfig,
) BookingService {
	currency := "usd"
	window := 24 * time.Hour
	lockTTL := 30 * time.Second
	if cfg != nil {
		if cfg.Currency != "" {
			currency = cfg.Currency
		}
		if cfg.CancellationWindowHours > 0 {
			window = time.Duration(cfg.CancellationWindowHours) * time.Hour
		}
		if cfg.LockTTL > 0 {
			lockTTL = cfg.LockTTL
		}
	}
	if notifier == nil {
		notifier = NewNoOpNotifier()
	}
	return &bookingService{
		bookingRepo:        bookingRepo,
		eventRepo:          eventRepo,
		lock:               lock,
		paymentGateway:     paymentGateway,
		notifier:           notifier,
		currency:           currency,
		cancellationWindow: window,
		lockTTL:            lockTTL,
	}
}

// CreateBooking books seats on an event for a customer
func (s *bookingService) CreateBooking(ctx context.Context, customerName, customerEmail, eventID string, req *dto.CreateBookingRequest) (*dto.CreateBookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.create")
	defer span.End()

	if req == nil || req.Quantity <= 0 {
		span.SetStatus(codes.Error, "invalid quantity")
		return nil, domain.ErrInvalidQuantity
	}
	if eventID == "" {
		span.SetStatus(codes.Error, "invalid event_id")
		return nil, domain.ErrInvalidEventID
	}

	span.SetAttributes(
		attribute.String("event_id", eventID),
		attribute.Int("quantity", req.Quantity),
	)

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// Price is computed here from the stored event, never trusted from the
	// client.
	totalPrice := event.Price * float64(req.Quantity)
	free := totalPrice == 0

	now := time.Now()
	booking := &domain.Booking{
		ID:            uuid.New().String(),
		EventID:       event.ID,
		EventTitle:    event.Title,
		CustomerName:  customerName,
		CustomerEmail: customerEmail,
		Quantity:      req.Quantity,
		TotalPrice:    totalPrice,
		Status:        domain.BookingStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if free {
		booking.Status = domain.BookingStatusConfirmed
		booking.ConfirmedAt = &now
	}

	if err := booking.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.bookingRepo.CreateWithCapacity(ctx, booking); err != nil {
		if domain.IsConflictError(err) {
			metrics.RecordBookingRejected(ctx, eventID, rejectionReason(err))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("booking_id", booking.ID))

	clientSecret := ""
	if !free {
		intent, err := s.paymentGateway.CreatePaymentIntent(ctx, &gateway.PaymentIntentRequest{
			Amount:      totalPrice,
			Currency:    s.currency,
			Description: fmt.Sprintf("%d x %s", booking.Quantity, event.Title),
			Metadata: map[string]string{
				"booking_id": booking.ID,
				"event_id":   event.ID,
			},
		})
		if err != nil {
			// The seats were already claimed. Undo the booking so a gateway
			// outage cannot strand capacity.
			if _, cancelErr := s.bookingRepo.CancelAndRelease(ctx, booking.ID, ""); cancelErr != nil {
				logger.Get().Error(fmt.Sprintf("Failed to compensate booking %s after gateway error: %v", booking.ID, cancelErr))
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}

		if err := s.bookingRepo.SetPaymentRef(ctx, booking.ID, intent.PaymentIntentID); err != nil {
			// Without the ref no webhook can ever reach this booking, so it
			// would sit pending with its seats claimed forever. Undo it.
			if _, cancelErr := s.bookingRepo.CancelAndRelease(ctx, booking.ID, ""); cancelErr != nil {
				logger.Get().Error(fmt.Sprintf("Failed to compensate booking %s after payment ref write error: %v", booking.ID, cancelErr))
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		booking.PaymentRef = intent.PaymentIntentID
		clientSecret = intent.ClientSecret
	}

	s.notify(ctx, NotificationBookingCreated, booking)
	metrics.RecordBookingCreated(ctx, event.ID, booking.Quantity)

	span.SetStatus(codes.Ok, "")
	return &dto.CreateBookingResponse{
		Booking:      dto.BookingFromDomain(booking),
		ClientSecret: clientSecret,
	}, nil
}

// CancelBooking cancels a booking with the refund-first ordering: the money
// moves before the database does, so a refund failure leaves the booking
// fully intact and retryable.
func (s *bookingService) CancelBooking(ctx context.Context, bookingID, customerEmail string) (*dto.CancelBookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.cancel")
	defer span.End()

	if bookingID == "" {
		span.SetStatus(codes.Error, "invalid booking_id")
		return nil, domain.ErrInvalidBookingID
	}
	span.SetAttributes(attribute.String("booking_id", bookingID))

	acquired, err := s.lock.Acquire(ctx, bookingID, s.lockTTL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if !acquired {
		span.SetStatus(codes.Error, "cancellation in progress")
		return nil, domain.ErrCancellationInProgress
	}
	defer func() {
		if err := s.lock.Release(context.WithoutCancel(ctx), bookingID); err != nil {
			logger.Get().Warn(fmt.Sprintf("Failed to release cancellation lock for booking %s: %v", bookingID, err))
		}
	}()

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

	if booking.IsCancelled() {
		span.SetStatus(codes.Error, "already cancelled")
		return nil, domain.ErrAlreadyCancelled
	}

	event, err := s.eventRepo.GetByID(ctx, booking.EventID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	hoursUntil := event.HoursUntil(time.Now())
	windowHours := int(s.cancellationWindow / time.Hour)
	if hoursUntil < float64(windowHours) {
		span.SetStatus(codes.Error, "cancellation window closed")
		return nil, &domain.PolicyViolationError{
			HoursUntilEvent: hoursUntil,
			WindowHours:     windowHours,
		}
	}

	refundID := ""
	if booking.IsPaid() {
		receipt, err := s.paymentGateway.Refund(ctx, booking.PaymentRef, "requested_by_customer")
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "refund failed")
			return nil, &domain.RefundFailedError{Err: err}
		}
		refundID = receipt.RefundID
		span.SetAttributes(attribute.String("refund_id", refundID))
	}

	cancelled, err := s.bookingRepo.CancelAndRelease(ctx, bookingID, refundID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	cancelled.EventTitle = booking.EventTitle

	s.notify(ctx, NotificationBookingCancelled, cancelled)
	metrics.RecordBookingCancelled(ctx, cancelled.EventID, cancelled.Quantity, refundID != "")

	span.SetStatus(codes.Ok, "")
	return &dto.CancelBookingResponse{
		Booking:  dto.BookingFromDomain(cancelled),
		RefundID: refundID,
		Refunded: refundID != "",
	}, nil
}

// GetBooking retrieves a booking owned by the customer
func (s *bookingService) GetBooking(ctx context.Context, bookingID, customerEmail string) (*dto.BookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.get")
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

	span.SetStatus(codes.Ok, "")
	return dto.BookingFromDomain(booking), nil
}

// GetCustomerBookings retrieves the customer's bookings
func (s *bookingService) GetCustomerBookings(ctx context.Context, customerEmail string, page, pageSize int) (*dto.PaginatedResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.get_customer_bookings")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	span.SetAttributes(
		attribute.String("customer_email", customerEmail),
		attribute.Int("page", page),
	)

	// Fetch one extra row to detect whether more pages exist
	bookings, err := s.bookingRepo.GetByCustomer(ctx, customerEmail, pageSize+1, (page-1)*pageSize)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	hasMore := len(bookings) > pageSize
	if hasMore {
		bookings = bookings[:pageSize]
	}

	span.SetAttributes(attribute.Int("count", len(bookings)))
	span.SetStatus(codes.Ok, "")
	return &dto.PaginatedResponse{
		Data:     dto.BookingsFromDomain(bookings),
		Page:     page,
		PageSize: pageSize,
		HasMore:  hasMore,
	}, nil
}

// ReconcilePayment applies a verified provider notification. Only pending
// bookings move; the conditional update makes replayed deliveries no-ops.
// The seat counter is never touched here: a success keeps the claim and a
// failure keeps seats held until the customer or a cleanup cancels.
func (s *bookingService) ReconcilePayment(ctx context.Context, event *gateway.ProviderEvent) error {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.reconcile_payment")
	defer span.End()

	if event == nil {
		span.SetStatus(codes.Error, "nil provider event")
		return fmt.Errorf("provider event is required")
	}

	span.SetAttributes(
		attribute.String("kind", string(event.Kind)),
		attribute.String("payment_ref", event.PaymentRef),
	)
	metrics.RecordWebhookEvent(ctx, event.RawType)

	if event.Kind == gateway.ProviderEventUnknown || event.PaymentRef == "" {
		// Ack anything we do not understand so the provider stops retrying
		span.SetStatus(codes.Ok, "ignored")
		return nil
	}

	switch event.Kind {
	case gateway.ProviderEventSucceeded:
		booking, transitioned, err := s.bookingRepo.ConfirmByPaymentRef(ctx, event.PaymentRef)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		if transitioned {
			s.notify(ctx, NotificationBookingConfirmed, booking)
			metrics.RecordBookingConfirmed(ctx, booking.EventID)
		}

	case gateway.ProviderEventFailed, gateway.ProviderEventCanceled:
		booking, transitioned, err := s.bookingRepo.CancelByPaymentRef(ctx, event.PaymentRef)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		if transitioned {
			s.notify(ctx, NotificationPaymentFailed, booking)
			metrics.RecordPaymentFailed(ctx, booking.EventID)
		}
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// notify publishes a lifecycle notification, logging instead of failing
func (s *bookingService) notify(ctx context.Context, eventType string, booking *domain.Booking) {
	if err := s.notifier.Notify(ctx, eventType, booking); err != nil {
		logger.Get().Warn(fmt.Sprintf("Failed to publish %s notification for booking %s: %v", eventType, booking.ID, err))
	}
}

func rejectionReason(err error) string {
	var capErr *domain.CapacityExceededError
	switch {
	case errors.As(err, &capErr):
		return "capacity_exceeded"
	case errors.Is(err, domain.ErrSoldOut):
		return "sold_out"
	default:
		return "conflict"
	}
}

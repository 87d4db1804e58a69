package service

import (
	"context"
	"time"

	"github.com/wasin-t/eventbook/internal/domain"
	"github.com/wasin-t/eventbook/internal/gateway"
	"github.com/wasin-t/eventbook/internal/repository"
)

// MockEventRepository is a mock implementation of EventRepository
type MockEventRepository struct {
	CreateFunc  func(ctx context.Context, event *domain.Event) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Event, error)
	ListFunc    func(ctx context.Context, filter repository.EventFilter) ([]*domain.Event, bool, error)
	UpdateFunc  func(ctx context.Context, event *domain.Event) error
	DeleteFunc  func(ctx context.Context, id string) error
}

func (m *MockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, event)
	}
	return nil
}

func (m *MockEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrEventNotFound
}

func (m *MockEventRepository) List(ctx context.Context, filter repository.EventFilter) ([]*domain.Event, bool, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []*domain.Event{}, false, nil
}

func (m *MockEventRepository) Update(ctx context.Context, event *domain.Event) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, event)
	}
	return nil
}

func (m *MockEventRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockBookingRepository is a mock implementation of BookingRepository
type MockBookingRepository struct {
	CreateWithCapacityFunc  func(ctx context.Context, booking *domain.Booking) error
	GetByIDFunc             func(ctx context.Context, id string) (*domain.Booking, error)
	GetByCustomerFunc       func(ctx context.Context, email string, limit, offset int) ([]*domain.Booking, error)
	SetPaymentRefFunc       func(ctx context.Context, id, paymentRef string) error
	ConfirmByPaymentRefFunc func(ctx context.Context, paymentRef string) (*domain.Booking, bool, error)
	CancelByPaymentRefFunc  func(ctx context.Context, paymentRef string) (*domain.Booking, bool, error)
	CancelAndReleaseFunc    func(ctx context.Context, id, refundID string) (*domain.Booking, error)
}

func (m *MockBookingRepository) CreateWithCapacity(ctx context.Context, booking *domain.Booking) error {
	if m.CreateWithCapacityFunc != nil {
		return m.CreateWithCapacityFunc(ctx, booking)
	}
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrBookingNotFound
}

func (m *MockBookingRepository) GetByCustomer(ctx context.Context, email string, limit, offset int) ([]*domain.Booking, error) {
	if m.GetByCustomerFunc != nil {
		return m.GetByCustomerFunc(ctx, email, limit, offset)
	}
	return []*domain.Booking{}, nil
}

func (m *MockBookingRepository) SetPaymentRef(ctx context.Context, id, paymentRef string) error {
	if m.SetPaymentRefFunc != nil {
		return m.SetPaymentRefFunc(ctx, id, paymentRef)
	}
	return nil
}

func (m *MockBookingRepository) ConfirmByPaymentRef(ctx context.Context, paymentRef string) (*domain.Booking, bool, error) {
	if m.ConfirmByPaymentRefFunc != nil {
		return m.ConfirmByPaymentRefFunc(ctx, paymentRef)
	}
	return nil, false, nil
}

func (m *MockBookingRepository) CancelByPaymentRef(ctx context.Context, paymentRef string) (*domain.Booking, bool, error) {
	if m.CancelByPaymentRefFunc != nil {
		return m.CancelByPaymentRefFunc(ctx, paymentRef)
	}
	return nil, false, nil
}

func (m *MockBookingRepository) CancelAndRelease(ctx context.Context, id, refundID string) (*domain.Booking, error) {
	if m.CancelAndReleaseFunc != nil {
		return m.CancelAndReleaseFunc(ctx, id, refundID)
	}
	return nil, domain.ErrBookingNotFound
}

// MockBookingLock is a mock implementation of BookingLock
type MockBookingLock struct {
	AcquireFunc func(ctx context.Context, bookingID string, ttl time.Duration) (bool, error)
	ReleaseFunc func(ctx context.Context, bookingID string) error
}

func (m *MockBookingLock) Acquire(ctx context.Context, bookingID string, ttl time.Duration) (bool, error) {
	if m.AcquireFunc != nil {
		return m.AcquireFunc(ctx, bookingID, ttl)
	}
	return true, nil
}

func (m *MockBookingLock) Release(ctx context.Context, bookingID string) error {
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, bookingID)
	}
	return nil
}

// MockPaymentGateway is a mock implementation of gateway.PaymentGateway
type MockPaymentGateway struct {
	CreatePaymentIntentFunc func(ctx context.Context, req *gateway.PaymentIntentRequest) (*gateway.PaymentIntentResponse, error)
	RefundFunc              func(ctx context.Context, paymentRef, reason string) (*gateway.RefundReceipt, error)
	VerifyWebhookFunc       func(payload []byte, sigHeader string) (*gateway.ProviderEvent, error)
}

func (m *MockPaymentGateway) CreatePaymentIntent(ctx context.Context, req *gateway.PaymentIntentRequest) (*gateway.PaymentIntentResponse, error) {
	if m.CreatePaymentIntentFunc != nil {
		return m.CreatePaymentIntentFunc(ctx, req)
	}
	return &gateway.PaymentIntentResponse{
		PaymentIntentID: "pi_test_123",
		ClientSecret:    "pi_test_123_secret",
		Status:          "requires_payment_method",
	}, nil
}

func (m *MockPaymentGateway) Refund(ctx context.Context, paymentRef, reason string) (*gateway.RefundReceipt, error) {
	if m.RefundFunc != nil {
		return m.RefundFunc(ctx, paymentRef, reason)
	}
	return &gateway.RefundReceipt{
		RefundID: "re_test_123",
		Status:   "succeeded",
	}, nil
}

func (m *MockPaymentGateway) VerifyWebhook(payload []byte, sigHeader string) (*gateway.ProviderEvent, error) {
	if m.VerifyWebhookFunc != nil {
		return m.VerifyWebhookFunc(payload, sigHeader)
	}
	return &gateway.ProviderEvent{Kind: gateway.ProviderEventUnknown}, nil
}

func (m *MockPaymentGateway) Name() string {
	return "test"
}

// RecordingNotifier captures published notifications
type RecordingNotifier struct {
	Events []string
}

func (n *RecordingNotifier) Notify(ctx context.Context, eventType string, booking *domain.Booking) error {
	n.Events = append(n.Events, eventType)
	return nil
}

func (n *RecordingNotifier) Close() error {
	return nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wasin-t/eventbook/internal/domain"
	"github.com/wasin-t/eventbook/pkg/kafka"
)

// Notification event types on the wire
const (
	NotificationBookingCreated   = "booking.created"
	NotificationBookingConfirmed = "booking.confirmed"
	NotificationBookingCancelled = "booking.cancelled"
	NotificationPaymentFailed    = "booking.payment_failed"
)

// BookingNotification is the message published for downstream consumers
// (email sender, analytics)
type BookingNotification struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	BookingID     string    `json:"booking_id"`
	EventID       string    `json:"event_id"`
	EventTitle    string    `json:"event_title,omitempty"`
	CustomerEmail string    `json:"customer_email"`
	Quantity      int       `json:"quantity"`
	TotalPrice    float64   `json:"total_price"`
	Status        string    `json:"status"`
	RefundID      string    `json:"refund_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Notifier publishes booking lifecycle notifications. Publishing is
// best-effort; failures never roll back the state change that triggered them.
type Notifier interface {
	Notify(ctx context.Context, eventType string, booking *domain.Booking) error
	Close() error
}

// KafkaNotifier implements Notifier using a Kafka topic
type KafkaNotifier struct {
	producer    *kafka.Producer
	topic       string
	serviceName string
}

// NewKafkaNotifier creates a new Kafka notifier
func NewKafkaNotifier(producer *kafka.Producer, topic, serviceName string) (*KafkaNotifier, error) {
	if producer == nil {
		return nil, fmt.Errorf("kafka producer is required")
	}
	if topic == "" {
		topic = "booking-notifications"
	}
	return &KafkaNotifier{
		producer:    producer,
		topic:       topic,
		serviceName: serviceName,
	}, nil
}

// Notify publishes a notification keyed by booking id so per-booking ordering
// is preserved within a partition
func (n *KafkaNotifier) Notify(ctx context.Context, eventType string, booking *domain.Booking) error {
	notification := &BookingNotification{
		ID:            uuid.New().String(),
		Type:          eventType,
		BookingID:     booking.ID,
		EventID:       booking.EventID,
		EventTitle:    booking.EventTitle,
		CustomerEmail: booking.CustomerEmail,
		Quantity:      booking.Quantity,
		TotalPrice:    booking.TotalPrice,
		Status:        booking.Status.String(),
		RefundID:      booking.RefundID,
		OccurredAt:    time.Now(),
	}

	headers := map[string]string{
		"event_type":   eventType,
		"source":       n.serviceName,
		"content_type": "application/json",
	}

	if err := n.producer.ProduceJSON(ctx, n.topic, booking.ID, notification, headers); err != nil {
		return fmt.Errorf("failed to publish %s notification: %w", eventType, err)
	}
	return nil
}

// Close closes the underlying producer
func (n *KafkaNotifier) Close() error {
	if n.producer != nil {
		n.producer.Close()
	}
	return nil
}

// NoOpNotifier is used when Kafka is not configured
type NoOpNotifier struct{}

// NewNoOpNotifier creates a new no-op notifier
func NewNoOpNotifier() *NoOpNotifier {
	return &NoOpNotifier{}
}

// Notify is a no-op
func (n *NoOpNotifier) Notify(ctx context.Context, eventType string, booking *domain.Booking) error {
	return nil
}

// Close is a no-op
func (n *NoOpNotifier) Close() error {
	return nil
}

var (
	_ Notifier = (*KafkaNotifier)(nil)
	_ Notifier = (*NoOpNotifier)(nil)
)

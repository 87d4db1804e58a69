package metrics

import (
	"context"
	"sync"

	"github.com/wasin-t/eventbook/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

var (
	// Booking lifecycle counters
	BookingsCreated   *telemetry.Counter
	BookingsConfirmed *telemetry.Counter
	BookingsCancelled *telemetry.Counter
	BookingsRejected  *telemetry.Counter

	// Payment counters
	PaymentsFailed *telemetry.Counter
	RefundsIssued  *telemetry.Counter
	WebhookEvents  *telemetry.Counter

	// Ticket counters
	TicketsIssued   *telemetry.Counter
	TicketsVerified *telemetry.Counter

	// Seat occupancy across all events
	SeatsClaimed *telemetry.UpDownCounter

	// Request duration histogram for latency tracking
	RequestDuration *telemetry.Histogram

	initOnce sync.Once
	initErr  error
)

// Init initializes all metrics
func Init() error {
	initOnce.Do(func() {
		initErr = initMetrics()
	})
	return initErr
}

func initMetrics() error {
	var err error

	BookingsCreated, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "bookings_created_total",
		Description: "Total number of bookings created",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	BookingsConfirmed, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "bookings_confirmed_total",
		Description: "Total number of bookings confirmed by payment",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	BookingsCancelled, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "bookings_cancelled_total",
		Description: "Total number of bookings cancelled",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	BookingsRejected, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "bookings_rejected_total",
		Description: "Total number of bookings rejected by the capacity check",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	PaymentsFailed, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "payments_failed_total",
		Description: "Total number of failed or abandoned payments",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	RefundsIssued, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "refunds_issued_total",
		Description: "Total number of refunds issued on cancellation",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	WebhookEvents, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "webhook_events_total",
		Description: "Total number of payment webhook events by type",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	TicketsIssued, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "tickets_issued_total",
		Description: "Total number of tickets issued",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	TicketsVerified, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "tickets_verified_total",
		Description: "Total number of ticket verifications by result",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	SeatsClaimed, err = telemetry.NewUpDownCounter(telemetry.MetricOpts{
		Name:        "seats_claimed",
		Description: "Current number of claimed seats across events",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	RequestDuration, err = telemetry.NewHistogramWithBuckets(telemetry.MetricOpts{
		Name:        "http_request_duration_seconds",
		Description: "HTTP request duration in seconds",
		Unit:        "s",
	}, []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10})
	if err != nil {
		return err
	}

	return nil
}

// RecordBookingCreated records a created booking and its claimed seats
func RecordBookingCreated(ctx context.Context, eventID string, quantity int) {
	if BookingsCreated != nil {
		BookingsCreated.Inc(ctx, attribute.String("event_id", eventID))
	}
	if SeatsClaimed != nil {
		SeatsClaimed.Add(ctx, int64(quantity))
	}
}

// RecordBookingConfirmed records a webhook-confirmed booking
func RecordBookingConfirmed(ctx context.Context, eventID string) {
	if BookingsConfirmed != nil {
		BookingsConfirmed.Inc(ctx, attribute.String("event_id", eventID))
	}
}

// RecordBookingCancelled records a cancellation and the released seats
func RecordBookingCancelled(ctx context.Context, eventID string, quantity int, refunded bool) {
	if BookingsCancelled != nil {
		BookingsCancelled.Inc(ctx,
			attribute.String("event_id", eventID),
			attribute.Bool("refunded", refunded),
		)
	}
	if SeatsClaimed != nil {
		SeatsClaimed.Add(ctx, -int64(quantity))
	}
	if refunded && RefundsIssued != nil {
		RefundsIssued.Inc(ctx, attribute.String("event_id", eventID))
	}
}

// RecordBookingRejected records a capacity rejection
func RecordBookingRejected(ctx context.Context, eventID, reason string) {
	if BookingsRejected != nil {
		BookingsRejected.Inc(ctx,
			attribute.String("event_id", eventID),
			attribute.String("reason", reason),
		)
	}
}

// RecordPaymentFailed records a failed or abandoned payment
func RecordPaymentFailed(ctx context.Context, eventID string) {
	if PaymentsFailed != nil {
		PaymentsFailed.Inc(ctx, attribute.String("event_id", eventID))
	}
}

// RecordWebhookEvent records a received webhook event by type
func RecordWebhookEvent(ctx context.Context, eventType string) {
	if WebhookEvents != nil {
		WebhookEvents.Inc(ctx, attribute.String("type", eventType))
	}
}

// RecordTicketIssued records an issued ticket
func RecordTicketIssued(ctx context.Context, eventID string) {
	if TicketsIssued != nil {
		TicketsIssued.Inc(ctx, attribute.String("event_id", eventID))
	}
}

// RecordTicketVerified records a verification attempt and its result
func RecordTicketVerified(ctx context.Context, result string) {
	if TicketsVerified != nil {
		TicketsVerified.Inc(ctx, attribute.String("result", result))
	}
}

// RecordRequestDuration records HTTP request duration
func RecordRequestDuration(ctx context.Context, operation string, durationSeconds float64) {
	if RequestDuration != nil {
		RequestDuration.Record(ctx, durationSeconds,
			attribute.String("operation", operation),
		)
	}
}

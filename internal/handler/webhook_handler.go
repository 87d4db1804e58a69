package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wasin-t/eventbook/internal/gateway"
	"github.com/wasin-t/eventbook/internal/service"
	"github.com/wasin-t/eventbook/pkg/logger"
	"github.com/wasin-t/eventbook/pkg/response"
	"github.com/wasin-t/eventbook/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// WebhookHandler handles payment provider webhook deliveries
type WebhookHandler struct {
	bookingService service.BookingService
	paymentGateway gateway.PaymentGateway
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(bookingService service.BookingService, paymentGateway gateway.PaymentGateway) *WebhookHandler {
	return &WebhookHandler{
		bookingService: bookingService,
		paymentGateway: paymentGateway,
	}
}

// HandleStripeWebhook handles POST /webhooks/stripe. The provider retries on
// non-2xx, so only signature failures and reconcile errors are rejected;
// events we do not understand are acked.
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.webhook.stripe")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	log := logger.Get()

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		span.SetStatus(codes.Error, "unreadable body")
		response.BadRequest(c, "failed to read request body")
		return
	}

	sigHeader := c.GetHeader("Stripe-Signature")

	event, err := h.paymentGateway.VerifyWebhook(payload, sigHeader)
	if err != nil {
		log.Warn(fmt.Sprintf("Rejected webhook with invalid signature: %v", err))
		span.SetStatus(codes.Error, "invalid signature")
		respondError(c, err)
		return
	}

	span.SetAttributes(
		attribute.String("event_type", event.RawType),
		attribute.String("payment_ref", event.PaymentRef),
	)

	if err := h.bookingService.ReconcilePayment(ctx, event); err != nil {
		log.Error(fmt.Sprintf("Failed to reconcile %s for %s: %v", event.RawType, event.PaymentRef, err))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		// Non-2xx so the provider redelivers; reconciliation is idempotent
		response.InternalError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, gin.H{"received": true})
}

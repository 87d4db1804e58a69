package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/refund"
	"github.com/stripe/stripe-go/v82/webhook"
	"github.com/wasin-t/eventbook/internal/domain"
)

// StripeGateway implements PaymentGateway using Stripe
type StripeGateway struct {
	config *StripeGatewayConfig
}

// StripeGatewayConfig holds configuration for Stripe gateway
type StripeGatewayConfig struct {
	SecretKey     string
	WebhookSecret string
}

// NewStripeGateway creates a new Stripe gateway
func NewStripeGateway(config *StripeGatewayConfig) (*StripeGateway, error) {
	if config == nil {
		return nil, fmt.Errorf("stripe config is required")
	}
	if config.SecretKey == "" {
		return nil, fmt.Errorf("stripe secret key is required")
	}

	// Set Stripe API key globally
	stripe.Key = config.SecretKey

	return &StripeGateway{config: config}, nil
}

// minorUnits converts an amount to the smallest currency unit Stripe expects.
// Rounded, not truncated: 19.99 stored as 1998.99... must charge 1999.
func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CreatePaymentIntent creates a Stripe PaymentIntent and returns its client_secret
func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, req *PaymentIntentRequest) (*PaymentIntentResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("payment intent request is required")
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(minorUnits(req.Amount)),
		Currency: stripe.String(req.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: make(map[string]string),
	}
	for k, v := range req.Metadata {
		params.Metadata[k] = v
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	params.Context = ctx

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, &domain.GatewayError{Op: "create_payment_intent", Err: err}
	}

	return &PaymentIntentResponse{
		PaymentIntentID: pi.ID,
		ClientSecret:    pi.ClientSecret,
		Status:          string(pi.Status),
	}, nil
}

// Refund refunds the full charge behind a payment intent
func (g *StripeGateway) Refund(ctx context.Context, paymentRef, reason string) (*RefundReceipt, error) {
	if paymentRef == "" {
		return nil, fmt.Errorf("payment ref is required")
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentRef),
	}
	if reason != "" {
		params.Reason = stripe.String(reason)
	}
	params.Context = ctx

	re, err := refund.New(params)
	if err != nil {
		return nil, &domain.GatewayError{Op: "refund", Err: err}
	}

	return &RefundReceipt{
		RefundID: re.ID,
		Amount:   float64(re.Amount) / 100,
		Status:   string(re.Status),
	}, nil
}

// VerifyWebhook validates the Stripe-Signature header and maps the event
func (g *StripeGateway) VerifyWebhook(payload []byte, sigHeader string) (*ProviderEvent, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, g.config.WebhookSecret)
	if err != nil {
		return nil, domain.ErrSignatureInvalid
	}

	providerEvent := &ProviderEvent{
		Kind:    ProviderEventUnknown,
		RawType: string(event.Type),
	}

	switch event.Type {
	case "payment_intent.succeeded":
		providerEvent.Kind = ProviderEventSucceeded
	case "payment_intent.payment_failed":
		providerEvent.Kind = ProviderEventFailed
	case "payment_intent.canceled":
		providerEvent.Kind = ProviderEventCanceled
	default:
		return providerEvent, nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("failed to parse payment intent from webhook: %w", err)
	}
	providerEvent.PaymentRef = pi.ID

	return providerEvent, nil
}

// Name returns the gateway name
func (g *StripeGateway) Name() string {
	return "stripe"
}

// Ensure StripeGateway implements PaymentGateway
var _ PaymentGateway = (*StripeGateway)(nil)

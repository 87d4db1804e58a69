package gateway

import "context"

// PaymentIntentRequest describes a charge to prepare with the provider
type PaymentIntentRequest struct {
	Amount      float64
	Currency    string
	Description string
	Metadata    map[string]string
}

// PaymentIntentResponse carries the provider handle for a prepared charge.
// ClientSecret goes to the frontend to complete the payment.
type PaymentIntentResponse struct {
	PaymentIntentID string
	ClientSecret    string
	Status          string
}

// RefundReceipt reports a completed refund
type RefundReceipt struct {
	RefundID string
	Amount   float64
	Status   string
}

// ProviderEventKind classifies webhook notifications into the transitions
// the reconciler understands
type ProviderEventKind string

const (
	ProviderEventSucceeded ProviderEventKind = "succeeded"
	ProviderEventFailed    ProviderEventKind = "failed"
	ProviderEventCanceled  ProviderEventKind = "canceled"
	ProviderEventUnknown   ProviderEventKind = "unknown"
)

// ProviderEvent is a verified webhook notification from the payment provider
type ProviderEvent struct {
	Kind       ProviderEventKind
	PaymentRef string
	RawType    string
}

// PaymentGateway abstracts the payment provider
type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, req *PaymentIntentRequest) (*PaymentIntentResponse, error)
	Refund(ctx context.Context, paymentRef, reason string) (*RefundReceipt, error)
	// VerifyWebhook checks the payload signature and maps the notification to
	// a ProviderEvent. Returns domain.ErrSignatureInvalid on a bad signature.
	VerifyWebhook(payload []byte, sigHeader string) (*ProviderEvent, error)
	Name() string
}

package gateway

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/wasin-t/eventbook/internal/domain"
)

// MockGateway implements PaymentGateway for local development. Intents always
// succeed and webhook payloads are accepted verbatim as "type:payment_ref"
// strings, which makes the lifecycle drivable from curl.
type MockGateway struct {
	mu      sync.Mutex
	intents map[string]float64
	refunds map[string]string
}

// NewMockGateway creates a new mock gateway
func NewMockGateway() *MockGateway {
	return &MockGateway{
		intents: make(map[string]float64),
		refunds: make(map[string]string),
	}
}

// CreatePaymentIntent records a fake intent and returns a fake client secret
func (g *MockGateway) CreatePaymentIntent(ctx context.Context, req *PaymentIntentRequest) (*PaymentIntentResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("payment intent request is required")
	}

	id := fmt.Sprintf("pi_mock_%s", uuid.New().String()[:8])

	g.mu.Lock()
	g.intents[id] = req.Amount
	g.mu.Unlock()

	return &PaymentIntentResponse{
		PaymentIntentID: id,
		ClientSecret:    id + "_secret",
		Status:          "requires_payment_method",
	}, nil
}

// Refund records a fake refund against a known intent
func (g *MockGateway) Refund(ctx context.Context, paymentRef, reason string) (*RefundReceipt, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	amount, ok := g.intents[paymentRef]
	if !ok {
		return nil, &domain.GatewayError{Op: "refund", Err: fmt.Errorf("unknown payment intent: %s", paymentRef)}
	}

	id := fmt.Sprintf("re_mock_%s", uuid.New().String()[:8])
	g.refunds[paymentRef] = id

	return &RefundReceipt{
		RefundID: id,
		Amount:   amount,
		Status:   "succeeded",
	}, nil
}

// VerifyWebhook parses "type:payment_ref" payloads without signature checks
func (g *MockGateway) VerifyWebhook(payload []byte, sigHeader string) (*ProviderEvent, error) {
	parts := strings.SplitN(strings.TrimSpace(string(payload)), ":", 2)
	if len(parts) != 2 {
		return nil, domain.ErrSignatureInvalid
	}

	kind := ProviderEventUnknown
	switch parts[0] {
	case "payment_intent.succeeded":
		kind = ProviderEventSucceeded
	case "payment_intent.payment_failed":
		kind = ProviderEventFailed
	case "payment_intent.canceled":
		kind = ProviderEventCanceled
	}

	return &ProviderEvent{
		Kind:       kind,
		PaymentRef: parts[1],
		RawType:    parts[0],
	}, nil
}

// Name returns the gateway name
func (g *MockGateway) Name() string {
	return "mock"
}

// Ensure MockGateway implements PaymentGateway
var _ PaymentGateway = (*MockGateway)(nil)

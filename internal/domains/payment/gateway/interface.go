package gateway

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// =====================================================
// GATEWAY INTERFACES
// =====================================================

// Gateway creates hosted checkout sessions on the payment processor.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req *CheckoutRequest) (*CheckoutSession, error)
}

// WebhookVerifier authenticates a raw webhook body against its signature
// header and decodes it. Any failure means the body must be ignored.
type WebhookVerifier interface {
	Verify(payload []byte, signature string) (*Event, error)
}

// =====================================================
// REQUEST/RESPONSE TYPES
// =====================================================

type LineItem struct {
	PriceID string
	Title   string
}

type CheckoutRequest struct {
	LineItems         []LineItem
	Currency          string
	CustomerEmail     string
	ClientReferenceID string
	SuccessURL        string
	CancelURL         string
	Metadata          map[string]string
	// DiscountAmount > 0 attaches a single one-off discount to the session.
	DiscountAmount decimal.Decimal
	DiscountLabel  string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// =====================================================
// WEBHOOK EVENTS
// =====================================================

const (
	EventCheckoutCompleted          = "checkout.session.completed"
	EventCheckoutAsyncSucceeded     = "checkout.session.async_payment_succeeded"
	EventCheckoutAsyncFailed        = "checkout.session.async_payment_failed"
	EventCheckoutExpired            = "checkout.session.expired"
	EventPaymentIntentPaymentFailed = "payment_intent.payment_failed"
)

const (
	PaymentStatusPaid              = "paid"
	PaymentStatusUnpaid            = "unpaid"
	PaymentStatusNoPaymentRequired = "no_payment_required"
)

type Event struct {
	ID   string
	Type string
	// Session is set for checkout.session.* events.
	Session *Session
	// PaymentIntentID is set for payment_intent.* events.
	PaymentIntentID string
}

type Session struct {
	ID                string
	Email             string
	PaymentStatus     string
	PaymentIntentID   string
	ClientReferenceID string
	Currency          string
	AmountTotal       decimal.Decimal
	Metadata          map[string]string
}

// ErrNotConfigured is returned by Disabled.
var ErrNotConfigured = errors.New("payment gateway is not configured")

// Disabled stands in for the processor when no API key is configured.
type Disabled struct{}

func (Disabled) CreateCheckoutSession(context.Context, *CheckoutRequest) (*CheckoutSession, error) {
	return nil, ErrNotConfigured
}

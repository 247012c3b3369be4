package stripe

import (
	"encoding/json"
	"errors"
	"fmt"

	stripeapi "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"

	"coursestore-backend/internal/domains/payment/gateway"
)

// =====================================================
// WEBHOOK VERIFIER
// =====================================================

var ErrMissingSecret = errors.New("stripe webhook secret is not configured")

type Verifier struct {
	secret string
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: secret}
}

// Verify checks the Stripe-Signature header with the default 5 minute
// tolerance and decodes the objects the webhook service cares about.
func (v *Verifier) Verify(payload []byte, signature string) (*gateway.Event, error) {
	if v.secret == "" {
		return nil, ErrMissingSecret
	}

	evt, err := webhook.ConstructEventWithOptions(payload, signature, v.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, err
	}

	out := &gateway.Event{ID: evt.ID, Type: string(evt.Type)}
	if evt.Data == nil || len(evt.Data.Raw) == 0 {
		return out, nil
	}

	switch out.Type {
	case gateway.EventCheckoutCompleted, gateway.EventCheckoutAsyncSucceeded,
		gateway.EventCheckoutAsyncFailed, gateway.EventCheckoutExpired:
		var s stripeapi.CheckoutSession
		if err := json.Unmarshal(evt.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("decode checkout session: %w", err)
		}
		out.Session = toSession(&s)

	case gateway.EventPaymentIntentPaymentFailed:
		var pi stripeapi.PaymentIntent
		if err := json.Unmarshal(evt.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("decode payment intent: %w", err)
		}
		out.PaymentIntentID = pi.ID
	}

	return out, nil
}

func toSession(s *stripeapi.CheckoutSession) *gateway.Session {
	email := s.CustomerEmail
	if s.CustomerDetails != nil && s.CustomerDetails.Email != "" {
		email = s.CustomerDetails.Email
	}

	var intentID string
	if s.PaymentIntent != nil {
		intentID = s.PaymentIntent.ID
	}

	return &gateway.Session{
		ID:                s.ID,
		Email:             email,
		PaymentStatus:     string(s.PaymentStatus),
		PaymentIntentID:   intentID,
		ClientReferenceID: s.ClientReferenceID,
		Currency:          string(s.Currency),
		AmountTotal:       FromMinorUnits(s.AmountTotal),
		Metadata:          s.Metadata,
	}
}

package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	cart "coursestore-backend/internal/domains/cart/model"
)

// CreateSessionRequest POST /api/v1/checkout/session
type CreateSessionRequest struct {
	Items      []cart.ItemRef `json:"items"`
	Email      string         `json:"email"`
	CouponCode string         `json:"coupon_code"`
}

func (r CreateSessionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Items, validation.Required, validation.Length(1, cart.MaxCartItems)),
		validation.Field(&r.Email, is.EmailFormat, validation.Length(0, 254)),
		validation.Field(&r.CouponCode, validation.Length(0, 64)),
	)
}

type SessionResponse struct {
	SessionID  string    `json:"session_id"`
	URL        string    `json:"url"`
	CheckoutID uuid.UUID `json:"checkout_id"`
}

// CheckoutRequest is the service-level input. UserID is set when the
// buyer is signed in.
type CheckoutRequest struct {
	CreateSessionRequest
	UserID *uuid.UUID
}

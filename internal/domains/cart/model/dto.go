package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"coursestore-backend/internal/shared/utils"
)

const MaxCartItems = 20

// ItemRef identifies a catalog item. Prices are never taken from the client.
type ItemRef struct {
	Type ItemType  `json:"type"`
	ID   uuid.UUID `json:"id"`
}

func (r ItemRef) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type, validation.Required, validation.In(ItemTypeCourse, ItemTypeBundle)),
		validation.Field(&r.ID, utils.NotNilUUID),
	)
}

// QuoteRequest POST /api/v1/cart/quote
type QuoteRequest struct {
	Items      []ItemRef `json:"items"`
	CouponCode string    `json:"coupon_code"`
}

func (r QuoteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Items, validation.Required, validation.Length(1, MaxCartItems)),
		validation.Field(&r.CouponCode, validation.Length(0, 64)),
	)
}

type QuoteResponse struct {
	Items        []CartItem      `json:"items"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
	CouponCode   string          `json:"coupon_code,omitempty"`
	CouponValid  *bool           `json:"coupon_valid,omitempty"`
	CouponReason string          `json:"coupon_reason,omitempty"`
	// Duplicates lists refs dropped because the cart already held them.
	Duplicates []ItemRef `json:"duplicates,omitempty"`
}

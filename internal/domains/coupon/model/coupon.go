package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed_amount"
)

// Scope decides which part of the cart a coupon discounts.
type Scope string

const (
	ScopeCourse Scope = "course"
	ScopeBundle Scope = "bundle"
	ScopeAll    Scope = "all"
	ScopeCart   Scope = "cart"
)

// Coupon maps to coupon_codes. Code is stored upper-cased.
type Coupon struct {
	ID                uuid.UUID        `json:"id"`
	Code              string           `json:"code"`
	Description       *string          `json:"description,omitempty"`
	DiscountType      DiscountType     `json:"discount_type"`
	DiscountValue     decimal.Decimal  `json:"discount_value"`
	ApplicableTo      Scope            `json:"applicable_to"`
	CourseID          *uuid.UUID       `json:"course_id,omitempty"`
	BundleID          *uuid.UUID       `json:"bundle_id,omitempty"`
	MinCartAmount     *decimal.Decimal `json:"min_cart_amount,omitempty"`
	MaxDiscountAmount *decimal.Decimal `json:"max_discount_amount,omitempty"`
	StartDate         *time.Time       `json:"start_date,omitempty"`
	EndDate           *time.Time       `json:"end_date,omitempty"`
	Active            bool             `json:"active"`
	UsageLimit        *int             `json:"usage_limit,omitempty"`
	UserLimit         *int             `json:"user_limit,omitempty"`
	UsageCount        int              `json:"usage_count"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

func (c *Coupon) NotStarted(now time.Time) bool {
	return c.StartDate != nil && now.Before(*c.StartDate)
}

func (c *Coupon) Expired(now time.Time) bool {
	return c.EndDate != nil && now.After(*c.EndDate)
}

func (c *Coupon) IsUsageLimitReached() bool {
	return c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit
}

func (c *Coupon) BelowMinimum(cartTotal decimal.Decimal) bool {
	return c.MinCartAmount != nil && cartTotal.LessThan(*c.MinCartAmount)
}

// Redemption is one use of a coupon by one checkout session.
type Redemption struct {
	ID                uuid.UUID       `json:"id"`
	CouponID          uuid.UUID       `json:"coupon_id"`
	UserID            *uuid.UUID      `json:"user_id,omitempty"`
	Email             string          `json:"email"`
	CheckoutSessionID string          `json:"checkout_session_id"`
	DiscountAmount    decimal.Decimal `json:"discount_amount"`
	RedeemedAt        time.Time       `json:"redeemed_at"`
}

type Reason string

const (
	ReasonNotFound          Reason = "not_found"
	ReasonInactive          Reason = "inactive"
	ReasonNotStarted        Reason = "not_started"
	ReasonExpired           Reason = "expired"
	ReasonUsageLimitReached Reason = "usage_limit_reached"
	ReasonUserLimitReached  Reason = "user_limit_reached"
	ReasonMinCartNotMet     Reason = "min_cart_not_met"
)

var reasonMessages = map[Reason]string{
	ReasonNotFound:          "Coupon code does not exist",
	ReasonInactive:          "Coupon is no longer active",
	ReasonNotStarted:        "Coupon is not valid yet",
	ReasonExpired:           "Coupon has expired",
	ReasonUsageLimitReached: "Coupon has reached its usage limit",
	ReasonUserLimitReached:  "You have already used this coupon the maximum number of times",
	ReasonMinCartNotMet:     "Cart total is below the coupon minimum",
}

func (r Reason) Message() string {
	return reasonMessages[r]
}

// ValidationResult is the outcome of checking a code against a cart.
// Valid with a zero Discount means the coupon exists but matches nothing in the cart.
type ValidationResult struct {
	Valid    bool            `json:"valid"`
	Discount decimal.Decimal `json:"discount"`
	Base     decimal.Decimal `json:"base"`
	Coupon   *Coupon         `json:"coupon,omitempty"`
	Reason   Reason          `json:"reason,omitempty"`
	Message  string          `json:"message,omitempty"`
}

func Invalid(reason Reason) *ValidationResult {
	return &ValidationResult{
		Valid:    false,
		Discount: decimal.Zero,
		Base:     decimal.Zero,
		Reason:   reason,
		Message:  reason.Message(),
	}
}

type ListFilter struct {
	Active *bool
	Search string
	Page   int
	Limit  int
}

type RedeemInput struct {
	CouponID          uuid.UUID
	CheckoutSessionID string
	UserID            *uuid.UUID
	Email             string
	DiscountAmount    decimal.Decimal
}

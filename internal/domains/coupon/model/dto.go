package model

import (
	"errors"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cart "coursestore-backend/internal/domains/cart/model"
	"coursestore-backend/internal/shared/utils"
)

// ValidateCouponRequest POST /api/v1/coupons/validate
type ValidateCouponRequest struct {
	Code  string         `json:"code"`
	Items []cart.ItemRef `json:"items"`
}

func (r ValidateCouponRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required, validation.Length(1, 64)),
		validation.Field(&r.Items, validation.Required, validation.Length(1, cart.MaxCartItems)),
	)
}

type CreateCouponRequest struct {
	Code              string           `json:"code"`
	Description       *string          `json:"description"`
	DiscountType      DiscountType     `json:"discount_type"`
	DiscountValue     decimal.Decimal  `json:"discount_value"`
	ApplicableTo      Scope            `json:"applicable_to"`
	CourseID          *uuid.UUID       `json:"course_id"`
	BundleID          *uuid.UUID       `json:"bundle_id"`
	MinCartAmount     *decimal.Decimal `json:"min_cart_amount"`
	MaxDiscountAmount *decimal.Decimal `json:"max_discount_amount"`
	StartDate         *time.Time       `json:"start_date"`
	EndDate           *time.Time       `json:"end_date"`
	Active            *bool            `json:"active"`
	UsageLimit        *int             `json:"usage_limit"`
	UserLimit         *int             `json:"user_limit"`
}

func (r *CreateCouponRequest) ToCoupon() *Coupon {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return &Coupon{
		Code:              NormalizeCode(r.Code),
		Description:       r.Description,
		DiscountType:      r.DiscountType,
		DiscountValue:     r.DiscountValue,
		ApplicableTo:      r.ApplicableTo,
		CourseID:          r.CourseID,
		BundleID:          r.BundleID,
		MinCartAmount:     r.MinCartAmount,
		MaxDiscountAmount: r.MaxDiscountAmount,
		StartDate:         r.StartDate,
		EndDate:           r.EndDate,
		Active:            active,
		UsageLimit:        r.UsageLimit,
		UserLimit:         r.UserLimit,
	}
}

// UpdateCouponRequest is a partial update; nil fields keep their value.
type UpdateCouponRequest struct {
	Code              *string          `json:"code"`
	Description       *string          `json:"description"`
	DiscountType      *DiscountType    `json:"discount_type"`
	DiscountValue     *decimal.Decimal `json:"discount_value"`
	ApplicableTo      *Scope           `json:"applicable_to"`
	CourseID          *uuid.UUID       `json:"course_id"`
	BundleID          *uuid.UUID       `json:"bundle_id"`
	MinCartAmount     *decimal.Decimal `json:"min_cart_amount"`
	MaxDiscountAmount *decimal.Decimal `json:"max_discount_amount"`
	StartDate         *time.Time       `json:"start_date"`
	EndDate           *time.Time       `json:"end_date"`
	UsageLimit        *int             `json:"usage_limit"`
	UserLimit         *int             `json:"user_limit"`
}

func (r *UpdateCouponRequest) ApplyTo(c *Coupon) {
	if r.Code != nil {
		c.Code = NormalizeCode(*r.Code)
	}
	if r.Description != nil {
		c.Description = r.Description
	}
	if r.DiscountType != nil {
		c.DiscountType = *r.DiscountType
	}
	if r.DiscountValue != nil {
		c.DiscountValue = *r.DiscountValue
	}
	if r.ApplicableTo != nil {
		c.ApplicableTo = *r.ApplicableTo
		// scope ids only survive for their own scope
		if c.ApplicableTo != ScopeCourse {
			c.CourseID = nil
		}
		if c.ApplicableTo != ScopeBundle {
			c.BundleID = nil
		}
	}
	if r.CourseID != nil {
		c.CourseID = r.CourseID
	}
	if r.BundleID != nil {
		c.BundleID = r.BundleID
	}
	if r.MinCartAmount != nil {
		c.MinCartAmount = r.MinCartAmount
	}
	if r.MaxDiscountAmount != nil {
		c.MaxDiscountAmount = r.MaxDiscountAmount
	}
	if r.StartDate != nil {
		c.StartDate = r.StartDate
	}
	if r.EndDate != nil {
		c.EndDate = r.EndDate
	}
	if r.UsageLimit != nil {
		c.UsageLimit = r.UsageLimit
	}
	if r.UserLimit != nil {
		c.UserLimit = r.UserLimit
	}
}

type SetActiveRequest struct {
	Active *bool `json:"active"`
}

func (r SetActiveRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Active, validation.NotNil),
	)
}

// CouponDetail is the admin view of a coupon and its recent redemptions.
type CouponDetail struct {
	Coupon           *Coupon       `json:"coupon"`
	Redemptions      []*Redemption `json:"redemptions"`
	RedemptionsTotal int           `json:"redemptions_total"`
}

var codePattern = regexp.MustCompile(`^[A-Z0-9_-]+$`)

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate enforces the scope invariant: course and bundle coupons carry the
// matching id, percentages stay within 100 and the window is ordered.
func (c *Coupon) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Code, validation.Required, validation.Length(3, 64),
			validation.Match(codePattern).Error("may contain only letters, digits, dashes and underscores")),
		validation.Field(&c.DiscountType, validation.Required, validation.In(DiscountTypePercentage, DiscountTypeFixed)),
		validation.Field(&c.DiscountValue, utils.NonNegativeDecimal,
			validation.When(c.DiscountType == DiscountTypePercentage, validation.By(maxPercent))),
		validation.Field(&c.ApplicableTo, validation.Required, validation.In(ScopeCourse, ScopeBundle, ScopeAll, ScopeCart)),
		validation.Field(&c.CourseID,
			validation.When(c.ApplicableTo == ScopeCourse, validation.Required, utils.NotNilUUID).Else(validation.Nil)),
		validation.Field(&c.BundleID,
			validation.When(c.ApplicableTo == ScopeBundle, validation.Required, utils.NotNilUUID).Else(validation.Nil)),
		validation.Field(&c.MinCartAmount, utils.NonNegativeDecimal),
		validation.Field(&c.MaxDiscountAmount, utils.NonNegativeDecimal),
		validation.Field(&c.EndDate, validation.By(c.endAfterStart)),
		validation.Field(&c.UsageLimit, validation.Min(1)),
		validation.Field(&c.UserLimit, validation.Min(1)),
	)
}

func maxPercent(value interface{}) error {
	v, _ := value.(decimal.Decimal)
	if v.GreaterThan(decimal.NewFromInt(100)) {
		return errors.New("percentage cannot exceed 100")
	}
	return nil
}

func (c *Coupon) endAfterStart(interface{}) error {
	if c.StartDate != nil && c.EndDate != nil && !c.EndDate.After(*c.StartDate) {
		return errors.New("must be after start_date")
	}
	return nil
}

// ValidateInput is the server-side form of a validation: prices come from
// the catalog, never from the client.
type ValidateInput struct {
	Code      string
	CartTotal decimal.Decimal
	Items     []cart.LineItem
	UserID    *uuid.UUID
	Email     string
}

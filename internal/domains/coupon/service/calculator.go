package service

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cart "coursestore-backend/internal/domains/cart/model"
	"coursestore-backend/internal/domains/coupon/model"
)

var hundred = decimal.NewFromInt(100)

// DiscountCalculator holds the pure discount math.
type DiscountCalculator struct{}

func NewDiscountCalculator() *DiscountCalculator {
	return &DiscountCalculator{}
}

// Base returns the amount a coupon may discount.
// Cart and all scoped coupons discount the whole total. Course and bundle
// scoped coupons discount only the matching line items; matched is false
// when the cart holds none of them.
func (c *DiscountCalculator) Base(coupon *model.Coupon, cartTotal decimal.Decimal, items []cart.LineItem) (base decimal.Decimal, matched bool) {
	switch coupon.ApplicableTo {
	case model.ScopeCart, model.ScopeAll:
		return cartTotal, true
	case model.ScopeCourse:
		return sumMatching(items, cart.ItemTypeCourse, coupon.CourseID)
	case model.ScopeBundle:
		return sumMatching(items, cart.ItemTypeBundle, coupon.BundleID)
	default:
		return decimal.Zero, false
	}
}

func sumMatching(items []cart.LineItem, t cart.ItemType, id *uuid.UUID) (decimal.Decimal, bool) {
	total := decimal.Zero
	matched := false
	if id == nil {
		return total, false
	}
	for _, it := range items {
		if it.Type == t && it.ID == *id {
			total = total.Add(it.Price)
			matched = true
		}
	}
	return total, matched
}

// Calculate applies the coupon to base.
//
//   - percentage: base × value / 100, capped by max_discount_amount
//   - fixed_amount: min(value, base)
//
// The result is rounded half-up to cents and always within [0, base].
func (c *DiscountCalculator) Calculate(coupon *model.Coupon, base decimal.Decimal) decimal.Decimal {
	if !base.IsPositive() {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch coupon.DiscountType {
	case model.DiscountTypePercentage:
		discount = base.Mul(coupon.DiscountValue).Div(hundred)
		if coupon.MaxDiscountAmount != nil && discount.GreaterThan(*coupon.MaxDiscountAmount) {
			discount = *coupon.MaxDiscountAmount
		}
	case model.DiscountTypeFixed:
		discount = decimal.Min(coupon.DiscountValue, base)
	default:
		return decimal.Zero
	}

	discount = discount.Round(2)
	if discount.IsNegative() {
		return decimal.Zero
	}
	if discount.GreaterThan(base) {
		return base
	}
	return discount
}

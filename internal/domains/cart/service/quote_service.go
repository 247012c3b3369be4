package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"coursestore-backend/internal/domains/cart/model"
	coupon "coursestore-backend/internal/domains/coupon/model"
)

type CouponValidator interface {
	Validate(ctx context.Context, in *coupon.ValidateInput) (*coupon.ValidationResult, error)
}

type ServiceInterface interface {
	// PriceItems builds a cart from client refs, dropping repeats.
	PriceItems(ctx context.Context, refs []model.ItemRef) (model.Cart, error)
	Quote(ctx context.Context, req *model.QuoteRequest, userID *uuid.UUID, email string) (*model.QuoteResponse, error)
}

type quoteService struct {
	resolver *Resolver
	coupons  CouponValidator
}

func NewQuoteService(resolver *Resolver, coupons CouponValidator) ServiceInterface {
	return &quoteService{resolver: resolver, coupons: coupons}
}

func (s *quoteService) PriceItems(ctx context.Context, refs []model.ItemRef) (model.Cart, error) {
	c, _, err := s.price(ctx, refs)
	return c, err
}

func (s *quoteService) price(ctx context.Context, refs []model.ItemRef) (model.Cart, []model.ItemRef, error) {
	dups := Duplicates(refs)
	unique := make([]model.ItemRef, 0, len(refs))
	seen := make(map[model.ItemRef]struct{}, len(refs))
	for _, ref := range refs {
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		unique = append(unique, ref)
	}

	resolved, err := s.resolver.Resolve(ctx, unique)
	if err != nil {
		return model.Cart{}, nil, err
	}

	c := model.New()
	for _, item := range resolved {
		c, _ = c.AddItem(item.CartItem)
	}
	return c, dups, nil
}

func (s *quoteService) Quote(ctx context.Context, req *model.QuoteRequest, userID *uuid.UUID, email string) (*model.QuoteResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, dups, err := s.price(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	subtotal := c.Total()
	resp := &model.QuoteResponse{
		Items:      c.Items,
		Subtotal:   subtotal,
		Discount:   decimal.Zero,
		Total:      subtotal,
		Duplicates: dups,
	}

	if req.CouponCode == "" {
		return resp, nil
	}

	result, err := s.coupons.Validate(ctx, &coupon.ValidateInput{
		Code:      req.CouponCode,
		CartTotal: subtotal,
		Items:     c.LineItems(),
		UserID:    userID,
		Email:     email,
	})
	if err != nil {
		return nil, err
	}

	resp.CouponCode = coupon.NormalizeCode(req.CouponCode)
	resp.CouponValid = &result.Valid
	if !result.Valid {
		resp.CouponReason = string(result.Reason)
		return resp, nil
	}
	resp.Discount = result.Discount
	resp.Total = subtotal.Sub(result.Discount)
	return resp, nil
}

package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	cart "coursestore-backend/internal/domains/cart/model"
	cartservice "coursestore-backend/internal/domains/cart/service"
	"coursestore-backend/internal/domains/checkout/model"
	"coursestore-backend/internal/domains/checkout/repository"
	coupon "coursestore-backend/internal/domains/coupon/model"
	"coursestore-backend/internal/domains/payment/gateway"
	"coursestore-backend/internal/shared/metrics"
)

type ItemResolver interface {
	Resolve(ctx context.Context, refs []cart.ItemRef) ([]cartservice.ResolvedItem, error)
}

type CouponValidator interface {
	Validate(ctx context.Context, in *coupon.ValidateInput) (*coupon.ValidationResult, error)
}

type ServiceInterface interface {
	CreateCheckoutSession(ctx context.Context, req *model.CheckoutRequest) (*model.SessionResponse, error)
	ExpireStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

type Config struct {
	Currency   string
	SuccessURL string
	CancelURL  string
}

type checkoutService struct {
	resolver ItemResolver
	coupons  CouponValidator
	gateway  gateway.Gateway
	pending  repository.PendingCheckoutRepository
	cfg      Config
	now      func() time.Time
}

func NewCheckoutService(
	resolver ItemResolver,
	coupons CouponValidator,
	gw gateway.Gateway,
	pending repository.PendingCheckoutRepository,
	cfg Config,
) ServiceInterface {
	return &checkoutService{
		resolver: resolver,
		coupons:  coupons,
		gateway:  gw,
		pending:  pending,
		cfg:      cfg,
		now:      time.Now,
	}
}

// CreateCheckoutSession turns a client cart into a hosted payment session.
//
// Flow:
// 1. Validate shape and reject repeated items
// 2. Resolve every item from the catalog (all or nothing)
// 3. Apply the coupon, if any; an invalid coupon fails the checkout
// 4. Create the processor session with one line per item
// 5. Snapshot the checkout for fulfilment
func (s *checkoutService) CreateCheckoutSession(ctx context.Context, req *model.CheckoutRequest) (*model.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if dups := cartservice.Duplicates(req.Items); len(dups) > 0 {
		return nil, cart.DuplicateError(dups)
	}

	items, err := s.resolver.Resolve(ctx, req.Items)
	if err != nil {
		metrics.CheckoutSessionsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	p := newPending(items, req)

	if req.CouponCode != "" {
		result, err := s.coupons.Validate(ctx, &coupon.ValidateInput{
			Code:      req.CouponCode,
			CartTotal: p.Subtotal,
			Items:     lineItems(items),
			UserID:    req.UserID,
			Email:     req.Email,
		})
		if err != nil {
			return nil, err
		}
		if !result.Valid {
			metrics.CheckoutSessionsTotal.WithLabelValues("rejected").Inc()
			return nil, coupon.InvalidCouponError(coupon.NormalizeCode(req.CouponCode), result)
		}
		p.CouponID = &result.Coupon.ID
		p.CouponCode = result.Coupon.Code
		p.Discount = result.Discount
		p.Total = p.Subtotal.Sub(result.Discount)
	}
	p.Currency = s.cfg.Currency

	gwItems := make([]gateway.LineItem, 0, len(items))
	for _, it := range items {
		gwItems = append(gwItems, gateway.LineItem{PriceID: it.StripePriceID, Title: it.Title})
	}

	clientRef := p.ID.String()
	if req.UserID != nil {
		clientRef = req.UserID.String()
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, &gateway.CheckoutRequest{
		LineItems:         gwItems,
		Currency:          s.cfg.Currency,
		CustomerEmail:     req.Email,
		ClientReferenceID: clientRef,
		SuccessURL:        s.cfg.SuccessURL,
		CancelURL:         s.cfg.CancelURL,
		Metadata:          p.Metadata(),
		DiscountAmount:    p.Discount,
		DiscountLabel:     p.CouponCode,
	})
	if err != nil {
		metrics.CheckoutSessionsTotal.WithLabelValues("gateway_error").Inc()
		log.Error().Err(err).Str("checkout_id", p.ID.String()).Msg("Failed to create checkout session")
		return nil, model.GatewayError(err)
	}

	p.SessionID = session.ID
	if err := s.pending.Create(ctx, p); err != nil {
		// Fulfilment falls back to session metadata.
		log.Error().Err(err).Str("session_id", session.ID).Msg("Failed to save pending checkout")
	}

	metrics.CheckoutSessionsTotal.WithLabelValues("created").Inc()
	log.Info().
		Str("session_id", session.ID).
		Int("items", len(items)).
		Str("total", p.Total.StringFixed(2)).
		Msg("Checkout session created")

	return &model.SessionResponse{SessionID: session.ID, URL: session.URL, CheckoutID: p.ID}, nil
}

func (s *checkoutService) ExpireStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		olderThan = model.StaleAfter
	}
	return s.pending.ExpireStale(ctx, s.now().Add(-olderThan))
}

func newPending(items []cartservice.ResolvedItem, req *model.CheckoutRequest) *model.PendingCheckout {
	p := &model.PendingCheckout{
		ID:        uuid.New(),
		UserID:    req.UserID,
		Email:     req.Email,
		Items:     make([]model.PendingItem, 0, len(items)),
		CourseIDs: []uuid.UUID{},
		BundleIDs: []uuid.UUID{},
		Discount:  decimal.Zero,
		Subtotal:  decimal.Zero,
		Status:    model.StatusOpen,
	}

	for _, it := range items {
		p.Items = append(p.Items, model.PendingItem{
			Type:      it.Type,
			ID:        it.ID,
			Title:     it.Title,
			Price:     it.Price,
			CourseIDs: it.CourseIDs,
		})
		if it.Type == cart.ItemTypeBundle {
			p.BundleIDs = append(p.BundleIDs, it.ID)
		} else {
			p.CourseIDs = append(p.CourseIDs, it.ID)
		}
		p.Subtotal = p.Subtotal.Add(it.Price)
	}
	p.Total = p.Subtotal
	return p
}

func lineItems(items []cartservice.ResolvedItem) []cart.LineItem {
	out := make([]cart.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, cart.LineItem{Type: it.Type, ID: it.ID, Price: it.Price})
	}
	return out
}

package stripe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	stripeapi "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"coursestore-backend/internal/domains/payment/gateway"
)

// =====================================================
// STRIPE CLIENT
// =====================================================

type Config struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
}

func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return errors.New("stripe secret key is required")
	}
	if c.Currency == "" {
		return errors.New("stripe currency is required")
	}
	return nil
}

// Client talks to the Stripe API. It creates checkout sessions and the
// product/price pairs the catalog links to.
type Client struct {
	api      *client.API
	currency string
}

func NewClient(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid stripe config: %w", err)
	}

	api := &client.API{}
	api.Init(cfg.SecretKey, nil)

	return &Client{api: api, currency: strings.ToLower(cfg.Currency)}, nil
}

// ToMinorUnits converts an amount to integer cents, rounding half up.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// FromMinorUnits converts integer cents to a decimal amount.
func FromMinorUnits(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// =====================================================
// CHECKOUT SESSIONS
// =====================================================

func (c *Client) CreateCheckoutSession(ctx context.Context, req *gateway.CheckoutRequest) (*gateway.CheckoutSession, error) {
	if len(req.LineItems) == 0 {
		return nil, errors.New("checkout requires at least one line item")
	}

	currency := c.currency
	if req.Currency != "" {
		currency = strings.ToLower(req.Currency)
	}

	lineItems := make([]*stripeapi.CheckoutSessionLineItemParams, 0, len(req.LineItems))
	for _, li := range req.LineItems {
		lineItems = append(lineItems, &stripeapi.CheckoutSessionLineItemParams{
			Price:    stripeapi.String(li.PriceID),
			Quantity: stripeapi.Int64(1),
		})
	}

	params := &stripeapi.CheckoutSessionParams{
		Mode:       stripeapi.String(string(stripeapi.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		SuccessURL: stripeapi.String(req.SuccessURL),
		CancelURL:  stripeapi.String(req.CancelURL),
		Metadata:   req.Metadata,
		PaymentIntentData: &stripeapi.CheckoutSessionPaymentIntentDataParams{
			Metadata: req.Metadata,
		},
	}
	params.Context = ctx

	if req.CustomerEmail != "" {
		params.CustomerEmail = stripeapi.String(req.CustomerEmail)
	}
	if req.ClientReferenceID != "" {
		params.ClientReferenceID = stripeapi.String(req.ClientReferenceID)
	}

	if req.DiscountAmount.IsPositive() {
		couponID, err := c.createOneOffCoupon(ctx, req.DiscountAmount, currency, req.DiscountLabel)
		if err != nil {
			return nil, err
		}
		params.Discounts = []*stripeapi.CheckoutSessionDiscountParams{{Coupon: stripeapi.String(couponID)}}
	}

	session, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", describe(err))
	}

	return &gateway.CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

// createOneOffCoupon makes a single-use amount_off coupon, the processor's
// form of a negative line item.
func (c *Client) createOneOffCoupon(ctx context.Context, amount decimal.Decimal, currency, label string) (string, error) {
	params := &stripeapi.CouponParams{
		AmountOff:      stripeapi.Int64(ToMinorUnits(amount)),
		Currency:       stripeapi.String(currency),
		Duration:       stripeapi.String(string(stripeapi.CouponDurationOnce)),
		MaxRedemptions: stripeapi.Int64(1),
	}
	if label != "" {
		params.Name = stripeapi.String(label)
	}
	params.Context = ctx

	coupon, err := c.api.Coupons.New(params)
	if err != nil {
		return "", fmt.Errorf("create discount: %w", describe(err))
	}
	return coupon.ID, nil
}

// =====================================================
// PRODUCTS & PRICES
// =====================================================

func (c *Client) CreateProduct(ctx context.Context, name, description string, metadata map[string]string) (string, error) {
	params := &stripeapi.ProductParams{
		Name:     stripeapi.String(name),
		Metadata: metadata,
	}
	if description != "" {
		params.Description = stripeapi.String(description)
	}
	params.Context = ctx

	product, err := c.api.Products.New(params)
	if err != nil {
		return "", fmt.Errorf("create product: %w", describe(err))
	}
	return product.ID, nil
}

func (c *Client) CreatePrice(ctx context.Context, productID string, amount decimal.Decimal, currency string) (string, error) {
	if currency == "" {
		currency = c.currency
	}

	params := &stripeapi.PriceParams{
		Product:    stripeapi.String(productID),
		UnitAmount: stripeapi.Int64(ToMinorUnits(amount)),
		Currency:   stripeapi.String(strings.ToLower(currency)),
	}
	params.Context = ctx

	price, err := c.api.Prices.New(params)
	if err != nil {
		return "", fmt.Errorf("create price: %w", describe(err))
	}
	return price.ID, nil
}

// describe keeps the processor's own message, which callers surface to
// admins in 502 responses.
func describe(err error) error {
	var stripeErr *stripeapi.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		return fmt.Errorf("%s: %w", stripeErr.Msg, err)
	}
	return err
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cart "coursestore-backend/internal/domains/cart/model"
	cartservice "coursestore-backend/internal/domains/cart/service"
	"coursestore-backend/internal/domains/checkout/model"
	coupon "coursestore-backend/internal/domains/coupon/model"
	"coursestore-backend/internal/domains/payment/gateway"
	"coursestore-backend/internal/shared/apperr"
	"coursestore-backend/pkg/database"
)

// -------------------------------------------------------------------
// MOCKS
// -------------------------------------------------------------------

type MockGateway struct{ mock.Mock }

func (m *MockGateway) CreateCheckoutSession(ctx context.Context, req *gateway.CheckoutRequest) (*gateway.CheckoutSession, error) {
	args := m.Called(ctx, req)
	if s := args.Get(0); s != nil {
		return s.(*gateway.CheckoutSession), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockPendingRepository struct{ mock.Mock }

func (m *MockPendingRepository) Create(ctx context.Context, p *model.PendingCheckout) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPendingRepository) FindBySessionID(ctx context.Context, sessionID string) (*model.PendingCheckout, error) {
	args := m.Called(ctx, sessionID)
	if p := args.Get(0); p != nil {
		return p.(*model.PendingCheckout), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPendingRepository) MarkCompleted(ctx context.Context, q database.Querier, sessionID string) error {
	return m.Called(ctx, q, sessionID).Error(0)
}

func (m *MockPendingRepository) MarkExpired(ctx context.Context, sessionID string) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPendingRepository) ExpireStale(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

type resolverFunc func(ctx context.Context, refs []cart.ItemRef) ([]cartservice.ResolvedItem, error)

func (f resolverFunc) Resolve(ctx context.Context, refs []cart.ItemRef) ([]cartservice.ResolvedItem, error) {
	return f(ctx, refs)
}

type validatorFunc func(ctx context.Context, in *coupon.ValidateInput) (*coupon.ValidationResult, error)

func (f validatorFunc) Validate(ctx context.Context, in *coupon.ValidateInput) (*coupon.ValidationResult, error) {
	return f(ctx, in)
}

// -------------------------------------------------------------------
// FIXTURES
// -------------------------------------------------------------------

var (
	courseA = uuid.New()
	courseB = uuid.New()
	bundle  = uuid.New()
)

func catalogResolver() resolverFunc {
	items := map[cart.ItemRef]cartservice.ResolvedItem{
		{Type: cart.ItemTypeCourse, ID: courseA}: {
			CartItem:      cart.CartItem{Type: cart.ItemTypeCourse, ID: courseA, Title: "A", Price: decimal.NewFromInt(50)},
			StripePriceID: "price_a",
			CourseIDs:     []uuid.UUID{courseA},
		},
		{Type: cart.ItemTypeBundle, ID: bundle}: {
			CartItem:      cart.CartItem{Type: cart.ItemTypeBundle, ID: bundle, Title: "Bundle", Price: decimal.NewFromInt(70)},
			StripePriceID: "price_bundle",
			CourseIDs:     []uuid.UUID{courseA, courseB},
		},
	}
	return func(_ context.Context, refs []cart.ItemRef) ([]cartservice.ResolvedItem, error) {
		out := make([]cartservice.ResolvedItem, 0, len(refs))
		for _, ref := range refs {
			it, ok := items[ref]
			if !ok {
				return nil, cart.UnavailableError([]cart.ItemError{{Type: ref.Type, ID: ref.ID, Reason: cart.ReasonNotFound}})
			}
			out = append(out, it)
		}
		return out, nil
	}
}

var testConfig = Config{Currency: "usd", SuccessURL: "https://app/success", CancelURL: "https://app/cart"}

func request(couponCode string, refs ...cart.ItemRef) *model.CheckoutRequest {
	return &model.CheckoutRequest{CreateSessionRequest: model.CreateSessionRequest{
		Items:      refs,
		Email:      "buyer@example.com",
		CouponCode: couponCode,
	}}
}

// -------------------------------------------------------------------
// TESTS
// -------------------------------------------------------------------

func TestCreateCheckoutSession_Success(t *testing.T) {
	gw := new(MockGateway)
	repo := new(MockPendingRepository)
	svc := NewCheckoutService(catalogResolver(), nil, gw, repo, testConfig)

	var sent *gateway.CheckoutRequest
	gw.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).(*gateway.CheckoutRequest) }).
		Return(&gateway.CheckoutSession{ID: "cs_1", URL: "https://stripe/cs_1"}, nil)

	var saved *model.PendingCheckout
	repo.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*model.PendingCheckout) }).
		Return(nil)

	resp, err := svc.CreateCheckoutSession(context.Background(), request("",
		cart.ItemRef{Type: cart.ItemTypeCourse, ID: courseA},
		cart.ItemRef{Type: cart.ItemTypeBundle, ID: bundle},
	))
	require.NoError(t, err)
	assert.Equal(t, "https://stripe/cs_1", resp.URL)

	require.NotNil(t, sent)
	assert.Equal(t, []gateway.LineItem{{PriceID: "price_a", Title: "A"}, {PriceID: "price_bundle", Title: "Bundle"}}, sent.LineItems)
	assert.True(t, sent.DiscountAmount.IsZero())
	assert.Equal(t, "buyer@example.com", sent.CustomerEmail)
	assert.Equal(t, "2", sent.Metadata[model.MetaItemCount])
	assert.Equal(t, resp.CheckoutID.String(), sent.Metadata[model.MetaCheckoutID])

	require.NotNil(t, saved)
	assert.Equal(t, "cs_1", saved.SessionID)
	assert.Equal(t, model.StatusOpen, saved.Status)
	assert.Equal(t, []uuid.UUID{courseA}, saved.CourseIDs)
	assert.Equal(t, []uuid.UUID{bundle}, saved.BundleIDs)
	assert.True(t, saved.Total.Equal(decimal.NewFromInt(120)))
}

func TestCreateCheckoutSession_UnavailableItemNeverCallsGateway(t *testing.T) {
	gw := new(MockGateway)
	repo := new(MockPendingRepository)
	svc := NewCheckoutService(catalogResolver(), nil, gw, repo, testConfig)

	_, err := svc.CreateCheckoutSession(context.Background(), request("",
		cart.ItemRef{Type: cart.ItemTypeCourse, ID: courseA},
		cart.ItemRef{Type: cart.ItemTypeCourse, ID: uuid.New()},
	))
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, cart.ErrCodeItemUnavailable))

	gw.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateCheckoutSession_RejectsDuplicates(t *testing.T) {
	gw := new(MockGateway)
	svc := NewCheckoutService(catalogResolver(), nil, gw, new(MockPendingRepository), testConfig)

	ref := cart.ItemRef{Type: cart.ItemTypeCourse, ID: courseA}
	_, err := svc.CreateCheckoutSession(context.Background(), request("", ref, ref))

	var appErr *apperr.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 400, appErr.HTTPStatus)
	gw.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
}

func TestCreateCheckoutSession_AppliesCoupon(t *testing.T) {
	gw := new(MockGateway)
	repo := new(MockPendingRepository)
	c := &coupon.Coupon{ID: uuid.New(), Code: "SAVE20"}
	coupons := validatorFunc(func(_ context.Context, in *coupon.ValidateInput) (*coupon.ValidationResult, error) {
		assert.True(t, in.CartTotal.Equal(decimal.NewFromInt(120)))
		assert.Len(t, in.Items, 2)
		return &coupon.ValidationResult{Valid: true, Discount: decimal.NewFromInt(24), Base: in.CartTotal, Coupon: c}, nil
	})
	svc := NewCheckoutService(catalogResolver(), coupons, gw, repo, testConfig)

	var sent *gateway.CheckoutRequest
	gw.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).(*gateway.CheckoutRequest) }).
		Return(&gateway.CheckoutSession{ID: "cs_2", URL: "u"}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.CreateCheckoutSession(context.Background(), request("save20",
		cart.ItemRef{Type: cart.ItemTypeCourse, ID: courseA},
		cart.ItemRef{Type: cart.ItemTypeBundle, ID: bundle},
	))
	require.NoError(t, err)

	assert.True(t, sent.DiscountAmount.Equal(decimal.NewFromInt(24)))
	assert.Equal(t, "SAVE20", sent.DiscountLabel)
	assert.Equal(t, c.ID.String(), sent.Metadata[model.MetaCouponID])
	assert.Equal(t, "24.00", sent.Metadata[model.MetaDiscountAmount])
}

func TestCreateCheckoutSession_InvalidCouponFails(t *testing.T) {
	gw := new(MockGateway)
	coupons := validatorFunc(func(context.Context, *coupon.ValidateInput) (*coupon.ValidationResult, error) {
		return coupon.Invalid(coupon.ReasonExpired), nil
	})
	svc := NewCheckoutService(catalogResolver(), coupons, gw, new(MockPendingRepository), testConfig)

	_, err := svc.CreateCheckoutSession(context.Background(), request("OLD", cart.ItemRef{Type: cart.ItemTypeCourse, ID: courseA}))

	var appErr *apperr.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 422, appErr.HTTPStatus)
	assert.Equal(t, coupon.ReasonExpired, appErr.Details["reason"])
	gw.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
}

func TestCreateCheckoutSession_GatewayErrorIs502(t *testing.T) {
	gw := new(MockGateway)
	repo := new(MockPendingRepository)
	svc := NewCheckoutService(catalogResolver(), nil, gw, repo, testConfig)

	gw.On("CreateCheckoutSession", mock.Anything, mock.Anything).Return(nil, errors.New("No such price: price_a"))

	_, err := svc.CreateCheckoutSession(context.Background(), request("", cart.ItemRef{Type: cart.ItemTypeCourse, ID: courseA}))

	var appErr *apperr.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 502, appErr.HTTPStatus)
	assert.Contains(t, appErr.Message, "No such price")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateCheckoutSession_PendingSaveFailureStillReturnsURL(t *testing.T) {
	gw := new(MockGateway)
	repo := new(MockPendingRepository)
	svc := NewCheckoutService(catalogResolver(), nil, gw, repo, testConfig)

	gw.On("CreateCheckoutSession", mock.Anything, mock.Anything).Return(&gateway.CheckoutSession{ID: "cs_3", URL: "https://stripe/cs_3"}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	resp, err := svc.CreateCheckoutSession(context.Background(), request("", cart.ItemRef{Type: cart.ItemTypeCourse, ID: courseA}))
	require.NoError(t, err)
	assert.Equal(t, "https://stripe/cs_3", resp.URL)
}

func TestCreateCheckoutSession_SignedInUserIsClientReference(t *testing.T) {
	gw := new(MockGateway)
	repo := new(MockPendingRepository)
	svc := NewCheckoutService(catalogResolver(), nil, gw, repo, testConfig)

	userID := uuid.New()
	req := request("", cart.ItemRef{Type: cart.ItemTypeCourse, ID: courseA})
	req.UserID = &userID

	gw.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(r *gateway.CheckoutRequest) bool {
		return r.ClientReferenceID == userID.String()
	})).Return(&gateway.CheckoutSession{ID: "cs_4", URL: "u"}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.CreateCheckoutSession(context.Background(), req)
	require.NoError(t, err)
	gw.AssertExpectations(t)
}

func TestExpireStale(t *testing.T) {
	repo := new(MockPendingRepository)
	svc := NewCheckoutService(nil, nil, nil, repo, testConfig).(*checkoutService)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	repo.On("ExpireStale", mock.Anything, now.Add(-24*time.Hour)).Return(int64(3), nil)

	n, err := svc.ExpireStale(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

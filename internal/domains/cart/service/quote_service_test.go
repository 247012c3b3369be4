package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursestore-backend/internal/domains/cart/model"
	catalog "coursestore-backend/internal/domains/catalog/model"
	coupon "coursestore-backend/internal/domains/coupon/model"
	"coursestore-backend/internal/shared/apperr"
)

type fakeCatalog struct {
	courses map[uuid.UUID]*catalog.Course
	bundles map[uuid.UUID]*catalog.Bundle
	err     error
}

func (f *fakeCatalog) GetCourseByID(_ context.Context, id uuid.UUID) (*catalog.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	if c, ok := f.courses[id]; ok {
		return c, nil
	}
	return nil, catalog.ErrCourseNotFound
}

func (f *fakeCatalog) GetBundleByID(_ context.Context, id uuid.UUID) (*catalog.Bundle, error) {
	if b, ok := f.bundles[id]; ok {
		return b, nil
	}
	return nil, catalog.ErrBundleNotFound
}

type validatorFunc func(ctx context.Context, in *coupon.ValidateInput) (*coupon.ValidationResult, error)

func (f validatorFunc) Validate(ctx context.Context, in *coupon.ValidateInput) (*coupon.ValidationResult, error) {
	return f(ctx, in)
}

func strPtr(s string) *string { return &s }

func newCatalog() (*fakeCatalog, *catalog.Course, *catalog.Course, *catalog.Bundle) {
	a := &catalog.Course{ID: uuid.New(), Title: "Go", Price: decimal.NewFromInt(50), Published: true, StripePriceID: strPtr("price_a")}
	b := &catalog.Course{ID: uuid.New(), Title: "SQL", Price: decimal.NewFromInt(70), Published: true, StripePriceID: strPtr("price_b")}
	bundle := &catalog.Bundle{ID: uuid.New(), Name: "Both", Price: decimal.NewFromInt(100), Published: true,
		StripePriceID: strPtr("price_bundle"), CourseIDs: []uuid.UUID{a.ID, b.ID}}
	return &fakeCatalog{
		courses: map[uuid.UUID]*catalog.Course{a.ID: a, b.ID: b},
		bundles: map[uuid.UUID]*catalog.Bundle{bundle.ID: bundle},
	}, a, b, bundle
}

func TestResolve_CourseAndBundle(t *testing.T) {
	cat, a, b, bundle := newCatalog()
	r := NewResolver(cat)

	items, err := r.Resolve(context.Background(), []model.ItemRef{
		{Type: model.ItemTypeCourse, ID: a.ID},
		{Type: model.ItemTypeBundle, ID: bundle.ID},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "price_a", items[0].StripePriceID)
	assert.Equal(t, []uuid.UUID{a.ID}, items[0].CourseIDs)
	assert.Equal(t, "Both", items[1].Title)
	assert.Equal(t, []uuid.UUID{a.ID, b.ID}, items[1].CourseIDs)
}

func TestResolve_ReportsEveryUnavailableItem(t *testing.T) {
	cat, a, b, _ := newCatalog()
	b.Published = false
	a.StripePriceID = nil
	missing := uuid.New()

	_, err := NewResolver(cat).Resolve(context.Background(), []model.ItemRef{
		{Type: model.ItemTypeCourse, ID: a.ID},
		{Type: model.ItemTypeCourse, ID: b.ID},
		{Type: model.ItemTypeBundle, ID: missing},
	})
	require.Error(t, err)

	var appErr *apperr.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 422, appErr.HTTPStatus)
	assert.Equal(t, []model.ItemError{
		{Type: model.ItemTypeCourse, ID: a.ID, Reason: model.ReasonUnpriced},
		{Type: model.ItemTypeCourse, ID: b.ID, Reason: model.ReasonUnpublished},
		{Type: model.ItemTypeBundle, ID: missing, Reason: model.ReasonNotFound},
	}, appErr.Details["items"])
}

// An admin price change clears the Stripe link; the bundle stays unpriced
// until it is re-linked rather than falling back to inline price data.
func TestResolve_UnlinkedBundleIsUnpriced(t *testing.T) {
	cat, _, _, bundle := newCatalog()
	bundle.StripePriceID = nil

	items, err := NewResolver(cat).Resolve(context.Background(), []model.ItemRef{{Type: model.ItemTypeBundle, ID: bundle.ID}})
	require.Error(t, err)
	assert.Nil(t, items)
	assert.True(t, apperr.HasCode(err, model.ErrCodeItemUnavailable))

	bundle.StripePriceID = strPtr("price_bundle_v2")
	items, err = NewResolver(cat).Resolve(context.Background(), []model.ItemRef{{Type: model.ItemTypeBundle, ID: bundle.ID}})
	require.NoError(t, err)
	assert.Equal(t, "price_bundle_v2", items[0].StripePriceID)
}

func TestResolve_PropagatesStoreErrors(t *testing.T) {
	cat, a, _, _ := newCatalog()
	cat.err = errors.New("db down")

	_, err := NewResolver(cat).Resolve(context.Background(), []model.ItemRef{{Type: model.ItemTypeCourse, ID: a.ID}})
	assert.EqualError(t, err, "db down")
}

func TestDuplicates(t *testing.T) {
	id := uuid.New()
	refs := []model.ItemRef{
		{Type: model.ItemTypeCourse, ID: id},
		{Type: model.ItemTypeBundle, ID: id},
		{Type: model.ItemTypeCourse, ID: id},
	}
	assert.Equal(t, []model.ItemRef{{Type: model.ItemTypeCourse, ID: id}}, Duplicates(refs))
	assert.Empty(t, Duplicates(refs[:2]))
}

func TestQuote_NoCoupon(t *testing.T) {
	cat, a, b, _ := newCatalog()
	svc := NewQuoteService(NewResolver(cat), nil)

	quote, err := svc.Quote(context.Background(), &model.QuoteRequest{Items: []model.ItemRef{
		{Type: model.ItemTypeCourse, ID: a.ID},
		{Type: model.ItemTypeCourse, ID: b.ID},
		{Type: model.ItemTypeCourse, ID: a.ID},
	}}, nil, "")
	require.NoError(t, err)

	assert.Len(t, quote.Items, 2)
	assert.True(t, quote.Subtotal.Equal(decimal.NewFromInt(120)))
	assert.True(t, quote.Total.Equal(decimal.NewFromInt(120)))
	assert.True(t, quote.Discount.IsZero())
	assert.Nil(t, quote.CouponValid)
	assert.Len(t, quote.Duplicates, 1)
}

func TestQuote_ValidCouponReducesTotal(t *testing.T) {
	cat, a, b, _ := newCatalog()
	var got *coupon.ValidateInput
	svc := NewQuoteService(NewResolver(cat), validatorFunc(func(_ context.Context, in *coupon.ValidateInput) (*coupon.ValidationResult, error) {
		got = in
		return &coupon.ValidationResult{Valid: true, Discount: decimal.NewFromInt(30), Base: in.CartTotal}, nil
	}))

	quote, err := svc.Quote(context.Background(), &model.QuoteRequest{
		Items:      []model.ItemRef{{Type: model.ItemTypeCourse, ID: a.ID}, {Type: model.ItemTypeCourse, ID: b.ID}},
		CouponCode: "save20",
	}, nil, "buyer@example.com")
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.True(t, got.CartTotal.Equal(decimal.NewFromInt(120)))
	assert.Len(t, got.Items, 2)
	assert.Equal(t, "buyer@example.com", got.Email)

	assert.Equal(t, "SAVE20", quote.CouponCode)
	require.NotNil(t, quote.CouponValid)
	assert.True(t, *quote.CouponValid)
	assert.True(t, quote.Total.Equal(decimal.NewFromInt(90)))
}

func TestQuote_InvalidCouponKeepsTotal(t *testing.T) {
	cat, a, _, _ := newCatalog()
	svc := NewQuoteService(NewResolver(cat), validatorFunc(func(context.Context, *coupon.ValidateInput) (*coupon.ValidationResult, error) {
		return coupon.Invalid(coupon.ReasonExpired), nil
	}))

	quote, err := svc.Quote(context.Background(), &model.QuoteRequest{
		Items:      []model.ItemRef{{Type: model.ItemTypeCourse, ID: a.ID}},
		CouponCode: "OLD",
	}, nil, "")
	require.NoError(t, err)

	require.NotNil(t, quote.CouponValid)
	assert.False(t, *quote.CouponValid)
	assert.Equal(t, "expired", quote.CouponReason)
	assert.True(t, quote.Total.Equal(decimal.NewFromInt(50)))
}

func TestQuote_RejectsEmptyCart(t *testing.T) {
	cat, _, _, _ := newCatalog()
	_, err := NewQuoteService(NewResolver(cat), nil).Quote(context.Background(), &model.QuoteRequest{}, nil, "")
	assert.Error(t, err)
}

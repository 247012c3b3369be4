package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cart "coursestore-backend/internal/domains/cart/model"
)

func TestMetadataRoundTrip(t *testing.T) {
	couponID := uuid.New()
	p := &PendingCheckout{
		ID:         uuid.New(),
		Items:      []PendingItem{{Type: cart.ItemTypeCourse}, {Type: cart.ItemTypeBundle}},
		CourseIDs:  []uuid.UUID{uuid.New()},
		BundleIDs:  []uuid.UUID{uuid.New()},
		CouponID:   &couponID,
		CouponCode: "SAVE20",
		Discount:   decimal.NewFromInt(30),
	}

	meta := p.Metadata()
	assert.Equal(t, "2", meta[MetaItemCount])
	assert.Equal(t, "30.00", meta[MetaDiscountAmount])

	parsed := ParseMetadata(meta)
	require.NotNil(t, parsed.CheckoutID)
	assert.Equal(t, p.ID, *parsed.CheckoutID)
	assert.Equal(t, p.CourseIDs, parsed.CourseIDs)
	assert.Equal(t, p.BundleIDs, parsed.BundleIDs)
	require.NotNil(t, parsed.CouponID)
	assert.Equal(t, couponID, *parsed.CouponID)
	assert.True(t, parsed.Discount.Equal(decimal.NewFromInt(30)))
}

func TestMetadata_WithoutCoupon(t *testing.T) {
	p := &PendingCheckout{ID: uuid.New()}
	meta := p.Metadata()

	assert.Equal(t, "[]", meta[MetaCourseIDs])
	assert.NotContains(t, meta, MetaCouponID)
}

func TestParseMetadata_LegacyCourseID(t *testing.T) {
	id := uuid.New()
	parsed := ParseMetadata(map[string]string{MetaLegacyCourseID: id.String()})
	assert.Equal(t, []uuid.UUID{id}, parsed.CourseIDs)

	parsed = ParseMetadata(map[string]string{
		MetaLegacyCourseID: id.String(),
		MetaCourseIDs:      `["` + uuid.NewString() + `"]`,
	})
	assert.NotContains(t, parsed.CourseIDs, id)
}

func TestParseMetadata_IgnoresGarbage(t *testing.T) {
	parsed := ParseMetadata(map[string]string{
		MetaCourseIDs:      `["not-a-uuid"]`,
		MetaBundleIDs:      `{bad json`,
		MetaCouponID:       "x",
		MetaDiscountAmount: "abc",
	})
	assert.Empty(t, parsed.CourseIDs)
	assert.Empty(t, parsed.BundleIDs)
	assert.Nil(t, parsed.CouponID)
	assert.True(t, parsed.Discount.IsZero())
}

func TestCreateSessionRequest_Validate(t *testing.T) {
	ok := CreateSessionRequest{Items: []cart.ItemRef{{Type: cart.ItemTypeCourse, ID: uuid.New()}}}
	assert.NoError(t, ok.Validate())

	assert.Error(t, CreateSessionRequest{}.Validate())

	badEmail := ok
	badEmail.Email = "nope"
	assert.Error(t, badEmail.Validate())

	badType := CreateSessionRequest{Items: []cart.ItemRef{{Type: "ebook", ID: uuid.New()}}}
	assert.Error(t, badType.Validate())
}

func TestMetadata_DropsOversizedLists(t *testing.T) {
	p := &PendingCheckout{ID: uuid.New()}
	for i := 0; i < 20; i++ {
		p.CourseIDs = append(p.CourseIDs, uuid.New())
	}

	meta := p.Metadata()
	assert.NotContains(t, meta, MetaCourseIDs)
	assert.Equal(t, "[]", meta[MetaBundleIDs])
}

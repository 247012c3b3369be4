package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func item(t ItemType, price string) CartItem {
	return CartItem{Type: t, ID: uuid.New(), Title: string(t), Price: decimal.RequireFromString(price)}
}

func TestCart_AddItemRejectsDuplicates(t *testing.T) {
	a := item(ItemTypeCourse, "100")
	c, added := Cart{}.AddItem(a)
	assert.True(t, added)

	again, added := c.AddItem(a)
	assert.False(t, added)
	assert.Equal(t, 1, again.Count())

	// same id with a different type is a different line
	bundle := a
	bundle.Type = ItemTypeBundle
	c, added = c.AddItem(bundle)
	assert.True(t, added)
	assert.Equal(t, 2, c.Count())
}

func TestCart_IsImmutable(t *testing.T) {
	a := item(ItemTypeCourse, "100")
	b := item(ItemTypeCourse, "50")

	base := New(a)
	withB, _ := base.AddItem(b)
	removed := withB.RemoveItem(ItemTypeCourse, a.ID)

	assert.Equal(t, 1, base.Count())
	assert.Equal(t, 2, withB.Count())
	assert.Equal(t, []CartItem{b}, removed.Items)
}

func TestCart_Total(t *testing.T) {
	c := New(item(ItemTypeCourse, "100"), item(ItemTypeCourse, "50"), item(ItemTypeBundle, "19.99"))
	assert.True(t, decimal.RequireFromString("169.99").Equal(c.Total()))
	assert.True(t, Cart{}.Total().IsZero())
	assert.True(t, c.Clear().IsEmpty())
}

func TestCart_RemoveMissingIsNoop(t *testing.T) {
	c := New(item(ItemTypeCourse, "10"))
	assert.Equal(t, c.Items, c.RemoveItem(ItemTypeBundle, uuid.New()).Items)
}

func TestCart_LineItems(t *testing.T) {
	a := item(ItemTypeCourse, "100")
	lines := New(a).LineItems()
	assert.Equal(t, []LineItem{{Type: ItemTypeCourse, ID: a.ID, Price: a.Price}}, lines)
}

func TestQuoteRequest_Validate(t *testing.T) {
	assert.Error(t, QuoteRequest{}.Validate())
	assert.Error(t, ItemRef{Type: "ebook", ID: uuid.New()}.Validate())
	assert.NoError(t, QuoteRequest{Items: []ItemRef{{Type: ItemTypeCourse, ID: uuid.New()}}}.Validate())
}

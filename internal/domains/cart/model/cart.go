package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ItemType string

const (
	ItemTypeCourse ItemType = "course"
	ItemTypeBundle ItemType = "bundle"
)

func (t ItemType) Valid() bool {
	return t == ItemTypeCourse || t == ItemTypeBundle
}

// CartItem is one purchasable line. A cart holds at most one item per (Type, ID).
type CartItem struct {
	Type     ItemType        `json:"type"`
	ID       uuid.UUID       `json:"id"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url,omitempty"`
}

// LineItem is the pricing view of a cart item used by coupon validation.
type LineItem struct {
	Type  ItemType        `json:"type"`
	ID    uuid.UUID       `json:"id"`
	Price decimal.Decimal `json:"price"`
}

// Cart is an immutable value: every mutation returns a new Cart.
type Cart struct {
	Items []CartItem `json:"items"`
}

func New(items ...CartItem) Cart {
	c := Cart{}
	for _, it := range items {
		c, _ = c.AddItem(it)
	}
	return c
}

// AddItem returns the cart with item appended, or the same cart and false
// when an item with the same (Type, ID) is already present.
func (c Cart) AddItem(item CartItem) (Cart, bool) {
	if c.Contains(item.Type, item.ID) {
		return c, false
	}
	items := make([]CartItem, len(c.Items), len(c.Items)+1)
	copy(items, c.Items)
	return Cart{Items: append(items, item)}, true
}

// RemoveItem returns the cart without the matching item.
func (c Cart) RemoveItem(t ItemType, id uuid.UUID) Cart {
	items := make([]CartItem, 0, len(c.Items))
	for _, it := range c.Items {
		if it.Type == t && it.ID == id {
			continue
		}
		items = append(items, it)
	}
	return Cart{Items: items}
}

func (c Cart) Contains(t ItemType, id uuid.UUID) bool {
	for _, it := range c.Items {
		if it.Type == t && it.ID == id {
			return true
		}
	}
	return false
}

// Total is the sum of item prices.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Price)
	}
	return total
}

func (c Cart) Count() int {
	return len(c.Items)
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c Cart) Clear() Cart {
	return Cart{}
}

func (c Cart) LineItems() []LineItem {
	out := make([]LineItem, len(c.Items))
	for i, it := range c.Items {
		out[i] = LineItem{Type: it.Type, ID: it.ID, Price: it.Price}
	}
	return out
}

package model

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cart "coursestore-backend/internal/domains/cart/model"
)

type Status string

const (
	StatusOpen      Status = "open"
	StatusCompleted Status = "completed"
	StatusExpired   Status = "expired"
)

// StaleAfter is how long an open checkout waits before it is expired.
const StaleAfter = 24 * time.Hour

// PendingItem is one purchased line as it was priced at checkout.
type PendingItem struct {
	Type      cart.ItemType   `json:"type"`
	ID        uuid.UUID       `json:"id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	CourseIDs []uuid.UUID     `json:"course_ids"`
}

// PendingCheckout snapshots a checkout session so fulfilment does not
// depend on processor metadata.
type PendingCheckout struct {
	ID         uuid.UUID       `json:"id"`
	SessionID  string          `json:"session_id"`
	UserID     *uuid.UUID      `json:"user_id,omitempty"`
	Email      string          `json:"email,omitempty"`
	Items      []PendingItem   `json:"items"`
	CourseIDs  []uuid.UUID     `json:"course_ids"`
	BundleIDs  []uuid.UUID     `json:"bundle_ids"`
	CouponID   *uuid.UUID      `json:"coupon_id,omitempty"`
	CouponCode string          `json:"coupon_code,omitempty"`
	Discount   decimal.Decimal `json:"discount"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Total      decimal.Decimal `json:"total"`
	Currency   string          `json:"currency"`
	Status     Status          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// -------------------------------------------------------------------
// SESSION METADATA
// -------------------------------------------------------------------

const (
	MetaCheckoutID     = "checkout_id"
	MetaCourseIDs      = "course_ids"
	MetaBundleIDs      = "bundle_ids"
	MetaItemCount      = "item_count"
	MetaCouponID       = "coupon_id"
	MetaCouponCode     = "coupon_code"
	MetaDiscountAmount = "discount_amount"
	// MetaLegacyCourseID is written by single-course sessions created
	// before carts existed.
	MetaLegacyCourseID = "course_id"
)

// Stripe rejects metadata values longer than this.
const maxMetadataValue = 500

// Metadata is what checkout attaches to the processor session. An id list
// too long for one value is left out; the pending checkout still has it.
func (p *PendingCheckout) Metadata() map[string]string {
	meta := map[string]string{
		MetaCheckoutID: p.ID.String(),
		MetaItemCount:  strconv.Itoa(len(p.Items)),
	}
	if v := encodeIDs(p.CourseIDs); len(v) <= maxMetadataValue {
		meta[MetaCourseIDs] = v
	}
	if v := encodeIDs(p.BundleIDs); len(v) <= maxMetadataValue {
		meta[MetaBundleIDs] = v
	}
	if p.CouponID != nil {
		meta[MetaCouponID] = p.CouponID.String()
		meta[MetaCouponCode] = p.CouponCode
		meta[MetaDiscountAmount] = p.Discount.StringFixed(2)
	}
	return meta
}

func encodeIDs(ids []uuid.UUID) string {
	if ids == nil {
		ids = []uuid.UUID{}
	}
	b, _ := json.Marshal(ids)
	return string(b)
}

// SessionMetadata is the parsed form of processor metadata.
type SessionMetadata struct {
	CheckoutID *uuid.UUID
	CourseIDs  []uuid.UUID
	BundleIDs  []uuid.UUID
	CouponID   *uuid.UUID
	CouponCode string
	Discount   decimal.Decimal
}

// ParseMetadata reads the metadata written by Metadata. Unparseable
// entries are skipped. A lone course_id is accepted for older sessions.
func ParseMetadata(meta map[string]string) SessionMetadata {
	out := SessionMetadata{
		CourseIDs:  decodeIDs(meta[MetaCourseIDs]),
		BundleIDs:  decodeIDs(meta[MetaBundleIDs]),
		CouponCode: meta[MetaCouponCode],
		CheckoutID: parseID(meta[MetaCheckoutID]),
		CouponID:   parseID(meta[MetaCouponID]),
	}

	if len(out.CourseIDs) == 0 && len(out.BundleIDs) == 0 {
		if id := parseID(meta[MetaLegacyCourseID]); id != nil {
			out.CourseIDs = []uuid.UUID{*id}
		}
	}

	if d, err := decimal.NewFromString(meta[MetaDiscountAmount]); err == nil {
		out.Discount = d
	}
	return out
}

func decodeIDs(raw string) []uuid.UUID {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var strs []string
	if err := json.Unmarshal([]byte(raw), &strs); err != nil {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(strs))
	for _, s := range strs {
		if id, err := uuid.Parse(s); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func parseID(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}

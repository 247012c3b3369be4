package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// PURCHASES
// =====================================================

type PurchaseStatus string

const (
	PurchaseCompleted PurchaseStatus = "completed"
	PurchaseFailed    PurchaseStatus = "failed"
	PurchasePending   PurchaseStatus = "pending"
)

// StripePurchase is one course bought in one checkout session. It is
// unique per (checkout_session_id, course_id).
type StripePurchase struct {
	ID                uuid.UUID       `json:"id"`
	UserID            uuid.UUID       `json:"user_id"`
	CourseID          uuid.UUID       `json:"course_id"`
	CheckoutSessionID string          `json:"checkout_session_id"`
	PaymentIntentID   *string         `json:"payment_intent_id,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	Status            PurchaseStatus  `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
}

// PurchaseView adds the course title for listings.
type PurchaseView struct {
	StripePurchase
	CourseTitle string `json:"course_title"`
	CourseSlug  string `json:"course_slug"`
	Email       string `json:"email,omitempty"`
}

type PurchaseFilter struct {
	UserID *uuid.UUID
	Status PurchaseStatus
	Page   int
	Limit  int
}

// =====================================================
// WEBHOOK EVENT LOG
// =====================================================

// WebhookEvent is keyed by the processor's event id.
type WebhookEvent struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Processed   bool       `json:"processed"`
	Error       *string    `json:"error,omitempty"`
	ReceivedAt  time.Time  `json:"received_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

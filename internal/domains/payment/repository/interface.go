package repository

import (
	"context"

	"coursestore-backend/internal/domains/payment/model"
	"coursestore-backend/pkg/database"
)

// =====================================================
// REPOSITORY INTERFACES
// =====================================================

type PurchaseRepository interface {
	// Upsert writes on the caller's querier. A repeated (session, course)
	// refreshes status, amount and payment intent and reports inserted = false.
	// Completed rows are never changed.
	Upsert(ctx context.Context, q database.Querier, p *model.StripePurchase) (bool, error)
	// MarkFailedByPaymentIntent and MarkFailedBySession move pending rows to
	// failed and report how many changed.
	MarkFailedByPaymentIntent(ctx context.Context, paymentIntentID string) (int64, error)
	MarkFailedBySession(ctx context.Context, sessionID string) (int64, error)
	List(ctx context.Context, filter *model.PurchaseFilter) ([]*model.PurchaseView, int, error)
}

type WebhookEventRepository interface {
	// Record logs a delivery and reports whether the event was already
	// processed by an earlier delivery.
	Record(ctx context.Context, id, eventType string) (processed bool, err error)
	// MarkProcessed closes the event. note is kept for events that were
	// acknowledged without fulfilment.
	MarkProcessed(ctx context.Context, id string, note *string) error
	// MarkFailed keeps the event open for redelivery.
	MarkFailed(ctx context.Context, id string, reason string) error
}

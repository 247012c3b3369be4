package repository

import (
	"context"
	"time"

	"coursestore-backend/internal/domains/checkout/model"
	"coursestore-backend/pkg/database"
)

type PendingCheckoutRepository interface {
	Create(ctx context.Context, p *model.PendingCheckout) error
	FindBySessionID(ctx context.Context, sessionID string) (*model.PendingCheckout, error)
	// MarkCompleted runs on the caller's querier so it can join the
	// fulfilment transaction.
	MarkCompleted(ctx context.Context, q database.Querier, sessionID string) error
	// MarkExpired only moves open checkouts.
	MarkExpired(ctx context.Context, sessionID string) (bool, error)
	ExpireStale(ctx context.Context, olderThan time.Time) (int64, error)
}

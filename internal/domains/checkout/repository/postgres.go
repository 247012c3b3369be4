package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"coursestore-backend/internal/domains/checkout/model"
	"coursestore-backend/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) PendingCheckoutRepository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, p *model.PendingCheckout) error {
	items, err := json.Marshal(p.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}

	query := `
		INSERT INTO pending_checkouts (
			id, session_id, user_id, email, items, course_ids, bundle_ids,
			coupon_id, coupon_code, discount_amount, subtotal, total, currency, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at
	`

	err = r.pool.QueryRow(ctx, query,
		p.ID, p.SessionID, p.UserID, nullString(p.Email), items, p.CourseIDs, p.BundleIDs,
		p.CouponID, nullString(p.CouponCode), p.Discount, p.Subtotal, p.Total, p.Currency, p.Status,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert pending checkout: %w", err)
	}
	return nil
}

func (r *postgresRepository) FindBySessionID(ctx context.Context, sessionID string) (*model.PendingCheckout, error) {
	query := `
		SELECT id, session_id, user_id, COALESCE(email, ''), items, course_ids, bundle_ids,
		       coupon_id, COALESCE(coupon_code, ''), discount_amount, subtotal, total, currency,
		       status, created_at, updated_at
		FROM pending_checkouts
		WHERE session_id = $1
	`

	var (
		p     model.PendingCheckout
		items []byte
	)
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(
		&p.ID, &p.SessionID, &p.UserID, &p.Email, &items, &p.CourseIDs, &p.BundleIDs,
		&p.CouponID, &p.CouponCode, &p.Discount, &p.Subtotal, &p.Total, &p.Currency,
		&p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPendingNotFound
		}
		return nil, fmt.Errorf("find pending checkout: %w", err)
	}

	if err := json.Unmarshal(items, &p.Items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	return &p, nil
}

func (r *postgresRepository) MarkCompleted(ctx context.Context, q database.Querier, sessionID string) error {
	_, err := q.Exec(ctx, `
		UPDATE pending_checkouts SET status = $2, updated_at = NOW()
		WHERE session_id = $1 AND status <> $2
	`, sessionID, model.StatusCompleted)
	if err != nil {
		return fmt.Errorf("complete pending checkout: %w", err)
	}
	return nil
}

func (r *postgresRepository) MarkExpired(ctx context.Context, sessionID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE pending_checkouts SET status = $2, updated_at = NOW()
		WHERE session_id = $1 AND status = $3
	`, sessionID, model.StatusExpired, model.StatusOpen)
	if err != nil {
		return false, fmt.Errorf("expire pending checkout: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresRepository) ExpireStale(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE pending_checkouts SET status = $1, updated_at = NOW()
		WHERE status = $2 AND created_at < $3
	`, model.StatusExpired, model.StatusOpen, olderThan)
	if err != nil {
		return 0, fmt.Errorf("expire stale checkouts: %w", err)
	}
	return tag.RowsAffected(), nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"coursestore-backend/internal/domains/payment/model"
	"coursestore-backend/pkg/database"
)

type purchaseRepository struct {
	pool *pgxpool.Pool
}

func NewPurchaseRepository(pool *pgxpool.Pool) PurchaseRepository {
	return &purchaseRepository{pool: pool}
}

func (r *purchaseRepository) Upsert(ctx context.Context, q database.Querier, p *model.StripePurchase) (bool, error) {
	if q == nil {
		q = r.pool
	}

	query := `
		INSERT INTO stripe_purchases (
			id, user_id, course_id, checkout_session_id, payment_intent_id, amount, currency, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (checkout_session_id, course_id) DO UPDATE
		SET status = EXCLUDED.status,
		    amount = EXCLUDED.amount,
		    payment_intent_id = COALESCE(EXCLUDED.payment_intent_id, stripe_purchases.payment_intent_id)
		WHERE stripe_purchases.status <> $9
		RETURNING id, created_at, (xmax = 0) AS inserted
	`

	var inserted bool
	err := q.QueryRow(ctx, query,
		p.ID, p.UserID, p.CourseID, p.CheckoutSessionID, p.PaymentIntentID, p.Amount, p.Currency, p.Status,
		model.PurchaseCompleted,
	).Scan(&p.ID, &p.CreatedAt, &inserted)
	if errors.Is(err, pgx.ErrNoRows) {
		// Row is already completed and stays as is.
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("upsert purchase: %w", err)
	}
	return inserted, nil
}

func (r *purchaseRepository) MarkFailedByPaymentIntent(ctx context.Context, paymentIntentID string) (int64, error) {
	return r.markFailed(ctx, "payment_intent_id", paymentIntentID)
}

func (r *purchaseRepository) MarkFailedBySession(ctx context.Context, sessionID string) (int64, error) {
	return r.markFailed(ctx, "checkout_session_id", sessionID)
}

func (r *purchaseRepository) markFailed(ctx context.Context, column, value string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE stripe_purchases SET status = $2
		WHERE `+column+` = $1 AND status = $3
	`, value, model.PurchaseFailed, model.PurchasePending)
	if err != nil {
		return 0, fmt.Errorf("mark purchases failed: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *purchaseRepository) List(ctx context.Context, filter *model.PurchaseFilter) ([]*model.PurchaseView, int, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		where = append(where, fmt.Sprintf("p.user_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("p.status = $%d", len(args)))
	}

	clause := ""
	if len(where) > 0 {
		clause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM stripe_purchases p `+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count purchases: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`
		SELECT p.id, p.user_id, p.course_id, p.checkout_session_id, p.payment_intent_id,
		       p.amount, p.currency, p.status, p.created_at, c.title, c.slug, u.email
		FROM stripe_purchases p
		JOIN courses c ON c.id = p.course_id
		JOIN users u ON u.id = p.user_id
		%s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d
	`, clause, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	out := make([]*model.PurchaseView, 0, filter.Limit)
	for rows.Next() {
		var v model.PurchaseView
		if err := rows.Scan(
			&v.ID, &v.UserID, &v.CourseID, &v.CheckoutSessionID, &v.PaymentIntentID,
			&v.Amount, &v.Currency, &v.Status, &v.CreatedAt, &v.CourseTitle, &v.CourseSlug, &v.Email,
		); err != nil {
			return nil, 0, fmt.Errorf("scan purchase: %w", err)
		}
		out = append(out, &v)
	}
	return out, total, rows.Err()
}

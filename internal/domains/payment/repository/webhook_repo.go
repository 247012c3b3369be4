package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// =====================================================
// WEBHOOK EVENT LOG
// =====================================================

type webhookEventRepository struct {
	pool *pgxpool.Pool
}

func NewWebhookEventRepository(pool *pgxpool.Pool) WebhookEventRepository {
	return &webhookEventRepository{pool: pool}
}

func (r *webhookEventRepository) Record(ctx context.Context, id, eventType string) (bool, error) {
	var processed bool
	err := r.pool.QueryRow(ctx, `
		INSERT INTO webhook_events (id, type)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET attempts = webhook_events.attempts + 1
		RETURNING processed
	`, id, eventType).Scan(&processed)
	if err != nil {
		return false, fmt.Errorf("record webhook event: %w", err)
	}
	return processed, nil
}

func (r *webhookEventRepository) MarkProcessed(ctx context.Context, id string, note *string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE webhook_events SET processed = TRUE, error = $2, processed_at = NOW()
		WHERE id = $1
	`, id, note)
	if err != nil {
		return fmt.Errorf("mark webhook processed: %w", err)
	}
	return nil
}

func (r *webhookEventRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	_, err := r.pool.Exec(ctx, `UPDATE webhook_events SET error = $2 WHERE id = $1`, id, reason)
	if err != nil {
		return fmt.Errorf("mark webhook failed: %w", err)
	}
	return nil
}

package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"coursestore-backend/internal/domains/checkout/service"
	"coursestore-backend/internal/shared"
)

// ExpireStaleHandler closes pending checkouts the buyer abandoned.
type ExpireStaleHandler struct {
	service service.ServiceInterface
}

func NewExpireStaleHandler(svc service.ServiceInterface) *ExpireStaleHandler {
	return &ExpireStaleHandler{service: svc}
}

func (h *ExpireStaleHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ExpireStaleCheckoutsPayload
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
		}
	}

	n, err := h.service.ExpireStale(ctx, payload.OlderThan)
	if err != nil {
		log.Error().Err(err).Msg("Failed to expire stale checkouts")
		return err
	}

	if n > 0 {
		log.Info().Int64("expired", n).Msg("Expired stale checkouts")
	}
	return nil
}

package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"coursestore-backend/internal/infrastructure/email"
	"coursestore-backend/internal/shared"
)

// SendEmailHandler delivers queued, already rendered messages.
type SendEmailHandler struct {
	emailService email.EmailService
}

func NewSendEmailHandler(emailService email.EmailService) *SendEmailHandler {
	return &SendEmailHandler{emailService: emailService}
}

func (h *SendEmailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.SendEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal SendEmail payload")
		return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}

	log.Info().
		Strs("to", payload.To).
		Str("category", payload.Category).
		Msg("Processing email")

	err := h.emailService.Send(ctx, &email.Message{
		To:      payload.To,
		Subject: payload.Subject,
		HTML:    payload.HTML,
		Text:    payload.Text,
		ReplyTo: payload.ReplyTo,
	})
	if err != nil {
		log.Error().Err(err).Strs("to", payload.To).Msg("Failed to send email")
		return fmt.Errorf("send email: %w", err)
	}

	return nil
}

package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"coursestore-backend/internal/infrastructure/crm"
	"coursestore-backend/internal/shared"
)

type ContactUpserter interface {
	UpsertContact(ctx context.Context, in crm.UpsertContactInput) (*crm.Contact, bool, error)
	AddTags(ctx context.Context, contactID string, tags []string) error
}

// UpsertLeadHandler creates or tags a marketing lead in the CRM.
type UpsertLeadHandler struct {
	crm ContactUpserter
}

func NewUpsertLeadHandler(client ContactUpserter) *UpsertLeadHandler {
	return &UpsertLeadHandler{crm: client}
}

func (h *UpsertLeadHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.CRMUpsertLeadPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal CRM lead payload")
		return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}
	if payload.Email == "" {
		return fmt.Errorf("lead without email: %w", asynq.SkipRetry)
	}

	contact, created, err := h.crm.UpsertContact(ctx, crm.UpsertContactInput{
		Email:        payload.Email,
		Name:         payload.Name,
		Website:      payload.Website,
		Source:       "audit form",
		Tags:         payload.Tags,
		CustomFields: payload.Fields,
	})
	if err != nil {
		log.Error().Err(err).Str("email", payload.Email).Msg("CRM lead upsert failed")
		return fmt.Errorf("upsert lead: %w", err)
	}

	if !created && len(payload.Tags) > 0 {
		if err := h.crm.AddTags(ctx, contact.ID, payload.Tags); err != nil {
			return fmt.Errorf("add tags: %w", err)
		}
	}

	log.Info().Str("contact_id", contact.ID).Bool("created", created).Msg("CRM lead upserted")
	return nil
}

package service

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"coursestore-backend/internal/domains/marketing/model"
	"coursestore-backend/internal/infrastructure/email"
	"coursestore-backend/internal/infrastructure/queue"
	"coursestore-backend/internal/shared"
	"coursestore-backend/internal/shared/apperr"
)

type ServiceInterface interface {
	SubmitAudit(ctx context.Context, req *model.AuditRequest) error
}

type auditService struct {
	queue queue.Enqueuer
	// notify receives the admin notification; empty disables it.
	notify string
}

func NewAuditService(q queue.Enqueuer, notifyAddress string) ServiceInterface {
	return &auditService{queue: q, notify: notifyAddress}
}

// SubmitAudit queues the admin email and the CRM lead. The request fails
// only when neither could be queued.
func (s *auditService) SubmitAudit(ctx context.Context, req *model.AuditRequest) error {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}

	logger := log.With().Str("email", req.Email).Str("website", req.Website).Logger()
	queued := 0

	if s.notify != "" {
		subject, html, err := email.RenderAuditRequest(email.AuditRequestData{
			Name:    req.Name,
			Email:   req.Email,
			Website: req.Website,
			Message: req.Message,
		})
		if err != nil {
			logger.Error().Err(err).Msg("Failed to render audit notification")
		} else if err := s.queue.Enqueue(ctx, shared.TypeSendEmail, shared.SendEmailPayload{
			To:       []string{s.notify},
			Subject:  subject,
			HTML:     html,
			ReplyTo:  req.Email,
			Category: "audit_request",
		}, asynq.Queue(shared.QueueDefault), asynq.MaxRetry(5)); err != nil {
			logger.Error().Err(err).Msg("Failed to queue audit notification")
		} else {
			queued++
		}
	}

	err := s.queue.Enqueue(ctx, shared.TypeCRMUpsertLead, shared.CRMUpsertLeadPayload{
		Name:    req.Name,
		Email:   req.Email,
		Website: req.Website,
		Tags:    []string{model.AuditTag},
	}, asynq.Queue(shared.QueueLow), asynq.MaxRetry(8))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to queue CRM lead")
	} else {
		queued++
	}

	if queued == 0 {
		return apperr.Internal(err)
	}

	logger.Info().Msg("Audit request received")
	return nil
}

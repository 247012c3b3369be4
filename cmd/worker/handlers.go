package main

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	checkoutJob "coursestore-backend/internal/domains/checkout/job"
	enrollmentJob "coursestore-backend/internal/domains/enrollment/job"
	marketingJob "coursestore-backend/internal/domains/marketing/job"
	emailJob "coursestore-backend/internal/infrastructure/email/job"
	"coursestore-backend/internal/shared"
	"coursestore-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	sendEmail   *emailJob.SendEmailHandler
	expireStale *checkoutJob.ExpireStaleHandler
	crmSync     *enrollmentJob.CRMSyncHandler
	crmLead     *marketingJob.UpsertLeadHandler
}

// initializeHandlers creates all job handlers with their dependencies.
// CRM handlers stay nil when the integration is disabled.
func initializeHandlers(c *container.Container) *HandlerRegistry {
	h := &HandlerRegistry{
		sendEmail:   emailJob.NewSendEmailHandler(c.Email),
		expireStale: checkoutJob.NewExpireStaleHandler(c.CheckoutService),
	}

	if c.CRM != nil {
		h.crmSync = enrollmentJob.NewCRMSyncHandler(
			c.CRM,
			c.UserService,
			c.AccessService,
			c.CatalogService,
			c.Config.CRM.EnrolledCoursesFieldID,
		)
		h.crmLead = marketingJob.NewUpsertLeadHandler(c.CRM)
	}

	return h
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Email
	mux.HandleFunc(shared.TypeSendEmail, h.sendEmail.ProcessTask)

	// Checkout maintenance
	mux.HandleFunc(shared.TypeExpireStaleCheckouts, h.expireStale.ProcessTask)

	// CRM
	if h.crmSync != nil {
		mux.HandleFunc(shared.TypeCRMSyncEnrollment, h.crmSync.ProcessTask)
		mux.HandleFunc(shared.TypeCRMUpsertLead, h.crmLead.ProcessTask)
	} else {
		mux.HandleFunc(shared.TypeCRMSyncEnrollment, skipDisabled)
		mux.HandleFunc(shared.TypeCRMUpsertLead, skipDisabled)
	}
}

// skipDisabled acknowledges CRM tasks queued while the integration is off.
func skipDisabled(_ context.Context, task *asynq.Task) error {
	log.Warn().Str("type", task.Type()).Msg("CRM disabled, dropping task")
	return nil
}

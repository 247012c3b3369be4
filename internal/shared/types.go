package shared

import (
	"time"

	"github.com/google/uuid"
)

// Asynq queues, weighted in cmd/worker.
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// Task types
const (
	TypeSendEmail            = "email:send"
	TypeCRMSyncEnrollment    = "crm:sync_enrollment"
	TypeCRMUpsertLead        = "crm:upsert_lead"
	TypeExpireStaleCheckouts = "checkout:expire_stale"
)

// SendEmailPayload is a fully rendered message waiting for delivery.
type SendEmailPayload struct {
	To       []string `json:"to"`
	Subject  string   `json:"subject"`
	HTML     string   `json:"html"`
	Text     string   `json:"text,omitempty"`
	ReplyTo  string   `json:"reply_to,omitempty"`
	Category string   `json:"category,omitempty"`
}

// CRMSyncEnrollmentPayload pushes a purchase to the CRM contact of the buyer.
type CRMSyncEnrollmentPayload struct {
	UserID    uuid.UUID   `json:"user_id"`
	Email     string      `json:"email"`
	FullName  string      `json:"full_name,omitempty"`
	CourseIDs []uuid.UUID `json:"course_ids"`
	SessionID string      `json:"session_id"`
}

// CRMUpsertLeadPayload records a marketing lead in the CRM.
type CRMUpsertLeadPayload struct {
	Name    string            `json:"name"`
	Email   string            `json:"email"`
	Website string            `json:"website,omitempty"`
	Tags    []string          `json:"tags"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ExpireStaleCheckoutsPayload is scheduled by the worker.
type ExpireStaleCheckoutsPayload struct {
	OlderThan time.Duration `json:"older_than"`
}

// UserBasicInfo avoids an import cycle with the user domain.
type UserBasicInfo struct {
	ID       uuid.UUID
	Email    string
	FullName string
}

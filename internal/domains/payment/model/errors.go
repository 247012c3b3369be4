package model

import (
	"net/http"

	"coursestore-backend/internal/shared/apperr"
)

const (
	ErrCodeInvalidSignature apperr.ErrorCode = "WEBHOOK_INVALID_SIGNATURE"
	ErrCodeWebhookFailed    apperr.ErrorCode = "WEBHOOK_PROCESSING_FAILED"
)

var (
	ErrInvalidSignature = apperr.New(ErrCodeInvalidSignature, "Invalid webhook signature", http.StatusBadRequest)
	// ErrWebhookFailed asks the processor to redeliver.
	ErrWebhookFailed = apperr.New(ErrCodeWebhookFailed, "Webhook processing failed", http.StatusInternalServerError)
)

package model

import (
	"net/http"

	"coursestore-backend/internal/shared/apperr"
)

const ErrCodeGateway apperr.ErrorCode = "CHECKOUT_GATEWAY_ERROR"

var (
	ErrGateway         = apperr.New(ErrCodeGateway, "Payment processor error", http.StatusBadGateway)
	ErrPendingNotFound = apperr.NotFound("Checkout not found")
)

// GatewayError carries the processor's message to the client.
func GatewayError(err error) *apperr.AppError {
	return ErrGateway.WithMessage(err.Error()).Wrap(err)
}

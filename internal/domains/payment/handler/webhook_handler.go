package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coursestore-backend/internal/domains/payment/service"
	"coursestore-backend/internal/shared/response"
)

// SignatureHeader carries the processor's payload signature.
const SignatureHeader = "Stripe-Signature"

// maxPayloadBytes bounds the body read before verification.
const maxPayloadBytes = 1 << 16

type WebhookHandler struct {
	service service.WebhookServiceInterface
}

func NewWebhookHandler(svc service.WebhookServiceInterface) *WebhookHandler {
	return &WebhookHandler{service: svc}
}

// Stripe POST /api/v1/webhooks/stripe
//
// 400 when the signature does not verify, 500 when processing failed and
// the processor should redeliver, 200 otherwise.
func (h *WebhookHandler) Stripe(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPayloadBytes)
	payload, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, "Unable to read request body")
		return
	}

	if err := h.service.HandleWebhook(c.Request.Context(), payload, c.GetHeader(SignatureHeader)); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"received": true})
}

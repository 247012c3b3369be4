package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"coursestore-backend/internal/domains/payment/model"
)

type stubWebhookService struct {
	payload   []byte
	signature string
	err       error
}

func (s *stubWebhookService) HandleWebhook(_ context.Context, payload []byte, signature string) error {
	s.payload = payload
	s.signature = signature
	return s.err
}

func postWebhook(svc *stubWebhookService, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/webhooks/stripe", NewWebhookHandler(svc).Stripe)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewBufferString(body))
	req.Header.Set(SignatureHeader, "t=1,v1=abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStripeWebhook_PassesRawBody(t *testing.T) {
	svc := &stubWebhookService{}

	w := postWebhook(svc, `{"id":"evt_1"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"id":"evt_1"}`, string(svc.payload))
	assert.Equal(t, "t=1,v1=abc", svc.signature)
}

func TestStripeWebhook_StatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid signature", model.ErrInvalidSignature.Wrap(errors.New("bad")), http.StatusBadRequest},
		{"processing failed", model.ErrWebhookFailed.Wrap(errors.New("db down")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postWebhook(&stubWebhookService{err: tt.err}, "{}")
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

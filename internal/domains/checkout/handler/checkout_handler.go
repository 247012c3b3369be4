package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coursestore-backend/internal/domains/checkout/model"
	"coursestore-backend/internal/domains/checkout/service"
	"coursestore-backend/internal/shared/middleware"
	"coursestore-backend/internal/shared/response"
)

type CheckoutHandler struct {
	service service.ServiceInterface
}

func NewCheckoutHandler(svc service.ServiceInterface) *CheckoutHandler {
	return &CheckoutHandler{service: svc}
}

// CreateSession POST /api/v1/checkout/session
//
// Guests may check out; a signed-in buyer's email is used when the body
// has none.
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	var req model.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if req.Email == "" {
		req.Email = middleware.Email(c)
	}

	resp, err := h.service.CreateCheckoutSession(c.Request.Context(), &model.CheckoutRequest{
		CreateSessionRequest: req,
		UserID:               middleware.OptionalUserID(c),
	})
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp)
}

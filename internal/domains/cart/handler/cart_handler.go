package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coursestore-backend/internal/domains/cart/model"
	"coursestore-backend/internal/domains/cart/service"
	"coursestore-backend/internal/shared/middleware"
	"coursestore-backend/internal/shared/response"
)

type CartHandler struct {
	service service.ServiceInterface
}

func NewCartHandler(svc service.ServiceInterface) *CartHandler {
	return &CartHandler{service: svc}
}

// Quote POST /api/v1/cart/quote
func (h *CartHandler) Quote(c *gin.Context) {
	var req model.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	quote, err := h.service.Quote(c.Request.Context(), &req, middleware.OptionalUserID(c), middleware.Email(c))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, quote)
}

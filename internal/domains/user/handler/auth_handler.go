package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coursestore-backend/internal/domains/user/model"
	"coursestore-backend/internal/domains/user/service"
	"coursestore-backend/internal/shared/response"
)

type AuthHandler struct {
	service service.AuthServiceInterface
}

func NewAuthHandler(svc service.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Login POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// RequestMagicLink POST /api/v1/auth/magic-link
func (h *AuthHandler) RequestMagicLink(c *gin.Context) {
	var req model.MagicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.service.RequestMagicLink(c.Request.Context(), &req); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"message": "If the address can sign in, a link is on its way"})
}

// VerifyMagicLink POST /api/v1/auth/magic-link/verify
func (h *AuthHandler) VerifyMagicLink(c *gin.Context) {
	var req model.VerifyMagicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	resp, err := h.service.VerifyMagicLink(c.Request.Context(), &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coursestore-backend/internal/domains/marketing/model"
	"coursestore-backend/internal/domains/marketing/service"
	"coursestore-backend/internal/shared/response"
)

type AuditHandler struct {
	service service.ServiceInterface
}

func NewAuditHandler(svc service.ServiceInterface) *AuditHandler {
	return &AuditHandler{service: svc}
}

// SubmitAudit POST /api/v1/forms/audit
func (h *AuditHandler) SubmitAudit(c *gin.Context) {
	var req model.AuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.service.SubmitAudit(c.Request.Context(), &req); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"message": "Thanks, we will be in touch shortly"})
}

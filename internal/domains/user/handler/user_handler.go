package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"coursestore-backend/internal/domains/user/model"
	"coursestore-backend/internal/domains/user/service"
	"coursestore-backend/internal/shared/middleware"
	"coursestore-backend/internal/shared/response"
	"coursestore-backend/internal/shared/utils"
)

type UserHandler struct {
	service service.ServiceInterface
}

func NewUserHandler(svc service.ServiceInterface) *UserHandler {
	return &UserHandler{service: svc}
}

// Me GET /api/v1/me
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

// ListUsers GET /api/v1/admin/users?role=&status=&search=
func (h *UserHandler) ListUsers(c *gin.Context) {
	p := utils.NewPagination(c.Query("page"), c.Query("limit"))
	users, total, err := h.service.List(c.Request.Context(), &model.ListFilter{
		Role:   model.Role(c.Query("role")),
		Status: model.Status(c.Query("status")),
		Search: c.Query("search"),
		Page:   p.Page,
		Limit:  p.Limit,
	})
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, users, &response.Meta{Page: p.Page, Limit: p.Limit, Total: total})
}

// UpdateRole PATCH /api/v1/admin/users/:id/role
func (h *UserHandler) UpdateRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid user id")
		return
	}

	var req model.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.service.UpdateRole(c.Request.Context(), id, &req); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "role": req.Role})
}

// UpdateStatus PATCH /api/v1/admin/users/:id/status
func (h *UserHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid user id")
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.service.UpdateStatus(c.Request.Context(), id, &req); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "status": req.Status})
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"coursestore-backend/internal/domains/enrollment/model"
	"coursestore-backend/internal/domains/enrollment/service"
	"coursestore-backend/internal/shared/middleware"
	"coursestore-backend/internal/shared/response"
)

type EnrollmentHandler struct {
	service service.ServiceInterface
}

func NewEnrollmentHandler(svc service.ServiceInterface) *EnrollmentHandler {
	return &EnrollmentHandler{service: svc}
}

// CheckAccess GET /api/v1/me/access/:course_id
func (h *EnrollmentHandler) CheckAccess(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		response.BadRequest(c, "Invalid course id")
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	res, err := h.service.HasAccess(c.Request.Context(), userID, courseID)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// ListMine GET /api/v1/me/enrollments
func (h *EnrollmentHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	enrollments, err := h.service.ListForUser(c.Request.Context(), userID)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	if enrollments == nil {
		enrollments = []*model.EnrollmentView{}
	}
	response.Success(c, http.StatusOK, enrollments)
}

// Complete POST /api/v1/me/enrollments/:course_id/complete
func (h *EnrollmentHandler) Complete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		response.BadRequest(c, "Invalid course id")
		return
	}

	if err := h.service.MarkCompleted(c.Request.Context(), userID, courseID); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"course_id": courseID, "completed": true})
}

// Grant POST /api/v1/admin/enrollments
func (h *EnrollmentHandler) Grant(c *gin.Context) {
	var req model.GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	resp, err := h.service.Grant(c.Request.Context(), &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	response.Success(c, status, resp)
}

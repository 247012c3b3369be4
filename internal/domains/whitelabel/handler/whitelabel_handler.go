package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"coursestore-backend/internal/domains/whitelabel/model"
	"coursestore-backend/internal/domains/whitelabel/service"
	"coursestore-backend/internal/shared/response"
	"coursestore-backend/internal/shared/utils"
)

type WhitelabelHandler struct {
	service service.ServiceInterface
}

func NewWhitelabelHandler(svc service.ServiceInterface) *WhitelabelHandler {
	return &WhitelabelHandler{service: svc}
}

// -------------------------------------------------------------------
// PUBLIC
// -------------------------------------------------------------------

// GetPublic GET /api/v1/whitelabel/:slug
func (h *WhitelabelHandler) GetPublic(c *gin.Context) {
	acct, err := h.service.ResolvePublic(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, acct)
}

// -------------------------------------------------------------------
// ADMIN
// -------------------------------------------------------------------

// List GET /api/v1/admin/whitelabel?active=&search=
func (h *WhitelabelHandler) List(c *gin.Context) {
	p := utils.NewPagination(c.Query("page"), c.Query("limit"))
	filter := &model.ListFilter{Search: c.Query("search"), Page: p.Page, Limit: p.Limit}

	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(c, "active must be true or false")
			return
		}
		filter.Active = &active
	}

	accounts, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, accounts, &response.Meta{Page: p.Page, Limit: p.Limit, Total: total})
}

// Get GET /api/v1/admin/whitelabel/:id
func (h *WhitelabelHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	acct, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, acct)
}

// Create POST /api/v1/admin/whitelabel
func (h *WhitelabelHandler) Create(c *gin.Context) {
	var req model.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	acct, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, acct)
}

// Update PATCH /api/v1/admin/whitelabel/:id
func (h *WhitelabelHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	acct, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, acct)
}

// Delete DELETE /api/v1/admin/whitelabel/:id
func (h *WhitelabelHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid account id")
		return uuid.Nil, false
	}
	return id, true
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"coursestore-backend/internal/domains/coupon/model"
	"coursestore-backend/internal/domains/coupon/service"
	"coursestore-backend/internal/shared/response"
	"coursestore-backend/internal/shared/utils"
)

type AdminHandler struct {
	service service.ServiceInterface
}

func NewAdminHandler(svc service.ServiceInterface) *AdminHandler {
	return &AdminHandler{service: svc}
}

// ListCoupons GET /api/v1/admin/coupons?active=&search=&page=&limit=
func (h *AdminHandler) ListCoupons(c *gin.Context) {
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

	coupons, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, coupons, &response.Meta{Page: p.Page, Limit: p.Limit, Total: total})
}

// GetCoupon GET /api/v1/admin/coupons/:id
func (h *AdminHandler) GetCoupon(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	p := utils.NewPagination(c.Query("page"), c.Query("limit"))

	detail, err := h.service.GetDetail(c.Request.Context(), id, p.Page, p.Limit)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, detail)
}

// CreateCoupon POST /api/v1/admin/coupons
func (h *AdminHandler) CreateCoupon(c *gin.Context) {
	var req model.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	coupon, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, coupon)
}

// UpdateCoupon PATCH /api/v1/admin/coupons/:id
func (h *AdminHandler) UpdateCoupon(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	coupon, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, coupon)
}

// SetCouponStatus PATCH /api/v1/admin/coupons/:id/status
func (h *AdminHandler) SetCouponStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(c, err)
		return
	}

	if err := h.service.SetActive(c.Request.Context(), id, *req.Active); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "active": *req.Active})
}

// DeleteCoupon DELETE /api/v1/admin/coupons/:id
func (h *AdminHandler) DeleteCoupon(c *gin.Context) {
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
		response.BadRequest(c, "Invalid coupon id")
		return uuid.Nil, false
	}
	return id, true
}

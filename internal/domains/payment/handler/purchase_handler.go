package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"coursestore-backend/internal/domains/payment/model"
	"coursestore-backend/internal/domains/payment/service"
	"coursestore-backend/internal/shared/middleware"
	"coursestore-backend/internal/shared/response"
	"coursestore-backend/internal/shared/utils"
)

type PurchaseHandler struct {
	service service.PurchaseServiceInterface
}

func NewPurchaseHandler(svc service.PurchaseServiceInterface) *PurchaseHandler {
	return &PurchaseHandler{service: svc}
}

// ListMine GET /api/v1/me/purchases
func (h *PurchaseHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	p := utils.NewPagination(c.Query("page"), c.Query("limit"))
	items, total, err := h.service.ListForUser(c.Request.Context(), userID, p.Page, p.Limit)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	respond(c, items, total, p)
}

// ListAll GET /api/v1/admin/purchases?user_id=&status=
func (h *PurchaseHandler) ListAll(c *gin.Context) {
	p := utils.NewPagination(c.Query("page"), c.Query("limit"))
	filter := &model.PurchaseFilter{
		Status: model.PurchaseStatus(c.Query("status")),
		Page:   p.Page,
		Limit:  p.Limit,
	}

	if raw := c.Query("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "Invalid user id")
			return
		}
		filter.UserID = &id
	}

	switch filter.Status {
	case "", model.PurchaseCompleted, model.PurchaseFailed, model.PurchasePending:
	default:
		response.BadRequest(c, "Invalid status")
		return
	}

	items, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	respond(c, items, total, p)
}

func respond(c *gin.Context, items []*model.PurchaseView, total int, p utils.Pagination) {
	if items == nil {
		items = []*model.PurchaseView{}
	}
	response.SuccessWithMeta(c, http.StatusOK, items, &response.Meta{
		Page:  p.Page,
		Limit: p.Limit,
		Total: total,
	})
}

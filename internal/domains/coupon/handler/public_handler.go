package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	cart "coursestore-backend/internal/domains/cart/model"
	"coursestore-backend/internal/domains/coupon/model"
	"coursestore-backend/internal/domains/coupon/service"
	"coursestore-backend/internal/shared/middleware"
	"coursestore-backend/internal/shared/response"
)

// ItemPricer prices client item refs from the catalog.
type ItemPricer interface {
	PriceItems(ctx context.Context, refs []cart.ItemRef) (cart.Cart, error)
}

type PublicHandler struct {
	service service.ServiceInterface
	pricer  ItemPricer
}

func NewPublicHandler(svc service.ServiceInterface, pricer ItemPricer) *PublicHandler {
	return &PublicHandler{service: svc, pricer: pricer}
}

// ValidateCoupon POST /api/v1/coupons/validate
//
// An invalid coupon is a normal 200 answer with valid=false and a reason.
func (h *PublicHandler) ValidateCoupon(c *gin.Context) {
	var req model.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(c, err)
		return
	}

	priced, err := h.pricer.PriceItems(c.Request.Context(), req.Items)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	result, err := h.service.Validate(c.Request.Context(), &model.ValidateInput{
		Code:      req.Code,
		CartTotal: priced.Total(),
		Items:     priced.LineItems(),
		UserID:    middleware.OptionalUserID(c),
		Email:     middleware.Email(c),
	})
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

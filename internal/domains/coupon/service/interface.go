package service

import (
	"context"

	"github.com/google/uuid"

	"coursestore-backend/internal/domains/coupon/model"
	"coursestore-backend/pkg/database"
)

type ServiceInterface interface {
	Validate(ctx context.Context, in *model.ValidateInput) (*model.ValidationResult, error)
	// Redeem records one use per checkout session inside the caller's
	// transaction. It returns false when the session already redeemed.
	Redeem(ctx context.Context, q database.Querier, in *model.RedeemInput) (bool, error)

	// Admin
	Create(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateCouponRequest) (*model.Coupon, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *model.ListFilter) ([]*model.Coupon, int, error)
	GetDetail(ctx context.Context, id uuid.UUID, page, limit int) (*model.CouponDetail, error)
}

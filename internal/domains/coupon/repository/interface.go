package repository

import (
	"context"

	"github.com/google/uuid"

	"coursestore-backend/internal/domains/coupon/model"
	"coursestore-backend/pkg/database"
)

type CouponRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error)
	// FindByCode matches case-insensitively.
	FindByCode(ctx context.Context, code string) (*model.Coupon, error)
	List(ctx context.Context, filter *model.ListFilter) ([]*model.Coupon, int, error)
	CodeExists(ctx context.Context, code string, excludeID *uuid.UUID) (bool, error)

	Create(ctx context.Context, c *model.Coupon) error
	Update(ctx context.Context, c *model.Coupon) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error

	// CountRedemptions counts past redemptions by the user id, or by email
	// for guests. Either may be empty.
	CountRedemptions(ctx context.Context, couponID uuid.UUID, userID *uuid.UUID, email string) (int, error)
	// CreateRedemption reports false when the (coupon, checkout session) pair already exists.
	CreateRedemption(ctx context.Context, q database.Querier, r *model.Redemption) (bool, error)
	IncrementUsage(ctx context.Context, q database.Querier, id uuid.UUID) error
	ListRedemptions(ctx context.Context, couponID uuid.UUID, page, limit int) ([]*model.Redemption, int, error)
}

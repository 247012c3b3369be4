package service

import (
	"context"

	"github.com/google/uuid"

	catalog "coursestore-backend/internal/domains/catalog/model"
	coupon "coursestore-backend/internal/domains/coupon/model"
	enrollment "coursestore-backend/internal/domains/enrollment/model"
	"coursestore-backend/internal/domains/payment/model"
	user "coursestore-backend/internal/domains/user/model"
	"coursestore-backend/pkg/database"
)

// =====================================================
// SERVICE INTERFACES
// =====================================================

type WebhookServiceInterface interface {
	// HandleWebhook verifies and processes one delivery. A nil error means
	// the processor can stop redelivering.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type PurchaseServiceInterface interface {
	ListForUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]*model.PurchaseView, int, error)
	List(ctx context.Context, filter *model.PurchaseFilter) ([]*model.PurchaseView, int, error)
}

// =====================================================
// COLLABORATORS
// =====================================================

type UserResolver interface {
	ResolveOrCreateByEmail(ctx context.Context, email, fullName string) (*user.User, error)
}

type CatalogReader interface {
	GetBundleByID(ctx context.Context, id uuid.UUID) (*catalog.Bundle, error)
	FindCoursesByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Course, error)
}

type Enroller interface {
	Enroll(ctx context.Context, q database.Querier, userID, courseID uuid.UUID, origin enrollment.Origin) (bool, error)
}

type CouponRedeemer interface {
	Redeem(ctx context.Context, q database.Querier, in *coupon.RedeemInput) (bool, error)
}

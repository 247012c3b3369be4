package service

import (
	"context"

	"github.com/google/uuid"

	catalog "coursestore-backend/internal/domains/catalog/model"
	"coursestore-backend/internal/domains/enrollment/model"
	user "coursestore-backend/internal/domains/user/model"
	"coursestore-backend/pkg/database"
)

type ServiceInterface interface {
	HasAccess(ctx context.Context, userID, courseID uuid.UUID) (model.AccessResult, error)
	// CanAccess is HasAccess reduced to a bool for the lesson gate.
	CanAccess(ctx context.Context, userID, courseID uuid.UUID) (bool, error)

	Enroll(ctx context.Context, q database.Querier, userID, courseID uuid.UUID, origin model.Origin) (bool, error)
	Grant(ctx context.Context, req *model.GrantRequest) (*model.GrantResponse, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.EnrollmentView, error)
	MarkCompleted(ctx context.Context, userID, courseID uuid.UUID) error
}

type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// MembershipChecker asks the CRM whether a contact holds an access tier.
type MembershipChecker interface {
	HasActiveMembership(ctx context.Context, contactID string) (bool, error)
}

type CourseLookup interface {
	GetCourseByID(ctx context.Context, id uuid.UUID) (*catalog.Course, error)
}

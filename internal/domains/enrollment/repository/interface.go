package repository

import (
	"context"

	"github.com/google/uuid"

	"coursestore-backend/internal/domains/enrollment/model"
	"coursestore-backend/pkg/database"
)

type EnrollmentRepository interface {
	// Enroll inserts on the caller's querier and reports whether a new row
	// was created. An existing enrollment is left untouched.
	Enroll(ctx context.Context, q database.Querier, userID, courseID uuid.UUID, origin model.Origin) (bool, error)
	Exists(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.EnrollmentView, error)
	MarkCompleted(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
}

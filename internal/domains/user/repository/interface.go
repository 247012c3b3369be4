package repository

import (
	"context"

	"github.com/google/uuid"

	"coursestore-backend/internal/domains/user/model"
)

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.User, error)
	// ResolveOrCreateByEmail upserts on the unique email. An existing row
	// keeps its name unless it had none.
	ResolveOrCreateByEmail(ctx context.Context, email, fullName string) (*model.User, error)
	List(ctx context.Context, filter *model.ListFilter) ([]*model.User, int, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.Status) error
	LinkCRMContact(ctx context.Context, id uuid.UUID, contactID, locationID string) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

package service

import (
	"context"

	"github.com/google/uuid"

	"coursestore-backend/internal/domains/user/model"
)

type ServiceInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.User, error)
	ResolveOrCreateByEmail(ctx context.Context, email, fullName string) (*model.User, error)
	LinkCRMContact(ctx context.Context, id uuid.UUID, contactID, locationID string) error

	// Admin
	List(ctx context.Context, filter *model.ListFilter) ([]*model.User, int, error)
	UpdateRole(ctx context.Context, id uuid.UUID, req *model.UpdateRoleRequest) error
	UpdateStatus(ctx context.Context, id uuid.UUID, req *model.UpdateStatusRequest) error
}

type AuthServiceInterface interface {
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)
	RequestMagicLink(ctx context.Context, req *model.MagicLinkRequest) error
	VerifyMagicLink(ctx context.Context, req *model.VerifyMagicLinkRequest) (*model.AuthResponse, error)
}

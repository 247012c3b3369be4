package service

import (
	"context"

	"github.com/google/uuid"

	"coursestore-backend/internal/domains/whitelabel/model"
)

type ServiceInterface interface {
	// ResolvePublic looks up an active account by slug, falling back to
	// its custom domain.
	ResolvePublic(ctx context.Context, slugOrDomain string) (*model.PublicAccount, error)

	Get(ctx context.Context, id uuid.UUID) (*model.Account, error)
	List(ctx context.Context, filter *model.ListFilter) ([]*model.Account, int, error)
	Create(ctx context.Context, req *model.CreateAccountRequest) (*model.Account, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateAccountRequest) (*model.Account, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

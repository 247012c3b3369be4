package repository

import (
	"context"

	"github.com/google/uuid"

	"coursestore-backend/internal/domains/whitelabel/model"
)

type AccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	FindBySlug(ctx context.Context, slug string) (*model.Account, error)
	FindByDomain(ctx context.Context, domain string) (*model.Account, error)
	List(ctx context.Context, filter *model.ListFilter) ([]*model.Account, int, error)
	Create(ctx context.Context, a *model.Account) error
	Update(ctx context.Context, a *model.Account) error
	Delete(ctx context.Context, id uuid.UUID) error
}

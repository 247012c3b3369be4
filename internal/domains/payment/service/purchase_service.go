package service

import (
	"context"

	"github.com/google/uuid"

	"coursestore-backend/internal/domains/payment/model"
	"coursestore-backend/internal/domains/payment/repository"
	"coursestore-backend/internal/shared/utils"
)

type purchaseService struct {
	repo repository.PurchaseRepository
}

func NewPurchaseService(repo repository.PurchaseRepository) PurchaseServiceInterface {
	return &purchaseService{repo: repo}
}

func (s *purchaseService) ListForUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]*model.PurchaseView, int, error) {
	return s.List(ctx, &model.PurchaseFilter{UserID: &userID, Page: page, Limit: limit})
}

func (s *purchaseService) List(ctx context.Context, filter *model.PurchaseFilter) ([]*model.PurchaseView, int, error) {
	f := *filter
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = utils.DefaultPageSize
	}
	if f.Limit > utils.MaxPageSize {
		f.Limit = utils.MaxPageSize
	}
	return s.repo.List(ctx, &f)
}

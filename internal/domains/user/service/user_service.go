package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"coursestore-backend/internal/domains/user/model"
	"coursestore-backend/internal/domains/user/repository"
	"coursestore-backend/internal/shared/apperr"
	"coursestore-backend/internal/shared/utils"
)

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) ServiceInterface {
	return &userService{repo: repo}
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *userService) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.User, error) {
	return s.repo.FindByIDs(ctx, ids)
}

// ResolveOrCreateByEmail backs guest checkout: the first purchase with an
// email creates the student account.
func (s *userService) ResolveOrCreateByEmail(ctx context.Context, email, fullName string) (*model.User, error) {
	email = utils.NormalizeEmail(email)
	if email == "" {
		return nil, apperr.Validation("Email is required", nil)
	}
	return s.repo.ResolveOrCreateByEmail(ctx, email, fullName)
}

func (s *userService) LinkCRMContact(ctx context.Context, id uuid.UUID, contactID, locationID string) error {
	return s.repo.LinkCRMContact(ctx, id, contactID, locationID)
}

func (s *userService) List(ctx context.Context, filter *model.ListFilter) ([]*model.User, int, error) {
	if filter.Role != "" && !filter.Role.IsValid() {
		return nil, 0, apperr.Validation("Invalid role filter", nil)
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, 0, apperr.Validation("Invalid status filter", nil)
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = utils.DefaultPageSize
	}
	return s.repo.List(ctx, filter)
}

func (s *userService) UpdateRole(ctx context.Context, id uuid.UUID, req *model.UpdateRoleRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if err := s.repo.UpdateRole(ctx, id, req.Role); err != nil {
		return err
	}
	log.Info().Str("user_id", id.String()).Str("role", string(req.Role)).Msg("User role updated")
	return nil
}

func (s *userService) UpdateStatus(ctx context.Context, id uuid.UUID, req *model.UpdateStatusRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if err := s.repo.UpdateStatus(ctx, id, req.Status); err != nil {
		return err
	}
	log.Info().Str("user_id", id.String()).Str("status", string(req.Status)).Msg("User status updated")
	return nil
}

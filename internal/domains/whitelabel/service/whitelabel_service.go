package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"coursestore-backend/internal/domains/whitelabel/model"
	"coursestore-backend/internal/domains/whitelabel/repository"
	"coursestore-backend/internal/shared/utils"
	"coursestore-backend/pkg/cache"
)

const (
	publicCacheTTL    = 10 * time.Minute
	publicCachePrefix = "whitelabel:"
)

type whitelabelService struct {
	repo  repository.AccountRepository
	cache cache.Cache
}

func NewWhitelabelService(repo repository.AccountRepository, c cache.Cache) ServiceInterface {
	return &whitelabelService{repo: repo, cache: c}
}

func (s *whitelabelService) ResolvePublic(ctx context.Context, slugOrDomain string) (*model.PublicAccount, error) {
	key := strings.ToLower(strings.TrimSpace(slugOrDomain))
	if key == "" {
		return nil, model.ErrAccountNotFound
	}

	var cached model.PublicAccount
	if s.cache != nil {
		found, err := s.cache.Get(ctx, publicCachePrefix+key, &cached)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Whitelabel cache read failed")
		} else if found {
			return &cached, nil
		}
	}

	acct, err := s.repo.FindBySlug(ctx, key)
	if errors.Is(err, model.ErrAccountNotFound) && strings.Contains(key, ".") {
		acct, err = s.repo.FindByDomain(ctx, key)
	}
	if err != nil {
		return nil, err
	}
	// Inactive accounts are indistinguishable from missing ones.
	if !acct.Active {
		return nil, model.ErrAccountNotFound
	}

	pub := acct.Public()
	if s.cache != nil {
		if err := s.cache.Set(ctx, publicCachePrefix+key, pub, publicCacheTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Whitelabel cache write failed")
		}
	}
	return pub, nil
}

func (s *whitelabelService) Get(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *whitelabelService) List(ctx context.Context, filter *model.ListFilter) ([]*model.Account, int, error) {
	f := *filter
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > utils.MaxPageSize {
		f.Limit = utils.DefaultPageSize
	}
	return s.repo.List(ctx, &f)
}

func (s *whitelabelService) Create(ctx context.Context, req *model.CreateAccountRequest) (*model.Account, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	acct := req.ToAccount()
	if err := s.repo.Create(ctx, acct); err != nil {
		return nil, err
	}

	log.Info().Str("account_id", acct.ID.String()).Str("slug", acct.Slug).Msg("Whitelabel account created")
	return acct, nil
}

func (s *whitelabelService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateAccountRequest) (*model.Account, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	acct, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *acct

	req.Apply(acct)
	if err := s.repo.Update(ctx, acct); err != nil {
		return nil, err
	}

	s.invalidate(ctx, &before)
	return acct, nil
}

func (s *whitelabelService) Delete(ctx context.Context, id uuid.UUID) error {
	acct, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, acct)
	log.Info().Str("account_id", id.String()).Msg("Whitelabel account deleted")
	return nil
}

// invalidate drops the public entries stored under the account's old keys.
func (s *whitelabelService) invalidate(ctx context.Context, a *model.Account) {
	if s.cache == nil {
		return
	}
	keys := []string{publicCachePrefix + a.Slug}
	if a.CustomDomain != nil {
		keys = append(keys, publicCachePrefix+*a.CustomDomain)
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("Whitelabel cache invalidation failed")
	}
}

package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"coursestore-backend/internal/domains/whitelabel/model"
	"coursestore-backend/pkg/cache"
)

type MockAccountRepository struct{ mock.Mock }

func (m *MockAccountRepository) result(args mock.Arguments) (*model.Account, error) {
	if a := args.Get(0); a != nil {
		return a.(*model.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	return m.result(m.Called(ctx, id))
}

func (m *MockAccountRepository) FindBySlug(ctx context.Context, slug string) (*model.Account, error) {
	return m.result(m.Called(ctx, slug))
}

func (m *MockAccountRepository) FindByDomain(ctx context.Context, domain string) (*model.Account, error) {
	return m.result(m.Called(ctx, domain))
}

func (m *MockAccountRepository) List(ctx context.Context, filter *model.ListFilter) ([]*model.Account, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*model.Account), args.Int(1), args.Error(2)
}

func (m *MockAccountRepository) Create(ctx context.Context, a *model.Account) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAccountRepository) Update(ctx context.Context, a *model.Account) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func TestResolvePublic_ActiveAccountIsCached(t *testing.T) {
	repo := new(MockAccountRepository)
	owner := "owner@acme.io"
	repo.On("FindBySlug", mock.Anything, "acme").
		Return(&model.Account{ID: uuid.New(), Name: "Acme", Slug: "acme", OwnerEmail: owner, Active: true}, nil).Once()

	svc := NewWhitelabelService(repo, cache.NewMemoryCache())

	first, err := svc.ResolvePublic(context.Background(), " ACME ")
	require.NoError(t, err)
	assert.Equal(t, "Acme", first.Name)

	second, err := svc.ResolvePublic(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	repo.AssertExpectations(t)
}

func TestResolvePublic_InactiveIsNotFound(t *testing.T) {
	repo := new(MockAccountRepository)
	repo.On("FindBySlug", mock.Anything, "acme").Return(&model.Account{Slug: "acme", Active: false}, nil)

	_, err := NewWhitelabelService(repo, nil).ResolvePublic(context.Background(), "acme")
	assert.ErrorIs(t, err, model.ErrAccountNotFound)
}

func TestResolvePublic_FallsBackToDomain(t *testing.T) {
	repo := new(MockAccountRepository)
	repo.On("FindBySlug", mock.Anything, "learn.acme.io").Return(nil, model.ErrAccountNotFound)
	repo.On("FindByDomain", mock.Anything, "learn.acme.io").Return(&model.Account{Name: "Acme", Slug: "acme", Active: true}, nil)

	pub, err := NewWhitelabelService(repo, nil).ResolvePublic(context.Background(), "learn.acme.io")
	require.NoError(t, err)
	assert.Equal(t, "acme", pub.Slug)
}

func TestCreate_ValidatesBeforeSaving(t *testing.T) {
	repo := new(MockAccountRepository)

	_, err := NewWhitelabelService(repo, nil).Create(context.Background(), &model.CreateAccountRequest{Name: "Acme", OwnerEmail: "bad"})

	assert.Error(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdate_InvalidatesOldSlug(t *testing.T) {
	repo := new(MockAccountRepository)
	c := cache.NewMemoryCache()
	id := uuid.New()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "whitelabel:acme", model.PublicAccount{Slug: "acme"}, 0))
	repo.On("FindByID", mock.Anything, id).Return(&model.Account{ID: id, Name: "Acme", Slug: "acme", Active: true}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(a *model.Account) bool { return a.Slug == "acme-pro" })).Return(nil)

	newSlug := "acme-pro"
	acct, err := NewWhitelabelService(repo, c).Update(ctx, id, &model.UpdateAccountRequest{Slug: &newSlug})
	require.NoError(t, err)
	assert.Equal(t, "acme-pro", acct.Slug)

	found, err := c.Exists(ctx, "whitelabel:acme")
	require.NoError(t, err)
	assert.False(t, found)
}

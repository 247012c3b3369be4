package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	catalog "coursestore-backend/internal/domains/catalog/model"
	"coursestore-backend/internal/domains/enrollment/model"
	user "coursestore-backend/internal/domains/user/model"
	"coursestore-backend/pkg/cache"
	"coursestore-backend/pkg/database"
)

// -------------------------------------------------------------------
// MOCKS
// -------------------------------------------------------------------

type MockEnrollmentRepository struct{ mock.Mock }

func (m *MockEnrollmentRepository) Enroll(ctx context.Context, q database.Querier, userID, courseID uuid.UUID, origin model.Origin) (bool, error) {
	args := m.Called(ctx, q, userID, courseID, origin)
	return args.Bool(0), args.Error(1)
}

func (m *MockEnrollmentRepository) Exists(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, courseID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEnrollmentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.EnrollmentView, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.([]*model.EnrollmentView), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEnrollmentRepository) MarkCompleted(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, courseID)
	return args.Bool(0), args.Error(1)
}

type usersStub map[uuid.UUID]*user.User

func (u usersStub) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	if found, ok := u[id]; ok {
		return found, nil
	}
	return nil, user.ErrUserNotFound
}

type coursesStub map[uuid.UUID]bool

func (c coursesStub) GetCourseByID(_ context.Context, id uuid.UUID) (*catalog.Course, error) {
	if c[id] {
		return &catalog.Course{ID: id}, nil
	}
	return nil, catalog.ErrCourseNotFound
}

type membershipStub struct {
	active bool
	err    error
	calls  int
}

func (m *membershipStub) HasActiveMembership(context.Context, string) (bool, error) {
	m.calls++
	return m.active, m.err
}

func strPtr(s string) *string { return &s }

func activeUser(contactID *string) *user.User {
	return &user.User{ID: uuid.New(), Email: "s@example.com", Role: user.RoleStudent, Status: user.StatusActive, GHLContactID: contactID}
}

// -------------------------------------------------------------------
// ACCESS
// -------------------------------------------------------------------

func TestHasAccess_Enrollment(t *testing.T) {
	u := activeUser(nil)
	courseID := uuid.New()
	repo := new(MockEnrollmentRepository)
	repo.On("Exists", mock.Anything, u.ID, courseID).Return(true, nil)

	svc := NewAccessService(repo, usersStub{u.ID: u}, nil, nil, nil)
	res, err := svc.HasAccess(context.Background(), u.ID, courseID)
	require.NoError(t, err)
	assert.Equal(t, model.AccessResult{HasAccess: true, Source: model.SourceEnrollment}, res)
}

func TestHasAccess_MembershipIsCached(t *testing.T) {
	u := activeUser(strPtr("contact_1"))
	courseID := uuid.New()
	repo := new(MockEnrollmentRepository)
	repo.On("Exists", mock.Anything, u.ID, courseID).Return(false, nil)
	crm := &membershipStub{active: true}

	svc := NewAccessService(repo, usersStub{u.ID: u}, nil, crm, cache.NewMemoryCache())

	for i := 0; i < 2; i++ {
		res, err := svc.HasAccess(context.Background(), u.ID, courseID)
		require.NoError(t, err)
		assert.Equal(t, model.SourceMembership, res.Source)
		assert.True(t, res.HasAccess)
	}
	assert.Equal(t, 1, crm.calls)
}

func TestHasAccess_MembershipTTLOption(t *testing.T) {
	u := activeUser(strPtr("contact_1"))
	courseID := uuid.New()
	repo := new(MockEnrollmentRepository)
	repo.On("Exists", mock.Anything, u.ID, courseID).Return(false, nil)
	mem := cache.NewMemoryCache()

	svc := NewAccessService(repo, usersStub{u.ID: u}, nil, &membershipStub{active: true}, mem,
		WithMembershipTTL(time.Hour))
	_, err := svc.HasAccess(context.Background(), u.ID, courseID)
	require.NoError(t, err)

	ttl, err := mem.TTL(context.Background(), "membership:contact_1")
	require.NoError(t, err)
	assert.Greater(t, ttl, 30*time.Minute)
}

func TestHasAccess_CRMErrorMeansNoMembership(t *testing.T) {
	u := activeUser(strPtr("contact_1"))
	courseID := uuid.New()
	repo := new(MockEnrollmentRepository)
	repo.On("Exists", mock.Anything, u.ID, courseID).Return(false, nil)

	svc := NewAccessService(repo, usersStub{u.ID: u}, nil, &membershipStub{err: errors.New("timeout")}, nil)
	res, err := svc.HasAccess(context.Background(), u.ID, courseID)
	require.NoError(t, err)
	assert.Equal(t, model.NoAccess, res)
}

func TestHasAccess_SuspendedUserDenied(t *testing.T) {
	u := activeUser(strPtr("contact_1"))
	u.Status = user.StatusSuspended
	repo := new(MockEnrollmentRepository)

	svc := NewAccessService(repo, usersStub{u.ID: u}, nil, &membershipStub{active: true}, nil)
	res, err := svc.HasAccess(context.Background(), u.ID, uuid.New())
	require.NoError(t, err)
	assert.False(t, res.HasAccess)
	repo.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything, mock.Anything)
}

func TestHasAccess_UnknownUser(t *testing.T) {
	svc := NewAccessService(new(MockEnrollmentRepository), usersStub{}, nil, nil, nil)
	ok, err := svc.CanAccess(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasAccess_NoContactSkipsCRM(t *testing.T) {
	u := activeUser(nil)
	courseID := uuid.New()
	repo := new(MockEnrollmentRepository)
	repo.On("Exists", mock.Anything, u.ID, courseID).Return(false, nil)
	crm := &membershipStub{active: true}

	svc := NewAccessService(repo, usersStub{u.ID: u}, nil, crm, nil)
	res, err := svc.HasAccess(context.Background(), u.ID, courseID)
	require.NoError(t, err)
	assert.Equal(t, model.SourceNone, res.Source)
	assert.Zero(t, crm.calls)
}

// -------------------------------------------------------------------
// ENROLLMENTS
// -------------------------------------------------------------------

func TestGrant(t *testing.T) {
	u := activeUser(nil)
	courseID := uuid.New()
	repo := new(MockEnrollmentRepository)
	repo.On("Enroll", mock.Anything, nil, u.ID, courseID, model.OriginAdmin).Return(true, nil)

	svc := NewAccessService(repo, usersStub{u.ID: u}, coursesStub{courseID: true}, nil, nil)
	resp, err := svc.Grant(context.Background(), &model.GrantRequest{UserID: u.ID, CourseID: courseID})
	require.NoError(t, err)
	assert.True(t, resp.Created)
}

func TestGrant_UnknownCourse(t *testing.T) {
	u := activeUser(nil)
	svc := NewAccessService(new(MockEnrollmentRepository), usersStub{u.ID: u}, coursesStub{}, nil, nil)

	_, err := svc.Grant(context.Background(), &model.GrantRequest{UserID: u.ID, CourseID: uuid.New()})
	assert.ErrorIs(t, err, catalog.ErrCourseNotFound)
}

func TestGrant_Validates(t *testing.T) {
	svc := NewAccessService(new(MockEnrollmentRepository), usersStub{}, coursesStub{}, nil, nil)
	_, err := svc.Grant(context.Background(), &model.GrantRequest{})
	assert.Error(t, err)
}

func TestMarkCompleted(t *testing.T) {
	userID, courseID := uuid.New(), uuid.New()

	repo := new(MockEnrollmentRepository)
	repo.On("MarkCompleted", mock.Anything, userID, courseID).Return(false, nil)
	repo.On("Exists", mock.Anything, userID, courseID).Return(true, nil)
	svc := NewAccessService(repo, usersStub{}, nil, nil, nil)
	assert.NoError(t, svc.MarkCompleted(context.Background(), userID, courseID), "already completed is fine")

	repo = new(MockEnrollmentRepository)
	repo.On("MarkCompleted", mock.Anything, userID, courseID).Return(false, nil)
	repo.On("Exists", mock.Anything, userID, courseID).Return(false, nil)
	svc = NewAccessService(repo, usersStub{}, nil, nil, nil)
	assert.ErrorIs(t, svc.MarkCompleted(context.Background(), userID, courseID), model.ErrNotEnrolled)
}

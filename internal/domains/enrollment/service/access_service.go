package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"coursestore-backend/internal/domains/enrollment/model"
	"coursestore-backend/internal/domains/enrollment/repository"
	user "coursestore-backend/internal/domains/user/model"
	"coursestore-backend/internal/shared/metrics"
	"coursestore-backend/pkg/cache"
	"coursestore-backend/pkg/database"
)

const defaultMembershipTTL = 5 * time.Minute

type accessService struct {
	repo        repository.EnrollmentRepository
	users       UserLookup
	courses     CourseLookup
	memberships MembershipChecker
	cache       cache.Cache
	ttl         time.Duration
}

// Option tunes the access checker.
type Option func(*accessService)

// WithMembershipTTL sets how long a CRM membership answer stays cached.
// Non-positive values keep the default.
func WithMembershipTTL(d time.Duration) Option {
	return func(s *accessService) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// NewAccessService wires the access checker. memberships and cache may be
// nil, which disables the CRM path and its cache respectively.
func NewAccessService(
	repo repository.EnrollmentRepository,
	users UserLookup,
	courses CourseLookup,
	memberships MembershipChecker,
	c cache.Cache,
	opts ...Option,
) ServiceInterface {
	s := &accessService{
		repo:        repo,
		users:       users,
		courses:     courses,
		memberships: memberships,
		cache:       c,
		ttl:         defaultMembershipTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HasAccess grants access from an enrollment row first, then from an
// active CRM membership. Suspended and deleted users never have access.
func (s *accessService) HasAccess(ctx context.Context, userID, courseID uuid.UUID) (model.AccessResult, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return s.record(model.NoAccess), nil
		}
		return model.NoAccess, err
	}
	if !u.IsActive() {
		return s.record(model.NoAccess), nil
	}

	enrolled, err := s.repo.Exists(ctx, userID, courseID)
	if err != nil {
		return model.NoAccess, err
	}
	if enrolled {
		return s.record(model.AccessResult{HasAccess: true, Source: model.SourceEnrollment}), nil
	}

	if u.GHLContactID != nil && *u.GHLContactID != "" && s.memberships != nil {
		if s.hasMembership(ctx, *u.GHLContactID) {
			return s.record(model.AccessResult{HasAccess: true, Source: model.SourceMembership}), nil
		}
	}

	return s.record(model.NoAccess), nil
}

func (s *accessService) CanAccess(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	res, err := s.HasAccess(ctx, userID, courseID)
	return res.HasAccess, err
}

// hasMembership treats CRM failures as no membership.
func (s *accessService) hasMembership(ctx context.Context, contactID string) bool {
	key := "membership:" + contactID

	if s.cache != nil {
		var cached bool
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Membership cache read failed")
		} else if found {
			return cached
		}
	}

	active, err := s.memberships.HasActiveMembership(ctx, contactID)
	if err != nil {
		log.Warn().Err(err).Str("contact_id", contactID).Msg("CRM membership lookup failed")
		return false
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, active, s.ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Membership cache write failed")
		}
	}
	return active
}

func (s *accessService) record(res model.AccessResult) model.AccessResult {
	metrics.AccessChecksTotal.WithLabelValues(string(res.Source)).Inc()
	return res
}

// -------------------------------------------------------------------
// ENROLLMENTS
// -------------------------------------------------------------------

func (s *accessService) Enroll(ctx context.Context, q database.Querier, userID, courseID uuid.UUID, origin model.Origin) (bool, error) {
	created, err := s.repo.Enroll(ctx, q, userID, courseID, origin)
	if err != nil {
		return false, err
	}
	if created {
		metrics.EnrollmentsCreatedTotal.WithLabelValues(string(origin)).Inc()
	}
	return created, nil
}

func (s *accessService) Grant(ctx context.Context, req *model.GrantRequest) (*model.GrantResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, req.UserID); err != nil {
		return nil, err
	}
	if _, err := s.courses.GetCourseByID(ctx, req.CourseID); err != nil {
		return nil, err
	}

	created, err := s.Enroll(ctx, nil, req.UserID, req.CourseID, model.OriginAdmin)
	if err != nil {
		return nil, fmt.Errorf("grant enrollment: %w", err)
	}

	log.Info().
		Str("user_id", req.UserID.String()).
		Str("course_id", req.CourseID.String()).
		Bool("created", created).
		Msg("Enrollment granted by admin")

	return &model.GrantResponse{UserID: req.UserID, CourseID: req.CourseID, Created: created}, nil
}

func (s *accessService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.EnrollmentView, error) {
	return s.repo.ListByUser(ctx, userID)
}

// MarkCompleted sets completed_at the first time only.
func (s *accessService) MarkCompleted(ctx context.Context, userID, courseID uuid.UUID) error {
	updated, err := s.repo.MarkCompleted(ctx, userID, courseID)
	if err != nil {
		return err
	}
	if updated {
		return nil
	}

	enrolled, err := s.repo.Exists(ctx, userID, courseID)
	if err != nil {
		return err
	}
	if !enrolled {
		return model.ErrNotEnrolled
	}
	return nil
}

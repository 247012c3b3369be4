package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"coursestore-backend/internal/domains/catalog/model"
	"coursestore-backend/internal/domains/catalog/repository"
	"coursestore-backend/internal/shared/apperr"
	"coursestore-backend/pkg/cache"
)

const (
	catalogCacheTTL     = 10 * time.Minute
	catalogCachePattern = "catalog:*"
)

type catalogService struct {
	courses  repository.CourseRepository
	bundles  repository.BundleRepository
	cache    cache.Cache
	prices   PriceProvisioner
	currency string
}

// NewCatalogService wires the catalog. prices may be nil when no payment
// processor is configured; linking then fails with ErrStripeLink.
func NewCatalogService(
	courses repository.CourseRepository,
	bundles repository.BundleRepository,
	c cache.Cache,
	prices PriceProvisioner,
	currency string,
) ServiceInterface {
	return &catalogService{
		courses:  courses,
		bundles:  bundles,
		cache:    c,
		prices:   prices,
		currency: currency,
	}
}

// -------------------------------------------------------------------
// STOREFRONT (cached)
// -------------------------------------------------------------------

func (s *catalogService) ListCourses(ctx context.Context, category string) ([]*model.Course, error) {
	key := "catalog:courses:" + category
	var cached []*model.Course
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	courses, _, err := s.courses.List(ctx, &model.CourseFilter{Category: category, PublishedOnly: true})
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, key, courses)
	return courses, nil
}

func (s *catalogService) GetCourseBySlug(ctx context.Context, slug string) (*model.Course, error) {
	key := "catalog:course:" + slug
	var cached model.Course
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	course, err := s.courses.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !course.Published {
		return nil, model.ErrCourseNotFound
	}

	s.toCache(ctx, key, course)
	return course, nil
}

func (s *catalogService) ListBundles(ctx context.Context) ([]*model.BundleView, error) {
	key := "catalog:bundles"
	var cached []*model.BundleView
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	views, err := s.listBundleViews(ctx, true)
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, key, views)
	return views, nil
}

func (s *catalogService) GetBundle(ctx context.Context, id uuid.UUID) (*model.BundleView, error) {
	key := "catalog:bundle:" + id.String()
	var cached model.BundleView
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	bundle, err := s.bundles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !bundle.Published {
		return nil, model.ErrBundleNotFound
	}

	courses, err := s.courses.FindByIDs(ctx, bundle.CourseIDs)
	if err != nil {
		return nil, err
	}

	view := model.NewBundleView(bundle, courses)
	s.toCache(ctx, key, view)
	return view, nil
}

func (s *catalogService) listBundleViews(ctx context.Context, publishedOnly bool) ([]*model.BundleView, error) {
	bundles, err := s.bundles.List(ctx, publishedOnly)
	if err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	for _, b := range bundles {
		ids = append(ids, b.CourseIDs...)
	}
	courses, err := s.courses.FindByIDs(ctx, model.DedupeIDs(ids))
	if err != nil {
		return nil, err
	}

	views := make([]*model.BundleView, len(bundles))
	for i, b := range bundles {
		views[i] = model.NewBundleView(b, courses)
	}
	return views, nil
}

// Cache failures degrade to a database read.
func (s *catalogService) fromCache(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("catalog cache read failed")
		return false
	}
	return found
}

func (s *catalogService) toCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, catalogCacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("catalog cache write failed")
	}
}

func (s *catalogService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, catalogCachePattern); err != nil {
		log.Warn().Err(err).Msg("catalog cache invalidation failed")
	}
}

// -------------------------------------------------------------------
// RESOLUTION
// -------------------------------------------------------------------

func (s *catalogService) GetCourseByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	return s.courses.FindByID(ctx, id)
}

func (s *catalogService) GetBundleByID(ctx context.Context, id uuid.UUID) (*model.Bundle, error) {
	return s.bundles.FindByID(ctx, id)
}

func (s *catalogService) FindCoursesByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Course, error) {
	return s.courses.FindByIDs(ctx, ids)
}

// -------------------------------------------------------------------
// ADMIN: COURSES
// -------------------------------------------------------------------

func (s *catalogService) ListAllCourses(ctx context.Context, filter *model.CourseFilter) ([]*model.Course, int, error) {
	return s.courses.List(ctx, filter)
}

func (s *catalogService) CreateCourse(ctx context.Context, req *model.CreateCourseRequest) (*model.Course, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	course := req.ToCourse()
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	log.Info().Str("course_id", course.ID.String()).Str("slug", course.Slug).Msg("course created")
	return course, nil
}

// UpdateCourse drops the payment price when the price changes so checkout
// cannot charge a stale amount. The course must be linked again.
func (s *catalogService) UpdateCourse(ctx context.Context, id uuid.UUID, req *model.UpdateCourseRequest) (*model.Course, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ApplyTo(course) && course.StripePriceID != nil {
		log.Warn().Str("course_id", id.String()).Msg("course price changed, payment price unlinked")
		course.StripePriceID = nil
	}

	if err := s.courses.Update(ctx, course); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return course, nil
}

func (s *catalogService) SetCoursePublished(ctx context.Context, id uuid.UUID, published bool) error {
	if err := s.courses.SetPublished(ctx, id, published); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *catalogService) LinkCourseToStripe(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	link, err := s.provision(ctx, course.StripeProductID, course.Title, course.Description,
		map[string]string{"course_id": course.ID.String(), "type": "course"}, course.Price)
	if err != nil {
		return nil, err
	}

	course.StripeProductID = &link.ProductID
	course.StripePriceID = &link.PriceID
	if err := s.courses.Update(ctx, course); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	log.Info().Str("course_id", id.String()).Str("price_id", link.PriceID).Msg("course linked to payment price")
	return course, nil
}

// -------------------------------------------------------------------
// ADMIN: BUNDLES
// -------------------------------------------------------------------

func (s *catalogService) ListAllBundles(ctx context.Context) ([]*model.BundleView, error) {
	return s.listBundleViews(ctx, false)
}

func (s *catalogService) CreateBundle(ctx context.Context, req *model.CreateBundleRequest) (*model.Bundle, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	bundle := req.ToBundle()
	if err := s.ensureCoursesExist(ctx, bundle.CourseIDs); err != nil {
		return nil, err
	}
	if err := s.bundles.Create(ctx, bundle); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	log.Info().Str("bundle_id", bundle.ID.String()).Int("courses", len(bundle.CourseIDs)).Msg("bundle created")
	return bundle, nil
}

func (s *catalogService) UpdateBundle(ctx context.Context, id uuid.UUID, req *model.UpdateBundleRequest) (*model.Bundle, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	bundle, err := s.bundles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ApplyTo(bundle) && bundle.StripePriceID != nil {
		log.Warn().Str("bundle_id", id.String()).Msg("bundle price changed, payment price unlinked")
		bundle.StripePriceID = nil
	}
	if len(req.CourseIDs) > 0 {
		if err := s.ensureCoursesExist(ctx, bundle.CourseIDs); err != nil {
			return nil, err
		}
	}

	if err := s.bundles.Update(ctx, bundle); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return bundle, nil
}

func (s *catalogService) SetBundlePublished(ctx context.Context, id uuid.UUID, published bool) error {
	if err := s.bundles.SetPublished(ctx, id, published); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *catalogService) LinkBundleToStripe(ctx context.Context, id uuid.UUID) (*model.Bundle, error) {
	bundle, err := s.bundles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	link, err := s.provision(ctx, bundle.StripeProductID, bundle.Name, bundle.Description,
		map[string]string{"bundle_id": bundle.ID.String(), "type": "bundle"}, bundle.Price)
	if err != nil {
		return nil, err
	}

	bundle.StripeProductID = &link.ProductID
	bundle.StripePriceID = &link.PriceID
	if err := s.bundles.Update(ctx, bundle); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	log.Info().Str("bundle_id", id.String()).Str("price_id", link.PriceID).Msg("bundle linked to payment price")
	return bundle, nil
}

func (s *catalogService) ensureCoursesExist(ctx context.Context, ids []uuid.UUID) error {
	found, err := s.courses.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(found) == len(ids) {
		return nil
	}

	known := make(map[uuid.UUID]bool, len(found))
	for _, c := range found {
		known[c.ID] = true
	}
	var missing []string
	for _, id := range ids {
		if !known[id] {
			missing = append(missing, id.String())
		}
	}
	return model.ErrUnknownCourses.WithDetails(map[string]interface{}{"missing_course_ids": missing})
}

// provision reuses an existing product and always creates a new price,
// since processor prices are immutable.
func (s *catalogService) provision(
	ctx context.Context,
	productID *string,
	name, description string,
	metadata map[string]string,
	amount decimal.Decimal,
) (*model.StripeLink, error) {
	if s.prices == nil {
		return nil, model.ErrStripeLink.WithMessage("Payment processor is not configured")
	}

	link := &model.StripeLink{}
	if productID != nil && *productID != "" {
		link.ProductID = *productID
	} else {
		id, err := s.prices.CreateProduct(ctx, name, description, metadata)
		if err != nil {
			return nil, stripeLinkError("create product", err)
		}
		link.ProductID = id
	}

	price, err := s.prices.CreatePrice(ctx, link.ProductID, amount, s.currency)
	if err != nil {
		return nil, stripeLinkError("create price", err)
	}
	link.PriceID = price
	return link, nil
}

func stripeLinkError(step string, err error) *apperr.AppError {
	return model.ErrStripeLink.WithMessage(fmt.Sprintf("%s: %v", step, err)).Wrap(err)
}

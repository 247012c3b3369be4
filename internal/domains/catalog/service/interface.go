package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"coursestore-backend/internal/domains/catalog/model"
)

type ServiceInterface interface {
	// Storefront, published rows only.
	ListCourses(ctx context.Context, category string) ([]*model.Course, error)
	GetCourseBySlug(ctx context.Context, slug string) (*model.Course, error)
	ListBundles(ctx context.Context) ([]*model.BundleView, error)
	GetBundle(ctx context.Context, id uuid.UUID) (*model.BundleView, error)

	// Resolution for checkout and fulfilment; published state is not checked.
	GetCourseByID(ctx context.Context, id uuid.UUID) (*model.Course, error)
	GetBundleByID(ctx context.Context, id uuid.UUID) (*model.Bundle, error)
	FindCoursesByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Course, error)

	// Admin
	ListAllCourses(ctx context.Context, filter *model.CourseFilter) ([]*model.Course, int, error)
	CreateCourse(ctx context.Context, req *model.CreateCourseRequest) (*model.Course, error)
	UpdateCourse(ctx context.Context, id uuid.UUID, req *model.UpdateCourseRequest) (*model.Course, error)
	SetCoursePublished(ctx context.Context, id uuid.UUID, published bool) error
	LinkCourseToStripe(ctx context.Context, id uuid.UUID) (*model.Course, error)

	ListAllBundles(ctx context.Context) ([]*model.BundleView, error)
	CreateBundle(ctx context.Context, req *model.CreateBundleRequest) (*model.Bundle, error)
	UpdateBundle(ctx context.Context, id uuid.UUID, req *model.UpdateBundleRequest) (*model.Bundle, error)
	SetBundlePublished(ctx context.Context, id uuid.UUID, published bool) error
	LinkBundleToStripe(ctx context.Context, id uuid.UUID) (*model.Bundle, error)
}

type CurriculumServiceInterface interface {
	GetCurriculum(ctx context.Context, courseSlug string) (*model.Curriculum, error)
	// GetLesson returns lesson content. Preview lessons are public, the rest
	// require a user with access to the course.
	GetLesson(ctx context.Context, courseSlug string, lessonID uuid.UUID, userID *uuid.UUID) (*model.Lesson, error)

	// Admin
	ListCourseCurriculum(ctx context.Context, courseID uuid.UUID) ([]*model.Module, []*model.Lesson, error)
	CreateModule(ctx context.Context, courseID uuid.UUID, req *model.ModuleRequest) (*model.Module, error)
	UpdateModule(ctx context.Context, id uuid.UUID, req *model.ModuleRequest) (*model.Module, error)
	DeleteModule(ctx context.Context, id uuid.UUID) error
	CreateLesson(ctx context.Context, moduleID uuid.UUID, req *model.LessonRequest) (*model.Lesson, error)
	UpdateLesson(ctx context.Context, id uuid.UUID, req *model.LessonRequest) (*model.Lesson, error)
	DeleteLesson(ctx context.Context, id uuid.UUID) error
}

// PriceProvisioner creates the payment processor objects a catalog item
// needs before it can be sold.
type PriceProvisioner interface {
	CreateProduct(ctx context.Context, name, description string, metadata map[string]string) (string, error)
	CreatePrice(ctx context.Context, productID string, amount decimal.Decimal, currency string) (string, error)
}

// AccessChecker answers whether a user may open a course's lessons.
type AccessChecker interface {
	CanAccess(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
}

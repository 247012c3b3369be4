package repository

import (
	"context"

	"github.com/google/uuid"

	"coursestore-backend/internal/domains/catalog/model"
)

type CourseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Course, error)
	FindBySlug(ctx context.Context, slug string) (*model.Course, error)
	// FindByIDs returns the courses that exist; missing ids are skipped.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Course, error)
	List(ctx context.Context, filter *model.CourseFilter) ([]*model.Course, int, error)
	Create(ctx context.Context, c *model.Course) error
	Update(ctx context.Context, c *model.Course) error
	SetPublished(ctx context.Context, id uuid.UUID, published bool) error
}

type BundleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Bundle, error)
	List(ctx context.Context, publishedOnly bool) ([]*model.Bundle, error)
	Create(ctx context.Context, b *model.Bundle) error
	Update(ctx context.Context, b *model.Bundle) error
	SetPublished(ctx context.Context, id uuid.UUID, published bool) error
}

type CurriculumRepository interface {
	ListModules(ctx context.Context, courseID uuid.UUID) ([]*model.Module, error)
	FindModule(ctx context.Context, id uuid.UUID) (*model.Module, error)
	CreateModule(ctx context.Context, m *model.Module) error
	UpdateModule(ctx context.Context, m *model.Module) error
	DeleteModule(ctx context.Context, id uuid.UUID) error

	// ListLessons returns every lesson of a course ordered by module then position.
	ListLessons(ctx context.Context, courseID uuid.UUID) ([]*model.Lesson, error)
	FindLesson(ctx context.Context, id uuid.UUID) (*model.Lesson, error)
	CreateLesson(ctx context.Context, l *model.Lesson) error
	UpdateLesson(ctx context.Context, l *model.Lesson) error
	DeleteLesson(ctx context.Context, id uuid.UUID) error
}

package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"coursestore-backend/internal/domains/catalog/model"
	"coursestore-backend/internal/domains/catalog/repository"
)

type curriculumService struct {
	courses    repository.CourseRepository
	curriculum repository.CurriculumRepository
	access     AccessChecker
}

func NewCurriculumService(
	courses repository.CourseRepository,
	curriculum repository.CurriculumRepository,
	access AccessChecker,
) CurriculumServiceInterface {
	return &curriculumService{courses: courses, curriculum: curriculum, access: access}
}

func (s *curriculumService) publishedCourse(ctx context.Context, slug string) (*model.Course, error) {
	course, err := s.courses.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !course.Published {
		return nil, model.ErrCourseNotFound
	}
	return course, nil
}

func (s *curriculumService) GetCurriculum(ctx context.Context, courseSlug string) (*model.Curriculum, error) {
	course, err := s.publishedCourse(ctx, courseSlug)
	if err != nil {
		return nil, err
	}

	modules, err := s.curriculum.ListModules(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	lessons, err := s.curriculum.ListLessons(ctx, course.ID)
	if err != nil {
		return nil, err
	}

	return model.BuildCurriculum(course, modules, lessons), nil
}

func (s *curriculumService) GetLesson(ctx context.Context, courseSlug string, lessonID uuid.UUID, userID *uuid.UUID) (*model.Lesson, error) {
	course, err := s.publishedCourse(ctx, courseSlug)
	if err != nil {
		return nil, err
	}

	lesson, err := s.curriculum.FindLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson.CourseID != course.ID {
		return nil, model.ErrLessonNotFound
	}

	if lesson.IsPreview || (course.PreviewLessonID != nil && *course.PreviewLessonID == lesson.ID) {
		return lesson, nil
	}

	if userID == nil {
		return nil, model.ErrLoginRequired
	}

	ok, err := s.access.CanAccess(ctx, *userID, course.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.Debug().Str("user_id", userID.String()).Str("course_id", course.ID.String()).Msg("lesson access denied")
		return nil, model.ErrLessonForbidden
	}
	return lesson, nil
}

// -------------------------------------------------------------------
// ADMIN
// -------------------------------------------------------------------

func (s *curriculumService) ListCourseCurriculum(ctx context.Context, courseID uuid.UUID) ([]*model.Module, []*model.Lesson, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		return nil, nil, err
	}

	modules, err := s.curriculum.ListModules(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}
	lessons, err := s.curriculum.ListLessons(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}
	return modules, lessons, nil
}

func (s *curriculumService) CreateModule(ctx context.Context, courseID uuid.UUID, req *model.ModuleRequest) (*model.Module, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		return nil, err
	}

	m := &model.Module{CourseID: courseID, Title: req.Title}
	if req.Position != nil {
		m.Position = *req.Position
	} else {
		existing, err := s.curriculum.ListModules(ctx, courseID)
		if err != nil {
			return nil, err
		}
		m.Position = len(existing)
	}

	if err := s.curriculum.CreateModule(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *curriculumService) UpdateModule(ctx context.Context, id uuid.UUID, req *model.ModuleRequest) (*model.Module, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m, err := s.curriculum.FindModule(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Title = req.Title
	if req.Position != nil {
		m.Position = *req.Position
	}

	if err := s.curriculum.UpdateModule(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *curriculumService) DeleteModule(ctx context.Context, id uuid.UUID) error {
	return s.curriculum.DeleteModule(ctx, id)
}

func (s *curriculumService) CreateLesson(ctx context.Context, moduleID uuid.UUID, req *model.LessonRequest) (*model.Lesson, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m, err := s.curriculum.FindModule(ctx, moduleID)
	if err != nil {
		return nil, err
	}

	lesson := &model.Lesson{ModuleID: m.ID, CourseID: m.CourseID}
	req.ApplyTo(lesson)
	if req.Position == nil {
		lessons, err := s.curriculum.ListLessons(ctx, m.CourseID)
		if err != nil {
			return nil, err
		}
		for _, l := range lessons {
			if l.ModuleID == m.ID {
				lesson.Position++
			}
		}
	}

	if err := s.curriculum.CreateLesson(ctx, lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *curriculumService) UpdateLesson(ctx context.Context, id uuid.UUID, req *model.LessonRequest) (*model.Lesson, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	lesson, err := s.curriculum.FindLesson(ctx, id)
	if err != nil {
		return nil, err
	}
	req.ApplyTo(lesson)

	if err := s.curriculum.UpdateLesson(ctx, lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *curriculumService) DeleteLesson(ctx context.Context, id uuid.UUID) error {
	return s.curriculum.DeleteLesson(ctx, id)
}

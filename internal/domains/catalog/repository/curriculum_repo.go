package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"coursestore-backend/internal/domains/catalog/model"
	"coursestore-backend/pkg/database"
)

type curriculumRepository struct {
	db *pgxpool.Pool
}

func NewCurriculumRepository(db *pgxpool.Pool) CurriculumRepository {
	return &curriculumRepository{db: db}
}

// -------------------------------------------------------------------
// MODULES
// -------------------------------------------------------------------

func (r *curriculumRepository) ListModules(ctx context.Context, courseID uuid.UUID) ([]*model.Module, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, course_id, title, position, created_at, updated_at
		FROM modules
		WHERE course_id = $1
		ORDER BY position, created_at
	`, courseID)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	defer rows.Close()

	modules := []*model.Module{}
	for rows.Next() {
		var m model.Module
		if err := rows.Scan(&m.ID, &m.CourseID, &m.Title, &m.Position, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan module: %w", err)
		}
		modules = append(modules, &m)
	}
	return modules, rows.Err()
}

func (r *curriculumRepository) FindModule(ctx context.Context, id uuid.UUID) (*model.Module, error) {
	var m model.Module
	err := r.db.QueryRow(ctx, `
		SELECT id, course_id, title, position, created_at, updated_at
		FROM modules WHERE id = $1
	`, id).Scan(&m.ID, &m.CourseID, &m.Title, &m.Position, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrModuleNotFound
		}
		return nil, fmt.Errorf("find module: %w", err)
	}
	return &m, nil
}

func (r *curriculumRepository) CreateModule(ctx context.Context, m *model.Module) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO modules (course_id, title, position)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, m.CourseID, m.Title, m.Position).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return model.ErrCourseNotFound
		}
		return fmt.Errorf("create module: %w", err)
	}
	return nil
}

func (r *curriculumRepository) UpdateModule(ctx context.Context, m *model.Module) error {
	err := r.db.QueryRow(ctx, `
		UPDATE modules SET title = $2, position = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, m.ID, m.Title, m.Position).Scan(&m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrModuleNotFound
		}
		return fmt.Errorf("update module: %w", err)
	}
	return nil
}

// DeleteModule cascades to the module's lessons.
func (r *curriculumRepository) DeleteModule(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM modules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete module: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrModuleNotFound
	}
	return nil
}

// -------------------------------------------------------------------
// LESSONS
// -------------------------------------------------------------------

const lessonColumns = `
	l.id, l.module_id, l.course_id, l.title, l.slug, l.position,
	l.content, l.video_url, l.duration_minutes, l.is_preview,
	l.created_at, l.updated_at`

func scanLesson(row pgx.Row) (*model.Lesson, error) {
	var l model.Lesson
	if err := row.Scan(
		&l.ID, &l.ModuleID, &l.CourseID, &l.Title, &l.Slug, &l.Position,
		&l.Content, &l.VideoURL, &l.DurationMinutes, &l.IsPreview,
		&l.CreatedAt, &l.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *curriculumRepository) ListLessons(ctx context.Context, courseID uuid.UUID) ([]*model.Lesson, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+lessonColumns+`
		FROM lessons l
		JOIN modules m ON m.id = l.module_id
		WHERE l.course_id = $1
		ORDER BY m.position, l.position, l.created_at
	`, courseID)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	defer rows.Close()

	lessons := []*model.Lesson{}
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}

func (r *curriculumRepository) FindLesson(ctx context.Context, id uuid.UUID) (*model.Lesson, error) {
	l, err := scanLesson(r.db.QueryRow(ctx, `SELECT `+lessonColumns+` FROM lessons l WHERE l.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrLessonNotFound
		}
		return nil, fmt.Errorf("find lesson: %w", err)
	}
	return l, nil
}

func (r *curriculumRepository) CreateLesson(ctx context.Context, l *model.Lesson) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO lessons (module_id, course_id, title, slug, position, content, video_url, duration_minutes, is_preview)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, l.ModuleID, l.CourseID, l.Title, l.Slug, l.Position, l.Content, l.VideoURL, l.DurationMinutes, l.IsPreview,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return model.ErrSlugExists
		}
		if database.IsForeignKeyViolation(err) {
			return model.ErrModuleNotFound
		}
		return fmt.Errorf("create lesson: %w", err)
	}
	return nil
}

func (r *curriculumRepository) UpdateLesson(ctx context.Context, l *model.Lesson) error {
	err := r.db.QueryRow(ctx, `
		UPDATE lessons SET
			title = $2,
			slug = $3,
			position = $4,
			content = $5,
			video_url = $6,
			duration_minutes = $7,
			is_preview = $8,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, l.ID, l.Title, l.Slug, l.Position, l.Content, l.VideoURL, l.DurationMinutes, l.IsPreview,
	).Scan(&l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrLessonNotFound
		}
		if database.IsUniqueViolation(err) {
			return model.ErrSlugExists
		}
		return fmt.Errorf("update lesson: %w", err)
	}
	return nil
}

func (r *curriculumRepository) DeleteLesson(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM lessons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrLessonNotFound
	}
	return nil
}

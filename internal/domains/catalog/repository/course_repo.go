package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"coursestore-backend/internal/domains/catalog/model"
	"coursestore-backend/pkg/database"
)

type courseRepository struct {
	db *pgxpool.Pool
}

func NewCourseRepository(db *pgxpool.Pool) CourseRepository {
	return &courseRepository{db: db}
}

const courseColumns = `
	id, slug, title, description, price, published,
	stripe_product_id, stripe_price_id, category, preview_lesson_id, image_url,
	created_at, updated_at`

func scanCourse(row pgx.Row) (*model.Course, error) {
	var c model.Course
	if err := row.Scan(
		&c.ID, &c.Slug, &c.Title, &c.Description, &c.Price, &c.Published,
		&c.StripeProductID, &c.StripePriceID, &c.Category, &c.PreviewLessonID, &c.ImageURL,
		&c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *courseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	c, err := scanCourse(r.db.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCourseNotFound
		}
		return nil, fmt.Errorf("find course by id: %w", err)
	}
	return c, nil
}

func (r *courseRepository) FindBySlug(ctx context.Context, slug string) (*model.Course, error) {
	c, err := scanCourse(r.db.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE slug = $1`, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCourseNotFound
		}
		return nil, fmt.Errorf("find course by slug: %w", err)
	}
	return c, nil
}

func (r *courseRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Course, error) {
	if len(ids) == 0 {
		return []*model.Course{}, nil
	}

	rows, err := r.db.Query(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("find courses by ids: %w", err)
	}
	defer rows.Close()

	courses := make([]*model.Course, 0, len(ids))
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (r *courseRepository) List(ctx context.Context, filter *model.CourseFilter) ([]*model.Course, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}

	if filter.PublishedOnly {
		where = append(where, "published = TRUE")
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = append(where, fmt.Sprintf("title ILIKE $%d", len(args)))
	}
	conditions := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM courses WHERE `+conditions, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}

	query := `SELECT ` + courseColumns + ` FROM courses WHERE ` + conditions + ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	courses := []*model.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, total, rows.Err()
}

func (r *courseRepository) Create(ctx context.Context, c *model.Course) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO courses (slug, title, description, price, published, category, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, c.Slug, c.Title, c.Description, c.Price, c.Published, c.Category, c.ImageURL,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return model.ErrSlugExists
		}
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

func (r *courseRepository) Update(ctx context.Context, c *model.Course) error {
	err := r.db.QueryRow(ctx, `
		UPDATE courses SET
			slug = $2,
			title = $3,
			description = $4,
			price = $5,
			category = $6,
			image_url = $7,
			preview_lesson_id = $8,
			stripe_product_id = $9,
			stripe_price_id = $10,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, c.ID, c.Slug, c.Title, c.Description, c.Price, c.Category, c.ImageURL,
		c.PreviewLessonID, c.StripeProductID, c.StripePriceID,
	).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrCourseNotFound
		}
		if database.IsUniqueViolation(err) {
			return model.ErrSlugExists
		}
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

func (r *courseRepository) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	result, err := r.db.Exec(ctx, `UPDATE courses SET published = $2, updated_at = NOW() WHERE id = $1`, id, published)
	if err != nil {
		return fmt.Errorf("set course published: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrCourseNotFound
	}
	return nil
}

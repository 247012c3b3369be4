package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"coursestore-backend/internal/domains/enrollment/model"
	"coursestore-backend/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) EnrollmentRepository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Enroll(ctx context.Context, q database.Querier, userID, courseID uuid.UUID, origin model.Origin) (bool, error) {
	if q == nil {
		q = r.pool
	}

	var id uuid.UUID
	err := q.QueryRow(ctx, `
		INSERT INTO enrollments (id, user_id, course_id, origin)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, course_id) DO NOTHING
		RETURNING id
	`, uuid.New(), userID, courseID, origin).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("insert enrollment: %w", err)
	}
	return true, nil
}

func (r *postgresRepository) Exists(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM enrollments WHERE user_id = $1 AND course_id = $2)
	`, userID, courseID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.EnrollmentView, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT e.id, e.user_id, e.course_id, e.origin, e.enrolled_at, e.completed_at,
		       c.slug, c.title, c.image_url
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		WHERE e.user_id = $1
		ORDER BY e.enrolled_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	defer rows.Close()

	var out []*model.EnrollmentView
	for rows.Next() {
		var v model.EnrollmentView
		if err := rows.Scan(
			&v.ID, &v.UserID, &v.CourseID, &v.Origin, &v.EnrolledAt, &v.CompletedAt,
			&v.CourseSlug, &v.CourseTitle, &v.ImageURL,
		); err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		out = append(out, &v)
	}
	return out, rows.Err()
}

func (r *postgresRepository) MarkCompleted(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE enrollments SET completed_at = NOW()
		WHERE user_id = $1 AND course_id = $2 AND completed_at IS NULL
	`, userID, courseID)
	if err != nil {
		return false, fmt.Errorf("complete enrollment: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

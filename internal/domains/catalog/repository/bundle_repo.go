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

type bundleRepository struct {
	db *pgxpool.Pool
}

func NewBundleRepository(db *pgxpool.Pool) BundleRepository {
	return &bundleRepository{db: db}
}

const bundleColumns = `
	id, name, slug, description, price, course_ids,
	stripe_product_id, stripe_price_id, published, image_url,
	created_at, updated_at`

func scanBundle(row pgx.Row) (*model.Bundle, error) {
	var b model.Bundle
	if err := row.Scan(
		&b.ID, &b.Name, &b.Slug, &b.Description, &b.Price, &b.CourseIDs,
		&b.StripeProductID, &b.StripePriceID, &b.Published, &b.ImageURL,
		&b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if b.CourseIDs == nil {
		b.CourseIDs = []uuid.UUID{}
	}
	return &b, nil
}

func (r *bundleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Bundle, error) {
	b, err := scanBundle(r.db.QueryRow(ctx, `SELECT `+bundleColumns+` FROM course_bundles WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBundleNotFound
		}
		return nil, fmt.Errorf("find bundle: %w", err)
	}
	return b, nil
}

func (r *bundleRepository) List(ctx context.Context, publishedOnly bool) ([]*model.Bundle, error) {
	query := `SELECT ` + bundleColumns + ` FROM course_bundles`
	if publishedOnly {
		query += ` WHERE published = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list bundles: %w", err)
	}
	defer rows.Close()

	bundles := []*model.Bundle{}
	for rows.Next() {
		b, err := scanBundle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bundle: %w", err)
		}
		bundles = append(bundles, b)
	}
	return bundles, rows.Err()
}

func (r *bundleRepository) Create(ctx context.Context, b *model.Bundle) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO course_bundles (name, slug, description, price, course_ids, published, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, b.Name, b.Slug, b.Description, b.Price, b.CourseIDs, b.Published, b.ImageURL,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return model.ErrSlugExists
		}
		return fmt.Errorf("create bundle: %w", err)
	}
	return nil
}

func (r *bundleRepository) Update(ctx context.Context, b *model.Bundle) error {
	err := r.db.QueryRow(ctx, `
		UPDATE course_bundles SET
			name = $2,
			slug = $3,
			description = $4,
			price = $5,
			course_ids = $6,
			image_url = $7,
			stripe_product_id = $8,
			stripe_price_id = $9,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, b.ID, b.Name, b.Slug, b.Description, b.Price, b.CourseIDs, b.ImageURL,
		b.StripeProductID, b.StripePriceID,
	).Scan(&b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrBundleNotFound
		}
		if database.IsUniqueViolation(err) {
			return model.ErrSlugExists
		}
		return fmt.Errorf("update bundle: %w", err)
	}
	return nil
}

func (r *bundleRepository) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	result, err := r.db.Exec(ctx, `UPDATE course_bundles SET published = $2, updated_at = NOW() WHERE id = $1`, id, published)
	if err != nil {
		return fmt.Errorf("set bundle published: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrBundleNotFound
	}
	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"coursestore-backend/internal/domains/whitelabel/model"
	"coursestore-backend/pkg/database"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) AccountRepository {
	return &PostgresRepository{db: db}
}

const accountColumns = `
	id, name, slug, owner_email, custom_domain, brand_color, logo_url,
	active, created_at, updated_at`

func scanAccount(row pgx.Row) (*model.Account, error) {
	var a model.Account
	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Slug,
		&a.OwnerEmail,
		&a.CustomDomain,
		&a.BrandColor,
		&a.LogoURL,
		&a.Active,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PostgresRepository) findOne(ctx context.Context, where string, arg interface{}) (*model.Account, error) {
	a, err := scanAccount(r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM whitelabel_accounts WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find whitelabel account: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	return r.findOne(ctx, "id = $1", id)
}

func (r *PostgresRepository) FindBySlug(ctx context.Context, slug string) (*model.Account, error) {
	return r.findOne(ctx, "slug = $1", strings.ToLower(slug))
}

func (r *PostgresRepository) FindByDomain(ctx context.Context, domain string) (*model.Account, error) {
	return r.findOne(ctx, "custom_domain = $1", strings.ToLower(domain))
}

func (r *PostgresRepository) List(ctx context.Context, filter *model.ListFilter) ([]*model.Account, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}

	if filter.Active != nil {
		args = append(args, *filter.Active)
		where = append(where, fmt.Sprintf("active = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		where = append(where, fmt.Sprintf("(LOWER(name) LIKE $%d OR slug LIKE $%d)", len(args), len(args)))
	}
	conditions := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM whitelabel_accounts WHERE `+conditions, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count whitelabel accounts: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`SELECT %s FROM whitelabel_accounts WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		accountColumns, conditions, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list whitelabel accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]*model.Account, 0, filter.Limit)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan whitelabel account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, total, rows.Err()
}

func (r *PostgresRepository) Create(ctx context.Context, a *model.Account) error {
	query := `
		INSERT INTO whitelabel_accounts (name, slug, owner_email, custom_domain, brand_color, logo_url, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		a.Name, a.Slug, a.OwnerEmail, a.CustomDomain, a.BrandColor, a.LogoURL, a.Active,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return model.ErrSlugTaken
		}
		return fmt.Errorf("create whitelabel account: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, a *model.Account) error {
	query := `
		UPDATE whitelabel_accounts SET
			name = $2,
			slug = $3,
			owner_email = $4,
			custom_domain = $5,
			brand_color = $6,
			logo_url = $7,
			active = $8,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query,
		a.ID, a.Name, a.Slug, a.OwnerEmail, a.CustomDomain, a.BrandColor, a.LogoURL, a.Active,
	).Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrAccountNotFound
		}
		if database.IsUniqueViolation(err) {
			return model.ErrSlugTaken
		}
		return fmt.Errorf("update whitelabel account: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM whitelabel_accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete whitelabel account: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrAccountNotFound
	}
	return nil
}

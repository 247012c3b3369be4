package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"coursestore-backend/internal/domains/user/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) UserRepository {
	return &postgresRepository{pool: pool}
}

const userColumns = `
	id, email, full_name, role, status, password_hash,
	ghl_contact_id, ghl_location_id, last_login_at, created_at, updated_at
`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Email, &u.FullName, &u.Role, &u.Status, &u.PasswordHash,
		&u.GHLContactID, &u.GHLLocationID, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = LOWER($1)`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (r *postgresRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *postgresRepository) ResolveOrCreateByEmail(ctx context.Context, email, fullName string) (*model.User, error) {
	query := `
		INSERT INTO users (id, email, full_name, role, status)
		VALUES ($1, LOWER($2), NULLIF($3, ''), $4, $5)
		ON CONFLICT (email) DO UPDATE
		SET full_name = COALESCE(users.full_name, EXCLUDED.full_name)
		RETURNING ` + userColumns

	u, err := scanUser(r.pool.QueryRow(ctx, query,
		uuid.New(), strings.TrimSpace(email), strings.TrimSpace(fullName), model.RoleStudent, model.StatusActive,
	))
	if err != nil {
		return nil, fmt.Errorf("resolve user by email: %w", err)
	}
	return u, nil
}

func (r *postgresRepository) List(ctx context.Context, filter *model.ListFilter) ([]*model.User, int, error) {
	var (
		where []string
		args  []interface{}
	)
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if filter.Role != "" {
		add("role = $%d", filter.Role)
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.Search != "" {
		add("(email ILIKE $%[1]d OR full_name ILIKE $%[1]d)", "%"+filter.Search+"%")
	}

	clause := ""
	if len(where) > 0 {
		clause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users `+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`SELECT %s FROM users %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		userColumns, clause, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]*model.User, 0, filter.Limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (r *postgresRepository) exec(ctx context.Context, op, query string, args ...interface{}) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *postgresRepository) UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error {
	return r.exec(ctx, "update role", `UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1`, id, role)
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.Status) error {
	return r.exec(ctx, "update status", `UPDATE users SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
}

func (r *postgresRepository) LinkCRMContact(ctx context.Context, id uuid.UUID, contactID, locationID string) error {
	return r.exec(ctx, "link crm contact", `
		UPDATE users SET ghl_contact_id = $2, ghl_location_id = NULLIF($3, ''), updated_at = NOW()
		WHERE id = $1
	`, id, contactID, locationID)
}

func (r *postgresRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, "update last login", `UPDATE users SET last_login_at = NOW() WHERE id = $1`, id)
}

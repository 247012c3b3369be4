package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"coursestore-backend/internal/domains/coupon/model"
	"coursestore-backend/pkg/database"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) CouponRepository {
	return &PostgresRepository{db: db}
}

const couponColumns = `
	id, code, description,
	discount_type, discount_value, applicable_to,
	course_id, bundle_id, min_cart_amount, max_discount_amount,
	start_date, end_date, active,
	usage_limit, user_limit, usage_count,
	created_at, updated_at`

func scanCoupon(row pgx.Row) (*model.Coupon, error) {
	var c model.Coupon
	err := row.Scan(
		&c.ID,
		&c.Code,
		&c.Description,
		&c.DiscountType,
		&c.DiscountValue,
		&c.ApplicableTo,
		&c.CourseID,
		&c.BundleID,
		&c.MinCartAmount,
		&c.MaxDiscountAmount,
		&c.StartDate,
		&c.EndDate,
		&c.Active,
		&c.UsageLimit,
		&c.UserLimit,
		&c.UsageCount,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// -------------------------------------------------------------------
// READ OPERATIONS
// -------------------------------------------------------------------

func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupon_codes WHERE id = $1`

	c, err := scanCoupon(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCouponNotFound
		}
		return nil, fmt.Errorf("find coupon by id: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) FindByCode(ctx context.Context, code string) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupon_codes WHERE LOWER(code) = LOWER($1)`

	c, err := scanCoupon(r.db.QueryRow(ctx, query, strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCouponNotFound
		}
		return nil, fmt.Errorf("find coupon by code: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter *model.ListFilter) ([]*model.Coupon, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}

	if filter.Active != nil {
		args = append(args, *filter.Active)
		where = append(where, fmt.Sprintf("active = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToUpper(filter.Search)+"%")
		where = append(where, fmt.Sprintf("code LIKE $%d", len(args)))
	}
	conditions := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM coupon_codes WHERE `+conditions, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count coupons: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`SELECT %s FROM coupon_codes WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		couponColumns, conditions, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()

	coupons := make([]*model.Coupon, 0, filter.Limit)
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan coupon: %w", err)
		}
		coupons = append(coupons, c)
	}
	return coupons, total, rows.Err()
}

func (r *PostgresRepository) CodeExists(ctx context.Context, code string, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM coupon_codes
			WHERE LOWER(code) = LOWER($1) AND ($2::uuid IS NULL OR id <> $2)
		)`, code, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check coupon code: %w", err)
	}
	return exists, nil
}

// -------------------------------------------------------------------
// WRITE OPERATIONS
// -------------------------------------------------------------------

func (r *PostgresRepository) Create(ctx context.Context, c *model.Coupon) error {
	c.Code = model.NormalizeCode(c.Code)

	query := `
		INSERT INTO coupon_codes (
			code, description, discount_type, discount_value, applicable_to,
			course_id, bundle_id, min_cart_amount, max_discount_amount,
			start_date, end_date, active, usage_limit, user_limit
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, usage_count, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		c.Code,
		c.Description,
		c.DiscountType,
		c.DiscountValue,
		c.ApplicableTo,
		c.CourseID,
		c.BundleID,
		c.MinCartAmount,
		c.MaxDiscountAmount,
		c.StartDate,
		c.EndDate,
		c.Active,
		c.UsageLimit,
		c.UserLimit,
	).Scan(&c.ID, &c.UsageCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return mapWriteError("create coupon", err)
	}
	return nil
}

// mapWriteError turns constraint failures on coupon writes into client errors.
func mapWriteError(op string, err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return model.ErrCouponNotFound
	case database.IsUniqueViolation(err):
		return model.ErrCouponCodeExists
	case database.IsCheckViolation(err):
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return model.ErrCouponRejected.WithDetails(map[string]interface{}{"constraint": pgErr.ConstraintName})
		}
		return model.ErrCouponRejected
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (r *PostgresRepository) Update(ctx context.Context, c *model.Coupon) error {
	c.Code = model.NormalizeCode(c.Code)

	query := `
		UPDATE coupon_codes SET
			code = $2,
			description = $3,
			discount_type = $4,
			discount_value = $5,
			applicable_to = $6,
			course_id = $7,
			bundle_id = $8,
			min_cart_amount = $9,
			max_discount_amount = $10,
			start_date = $11,
			end_date = $12,
			usage_limit = $13,
			user_limit = $14,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		c.ID,
		c.Code,
		c.Description,
		c.DiscountType,
		c.DiscountValue,
		c.ApplicableTo,
		c.CourseID,
		c.BundleID,
		c.MinCartAmount,
		c.MaxDiscountAmount,
		c.StartDate,
		c.EndDate,
		c.UsageLimit,
		c.UserLimit,
	).Scan(&c.UpdatedAt)
	if err != nil {
		return mapWriteError("update coupon", err)
	}
	return nil
}

func (r *PostgresRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result, err := r.db.Exec(ctx, `UPDATE coupon_codes SET active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("update coupon status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrCouponNotFound
	}
	return nil
}

// Delete removes an unused coupon. Redeemed coupons are kept for history.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM coupon_codes WHERE id = $1 AND usage_count = 0`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return model.ErrCouponInUse
		}
		return fmt.Errorf("delete coupon: %w", err)
	}
	if result.RowsAffected() == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return model.ErrCouponInUse
	}
	return nil
}

// -------------------------------------------------------------------
// REDEMPTIONS
// -------------------------------------------------------------------

func (r *PostgresRepository) CountRedemptions(ctx context.Context, couponID uuid.UUID, userID *uuid.UUID, email string) (int, error) {
	if userID == nil && email == "" {
		return 0, nil
	}

	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM coupon_redemptions
		WHERE coupon_id = $1
		  AND (($2::uuid IS NOT NULL AND user_id = $2) OR ($3 <> '' AND LOWER(email) = LOWER($3)))
	`, couponID, userID, email).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count coupon redemptions: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) CreateRedemption(ctx context.Context, q database.Querier, red *model.Redemption) (bool, error) {
	err := q.QueryRow(ctx, `
		INSERT INTO coupon_redemptions (coupon_id, user_id, email, checkout_session_id, discount_amount)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (coupon_id, checkout_session_id) DO NOTHING
		RETURNING id, redeemed_at
	`, red.CouponID, red.UserID, red.Email, red.CheckoutSessionID, red.DiscountAmount).Scan(&red.ID, &red.RedeemedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create coupon redemption: %w", err)
	}
	return true, nil
}

func (r *PostgresRepository) IncrementUsage(ctx context.Context, q database.Querier, id uuid.UUID) error {
	result, err := q.Exec(ctx, `UPDATE coupon_codes SET usage_count = usage_count + 1, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment coupon usage: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrCouponNotFound
	}
	return nil
}

func (r *PostgresRepository) ListRedemptions(ctx context.Context, couponID uuid.UUID, page, limit int) ([]*model.Redemption, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM coupon_redemptions WHERE coupon_id = $1`, couponID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count redemptions: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, coupon_id, user_id, email, checkout_session_id, discount_amount, redeemed_at
		FROM coupon_redemptions
		WHERE coupon_id = $1
		ORDER BY redeemed_at DESC
		LIMIT $2 OFFSET $3
	`, couponID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list redemptions: %w", err)
	}
	defer rows.Close()

	var out []*model.Redemption
	for rows.Next() {
		var red model.Redemption
		if err := rows.Scan(&red.ID, &red.CouponID, &red.UserID, &red.Email,
			&red.CheckoutSessionID, &red.DiscountAmount, &red.RedeemedAt); err != nil {
			return nil, 0, fmt.Errorf("scan redemption: %w", err)
		}
		out = append(out, &red)
	}
	return out, total, rows.Err()
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"coursestore-backend/internal/domains/coupon/model"
	"coursestore-backend/internal/domains/coupon/repository"
	"coursestore-backend/internal/shared/apperr"
	"coursestore-backend/internal/shared/metrics"
	"coursestore-backend/pkg/database"
)

type couponService struct {
	repo       repository.CouponRepository
	calculator *DiscountCalculator
	now        func() time.Time
}

func NewCouponService(repo repository.CouponRepository) ServiceInterface {
	return &couponService{
		repo:       repo,
		calculator: NewDiscountCalculator(),
		now:        time.Now,
	}
}

// -------------------------------------------------------------------
// VALIDATE
// -------------------------------------------------------------------

// Validate checks a code against a priced cart.
//
// Rejections, in order: unknown code, inactive, outside the date window,
// global usage limit, per-user limit, cart minimum. A valid coupon that
// matches nothing in the cart yields a zero discount, not a rejection.
func (s *couponService) Validate(ctx context.Context, in *model.ValidateInput) (*model.ValidationResult, error) {
	result, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}

	outcome := "valid"
	if !result.Valid {
		outcome = string(result.Reason)
	}
	metrics.CouponValidationsTotal.WithLabelValues(outcome).Inc()

	return result, nil
}

func (s *couponService) validate(ctx context.Context, in *model.ValidateInput) (*model.ValidationResult, error) {
	coupon, err := s.repo.FindByCode(ctx, in.Code)
	if err != nil {
		if apperr.HasCode(err, model.ErrCodeCouponNotFound) {
			return model.Invalid(model.ReasonNotFound), nil
		}
		return nil, fmt.Errorf("lookup coupon: %w", err)
	}

	now := s.now()
	switch {
	case !coupon.Active:
		return model.Invalid(model.ReasonInactive), nil
	case coupon.NotStarted(now):
		return model.Invalid(model.ReasonNotStarted), nil
	case coupon.Expired(now):
		return model.Invalid(model.ReasonExpired), nil
	case coupon.IsUsageLimitReached():
		return model.Invalid(model.ReasonUsageLimitReached), nil
	}

	if coupon.UserLimit != nil && (in.UserID != nil || in.Email != "") {
		used, err := s.repo.CountRedemptions(ctx, coupon.ID, in.UserID, in.Email)
		if err != nil {
			return nil, err
		}
		if used >= *coupon.UserLimit {
			return model.Invalid(model.ReasonUserLimitReached), nil
		}
	}

	if coupon.BelowMinimum(in.CartTotal) {
		return model.Invalid(model.ReasonMinCartNotMet), nil
	}

	base, matched := s.calculator.Base(coupon, in.CartTotal, in.Items)
	discount := decimal.Zero
	if matched {
		discount = s.calculator.Calculate(coupon, base)
	}

	return &model.ValidationResult{
		Valid:    true,
		Discount: discount,
		Base:     base,
		Coupon:   coupon,
	}, nil
}

// -------------------------------------------------------------------
// REDEEM
// -------------------------------------------------------------------

func (s *couponService) Redeem(ctx context.Context, q database.Querier, in *model.RedeemInput) (bool, error) {
	redemption := &model.Redemption{
		CouponID:          in.CouponID,
		UserID:            in.UserID,
		Email:             in.Email,
		CheckoutSessionID: in.CheckoutSessionID,
		DiscountAmount:    in.DiscountAmount,
	}

	inserted, err := s.repo.CreateRedemption(ctx, q, redemption)
	if err != nil {
		return false, err
	}
	if !inserted {
		log.Debug().
			Str("coupon_id", in.CouponID.String()).
			Str("session_id", in.CheckoutSessionID).
			Msg("coupon already redeemed for session")
		return false, nil
	}

	if err := s.repo.IncrementUsage(ctx, q, in.CouponID); err != nil {
		return false, err
	}
	return true, nil
}

// -------------------------------------------------------------------
// ADMIN
// -------------------------------------------------------------------

func (s *couponService) Create(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error) {
	coupon := req.ToCoupon()
	if err := coupon.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.CodeExists(ctx, coupon.Code, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.ErrCouponCodeExists
	}

	if err := s.repo.Create(ctx, coupon); err != nil {
		return nil, err
	}

	log.Info().Str("coupon_id", coupon.ID.String()).Str("code", coupon.Code).Msg("coupon created")
	return coupon, nil
}

func (s *couponService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateCouponRequest) (*model.Coupon, error) {
	coupon, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.ApplyTo(coupon)
	if err := coupon.Validate(); err != nil {
		return nil, err
	}

	if req.Code != nil {
		exists, err := s.repo.CodeExists(ctx, coupon.Code, &coupon.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, model.ErrCouponCodeExists
		}
	}

	if err := s.repo.Update(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *couponService) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return s.repo.SetActive(ctx, id, active)
}

// Delete only removes coupons that were never redeemed.
func (s *couponService) Delete(ctx context.Context, id uuid.UUID) error {
	coupon, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if coupon.UsageCount > 0 {
		return model.ErrCouponInUse
	}
	return s.repo.Delete(ctx, id)
}

func (s *couponService) List(ctx context.Context, filter *model.ListFilter) ([]*model.Coupon, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *couponService) GetDetail(ctx context.Context, id uuid.UUID, page, limit int) (*model.CouponDetail, error) {
	coupon, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	redemptions, total, err := s.repo.ListRedemptions(ctx, id, page, limit)
	if err != nil {
		return nil, err
	}

	return &model.CouponDetail{
		Coupon:           coupon,
		Redemptions:      redemptions,
		RedemptionsTotal: total,
	}, nil
}

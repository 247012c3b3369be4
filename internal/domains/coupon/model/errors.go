package model

import (
	"net/http"

	"coursestore-backend/internal/shared/apperr"
)

const (
	ErrCodeCouponNotFound   apperr.ErrorCode = "COUPON_NOT_FOUND"
	ErrCodeCouponCodeExists apperr.ErrorCode = "COUPON_CODE_EXISTS"
	ErrCodeCouponInUse      apperr.ErrorCode = "COUPON_IN_USE"
	ErrCodeCouponInvalid    apperr.ErrorCode = "COUPON_INVALID"
	ErrCodeCouponRejected   apperr.ErrorCode = "COUPON_REJECTED"
)

var (
	ErrCouponNotFound   = apperr.New(ErrCodeCouponNotFound, "Coupon not found", http.StatusNotFound)
	ErrCouponCodeExists = apperr.New(ErrCodeCouponCodeExists, "Coupon code already exists", http.StatusConflict)
	ErrCouponInUse      = apperr.New(ErrCodeCouponInUse, "Coupon has been redeemed, deactivate it instead", http.StatusConflict)
	ErrCouponInvalid    = apperr.New(ErrCodeCouponInvalid, "Coupon cannot be applied", http.StatusUnprocessableEntity)
	ErrCouponRejected   = apperr.New(ErrCodeCouponRejected, "Coupon values violate a storage constraint", http.StatusBadRequest)
)

// InvalidCouponError turns a failed validation into a 422 carrying the reason.
func InvalidCouponError(code string, result *ValidationResult) *apperr.AppError {
	return ErrCouponInvalid.WithDetails(map[string]interface{}{
		"code":    code,
		"reason":  result.Reason,
		"message": result.Message,
	})
}

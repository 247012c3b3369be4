package model

import (
	"net/http"

	"github.com/google/uuid"

	"coursestore-backend/internal/shared/apperr"
)

const ErrCodeItemUnavailable apperr.ErrorCode = "CART_ITEM_UNAVAILABLE"

var (
	ErrItemUnavailable = apperr.New(ErrCodeItemUnavailable, "One or more items cannot be purchased", http.StatusUnprocessableEntity)
	ErrDuplicateItem   = apperr.Validation("Cart contains the same item twice", nil)
)

type UnavailableReason string

const (
	ReasonNotFound    UnavailableReason = "not_found"
	ReasonUnpublished UnavailableReason = "unpublished"
	ReasonUnpriced    UnavailableReason = "unpriced"
)

// ItemError names one item that failed resolution.
type ItemError struct {
	Type   ItemType          `json:"type"`
	ID     uuid.UUID         `json:"id"`
	Reason UnavailableReason `json:"reason"`
}

// UnavailableError reports every failing item in a single 422.
func UnavailableError(items []ItemError) *apperr.AppError {
	return ErrItemUnavailable.WithDetails(map[string]interface{}{"items": items})
}

// DuplicateError reports the refs that occur more than once.
func DuplicateError(refs []ItemRef) *apperr.AppError {
	return ErrDuplicateItem.WithDetails(map[string]interface{}{"duplicates": refs})
}

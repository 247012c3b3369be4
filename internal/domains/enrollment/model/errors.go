package model

import (
	"net/http"

	"coursestore-backend/internal/shared/apperr"
)

const ErrCodeNotEnrolled apperr.ErrorCode = "ENROLLMENT_NOT_FOUND"

var ErrNotEnrolled = apperr.New(ErrCodeNotEnrolled, "You are not enrolled in this course", http.StatusNotFound)

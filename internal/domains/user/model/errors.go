package model

import (
	"net/http"

	"coursestore-backend/internal/shared/apperr"
)

const (
	ErrCodeUserNotFound       apperr.ErrorCode = "USER_NOT_FOUND"
	ErrCodeInvalidCredentials apperr.ErrorCode = "AUTH_INVALID_CREDENTIALS"
	ErrCodeInvalidToken       apperr.ErrorCode = "AUTH_INVALID_TOKEN"
	ErrCodeUserInactive       apperr.ErrorCode = "USER_INACTIVE"
	ErrCodeAccountLocked      apperr.ErrorCode = "AUTH_ACCOUNT_LOCKED"
)

var (
	ErrUserNotFound       = apperr.New(ErrCodeUserNotFound, "User not found", http.StatusNotFound)
	ErrInvalidCredentials = apperr.New(ErrCodeInvalidCredentials, "Invalid email or password", http.StatusUnauthorized)
	ErrInvalidToken       = apperr.New(ErrCodeInvalidToken, "Sign-in link is invalid or has expired", http.StatusUnauthorized)
	ErrUserInactive       = apperr.New(ErrCodeUserInactive, "Account is not active", http.StatusForbidden)
	ErrAccountLocked      = apperr.New(ErrCodeAccountLocked, "Too many failed attempts, try again later", http.StatusTooManyRequests)
)

package model

import (
	"net/http"

	"coursestore-backend/internal/shared/apperr"
)

const (
	ErrCodeAccountNotFound apperr.ErrorCode = "WHITELABEL_NOT_FOUND"
	ErrCodeSlugTaken       apperr.ErrorCode = "WHITELABEL_SLUG_TAKEN"
)

var (
	ErrAccountNotFound = apperr.New(ErrCodeAccountNotFound, "Whitelabel account not found", http.StatusNotFound)
	ErrSlugTaken       = apperr.New(ErrCodeSlugTaken, "Slug or domain already in use", http.StatusConflict)
)

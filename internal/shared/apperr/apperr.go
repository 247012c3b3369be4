package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	CodeValidation    ErrorCode = "VAL_INVALID_INPUT"
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	CodeForbidden     ErrorCode = "FORBIDDEN"
	CodeConflict      ErrorCode = "CONFLICT"
	CodeUnprocessable ErrorCode = "UNPROCESSABLE"
	CodeRateLimited   ErrorCode = "RATE_LIMITED"
	CodeUpstream      ErrorCode = "UPSTREAM_ERROR"
	CodeInternal      ErrorCode = "SYS_INTERNAL_ERROR"
)

// AppError is a domain error that knows its HTTP status and public code.
type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	HTTPStatus int                    `json:"-"`
	Err        error                  `json:"-"`
}

func New(code ErrorCode, message string, status int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError carrying the same code, so sentinels still match
// after WithDetails or Wrap copies them.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code && t.Message == e.Message
}

// WithDetails returns a copy with extra details attached.
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// WithMessage returns a copy with a more specific message. The copy no
// longer matches the sentinel through errors.Is, only through its code.
func (e *AppError) WithMessage(msg string) *AppError {
	cp := *e
	cp.Message = msg
	return &cp
}

// Wrap returns a copy that records the underlying cause.
func (e *AppError) Wrap(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

func Validation(message string, details map[string]interface{}) *AppError {
	return &AppError{Code: CodeValidation, Message: message, Details: details, HTTPStatus: http.StatusBadRequest}
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message, http.StatusNotFound)
}

func Internal(err error) *AppError {
	return &AppError{Code: CodeInternal, Message: "Internal server error", HTTPStatus: http.StatusInternalServerError, Err: err}
}

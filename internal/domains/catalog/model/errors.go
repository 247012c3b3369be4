package model

import (
	"net/http"

	"coursestore-backend/internal/shared/apperr"
)

const (
	ErrCodeCourseNotFound  apperr.ErrorCode = "COURSE_NOT_FOUND"
	ErrCodeBundleNotFound  apperr.ErrorCode = "BUNDLE_NOT_FOUND"
	ErrCodeModuleNotFound  apperr.ErrorCode = "MODULE_NOT_FOUND"
	ErrCodeLessonNotFound  apperr.ErrorCode = "LESSON_NOT_FOUND"
	ErrCodeSlugExists      apperr.ErrorCode = "CATALOG_SLUG_EXISTS"
	ErrCodeUnknownCourses  apperr.ErrorCode = "BUNDLE_UNKNOWN_COURSES"
	ErrCodeLessonForbidden apperr.ErrorCode = "LESSON_FORBIDDEN"
	ErrCodeStripeLink      apperr.ErrorCode = "CATALOG_STRIPE_LINK_FAILED"
)

var (
	ErrCourseNotFound  = apperr.New(ErrCodeCourseNotFound, "Course not found", http.StatusNotFound)
	ErrBundleNotFound  = apperr.New(ErrCodeBundleNotFound, "Bundle not found", http.StatusNotFound)
	ErrModuleNotFound  = apperr.New(ErrCodeModuleNotFound, "Module not found", http.StatusNotFound)
	ErrLessonNotFound  = apperr.New(ErrCodeLessonNotFound, "Lesson not found", http.StatusNotFound)
	ErrSlugExists      = apperr.New(ErrCodeSlugExists, "Slug already in use", http.StatusConflict)
	ErrUnknownCourses  = apperr.New(ErrCodeUnknownCourses, "Bundle references unknown courses", http.StatusBadRequest)
	ErrLessonForbidden = apperr.New(ErrCodeLessonForbidden, "You do not have access to this lesson", http.StatusForbidden)
	ErrLoginRequired   = apperr.New(apperr.CodeUnauthorized, "Sign in to view this lesson", http.StatusUnauthorized)
	ErrStripeLink      = apperr.New(ErrCodeStripeLink, "Could not create the payment price", http.StatusBadGateway)
)

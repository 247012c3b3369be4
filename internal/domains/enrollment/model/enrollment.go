package model

import (
	"time"

	"github.com/google/uuid"
)

// Origin records how an enrollment was granted.
type Origin string

const (
	OriginPurchase Origin = "purchase"
	OriginAdmin    Origin = "admin"
)

// Enrollment is unique per (user, course).
type Enrollment struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	CourseID    uuid.UUID  `json:"course_id"`
	Origin      Origin     `json:"origin"`
	EnrolledAt  time.Time  `json:"enrolled_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// EnrollmentView is an enrollment with the course fields a student
// dashboard shows.
type EnrollmentView struct {
	Enrollment
	CourseSlug  string  `json:"course_slug"`
	CourseTitle string  `json:"course_title"`
	ImageURL    *string `json:"image_url,omitempty"`
}

type AccessSource string

const (
	SourceEnrollment AccessSource = "enrollment"
	SourceMembership AccessSource = "membership"
	SourceNone       AccessSource = "none"
)

type AccessResult struct {
	HasAccess bool         `json:"has_access"`
	Source    AccessSource `json:"source"`
}

var NoAccess = AccessResult{HasAccess: false, Source: SourceNone}

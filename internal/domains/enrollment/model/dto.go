package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"coursestore-backend/internal/shared/utils"
)

// GrantRequest POST /api/v1/admin/enrollments
type GrantRequest struct {
	UserID   uuid.UUID `json:"user_id"`
	CourseID uuid.UUID `json:"course_id"`
}

func (r GrantRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID, utils.NotNilUUID),
		validation.Field(&r.CourseID, utils.NotNilUUID),
	)
}

type GrantResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	CourseID uuid.UUID `json:"course_id"`
	Created  bool      `json:"created"`
}

package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// LoginRequest POST /api/v1/auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Password, validation.Required),
	)
}

// MagicLinkRequest POST /api/v1/auth/magic-link
type MagicLinkRequest struct {
	Email string `json:"email"`
}

func (r MagicLinkRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat, validation.Length(0, 254)),
	)
}

// VerifyMagicLinkRequest POST /api/v1/auth/magic-link/verify
type VerifyMagicLinkRequest struct {
	Token string `json:"token"`
}

func (r VerifyMagicLinkRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required, validation.Length(16, 128)),
	)
}

type AuthResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        *User     `json:"user"`
}

type UpdateRoleRequest struct {
	Role Role `json:"role"`
}

func (r UpdateRoleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Role, validation.Required, validation.In(RoleAdmin, RoleStudent)),
	)
}

type UpdateStatusRequest struct {
	Status Status `json:"status"`
}

func (r UpdateStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required, validation.In(StatusActive, StatusSuspended, StatusDeleted)),
	)
}

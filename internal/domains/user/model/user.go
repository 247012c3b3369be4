package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleStudent
}

type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusDeleted   Status = "deleted"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusSuspended, StatusDeleted:
		return true
	}
	return false
}

// User maps the users table. Email is unique and stored lower-case.
type User struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	FullName      *string    `json:"full_name,omitempty"`
	Role          Role       `json:"role"`
	Status        Status     `json:"status"`
	PasswordHash  *string    `json:"-"`
	GHLContactID  *string    `json:"ghl_contact_id,omitempty"`
	GHLLocationID *string    `json:"ghl_location_id,omitempty"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

func (u *User) Name() string {
	if u.FullName == nil {
		return ""
	}
	return *u.FullName
}

type ListFilter struct {
	Role   Role
	Status Status
	Search string
	Page   int
	Limit  int
}

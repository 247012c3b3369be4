package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"coursestore-backend/internal/shared/utils"
)

// AuditTag marks CRM contacts that asked for a marketing audit.
const AuditTag = "audit-request"

// AuditRequest POST /api/v1/forms/audit
type AuditRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Website string `json:"website"`
	Message string `json:"message"`
}

func (r *AuditRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = utils.NormalizeEmail(r.Email)
	r.Website = strings.TrimSpace(r.Website)
	r.Message = strings.TrimSpace(r.Message)
}

func (r AuditRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Website, validation.Required, validation.Length(1, 300), is.URL),
		validation.Field(&r.Message, validation.Length(0, 5000)),
	)
}

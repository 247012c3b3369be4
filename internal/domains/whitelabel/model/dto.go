package model

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"coursestore-backend/internal/shared/utils"
)

var (
	slugPattern  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	colorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}){1,2}$`)
)

type CreateAccountRequest struct {
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	OwnerEmail   string  `json:"owner_email"`
	CustomDomain *string `json:"custom_domain"`
	BrandColor   *string `json:"brand_color"`
	LogoURL      *string `json:"logo_url"`
	Active       *bool   `json:"active"`
}

// Normalize derives a slug from the name when none is given.
func (r *CreateAccountRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.OwnerEmail = utils.NormalizeEmail(r.OwnerEmail)
	r.Slug = strings.ToLower(strings.TrimSpace(r.Slug))
	if r.Slug == "" {
		r.Slug = utils.GenerateSlug(r.Name)
	}
	r.CustomDomain = lowerOrNil(r.CustomDomain)
}

func (r CreateAccountRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 120)),
		validation.Field(&r.Slug, validation.Required, validation.Length(2, 80), validation.Match(slugPattern)),
		validation.Field(&r.OwnerEmail, validation.Required, is.EmailFormat),
		validation.Field(&r.CustomDomain, is.Domain),
		validation.Field(&r.BrandColor, validation.Match(colorPattern).Error("must be a hex color")),
		validation.Field(&r.LogoURL, is.URL),
	)
}

func (r *CreateAccountRequest) ToAccount() *Account {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return &Account{
		Name:         r.Name,
		Slug:         r.Slug,
		OwnerEmail:   r.OwnerEmail,
		CustomDomain: r.CustomDomain,
		BrandColor:   r.BrandColor,
		LogoURL:      r.LogoURL,
		Active:       active,
	}
}

// UpdateAccountRequest is a partial update; nil fields are left as is.
type UpdateAccountRequest struct {
	Name         *string `json:"name"`
	Slug         *string `json:"slug"`
	OwnerEmail   *string `json:"owner_email"`
	CustomDomain *string `json:"custom_domain"`
	BrandColor   *string `json:"brand_color"`
	LogoURL      *string `json:"logo_url"`
	Active       *bool   `json:"active"`
}

func (r UpdateAccountRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(2, 120)),
		validation.Field(&r.Slug, validation.NilOrNotEmpty, validation.Length(2, 80), validation.Match(slugPattern)),
		validation.Field(&r.OwnerEmail, validation.NilOrNotEmpty, is.EmailFormat),
		validation.Field(&r.CustomDomain, is.Domain),
		validation.Field(&r.BrandColor, validation.Match(colorPattern).Error("must be a hex color")),
		validation.Field(&r.LogoURL, is.URL),
	)
}

// Apply copies the set fields onto a. An empty string clears an optional field.
func (r *UpdateAccountRequest) Apply(a *Account) {
	if r.Name != nil {
		a.Name = strings.TrimSpace(*r.Name)
	}
	if r.Slug != nil {
		a.Slug = strings.ToLower(strings.TrimSpace(*r.Slug))
	}
	if r.OwnerEmail != nil {
		a.OwnerEmail = utils.NormalizeEmail(*r.OwnerEmail)
	}
	if r.CustomDomain != nil {
		a.CustomDomain = lowerOrNil(r.CustomDomain)
	}
	if r.BrandColor != nil {
		a.BrandColor = emptyToNil(r.BrandColor)
	}
	if r.LogoURL != nil {
		a.LogoURL = emptyToNil(r.LogoURL)
	}
	if r.Active != nil {
		a.Active = *r.Active
	}
}

func lowerOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.ToLower(strings.TrimSpace(*s))
	return emptyToNil(&v)
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

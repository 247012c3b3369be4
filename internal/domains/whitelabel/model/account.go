package model

import (
	"time"

	"github.com/google/uuid"
)

// Account is a partner brand served under its own slug or domain.
type Account struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	OwnerEmail   string    `json:"owner_email"`
	CustomDomain *string   `json:"custom_domain,omitempty"`
	BrandColor   *string   `json:"brand_color,omitempty"`
	LogoURL      *string   `json:"logo_url,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicAccount is what storefronts receive; owner details stay private.
type PublicAccount struct {
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	CustomDomain *string `json:"custom_domain,omitempty"`
	BrandColor   *string `json:"brand_color,omitempty"`
	LogoURL      *string `json:"logo_url,omitempty"`
}

func (a *Account) Public() *PublicAccount {
	return &PublicAccount{
		Name:         a.Name,
		Slug:         a.Slug,
		CustomDomain: a.CustomDomain,
		BrandColor:   a.BrandColor,
		LogoURL:      a.LogoURL,
	}
}

type ListFilter struct {
	Active *bool
	Search string
	Page   int
	Limit  int
}

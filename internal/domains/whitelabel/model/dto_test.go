package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCreateAccountRequest_NormalizeDerivesSlug(t *testing.T) {
	req := &CreateAccountRequest{Name: "  Acme Café Academy ", OwnerEmail: " Owner@Acme.io ", CustomDomain: strPtr("Learn.Acme.IO")}
	req.Normalize()

	assert.Equal(t, "acme-cafe-academy", req.Slug)
	assert.Equal(t, "owner@acme.io", req.OwnerEmail)
	assert.Equal(t, "learn.acme.io", *req.CustomDomain)
	require.NoError(t, req.Validate())
	assert.True(t, req.ToAccount().Active)
}

func TestCreateAccountRequest_Validate(t *testing.T) {
	tests := []struct {
		name string
		req  CreateAccountRequest
	}{
		{"bad slug", CreateAccountRequest{Name: "Acme", Slug: "Acme_1", OwnerEmail: "a@b.io"}},
		{"bad email", CreateAccountRequest{Name: "Acme", Slug: "acme", OwnerEmail: "nope"}},
		{"bad color", CreateAccountRequest{Name: "Acme", Slug: "acme", OwnerEmail: "a@b.io", BrandColor: strPtr("red")}},
		{"bad domain", CreateAccountRequest{Name: "Acme", Slug: "acme", OwnerEmail: "a@b.io", CustomDomain: strPtr("not a domain")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.req.Validate())
		})
	}
}

func TestUpdateAccountRequest_ApplyClearsOptionalFields(t *testing.T) {
	a := &Account{Name: "Acme", Slug: "acme", LogoURL: strPtr("https://cdn/logo.png"), Active: true}
	inactive := false

	req := &UpdateAccountRequest{LogoURL: strPtr(""), Active: &inactive, Name: strPtr("Acme Pro")}
	require.NoError(t, req.Validate())
	req.Apply(a)

	assert.Nil(t, a.LogoURL)
	assert.False(t, a.Active)
	assert.Equal(t, "Acme Pro", a.Name)
	assert.Equal(t, "acme", a.Slug)
}

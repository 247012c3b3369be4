package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuditRequest_Validate(t *testing.T) {
	valid := AuditRequest{Name: "Ada", Email: "ada@example.com", Website: "https://ada.dev"}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name string
		req  AuditRequest
	}{
		{"missing name", AuditRequest{Email: "ada@example.com", Website: "https://ada.dev"}},
		{"bad email", AuditRequest{Name: "Ada", Email: "ada", Website: "https://ada.dev"}},
		{"missing website", AuditRequest{Name: "Ada", Email: "ada@example.com"}},
		{"bad website", AuditRequest{Name: "Ada", Email: "ada@example.com", Website: "not a url"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.req.Validate())
		})
	}
}

func TestAuditRequest_Normalize(t *testing.T) {
	r := &AuditRequest{Name: " Ada ", Email: " ADA@Example.com", Website: " https://ada.dev "}
	r.Normalize()

	assert.Equal(t, "Ada", r.Name)
	assert.Equal(t, "ada@example.com", r.Email)
	assert.Equal(t, "https://ada.dev", r.Website)
}

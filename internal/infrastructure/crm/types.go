package crm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrContactNotFound = errors.New("crm contact not found")

// Contact is the subset of the GoHighLevel contact we read.
type Contact struct {
	ID           string        `json:"id"`
	LocationID   string        `json:"locationId"`
	Email        string        `json:"email"`
	FirstName    string        `json:"firstName"`
	LastName     string        `json:"lastName"`
	Tags         []string      `json:"tags"`
	CustomFields []CustomField `json:"customFields"`
}

// CustomField values come back as strings, numbers or arrays depending on field type.
type CustomField struct {
	ID    string          `json:"id"`
	Value json.RawMessage `json:"value"`
}

// FieldValue returns a custom field rendered as a string, "" when absent.
func (c *Contact) FieldValue(fieldID string) string {
	for _, f := range c.CustomFields {
		if f.ID != fieldID {
			continue
		}
		var s string
		if err := json.Unmarshal(f.Value, &s); err == nil {
			return s
		}
		var list []string
		if err := json.Unmarshal(f.Value, &list); err == nil {
			return strings.Join(list, ",")
		}
		return strings.Trim(string(f.Value), `"`)
	}
	return ""
}

// HasTag is case-insensitive.
func (c *Contact) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

type UpsertContactInput struct {
	Email        string
	Name         string
	Website      string
	Source       string
	Tags         []string
	CustomFields map[string]string
}

type upsertContactRequest struct {
	LocationID   string             `json:"locationId"`
	Email        string             `json:"email"`
	Name         string             `json:"name,omitempty"`
	Website      string             `json:"website,omitempty"`
	Source       string             `json:"source,omitempty"`
	Tags         []string           `json:"tags,omitempty"`
	CustomFields []customFieldWrite `json:"customFields,omitempty"`
}

type customFieldWrite struct {
	ID         string `json:"id"`
	FieldValue string `json:"field_value"`
}

// APIError is a non-2xx GoHighLevel response.
type APIError struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GoHighLevel API error (status %d): %s", e.StatusCode, e.Message)
}

package utils

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NotNilUUID rejects uuid.Nil. validation.Required cannot, since a UUID is
// a fixed-size array and never "empty" to ozzo.
var NotNilUUID = validation.By(func(value interface{}) error {
	switch v := value.(type) {
	case uuid.UUID:
		if v == uuid.Nil {
			return errors.New("must be a valid id")
		}
	case *uuid.UUID:
		if v != nil && *v == uuid.Nil {
			return errors.New("must be a valid id")
		}
	}
	return nil
})

// NonNegativeDecimal rejects amounts below zero.
var NonNegativeDecimal = validation.By(func(value interface{}) error {
	switch v := value.(type) {
	case decimal.Decimal:
		if v.IsNegative() {
			return errors.New("must not be negative")
		}
	case *decimal.Decimal:
		if v != nil && v.IsNegative() {
			return errors.New("must not be negative")
		}
	}
	return nil
})

// NormalizeEmail lower-cases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

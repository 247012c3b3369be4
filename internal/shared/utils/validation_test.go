package utils

import (
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNotNilUUID(t *testing.T) {
	assert.Error(t, validation.Validate(uuid.Nil, NotNilUUID))
	assert.NoError(t, validation.Validate(uuid.New(), NotNilUUID))

	var missing *uuid.UUID
	assert.NoError(t, validation.Validate(missing, NotNilUUID))
}

func TestNonNegativeDecimal(t *testing.T) {
	assert.Error(t, validation.Validate(decimal.NewFromInt(-1), NonNegativeDecimal))
	assert.NoError(t, validation.Validate(decimal.Zero, NonNegativeDecimal))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jane@example.com", NormalizeEmail("  Jane@Example.COM "))
}

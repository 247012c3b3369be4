package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour, "coursestore")

	token, err := m.GenerateAccessToken("user-1", "a@example.com", "student")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, "student", claims.Role)
	assert.Equal(t, "coursestore", claims.Issuer)
}

func TestManager_RejectsForeignSecret(t *testing.T) {
	issuer := NewManager("secret-a", time.Hour, "")
	verifier := NewManager("secret-b", time.Hour, "")

	token, err := issuer.GenerateAccessToken("user-1", "a@example.com", "admin")
	require.NoError(t, err)

	_, err = verifier.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestManager_RejectsExpiredToken(t *testing.T) {
	m := NewManager("secret", time.Nanosecond, "")

	token, err := m.GenerateAccessToken("user-1", "a@example.com", "student")
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)
	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

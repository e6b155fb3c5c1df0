package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltshop/backend/internal/domain"
)

func TestNewRefreshTokenValidation(t *testing.T) {
	_, err := NewRefreshToken("user-1", "", "", "", time.Now().Add(time.Hour))
	assert.Error(t, err, "empty token value must be rejected")

	_, err = NewRefreshToken("user-1", "tok", "", "", time.Now().Add(-time.Minute))
	assert.Error(t, err, "past expiry must be rejected")
}

func TestRefreshTokenLifecycle(t *testing.T) {
	rt, err := NewRefreshToken("user-1", "tok", "agent", "10.0.0.1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	assert.False(t, rt.IsExpired())
	assert.True(t, rt.IsActive())

	require.NoError(t, rt.Revoke())
	require.NotNil(t, rt.RevokedAt)
	assert.False(t, rt.IsActive())

	// revocation is terminal
	assert.ErrorIs(t, rt.Revoke(), domain.ErrRevokedToken)
}

func TestExpiredTokenIsNotActive(t *testing.T) {
	rt, err := NewRefreshToken("user-1", "tok", "", "", time.Now().Add(50*time.Millisecond))
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)
	assert.True(t, rt.IsExpired())
	assert.False(t, rt.IsActive())
	assert.Nil(t, rt.RevokedAt, "expiry is derived, not a stored transition")
}

func TestEmailNormalization(t *testing.T) {
	a, err := NewEmail("Alice@Example.COM")
	require.NoError(t, err)
	b, err := NewEmail("alice@example.com")
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", a.Normalized())
	assert.True(t, a.Equals(b))

	_, err = NewEmail("not-an-email")
	assert.Error(t, err)
}

package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltshop/backend/internal/domain/entity"
)

func testUser(t *testing.T) *entity.User {
	t.Helper()
	email, err := entity.NewEmail("alice@example.com")
	require.NoError(t, err)
	u, err := entity.NewUser("alice", email, "hash", "")
	require.NoError(t, err)
	role, err := entity.NewRole("User")
	require.NoError(t, err)
	u.AddRole(role)
	return u
}

func TestAccessTokenRoundTrip(t *testing.T) {
	issuer := NewIssuer("secret", "voltshop", "voltshop-clients", time.Hour, 7)
	u := testUser(t)

	signed, exp, err := issuer.GenerateAccessToken(u)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := issuer.ParseAccessToken(signed)
	require.NoError(t, err)
	assert.Equal(t, u.ID(), claims.Subject)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, []string{"User"}, claims.Roles)
	assert.NotEmpty(t, claims.ID, "jti must be set")
	assert.Equal(t, "voltshop", claims.Issuer)
}

func TestParseRejectsWrongKey(t *testing.T) {
	issuer := NewIssuer("secret", "voltshop", "voltshop-clients", time.Hour, 7)
	other := NewIssuer("different-secret", "voltshop", "voltshop-clients", time.Hour, 7)

	signed, _, err := issuer.GenerateAccessToken(testUser(t))
	require.NoError(t, err)

	_, err = other.ParseAccessToken(signed)
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	issuer := NewIssuer("secret", "voltshop", "voltshop-clients", -time.Minute, 7)

	signed, _, err := issuer.GenerateAccessToken(testUser(t))
	require.NoError(t, err)

	_, err = issuer.ParseAccessToken(signed)
	assert.Error(t, err)
}

func TestParseRejectsWrongAudience(t *testing.T) {
	issuer := NewIssuer("secret", "voltshop", "voltshop-clients", time.Hour, 7)
	other := NewIssuer("secret", "voltshop", "other-audience", time.Hour, 7)

	signed, _, err := issuer.GenerateAccessToken(testUser(t))
	require.NoError(t, err)

	_, err = other.ParseAccessToken(signed)
	assert.Error(t, err)
}

func TestRefreshTokensAreUnique(t *testing.T) {
	issuer := NewIssuer("secret", "voltshop", "voltshop-clients", time.Hour, 7)
	assert.NotEqual(t, issuer.GenerateRefreshToken(), issuer.GenerateRefreshToken())
}

func TestRefreshExpiryUsesConfiguredDays(t *testing.T) {
	issuer := NewIssuer("secret", "voltshop", "voltshop-clients", time.Hour, 7)
	exp := issuer.RefreshExpiry()
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, 7), exp, 5*time.Second)
}

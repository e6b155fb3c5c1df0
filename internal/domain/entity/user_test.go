package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltshop/backend/internal/domain"
)

func mustEmail(t *testing.T, v string) Email {
	t.Helper()
	e, err := NewEmail(v)
	require.NoError(t, err)
	return e
}

func TestNewUserQueuesCreatedEvent(t *testing.T) {
	u, err := NewUser("alice", mustEmail(t, "alice@example.com"), "hash", "")
	require.NoError(t, err)

	events := u.DomainEvents()
	require.Len(t, events, 1)
	created, ok := events[0].(UserCreated)
	require.True(t, ok)
	assert.Equal(t, u.ID(), created.UserID)
	assert.Equal(t, "alice", created.Username)
	assert.Equal(t, "identity.user.created", created.EventName())

	u.ClearDomainEvents()
	assert.Empty(t, u.DomainEvents())
}

func TestNewUserValidation(t *testing.T) {
	_, err := NewUser("  ", mustEmail(t, "a@example.com"), "hash", "")
	assert.True(t, domain.IsValidation(err), "blank username must be a validation error")

	_, err = NewUser("bob", mustEmail(t, "a@example.com"), "", "")
	assert.True(t, domain.IsValidation(err), "empty password hash must be a validation error")
}

func TestRehydrateRaisesNoEvents(t *testing.T) {
	u := RehydrateUser("id-1", "alice", mustEmail(t, "a@example.com"), "hash", "",
		true, false, false, true, nil, 0, time.Now())
	assert.Empty(t, u.DomainEvents())
}

func TestAddRoleIsIdempotent(t *testing.T) {
	u, err := NewUser("alice", mustEmail(t, "a@example.com"), "hash", "")
	require.NoError(t, err)

	role, err := NewRole("User")
	require.NoError(t, err)

	u.AddRole(role)
	u.AddRole(role)
	assert.Equal(t, []string{"User"}, u.RoleNames())
}

func TestConfirmEmailTwiceFails(t *testing.T) {
	u, err := NewUser("alice", mustEmail(t, "a@example.com"), "hash", "")
	require.NoError(t, err)

	require.NoError(t, u.ConfirmEmail())
	assert.True(t, u.EmailConfirmed())
	assert.Error(t, u.ConfirmEmail())
}

func TestRevokeRefreshToken(t *testing.T) {
	u, err := NewUser("alice", mustEmail(t, "a@example.com"), "hash", "")
	require.NoError(t, err)

	rt, err := u.AddRefreshToken("tok-1", "test-agent", "127.0.0.1", time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, rt.IsActive())

	require.NoError(t, u.RevokeRefreshToken("tok-1"))
	assert.False(t, rt.IsActive())

	assert.ErrorIs(t, u.RevokeRefreshToken("tok-1"), domain.ErrRevokedToken)
	assert.ErrorIs(t, u.RevokeRefreshToken("missing"), domain.ErrInvalidToken)
}

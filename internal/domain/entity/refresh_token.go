package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/voltshop/backend/internal/domain"
)

// RefreshToken is a single-use opaque credential owned by a User. It is
// revoked on rotation or logout and retained afterwards for session
// listing; it is never deleted or re-activated.
type RefreshToken struct {
	ID          string
	Token       string
	DeviceInfo  string
	CreatedByIP string
	ExpiresAt   time.Time
	CreatedAt   time.Time
	RevokedAt   *time.Time
	UserID      string
}

// NewRefreshToken validates and builds a token for a user. The expiry must
// be in the future.
func NewRefreshToken(userID, token, deviceInfo, createdByIP string, expiresAt time.Time) (*RefreshToken, error) {
	if token == "" {
		return nil, domain.NewValidationError("token", "token cannot be empty")
	}
	if !expiresAt.After(time.Now()) {
		return nil, domain.NewValidationError("expires_at", "expiry must be in the future")
	}
	return &RefreshToken{
		ID:          uuid.NewString(),
		Token:       token,
		DeviceInfo:  deviceInfo,
		CreatedByIP: createdByIP,
		ExpiresAt:   expiresAt,
		CreatedAt:   time.Now().UTC(),
		UserID:      userID,
	}, nil
}

// IsExpired reports whether the token is past its expiry.
func (t *RefreshToken) IsExpired() bool {
	return !time.Now().Before(t.ExpiresAt)
}

// IsActive reports whether the token is neither revoked nor expired.
func (t *RefreshToken) IsActive() bool {
	return t.RevokedAt == nil && !t.IsExpired()
}

// Revoke marks the token revoked. Revoking twice is a domain error.
func (t *RefreshToken) Revoke() error {
	if t.RevokedAt != nil {
		return domain.ErrRevokedToken
	}
	now := time.Now().UTC()
	t.RevokedAt = &now
	return nil
}

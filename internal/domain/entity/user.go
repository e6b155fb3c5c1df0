package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/voltshop/backend/internal/domain"
)

// User is the aggregate root for the identity domain. State is unexported
// and changed only through named operations; the repository rehydrates it
// via RehydrateUser. Users are never physically deleted.
type User struct {
	id             string
	username       string
	email          Email
	passwordHash   string
	phoneNumber    string
	emailConfirmed bool
	phoneConfirmed bool
	twoFactor      bool
	lockoutEnabled bool
	lockoutEnd     *time.Time
	accessFailed   int
	createdAt      time.Time

	roles         []*Role
	refreshTokens []*RefreshToken
	events        []DomainEvent
}

// NewUser is the factory for the aggregate. It validates username and
// password hash, and queues a UserCreated event.
func NewUser(username string, email Email, passwordHash, phoneNumber string) (*User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, domain.NewValidationError("username", "username cannot be empty")
	}
	if passwordHash == "" {
		return nil, domain.NewValidationError("password", "password hash cannot be empty")
	}
	u := &User{
		id:             uuid.NewString(),
		username:       username,
		email:          email,
		passwordHash:   passwordHash,
		phoneNumber:    phoneNumber,
		lockoutEnabled: true,
		createdAt:      time.Now().UTC(),
	}
	u.events = append(u.events, UserCreated{
		UserID:   u.id,
		Username: u.username,
		Email:    email.String(),
		At:       time.Now().UTC(),
	})
	return u, nil
}

// RehydrateUser rebuilds the aggregate from storage. No events are raised.
func RehydrateUser(id, username string, email Email, passwordHash, phoneNumber string,
	emailConfirmed, phoneConfirmed, twoFactor, lockoutEnabled bool,
	lockoutEnd *time.Time, accessFailed int, createdAt time.Time) *User {
	return &User{
		id:             id,
		username:       username,
		email:          email,
		passwordHash:   passwordHash,
		phoneNumber:    phoneNumber,
		emailConfirmed: emailConfirmed,
		phoneConfirmed: phoneConfirmed,
		twoFactor:      twoFactor,
		lockoutEnabled: lockoutEnabled,
		lockoutEnd:     lockoutEnd,
		accessFailed:   accessFailed,
		createdAt:      createdAt,
	}
}

func (u *User) ID() string              { return u.id }
func (u *User) Username() string        { return u.username }
func (u *User) Email() Email            { return u.email }
func (u *User) PasswordHash() string    { return u.passwordHash }
func (u *User) PhoneNumber() string     { return u.phoneNumber }
func (u *User) EmailConfirmed() bool    { return u.emailConfirmed }
func (u *User) PhoneConfirmed() bool    { return u.phoneConfirmed }
func (u *User) TwoFactorEnabled() bool  { return u.twoFactor }
func (u *User) LockoutEnabled() bool    { return u.lockoutEnabled }
func (u *User) LockoutEnd() *time.Time  { return u.lockoutEnd }
func (u *User) AccessFailedCount() int  { return u.accessFailed }
func (u *User) CreatedAt() time.Time    { return u.createdAt }
func (u *User) Roles() []*Role          { return u.roles }
func (u *User) RefreshTokens() []*RefreshToken { return u.refreshTokens }

// RoleNames returns the names of assigned roles, in assignment order.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.roles))
	for _, r := range u.roles {
		names = append(names, r.Name)
	}
	return names
}

// ConfirmEmail marks the email confirmed. Confirming twice is an error.
func (u *User) ConfirmEmail() error {
	if u.emailConfirmed {
		return domain.NewValidationError("email", "email already confirmed")
	}
	u.emailConfirmed = true
	return nil
}

// AddRole assigns a role. Adding an already-held role is a no-op.
func (u *User) AddRole(role *Role) {
	for _, r := range u.roles {
		if r.ID == role.ID {
			return
		}
	}
	u.roles = append(u.roles, role)
}

// AddRefreshToken issues a refresh token bound to this user.
func (u *User) AddRefreshToken(token, deviceInfo, createdByIP string, expiresAt time.Time) (*RefreshToken, error) {
	rt, err := NewRefreshToken(u.id, token, deviceInfo, createdByIP, expiresAt)
	if err != nil {
		return nil, err
	}
	u.refreshTokens = append(u.refreshTokens, rt)
	return rt, nil
}

// AttachRefreshTokens is used by the repository when rehydrating.
func (u *User) AttachRefreshTokens(tokens []*RefreshToken) { u.refreshTokens = tokens }

// AttachRoles is used by the repository when rehydrating.
func (u *User) AttachRoles(roles []*Role) { u.roles = roles }

// RevokeRefreshToken revokes the token with the given value if held.
func (u *User) RevokeRefreshToken(token string) error {
	for _, rt := range u.refreshTokens {
		if rt.Token == token {
			return rt.Revoke()
		}
	}
	return domain.ErrInvalidToken
}

// DomainEvents returns the queued events in occurrence order.
func (u *User) DomainEvents() []DomainEvent { return u.events }

// ClearDomainEvents empties the queue after a successful dispatch.
func (u *User) ClearDomainEvents() { u.events = nil }

package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/voltshop/backend/internal/domain"
	"github.com/voltshop/backend/internal/domain/entity"
	"github.com/voltshop/backend/internal/domain/repository"
	"github.com/voltshop/backend/pkg/passhash"
	"github.com/voltshop/backend/pkg/tokens"
)

// IdentityService orchestrates registration, login and the refresh-token
// lifecycle: issuance, mandatory rotation on use, revocation.
type IdentityService struct {
	Users       repository.UserRepository
	Roles       repository.RoleRepository
	Tokens      repository.RefreshTokenRepository
	Issuer      *tokens.Issuer
	Events      EventDispatcher
	Logger      *logrus.Logger
	DefaultRole string
}

func NewIdentityService(
	users repository.UserRepository,
	roles repository.RoleRepository,
	refreshTokens repository.RefreshTokenRepository,
	issuer *tokens.Issuer,
	events EventDispatcher,
	logger *logrus.Logger,
	defaultRole string,
) *IdentityService {
	if events == nil {
		events = NopDispatcher{}
	}
	return &IdentityService{
		Users:       users,
		Roles:       roles,
		Tokens:      refreshTokens,
		Issuer:      issuer,
		Events:      events,
		Logger:      logger,
		DefaultRole: defaultRole,
	}
}

// UserProjection is the public view of a registered user.
type UserProjection struct {
	ID             string   `json:"id"`
	Username       string   `json:"username"`
	Email          string   `json:"email"`
	PhoneNumber    string   `json:"phoneNumber,omitempty"`
	EmailConfirmed bool     `json:"emailConfirmed"`
	Roles          []string `json:"roles"`
}

// TokenPair carries one access/refresh issuance.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// Session is the administrative view of one refresh token.
type Session struct {
	Token      string     `json:"refreshToken"`
	DeviceInfo string     `json:"deviceInfo,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	ExpiresAt  time.Time  `json:"expiresAt"`
	RevokedAt  *time.Time `json:"revokedAt,omitempty"`
	Active     bool       `json:"active"`
}

// Register creates a user with the default role assigned when it exists.
// Duplicate usernames or emails (email match is case-insensitive) fail
// with domain.ErrConflict; a lost race on insert surfaces the same way
// via the store's unique indexes.
func (s *IdentityService) Register(ctx context.Context, username, email, password, phoneNumber string) (*UserProjection, error) {
	addr, err := entity.NewEmail(email)
	if err != nil {
		return nil, err
	}
	taken, err := s.Users.Exists(ctx, username, addr.Normalized())
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrConflict
	}

	hash, err := passhash.Hash(password)
	if err != nil {
		return nil, domain.NewValidationError("password", "password cannot be empty")
	}
	user, err := entity.NewUser(username, addr, hash, phoneNumber)
	if err != nil {
		return nil, err
	}

	role, err := s.Roles.GetByName(ctx, s.DefaultRole)
	switch {
	case err == nil:
		user.AddRole(role)
	case errors.Is(err, domain.ErrNotFound):
		// no default role seeded yet; registration proceeds without one
	default:
		return nil, err
	}

	if err := s.Users.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.Events.Dispatch(ctx, user.DomainEvents()); err != nil {
		// The user is persisted; losing the event must not undo that.
		s.Logger.WithError(err).WithField("user_id", user.ID()).Warn("domain event dispatch failed")
	}
	user.ClearDomainEvents()

	return projectionOf(user), nil
}

// Login verifies credentials against the stored hash and issues a fresh
// access/refresh pair. Unknown accounts and wrong passwords both yield
// domain.ErrAuthentication.
func (s *IdentityService) Login(ctx context.Context, usernameOrEmail, password, deviceInfo, clientIP string) (*TokenPair, error) {
	user, err := s.Users.GetByLogin(ctx, usernameOrEmail)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrAuthentication
		}
		return nil, err
	}
	if !passhash.Verify(user.PasswordHash(), password) {
		return nil, domain.ErrAuthentication
	}
	return s.issuePair(ctx, user, deviceInfo, clientIP)
}

// Refresh rotates a refresh token: the presented token is revoked and a
// replacement carrying its device info and creator IP is issued in one
// storage transaction. At most one active token descends from any refresh
// event; a concurrent second use loses the conditional revoke and fails.
func (s *IdentityService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	current, err := s.Tokens.Get(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	if current.RevokedAt != nil {
		return nil, domain.ErrRevokedToken
	}
	if current.IsExpired() {
		if err := s.Tokens.Revoke(ctx, current.Token); err != nil && !errors.Is(err, domain.ErrRevokedToken) {
			return nil, err
		}
		return nil, domain.ErrExpiredToken
	}

	user, err := s.Users.GetByID(ctx, current.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}

	replacement, err := entity.NewRefreshToken(
		user.ID(),
		s.Issuer.GenerateRefreshToken(),
		current.DeviceInfo,
		current.CreatedByIP,
		s.Issuer.RefreshExpiry(),
	)
	if err != nil {
		return nil, err
	}
	if err := s.Tokens.Rotate(ctx, current.Token, replacement); err != nil {
		return nil, err
	}

	access, accessExp, err := s.Issuer.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     replacement.Token,
		RefreshExpiresAt: replacement.ExpiresAt,
	}, nil
}

// Logout revokes the presented refresh token. Missing and already-revoked
// tokens both fail with domain.ErrInvalidToken.
func (s *IdentityService) Logout(ctx context.Context, refreshToken string) error {
	current, err := s.Tokens.Get(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidToken
		}
		return err
	}
	if !current.IsActive() {
		return domain.ErrInvalidToken
	}
	if err := s.Tokens.Revoke(ctx, current.Token); err != nil {
		if errors.Is(err, domain.ErrRevokedToken) {
			return domain.ErrInvalidToken
		}
		return err
	}
	return nil
}

// GetSessions lists every refresh token (active or not) held by a user.
func (s *IdentityService) GetSessions(ctx context.Context, userID string) ([]Session, error) {
	if _, err := s.Users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	records, err := s.Tokens.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sessions := make([]Session, 0, len(records))
	for _, t := range records {
		sessions = append(sessions, Session{
			Token:      t.Token,
			DeviceInfo: t.DeviceInfo,
			CreatedAt:  t.CreatedAt,
			ExpiresAt:  t.ExpiresAt,
			RevokedAt:  t.RevokedAt,
			Active:     t.IsActive(),
		})
	}
	return sessions, nil
}

// RevokeSession revokes one refresh token owned by the given user.
func (s *IdentityService) RevokeSession(ctx context.Context, userID, refreshToken string) error {
	current, err := s.Tokens.Get(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidToken
		}
		return err
	}
	if current.UserID != userID {
		return domain.ErrInvalidToken
	}
	return s.Tokens.Revoke(ctx, current.Token)
}

// The remaining identity interface members are intentionally unbuilt; they
// keep their shape and answer with domain.ErrNotImplemented.

func (s *IdentityService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	return domain.ErrNotImplemented
}

func (s *IdentityService) SetupTwoFactor(ctx context.Context, userID string) error {
	return domain.ErrNotImplemented
}

func (s *IdentityService) VerifyTwoFactor(ctx context.Context, userID, code string) error {
	return domain.ErrNotImplemented
}

func (s *IdentityService) VerifyEmail(ctx context.Context, userID, code string) error {
	return domain.ErrNotImplemented
}

func (s *IdentityService) VerifyPhone(ctx context.Context, userID, code string) error {
	return domain.ErrNotImplemented
}

func (s *IdentityService) ExternalLogin(ctx context.Context, provider, token string) error {
	return domain.ErrNotImplemented
}

func (s *IdentityService) GetProfile(ctx context.Context, userID string) (*UserProjection, error) {
	return nil, domain.ErrNotImplemented
}

func (s *IdentityService) UpdateProfile(ctx context.Context, userID, username, phoneNumber string) error {
	return domain.ErrNotImplemented
}

func (s *IdentityService) ForgotPassword(ctx context.Context, email string) error {
	return domain.ErrNotImplemented
}

func (s *IdentityService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return domain.ErrNotImplemented
}

func (s *IdentityService) CreateRole(ctx context.Context, name string) error {
	return domain.ErrNotImplemented
}

func (s *IdentityService) AssignRole(ctx context.Context, userID, roleName string) error {
	return domain.ErrNotImplemented
}

func (s *IdentityService) issuePair(ctx context.Context, user *entity.User, deviceInfo, clientIP string) (*TokenPair, error) {
	access, accessExp, err := s.Issuer.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, err := user.AddRefreshToken(s.Issuer.GenerateRefreshToken(), deviceInfo, clientIP, s.Issuer.RefreshExpiry())
	if err != nil {
		return nil, err
	}
	if err := s.Tokens.Add(ctx, refresh); err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh.Token,
		RefreshExpiresAt: refresh.ExpiresAt,
	}, nil
}

func projectionOf(u *entity.User) *UserProjection {
	return &UserProjection{
		ID:             u.ID(),
		Username:       u.Username(),
		Email:          u.Email().String(),
		PhoneNumber:    u.PhoneNumber(),
		EmailConfirmed: u.EmailConfirmed(),
		Roles:          u.RoleNames(),
	}
}

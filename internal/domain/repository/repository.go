package repository

import (
	"context"

	"github.com/voltshop/backend/internal/domain/entity"
)

// UserRepository persists the User aggregate. Lookups return
// domain.ErrNotFound for absent rows; other failures wrap the storage
// error and surface as 500-class.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetByLogin matches either the exact username or the email.
	GetByLogin(ctx context.Context, usernameOrEmail string) (*entity.User, error)
	// Exists reports whether the username or the email is already taken.
	Exists(ctx context.Context, username, email string) (bool, error)
	// Create inserts the user with its role links in one transaction.
	Create(ctx context.Context, u *entity.User) error
	Update(ctx context.Context, u *entity.User) error
}

// RoleRepository persists roles. Name lookups use the normalized
// (upper-cased) name.
type RoleRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Role, error)
	GetByName(ctx context.Context, name string) (*entity.Role, error)
	List(ctx context.Context) ([]*entity.Role, error)
	Create(ctx context.Context, r *entity.Role) error
}

// RefreshTokenRepository persists refresh tokens. Revocation is
// conditional on the row still being unrevoked, so two concurrent
// attempts on one token value yield exactly one success.
type RefreshTokenRepository interface {
	Get(ctx context.Context, token string) (*entity.RefreshToken, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.RefreshToken, error)
	Add(ctx context.Context, t *entity.RefreshToken) error
	// Revoke marks the token revoked iff it is not already; returns
	// domain.ErrRevokedToken when the conditional update hits no row.
	Revoke(ctx context.Context, token string) error
	// Rotate revokes old and inserts replacement atomically.
	Rotate(ctx context.Context, oldToken string, replacement *entity.RefreshToken) error
}

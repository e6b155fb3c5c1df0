package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voltshop/backend/internal/domain"
	"github.com/voltshop/backend/internal/domain/entity"
	"github.com/voltshop/backend/internal/domain/repository"
)

const uniqueViolation = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, username, email, password_hash, phone_number,
	email_confirmed, phone_confirmed, two_factor_enabled,
	lockout_enabled, lockout_end, access_failed_count, created_at`

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
}

func (r *UserRepository) GetByLogin(ctx context.Context, usernameOrEmail string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1 OR lower(email) = lower($1)`, usernameOrEmail)
}

func (r *UserRepository) Exists(ctx context.Context, username, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM users WHERE username = $1 OR lower(email) = lower($2)
		)
	`, username, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user existence: %w", err)
	}
	return exists, nil
}

// Create inserts the user and its role links in one transaction. A unique
// index violation (a registration race the existence check missed) is
// reported as domain.ErrConflict.
func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create user: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, username, email, password_hash, phone_number,
			email_confirmed, phone_confirmed, two_factor_enabled,
			lockout_enabled, lockout_end, access_failed_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, u.ID(), u.Username(), u.Email().String(), u.PasswordHash(), u.PhoneNumber(),
		u.EmailConfirmed(), u.PhoneConfirmed(), u.TwoFactorEnabled(),
		u.LockoutEnabled(), u.LockoutEnd(), u.AccessFailedCount(), u.CreatedAt())
	if err != nil {
		return translateUnique(err, "insert user")
	}

	for _, role := range u.Roles() {
		if _, err := tx.Exec(ctx, `
			INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)
			ON CONFLICT (user_id, role_id) DO NOTHING
		`, u.ID(), role.ID); err != nil {
			return fmt.Errorf("link role: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $1, password_hash = $2, phone_number = $3,
			email_confirmed = $4, phone_confirmed = $5, two_factor_enabled = $6,
			lockout_enabled = $7, lockout_end = $8, access_failed_count = $9
		WHERE id = $10
	`, u.Email().String(), u.PasswordHash(), u.PhoneNumber(),
		u.EmailConfirmed(), u.PhoneConfirmed(), u.TwoFactorEnabled(),
		u.LockoutEnabled(), u.LockoutEnd(), u.AccessFailedCount(), u.ID())
	if err != nil {
		return translateUnique(err, "update user")
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var (
		id, username, email, passwordHash string
		phoneNumber                       *string
		emailConfirmed, phoneConfirmed    bool
		twoFactor, lockoutEnabled         bool
		lockoutEnd                        *time.Time
		accessFailed                      int
		createdAt                         time.Time
	)
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&id, &username, &email, &passwordHash, &phoneNumber,
		&emailConfirmed, &phoneConfirmed, &twoFactor,
		&lockoutEnabled, &lockoutEnd, &accessFailed, &createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}

	addr, err := entity.NewEmail(email)
	if err != nil {
		return nil, fmt.Errorf("stored email invalid for user %s: %w", id, err)
	}
	phone := ""
	if phoneNumber != nil {
		phone = *phoneNumber
	}
	user := entity.RehydrateUser(id, username, addr, passwordHash, phone,
		emailConfirmed, phoneConfirmed, twoFactor, lockoutEnabled,
		lockoutEnd, accessFailed, createdAt)

	roles, err := r.rolesFor(ctx, id)
	if err != nil {
		return nil, err
	}
	user.AttachRoles(roles)
	return user, nil
}

func (r *UserRepository) rolesFor(ctx context.Context, userID string) ([]*entity.Role, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.id, r.name, r.normalized_name, r.created_at
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query user roles: %w", err)
	}
	defer rows.Close()

	var roles []*entity.Role
	for rows.Next() {
		var (
			id, name, normalized string
			createdAt            time.Time
		)
		if err := rows.Scan(&id, &name, &normalized, &createdAt); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, entity.RehydrateRole(id, name, normalized, createdAt))
	}
	return roles, rows.Err()
}

func translateUnique(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrConflict
	}
	return fmt.Errorf("%s: %w", op, err)
}

var _ repository.UserRepository = (*UserRepository)(nil)

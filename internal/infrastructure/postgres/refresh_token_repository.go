package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voltshop/backend/internal/domain"
	"github.com/voltshop/backend/internal/domain/entity"
	"github.com/voltshop/backend/internal/domain/repository"
)

// RefreshTokenRepository serializes competing operations on one token
// value through conditional updates: a revoke only succeeds while
// revoked_at is still NULL, so concurrent rotations of the same token
// resolve to exactly one winner without in-process locking.
type RefreshTokenRepository struct {
	pool *pgxpool.Pool
}

func NewRefreshTokenRepository(pool *pgxpool.Pool) *RefreshTokenRepository {
	return &RefreshTokenRepository{pool: pool}
}

const tokenColumns = `id, token, user_id, device_info, created_by_ip, expires_at, created_at, revoked_at`

func (r *RefreshTokenRepository) Get(ctx context.Context, token string) (*entity.RefreshToken, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+tokenColumns+` FROM refresh_tokens WHERE token = $1`, token)
	t, err := scanToken(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *RefreshTokenRepository) ListByUser(ctx context.Context, userID string) ([]*entity.RefreshToken, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+tokenColumns+` FROM refresh_tokens WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query refresh tokens: %w", err)
	}
	defer rows.Close()

	var out []*entity.RefreshToken
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *RefreshTokenRepository) Add(ctx context.Context, t *entity.RefreshToken) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO refresh_tokens (id, token, user_id, device_info, created_by_ip, expires_at, created_at, revoked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, t.ID, t.Token, t.UserID, t.DeviceInfo, t.CreatedByIP, t.ExpiresAt, t.CreatedAt, t.RevokedAt)
	if err != nil {
		return translateUnique(err, "insert refresh token")
	}
	return nil
}

func (r *RefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE refresh_tokens SET revoked_at = now()
		WHERE token = $1 AND revoked_at IS NULL
	`, token)
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	if res.RowsAffected() == 0 {
		return domain.ErrRevokedToken
	}
	return nil
}

// Rotate revokes oldToken and inserts its replacement in one transaction.
// Losing the conditional revoke (already rotated elsewhere) fails the
// whole operation with domain.ErrRevokedToken; nothing is inserted.
func (r *RefreshTokenRepository) Rotate(ctx context.Context, oldToken string, replacement *entity.RefreshToken) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin rotate: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	res, err := tx.Exec(ctx, `
		UPDATE refresh_tokens SET revoked_at = now()
		WHERE token = $1 AND revoked_at IS NULL
	`, oldToken)
	if err != nil {
		return fmt.Errorf("rotate revoke: %w", err)
	}
	if res.RowsAffected() == 0 {
		return domain.ErrRevokedToken
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO refresh_tokens (id, token, user_id, device_info, created_by_ip, expires_at, created_at, revoked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, replacement.ID, replacement.Token, replacement.UserID, replacement.DeviceInfo,
		replacement.CreatedByIP, replacement.ExpiresAt, replacement.CreatedAt, replacement.RevokedAt)
	if err != nil {
		return translateUnique(err, "rotate insert")
	}

	return tx.Commit(ctx)
}

func scanToken(row rowScanner) (*entity.RefreshToken, error) {
	var (
		t          entity.RefreshToken
		deviceInfo *string
		createdBy  *string
		revokedAt  *time.Time
	)
	err := row.Scan(&t.ID, &t.Token, &t.UserID, &deviceInfo, &createdBy,
		&t.ExpiresAt, &t.CreatedAt, &revokedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan refresh token: %w", err)
	}
	if deviceInfo != nil {
		t.DeviceInfo = *deviceInfo
	}
	if createdBy != nil {
		t.CreatedByIP = *createdBy
	}
	t.RevokedAt = revokedAt
	return &t, nil
}

var _ repository.RefreshTokenRepository = (*RefreshTokenRepository)(nil)

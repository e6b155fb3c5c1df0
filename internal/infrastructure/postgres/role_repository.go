package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voltshop/backend/internal/domain"
	"github.com/voltshop/backend/internal/domain/entity"
	"github.com/voltshop/backend/internal/domain/repository"
)

type RoleRepository struct {
	pool *pgxpool.Pool
}

func NewRoleRepository(pool *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{pool: pool}
}

func (r *RoleRepository) GetByID(ctx context.Context, id string) (*entity.Role, error) {
	return r.getOne(ctx, `SELECT id, name, normalized_name, created_at FROM roles WHERE id = $1`, id)
}

// GetByName matches on the normalized (upper-cased) name, so lookups are
// case-insensitive.
func (r *RoleRepository) GetByName(ctx context.Context, name string) (*entity.Role, error) {
	return r.getOne(ctx,
		`SELECT id, name, normalized_name, created_at FROM roles WHERE normalized_name = $1`,
		strings.ToUpper(name))
}

func (r *RoleRepository) List(ctx context.Context) ([]*entity.Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, normalized_name, created_at FROM roles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query roles: %w", err)
	}
	defer rows.Close()

	var roles []*entity.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *RoleRepository) Create(ctx context.Context, role *entity.Role) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO roles (id, name, normalized_name, created_at)
		VALUES ($1, $2, $3, $4)
	`, role.ID, role.Name, role.NormalizedName, role.CreatedAt)
	if err != nil {
		return translateUnique(err, "insert role")
	}
	return nil
}

func (r *RoleRepository) getOne(ctx context.Context, query string, arg any) (*entity.Role, error) {
	role, err := scanRole(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return role, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRole(row rowScanner) (*entity.Role, error) {
	var (
		id, name, normalized string
		createdAt            time.Time
	)
	if err := row.Scan(&id, &name, &normalized, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan role: %w", err)
	}
	return entity.RehydrateRole(id, name, normalized, createdAt), nil
}

var _ repository.RoleRepository = (*RoleRepository)(nil)

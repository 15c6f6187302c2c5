package roles

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chronicle-cms/chronicle/internal/hierarchy"
	"github.com/chronicle-cms/chronicle/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListRoles returns all roles in level order.
func (r *Repository) ListRoles(ctx context.Context) ([]hierarchy.Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, level, created_at, updated_at FROM roles ORDER BY level`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []hierarchy.Role
	for rows.Next() {
		var role hierarchy.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Level, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return roles, nil
}

// FindRole fetches a role by ID.
func (r *Repository) FindRole(ctx context.Context, id int64) (*hierarchy.Role, error) {
	var role hierarchy.Role
	err := r.pool.QueryRow(ctx, `SELECT id, name, level, created_at, updated_at FROM roles WHERE id = $1`, id).
		Scan(&role.ID, &role.Name, &role.Level, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

// ListUserRoles returns the roles granted to a user, duplicates included.
func (r *Repository) ListUserRoles(ctx context.Context, userID int64) ([]hierarchy.Role, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.id, r.name, r.level, r.created_at, r.updated_at
		FROM user_roles ur
		JOIN roles r ON r.id = ur.role_id
		WHERE ur.user_id = $1
		ORDER BY ur.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []hierarchy.Role
	for rows.Next() {
		var role hierarchy.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Level, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return roles, nil
}

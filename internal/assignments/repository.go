package assignments

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListAssignments returns assignments whose role level is at or below
// maxLevel, in creation order.
func (r *Repository) ListAssignments(ctx context.Context, maxLevel int) ([]Assignment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT ur.id, ur.user_id, ur.role_id, r.level, ur.created_at
		FROM user_roles ur
		JOIN roles r ON r.id = ur.role_id
		WHERE r.level <= $1
		ORDER BY ur.id`, maxLevel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var assignments []Assignment
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.ID, &a.UserID, &a.RoleID, &a.RoleLevel, &a.CreatedAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assignments, nil
}

// GetAssignment fetches an assignment with its role level.
func (r *Repository) GetAssignment(ctx context.Context, id int64) (*Assignment, error) {
	var a Assignment
	err := r.pool.QueryRow(ctx, `
		SELECT ur.id, ur.user_id, ur.role_id, r.level, ur.created_at
		FROM user_roles ur
		JOIN roles r ON r.id = ur.role_id
		WHERE ur.id = $1`, id).Scan(&a.ID, &a.UserID, &a.RoleID, &a.RoleLevel, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// CreateAssignment inserts a new assignment. Foreign key violations map to
// ErrUnprocessable since they mean the request named a user or role that no
// longer resolves.
func (r *Repository) CreateAssignment(ctx context.Context, userID, roleID int64) (*Assignment, error) {
	var a Assignment
	err := r.pool.QueryRow(ctx, `
		INSERT INTO user_roles (user_id, role_id)
		VALUES ($1, $2)
		RETURNING id, user_id, role_id, created_at`, userID, roleID).
		Scan(&a.ID, &a.UserID, &a.RoleID, &a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, fmt.Errorf("%w: %s", ErrUnprocessable, pgErr.ConstraintName)
		}
		return nil, err
	}
	return &a, nil
}

// DeleteAssignment removes an assignment by ID. Returns ErrNotFound when
// nothing was deleted.
func (r *Repository) DeleteAssignment(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM user_roles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)

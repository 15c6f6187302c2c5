// Package roles exposes the persisted role catalog.
package roles

import (
	"context"

	"github.com/chronicle-cms/chronicle/internal/hierarchy"
)

// RepositoryPort defines data access methods for roles.
type RepositoryPort interface {
	ListRoles(ctx context.Context) ([]hierarchy.Role, error)
	FindRole(ctx context.Context, id int64) (*hierarchy.Role, error)
}

// Service handles role business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListRoles returns all roles.
func (s *Service) ListRoles(ctx context.Context) ([]hierarchy.Role, error) {
	return s.repo.ListRoles(ctx)
}

// FindRole fetches a role by ID.
func (s *Service) FindRole(ctx context.Context, id int64) (*hierarchy.Role, error) {
	return s.repo.FindRole(ctx, id)
}

package assignments

import (
	"context"
	"errors"
	"fmt"

	"github.com/chronicle-cms/chronicle/internal/hierarchy"
	"github.com/chronicle-cms/chronicle/internal/shared"
)

// RepositoryPort defines data access methods for role assignments.
type RepositoryPort interface {
	ListAssignments(ctx context.Context, maxLevel int) ([]Assignment, error)
	GetAssignment(ctx context.Context, id int64) (*Assignment, error)
	CreateAssignment(ctx context.Context, userID, roleID int64) (*Assignment, error)
	DeleteAssignment(ctx context.Context, id int64) error
}

// RolePort resolves persisted roles for grant checks.
type RolePort interface {
	FindRole(ctx context.Context, id int64) (*hierarchy.Role, error)
}

// UserPort resolves grant targets.
type UserPort interface {
	UserExists(ctx context.Context, id int64) (bool, error)
}

// CreateInput carries a decoded grant request. Zero identifiers are a
// request-shape defect, rejected before any privilege comparison.
type CreateInput struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
	RoleID int64 `json:"role_id" validate:"required,gt=0"`
}

// Service applies the visibility and privilege rules around the repository.
// It is stateless: every decision re-reads the authoritative data through
// its ports and nothing is cached across calls.
type Service struct {
	repo  RepositoryPort
	roles RolePort
	users UserPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, roles RolePort, users UserPort) *Service {
	return &Service{repo: repo, roles: roles, users: users}
}

// List returns the assignments the actor is permitted to perceive, in
// creation order. Actors without listing capability are rejected outright.
func (s *Service) List(ctx context.Context, actor hierarchy.Actor) ([]Assignment, error) {
	if !CanList(actor) {
		return nil, ErrForbidden
	}
	return s.repo.ListAssignments(ctx, ScopeLevel(actor))
}

// Get fetches a single assignment. A record outside the actor's scope is
// reported exactly like a record that does not exist.
func (s *Service) Get(ctx context.Context, actor hierarchy.Actor, id int64) (*Assignment, error) {
	assignment, err := s.repo.GetAssignment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !Visible(actor, assignment.RoleLevel) {
		return nil, ErrNotFound
	}
	return assignment, nil
}

// Create grants a role to a user. Authentication is a precondition, request
// shape is validated before privilege, and the grant itself requires the
// target role's level to sit at or below the actor's effective level.
func (s *Service) Create(ctx context.Context, actor hierarchy.Actor, in CreateInput) (*Assignment, error) {
	if !actor.Authenticated {
		return nil, ErrUnauthenticated
	}
	if in.UserID <= 0 || in.RoleID <= 0 {
		return nil, fmt.Errorf("%w: user_id and role_id are required", ErrUnprocessable)
	}
	role, err := s.roles.FindRole(ctx, in.RoleID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("%w: role %d does not exist", ErrUnprocessable, in.RoleID)
		}
		return nil, err
	}
	exists, err := s.users.UserExists(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: user %d does not exist", ErrUnprocessable, in.UserID)
	}
	if !CanGrant(actor, role.Level) {
		return nil, ErrForbidden
	}
	assignment, err := s.repo.CreateAssignment(ctx, in.UserID, in.RoleID)
	if err != nil {
		return nil, err
	}
	assignment.RoleLevel = role.Level
	return assignment, nil
}

// Delete revokes an assignment. Scope is checked before privilege, so a
// record the actor cannot perceive yields not-found even when privilege
// would otherwise have allowed the revocation.
func (s *Service) Delete(ctx context.Context, actor hierarchy.Actor, id int64) error {
	if !actor.Authenticated {
		return ErrUnauthenticated
	}
	assignment, err := s.repo.GetAssignment(ctx, id)
	if err != nil {
		return err
	}
	if !Visible(actor, assignment.RoleLevel) {
		return ErrNotFound
	}
	if !CanRevoke(actor, assignment.RoleLevel) {
		return ErrForbidden
	}
	return s.repo.DeleteAssignment(ctx, id)
}

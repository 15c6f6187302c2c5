package auth

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/chronicle-cms/chronicle/internal/hierarchy"
	"github.com/chronicle-cms/chronicle/internal/shared"
)

// RoleSource loads the role set granted to a user.
type RoleSource interface {
	ListUserRoles(ctx context.Context, userID int64) ([]hierarchy.Role, error)
}

// ActorResolver produces a fully-resolved actor from the request session.
// The role set is loaded fresh on every resolution so privilege changes
// take effect on the next request.
type ActorResolver struct {
	roles  RoleSource
	logger *slog.Logger
}

// NewActorResolver constructs an ActorResolver.
func NewActorResolver(roles RoleSource, logger *slog.Logger) *ActorResolver {
	return &ActorResolver{roles: roles, logger: logger}
}

// ResolveActor returns the acting identity for the request context. Requests
// without a session user resolve to the guest sentinel.
func (a *ActorResolver) ResolveActor(ctx context.Context) (hierarchy.Actor, error) {
	sess := shared.SessionFromContext(ctx)
	if sess == nil {
		return hierarchy.Guest(), nil
	}
	raw := strings.TrimSpace(sess.User())
	if raw == "" {
		return hierarchy.Guest(), nil
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		if a.logger != nil {
			a.logger.Error("parse session user id", slog.String("value", raw))
		}
		return hierarchy.Guest(), nil
	}
	roles, err := a.roles.ListUserRoles(ctx, userID)
	if err != nil {
		return hierarchy.Guest(), err
	}
	return hierarchy.Actor{UserID: userID, Roles: roles, Authenticated: true}, nil
}

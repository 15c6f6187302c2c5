package users_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/chronicle-cms/chronicle/internal/hierarchy"
	"github.com/chronicle-cms/chronicle/internal/users"
	_ "github.com/chronicle-cms/chronicle/testing"
)

type fixedActorSource struct {
	actor hierarchy.Actor
}

func (f *fixedActorSource) ResolveActor(ctx context.Context) (hierarchy.Actor, error) {
	return f.actor, nil
}

type staticUsers struct{}

func (staticUsers) ListUsers(ctx context.Context) ([]users.User, error) {
	return []users.User{
		{ID: 1, Email: "admin@example.com", Name: "Admin", IsActive: true, CreatedAt: time.Now().UTC()},
	}, nil
}

func listUsersAs(t *testing.T, actor hierarchy.Actor) *httptest.ResponseRecorder {
	t.Helper()
	handler := users.NewHandler(slog.Default(), users.NewService(staticUsers{}), &fixedActorSource{actor: actor})
	router := chi.NewRouter()
	router.Route("/users", handler.MountRoutes)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/users", nil))
	return res
}

func TestListUsersStatuses(t *testing.T) {
	t.Run("guest gets unauthorized", func(t *testing.T) {
		res := listUsersAs(t, hierarchy.Guest())
		assert.Equal(t, http.StatusUnauthorized, res.Code)
	})

	t.Run("non-admin gets forbidden", func(t *testing.T) {
		actor := hierarchy.Actor{
			UserID:        7,
			Authenticated: true,
			Roles:         []hierarchy.Role{{ID: 2, Name: hierarchy.RoleManager, Level: hierarchy.ManagerLevel}},
		}
		res := listUsersAs(t, actor)
		assert.Equal(t, http.StatusForbidden, res.Code)
	})

	t.Run("admin gets directory", func(t *testing.T) {
		actor := hierarchy.Actor{
			UserID:        1,
			Authenticated: true,
			Roles:         []hierarchy.Role{{ID: 3, Name: hierarchy.RoleAdmin, Level: hierarchy.AdminLevel}},
		}
		res := listUsersAs(t, actor)
		assert.Equal(t, http.StatusOK, res.Code)
		assert.Contains(t, res.Body.String(), `"admin@example.com"`)
	})
}

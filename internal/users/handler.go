package users

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/chronicle-cms/chronicle/internal/assignments"
	"github.com/chronicle-cms/chronicle/internal/hierarchy"
	"github.com/chronicle-cms/chronicle/internal/platform/httpx"
)

// Handler manages user directory endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	actors  assignments.ActorSource
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, actors assignments.ActorSource) *Handler {
	return &Handler{logger: logger, service: service, actors: actors}
}

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listUsers)
}

type userResource struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// The directory exposes account details, so it is restricted to admins.
func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actors.ResolveActor(r.Context())
	if err != nil {
		h.logger.Error("resolve actor", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if !actor.Authenticated {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
		return
	}
	if actor.EffectiveLevel() < hierarchy.AdminLevel {
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "insufficient privilege")
		return
	}
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("list users failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	resources := make([]userResource, 0, len(users))
	for _, user := range users {
		resources = append(resources, userResource{
			ID:        user.ID,
			Email:     user.Email,
			Name:      user.Name,
			IsActive:  user.IsActive,
			CreatedAt: user.CreatedAt,
		})
	}
	httpx.Data(w, http.StatusOK, resources)
}

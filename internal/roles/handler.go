package roles

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chronicle-cms/chronicle/internal/assignments"
	"github.com/chronicle-cms/chronicle/internal/platform/httpx"
)

// Handler manages role catalog endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	actors  assignments.ActorSource
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, actors assignments.ActorSource) *Handler {
	return &Handler{logger: logger, service: service, actors: actors}
}

// MountRoutes registers role routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listRoles)
}

type roleResource struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"`
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
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
	roles, err := h.service.ListRoles(r.Context())
	if err != nil {
		h.logger.Error("list roles failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	resources := make([]roleResource, 0, len(roles))
	for _, role := range roles {
		resources = append(resources, roleResource{ID: role.ID, Name: role.Name, Level: role.Level})
	}
	httpx.Data(w, http.StatusOK, resources)
}

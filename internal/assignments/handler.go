package assignments

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/chronicle-cms/chronicle/internal/hierarchy"
	"github.com/chronicle-cms/chronicle/internal/platform/httpx"
)

// ActorSource resolves the acting identity for a request.
type ActorSource interface {
	ResolveActor(ctx context.Context) (hierarchy.Actor, error)
}

// Handler manages the role assignment endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	actors    ActorSource
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, actors ActorSource) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		actors:    actors,
		validator: validator.New(),
	}
}

// MountRoutes registers assignment routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.show)
	r.Delete("/{id}", h.destroy)
}

type assignmentAttributes struct {
	UserID    int64     `json:"user_id"`
	RoleID    int64     `json:"role_id"`
	CreatedAt time.Time `json:"created_at"`
}

type assignmentResource struct {
	ID         int64                `json:"id"`
	Attributes assignmentAttributes `json:"attributes"`
}

func toResource(a Assignment) assignmentResource {
	return assignmentResource{
		ID: a.ID,
		Attributes: assignmentAttributes{
			UserID:    a.UserID,
			RoleID:    a.RoleID,
			CreatedAt: a.CreatedAt,
		},
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actors.ResolveActor(r.Context())
	if err != nil {
		h.logger.Error("resolve actor", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	assignments, err := h.service.List(r.Context(), actor)
	if err != nil {
		h.respondError(w, err)
		return
	}
	resources := make([]assignmentResource, 0, len(assignments))
	for _, a := range assignments {
		resources = append(resources, toResource(a))
	}
	httpx.Data(w, http.StatusOK, resources)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actors.ResolveActor(r.Context())
	if err != nil {
		h.logger.Error("resolve actor", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	assignment, err := h.service.Get(r.Context(), actor, pathID(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.Data(w, http.StatusOK, toResource(*assignment))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actors.ResolveActor(r.Context())
	if err != nil {
		h.logger.Error("resolve actor", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if !actor.Authenticated {
		h.respondError(w, ErrUnauthenticated)
		return
	}
	var in CreateInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Unprocessable Entity", "invalid request body")
		return
	}
	if err := h.validator.Struct(in); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Unprocessable Entity", "user_id and role_id are required")
		return
	}
	assignment, err := h.service.Create(r.Context(), actor, in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.Data(w, http.StatusCreated, toResource(*assignment))
}

func (h *Handler) destroy(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actors.ResolveActor(r.Context())
	if err != nil {
		h.logger.Error("resolve actor", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if err := h.service.Delete(r.Context(), actor, pathID(r)); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
	case errors.Is(err, ErrForbidden):
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "insufficient privilege")
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "")
	case errors.Is(err, ErrUnprocessable):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Unprocessable Entity", err.Error())
	default:
		h.logger.Error("assignment request failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

// pathID parses the id path parameter. Unparseable ids resolve to no stored
// record, which downstream reports as not-found after the authentication
// precondition has been applied.
func pathID(r *http.Request) int64 {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// Package handler is the HTTP entry adapter. It translates requests into
// lifecycle service calls and domain errors into HTTP responses, and applies
// no validation or authorization of its own; those rules live in the engine
// so the web and Discord adapters cannot drift apart.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"whitelist/internal/application/models"
	dErrors "whitelist/pkg/domain-errors"
	"whitelist/pkg/platform/httputil"
	"whitelist/pkg/requestcontext"
)

// Service defines the lifecycle operations the handler depends on.
type Service interface {
	Submit(ctx context.Context, req *models.SubmitApplicationRequest) (*models.Application, error)
	Review(ctx context.Context, id uuid.UUID, req *models.ReviewApplicationRequest) (*models.Application, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.Application, error)
	List(ctx context.Context, status models.Status) ([]*models.Application, error)
}

// Handler wires the application routes.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the application routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/applications", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleSubmit)
		r.Get("/{id}", h.handleGet)
		r.Patch("/{id}", h.handleReview)
		r.Delete("/{id}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	status := models.Status(r.URL.Query().Get("status"))
	apps, err := h.service.List(r.Context(), status)
	if err != nil {
		h.writeError(w, r, "list applications", err)
		return
	}
	if apps == nil {
		apps = []*models.Application{}
	}
	httputil.WriteJSON(w, http.StatusOK, apps)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	app, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "get application", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, app)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	app, err := h.service.Submit(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, "submit application", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, app)
}

func (h *Handler) handleReview(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req models.ReviewApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	app, err := h.service.Review(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, r, "review application", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, app)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, "delete application", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "application not found"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, "failed to "+op,
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
	} else {
		h.logger.WarnContext(ctx, op+" rejected",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
	}
	httputil.WriteError(w, err)
}

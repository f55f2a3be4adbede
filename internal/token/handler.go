package token

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	dErrors "whitelist/pkg/domain-errors"
	"whitelist/pkg/platform/httputil"
	"whitelist/pkg/requestcontext"
)

// Handler serves the small auth surface: requester echo and logout.
type Handler struct {
	manager *Manager
	logger  *slog.Logger
}

func NewHandler(manager *Manager, logger *slog.Logger) *Handler {
	return &Handler{manager: manager, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/auth/user", h.handleUser)
	r.Post("/auth/logout", h.handleLogout)
}

// handleUser echoes the authenticated requester, mirroring what the frontend
// needs to render the session.
func (h *Handler) handleUser(w http.ResponseWriter, r *http.Request) {
	requester := requestcontext.Requester(r.Context())
	if !requester.IsAuthenticated() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "not authenticated"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, requester)
}

// handleLogout revokes the presented token for the rest of its lifetime.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !requestcontext.Requester(ctx).IsAuthenticated() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "not authenticated"))
		return
	}
	if err := h.manager.RevokeByID(ctx, requestcontext.TokenID(ctx)); err != nil {
		h.logger.ErrorContext(ctx, "failed to revoke token",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "logout failed"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out successfully"})
}

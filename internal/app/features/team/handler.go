// internal/app/features/team/handler.go
package team

import (
	"net/http"

	"github.com/dalemusser/ministryhub/internal/app/store/remote"
	"github.com/dalemusser/ministryhub/internal/app/system/feeds"
	"github.com/dalemusser/ministryhub/internal/app/system/httpjson"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type Handler struct {
	Feeds   *feeds.Manager
	Gateway remote.Gateway
	Log     *zap.Logger
}

func NewHandler(mgr *feeds.Manager, gw remote.Gateway, logger *zap.Logger) *Handler {
	return &Handler{Feeds: mgr, Gateway: gw, Log: logger}
}

type activeRequest struct {
	Active bool `json:"active"`
}

// HandleList handles GET /team: the full roster, leaders and musicians
// alike.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.Feeds.ListRoster(r.Context())
	if err != nil {
		h.Log.Error("list roster", zap.Error(err))
		httpjson.Error(w, http.StatusServiceUnavailable, "Roster is unavailable.")
		return
	}
	httpjson.Write(w, http.StatusOK, users)
}

// HandleSetActive handles PUT /team/{id}/active: a leader verifies (or
// suspends) a member.
func (h *Handler) HandleSetActive(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req activeRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if _, err := h.Gateway.Upsert(r.Context(), remote.CollUsers, id, bson.M{"active": req.Active}); err != nil {
		h.Log.Error("set member active", zap.String("user_id", id), zap.Error(err))
		httpjson.Error(w, http.StatusServiceUnavailable, "Could not update the member.")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]bool{"active": req.Active})
}

// HandleRemove handles DELETE /team/{id}: a leader removes a member
// from the roster. The credential record is untouched; a later sign-in
// re-synthesizes a default musician entry.
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Gateway.Delete(r.Context(), remote.CollUsers, id); err != nil {
		h.Log.Error("remove member", zap.String("user_id", id), zap.Error(err))
		httpjson.Error(w, http.StatusServiceUnavailable, "Could not remove the member.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

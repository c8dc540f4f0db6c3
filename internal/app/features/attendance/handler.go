// internal/app/features/attendance/handler.go
package attendance

import (
	"net/http"

	"github.com/dalemusser/ministryhub/internal/app/system/auth"
	"github.com/dalemusser/ministryhub/internal/app/system/confirm"
	"github.com/dalemusser/ministryhub/internal/app/system/httpjson"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Service confirm.Service
	Log     *zap.Logger
}

func NewHandler(svc confirm.Service, logger *zap.Logger) *Handler {
	return &Handler{Service: svc, Log: logger}
}

type statusResponse struct {
	EventID   string `json:"event_id"`
	UserID    string `json:"user_id"`
	Confirmed bool   `json:"confirmed"`
}

// HandleStatus handles GET /attendance/{eventID}: the signed-in user's
// confirmation for one event. Never-confirmed reads as false.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	eventID := chi.URLParam(r, "eventID")

	confirmed, err := h.Service.Read(r.Context(), eventID, u.ID)
	if err != nil {
		h.Log.Error("read confirmation",
			zap.String("event_id", eventID), zap.String("user_id", u.ID), zap.Error(err))
		httpjson.Error(w, http.StatusServiceUnavailable, "Attendance is unavailable.")
		return
	}
	httpjson.Write(w, http.StatusOK, statusResponse{EventID: eventID, UserID: u.ID, Confirmed: confirmed})
}

// HandleToggle handles POST /attendance/{eventID}/toggle: flips the
// signed-in user's confirmation and returns the new state.
func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	eventID := chi.URLParam(r, "eventID")

	confirmed, err := h.Service.Toggle(r.Context(), eventID, u.ID)
	if err != nil {
		h.Log.Error("toggle confirmation",
			zap.String("event_id", eventID), zap.String("user_id", u.ID), zap.Error(err))
		httpjson.Error(w, http.StatusServiceUnavailable, "Could not record attendance.")
		return
	}
	httpjson.Write(w, http.StatusOK, statusResponse{EventID: eventID, UserID: u.ID, Confirmed: confirmed})
}

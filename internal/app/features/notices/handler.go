// internal/app/features/notices/handler.go
package notices

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/ministryhub/internal/app/system/httpjson"
	"github.com/dalemusser/ministryhub/internal/app/system/notify"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Bus *notify.Bus
	Log *zap.Logger
}

func NewHandler(bus *notify.Bus, logger *zap.Logger) *Handler {
	return &Handler{Bus: bus, Log: logger}
}

// HandleList handles GET /notices: the current feed snapshot plus the
// unread count.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	httpjson.Write(w, http.StatusOK, notify.Update{
		Notifications: h.Bus.Notifications(),
		Unread:        h.Bus.UnreadCount(),
	})
}

// HandleMarkRead handles POST /notices/{id}/read. The read flag is
// shared by all clients.
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Bus.MarkRead(r.Context(), id); err != nil {
		h.Log.Error("mark notification read", zap.String("id", id), zap.Error(err))
		httpjson.Error(w, http.StatusServiceUnavailable, "Could not update the notification.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleStream handles GET /notices/stream: a server-sent event stream
// of feed updates. The current state is sent immediately, then one
// event per change until the client disconnects.
func (h *Handler) HandleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		httpjson.Error(w, http.StatusInternalServerError, "Streaming is not supported.")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	updates := make(chan notify.Update, 8)
	cancel := h.Bus.Watch(func(u notify.Update) {
		select {
		case updates <- u:
		default:
			// Slow client; it gets the next full snapshot instead.
		}
	})
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case u := <-updates:
			payload, err := json.Marshal(u)
			if err != nil {
				h.Log.Error("encode notification update", zap.Error(err))
				continue
			}
			if _, err := w.Write([]byte("data: ")); err != nil {
				return
			}
			if _, err := w.Write(payload); err != nil {
				return
			}
			if _, err := w.Write([]byte("\n\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// internal/app/features/calendar/handler.go
package calendar

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/ministryhub/internal/app/store/remote"
	"github.com/dalemusser/ministryhub/internal/app/system/auth"
	"github.com/dalemusser/ministryhub/internal/app/system/feeds"
	"github.com/dalemusser/ministryhub/internal/app/system/httpjson"
	"github.com/dalemusser/ministryhub/internal/app/system/notify"
	"github.com/dalemusser/ministryhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type Handler struct {
	Feeds    *feeds.Manager
	Gateway  remote.Gateway
	Bus      *notify.Bus
	Log      *zap.Logger
	sanitize *bluemonday.Policy
}

func NewHandler(mgr *feeds.Manager, gw remote.Gateway, bus *notify.Bus, logger *zap.Logger) *Handler {
	return &Handler{
		Feeds:    mgr,
		Gateway:  gw,
		Bus:      bus,
		Log:      logger,
		sanitize: bluemonday.StrictPolicy(),
	}
}

type saveRequest struct {
	ID      string   `json:"id,omitempty"`
	Title   string   `json:"title"`
	Date    string   `json:"date"`
	Time    string   `json:"time"`
	Kind    string   `json:"kind"`
	Notes   string   `json:"notes,omitempty"`
	SongIDs []string `json:"song_ids,omitempty"`
}

func (req *saveRequest) validate() error {
	if req.Title == "" {
		return fmt.Errorf("title is required")
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD")
	}
	if _, err := time.Parse("15:04", req.Time); err != nil {
		return fmt.Errorf("time must be HH:MM")
	}
	switch req.Kind {
	case models.EventRehearsal, models.EventService, models.EventActivity:
	default:
		return fmt.Errorf("unknown event kind %q", req.Kind)
	}
	return nil
}

// HandleList handles GET /calendar: all events, date ascending.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	events, err := h.Feeds.ListEvents(r.Context())
	if err != nil {
		h.Log.Error("list events", zap.Error(err))
		httpjson.Error(w, http.StatusServiceUnavailable, "Calendar is unavailable.")
		return
	}
	httpjson.Write(w, http.StatusOK, events)
}

// HandleSave handles POST /calendar: create (empty id) or edit an
// event, then announce it to the musicians' feed.
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	var req saveRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := req.validate(); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	fields := bson.M{
		"title":     h.sanitize.Sanitize(req.Title),
		"date":      req.Date,
		"time":      req.Time,
		"kind":      req.Kind,
		"notes":     h.sanitize.Sanitize(req.Notes),
		"song_ids":  req.SongIDs,
		"timestamp": time.Now().UTC(),
	}
	creating := req.ID == ""
	if creating {
		fields["created_by"] = u.ID
	}

	id, err := h.Gateway.Upsert(r.Context(), remote.CollEvents, req.ID, fields)
	if err != nil {
		h.Log.Error("save event", zap.Error(err))
		httpjson.Error(w, http.StatusServiceUnavailable, "Could not save the event.")
		return
	}

	kind := models.NotifyEdit
	verb := "updated"
	if creating {
		kind = models.NotifyCreate
		verb = "added"
	}
	h.Bus.Publish(kind,
		fmt.Sprintf("%s %s %q on %s", u.Name, verb, req.Title, req.Date),
		models.AudienceMusicians)

	httpjson.Write(w, http.StatusOK, map[string]string{"id": id})
}

// HandleDelete handles DELETE /calendar/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	id := chi.URLParam(r, "id")

	// Fetch the title first so the announcement names the event.
	title := ""
	if events, err := h.Feeds.ListEvents(r.Context()); err == nil {
		for _, ev := range events {
			if ev.ID == id {
				title = ev.Title
				break
			}
		}
	}

	if err := h.Gateway.Delete(r.Context(), remote.CollEvents, id); err != nil {
		h.Log.Error("delete event", zap.String("event_id", id), zap.Error(err))
		httpjson.Error(w, http.StatusServiceUnavailable, "Could not delete the event.")
		return
	}

	msg := fmt.Sprintf("%s removed an event", u.Name)
	if title != "" {
		msg = fmt.Sprintf("%s removed %q from the calendar", u.Name, title)
	}
	h.Bus.Publish(models.NotifyDelete, msg, models.AudienceMusicians)

	w.WriteHeader(http.StatusNoContent)
}

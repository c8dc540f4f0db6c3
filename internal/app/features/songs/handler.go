// internal/app/features/songs/handler.go
package songs

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
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title"`
	Artist      string   `json:"artist"`
	Key         string   `json:"key"`
	Link        string   `json:"link,omitempty"`
	Weekday     string   `json:"weekday,omitempty"`
	MusicianIDs []string `json:"musician_ids,omitempty"`
}

func (req *saveRequest) validate() error {
	if req.Title == "" {
		return fmt.Errorf("title is required")
	}
	switch req.Weekday {
	case "", models.WeekdayThursday, models.WeekdaySunday:
	default:
		return fmt.Errorf("weekday must be thursday or sunday")
	}
	return nil
}

// HandleList handles GET /songs: the catalog, most recent first.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.Feeds.ListSongs(r.Context())
	if err != nil {
		h.Log.Error("list songs", zap.Error(err))
		httpjson.Error(w, http.StatusServiceUnavailable, "Song catalog is unavailable.")
		return
	}
	httpjson.Write(w, http.StatusOK, list)
}

// HandleSave handles POST /songs: create (empty id) or edit a catalog
// entry, then announce it.
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
		"title":        h.sanitize.Sanitize(req.Title),
		"artist":       h.sanitize.Sanitize(req.Artist),
		"key":          h.sanitize.Sanitize(req.Key),
		"link":         req.Link,
		"weekday":      req.Weekday,
		"musician_ids": req.MusicianIDs,
		"timestamp":    time.Now().UTC(),
	}
	creating := req.ID == ""
	if creating {
		fields["created_by"] = u.ID
	}

	id, err := h.Gateway.Upsert(r.Context(), remote.CollSongs, req.ID, fields)
	if err != nil {
		h.Log.Error("save song", zap.Error(err))
		httpjson.Error(w, http.StatusServiceUnavailable, "Could not save the song.")
		return
	}

	kind := models.NotifyEdit
	verb := "updated"
	if creating {
		kind = models.NotifyCreate
		verb = "added"
	}
	h.Bus.Publish(kind,
		fmt.Sprintf("%s %s the song %q", u.Name, verb, req.Title),
		models.AudienceMusicians)

	httpjson.Write(w, http.StatusOK, map[string]string{"id": id})
}

// HandleDelete handles DELETE /songs/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	id := chi.URLParam(r, "id")

	title := ""
	if list, err := h.Feeds.ListSongs(r.Context()); err == nil {
		for _, s := range list {
			if s.ID == id {
				title = s.Title
				break
			}
		}
	}

	if err := h.Gateway.Delete(r.Context(), remote.CollSongs, id); err != nil {
		h.Log.Error("delete song", zap.String("song_id", id), zap.Error(err))
		httpjson.Error(w, http.StatusServiceUnavailable, "Could not delete the song.")
		return
	}

	msg := fmt.Sprintf("%s removed a song", u.Name)
	if title != "" {
		msg = fmt.Sprintf("%s removed the song %q", u.Name, title)
	}
	h.Bus.Publish(models.NotifyDelete, msg, models.AudienceMusicians)

	w.WriteHeader(http.StatusNoContent)
}

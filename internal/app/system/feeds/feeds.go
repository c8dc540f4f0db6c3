// internal/app/system/feeds/feeds.go
package feeds

import (
	"context"
	"sort"

	"github.com/dalemusser/ministryhub/internal/app/store/remote"
	"github.com/dalemusser/ministryhub/internal/app/system/normalize"
	"github.com/dalemusser/ministryhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Feed ordering and caps. The notification cap is enforced by the
// query, not by client-side trimming.
const notificationCap = 50

// Manager opens live queries on the shared collections and republishes
// them as typed snapshots. Every callback receives the full current
// state; consumers replace, never merge. Each subscription must be torn
// down with its CancelFunc when the consumer goes away.
type Manager struct {
	gw  remote.Gateway
	log *zap.Logger
}

// New creates a subscription manager over gw.
func New(gw remote.Gateway, logger *zap.Logger) *Manager {
	return &Manager{gw: gw, log: logger}
}

// Roster subscribes to the user roster. Roles are canonicalized here so
// downstream code never sees raw role strings.
func (m *Manager) Roster(fn func([]models.User)) remote.CancelFunc {
	return m.gw.Subscribe(remote.CollUsers, remote.Query{}, func(snap remote.Snapshot) {
		users := decodeAll[models.User](m, remote.CollUsers, snap)
		for i := range users {
			users[i].Role = normalize.Role(users[i].Role)
		}
		fn(users)
	})
}

// Events subscribes to calendar events, ordered by date ascending.
func (m *Manager) Events(fn func([]models.CalendarEvent)) remote.CancelFunc {
	q := remote.Query{OrderBy: "date"}
	return m.gw.Subscribe(remote.CollEvents, q, func(snap remote.Snapshot) {
		fn(decodeAll[models.CalendarEvent](m, remote.CollEvents, snap))
	})
}

// Songs subscribes to the song catalog, most recent first.
func (m *Manager) Songs(fn func([]models.Song)) remote.CancelFunc {
	q := remote.Query{OrderBy: "timestamp", Descending: true}
	return m.gw.Subscribe(remote.CollSongs, q, func(snap remote.Snapshot) {
		fn(decodeAll[models.Song](m, remote.CollSongs, snap))
	})
}

// Notifications subscribes to the activity feed, most recent first,
// capped at the 50 newest.
func (m *Manager) Notifications(fn func([]models.Notification)) remote.CancelFunc {
	q := remote.Query{OrderBy: "timestamp", Descending: true, Limit: notificationCap}
	return m.gw.Subscribe(remote.CollNotifications, q, func(snap remote.Snapshot) {
		fn(decodeAll[models.Notification](m, remote.CollNotifications, snap))
	})
}

// Confirmations subscribes to shared attendance confirmations, keyed by
// composite key.
func (m *Manager) Confirmations(fn func(map[string]models.Confirmation)) remote.CancelFunc {
	return m.gw.Subscribe(remote.CollConfirmations, remote.Query{}, func(snap remote.Snapshot) {
		recs := decodeAll[models.Confirmation](m, remote.CollConfirmations, snap)
		byKey := make(map[string]models.Confirmation, len(recs))
		for _, c := range recs {
			byKey[c.ID] = c
		}
		fn(byKey)
	})
}

// ListRoster reads the roster once, roles canonicalized, ordered by
// name.
func (m *Manager) ListRoster(ctx context.Context) ([]models.User, error) {
	snap, err := m.gw.GetAll(ctx, remote.CollUsers)
	if err != nil {
		return nil, err
	}
	users := decodeAll[models.User](m, remote.CollUsers, snap)
	for i := range users {
		users[i].Role = normalize.Role(users[i].Role)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

// ListEvents reads calendar events once, ordered by date ascending.
func (m *Manager) ListEvents(ctx context.Context) ([]models.CalendarEvent, error) {
	snap, err := m.gw.GetAll(ctx, remote.CollEvents)
	if err != nil {
		return nil, err
	}
	events := decodeAll[models.CalendarEvent](m, remote.CollEvents, snap)
	sort.Slice(events, func(i, j int) bool { return events[i].Date < events[j].Date })
	return events, nil
}

// ListSongs reads the song catalog once, most recent first.
func (m *Manager) ListSongs(ctx context.Context) ([]models.Song, error) {
	snap, err := m.gw.GetAll(ctx, remote.CollSongs)
	if err != nil {
		return nil, err
	}
	songs := decodeAll[models.Song](m, remote.CollSongs, snap)
	sort.Slice(songs, func(i, j int) bool { return songs[i].Timestamp.After(songs[j].Timestamp) })
	return songs, nil
}

// ListConfirmations reads shared attendance confirmations once, keyed
// by composite key.
func (m *Manager) ListConfirmations(ctx context.Context) (map[string]models.Confirmation, error) {
	snap, err := m.gw.GetAll(ctx, remote.CollConfirmations)
	if err != nil {
		return nil, err
	}
	recs := decodeAll[models.Confirmation](m, remote.CollConfirmations, snap)
	byKey := make(map[string]models.Confirmation, len(recs))
	for _, c := range recs {
		byKey[c.ID] = c
	}
	return byKey, nil
}

// decodeAll converts raw documents to typed records, skipping documents
// that fail to decode. A malformed document from another client should
// not take down the whole feed.
func decodeAll[T any](m *Manager, collection string, snap remote.Snapshot) []T {
	out := make([]T, 0, len(snap))
	for _, doc := range snap {
		var rec T
		raw, err := bson.Marshal(doc)
		if err == nil {
			err = bson.Unmarshal(raw, &rec)
		}
		if err != nil {
			m.log.Warn("skipping malformed document",
				zap.String("collection", collection), zap.Error(err))
			continue
		}
		out = append(out, rec)
	}
	return out
}

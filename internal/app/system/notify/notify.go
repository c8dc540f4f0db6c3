// internal/app/system/notify/notify.go
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/ministryhub/internal/app/store/remote"
	"github.com/dalemusser/ministryhub/internal/app/system/feeds"
	"github.com/dalemusser/ministryhub/internal/domain/models"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const writeTimeout = 10 * time.Second

// Update is one delivery to a bus watcher: the full feed plus the
// derived unread count.
type Update struct {
	Notifications []models.Notification `json:"notifications"`
	Unread        int                   `json:"unread"`
}

// Bus derives the activity feed and unread counter from the live
// notification subscription and exposes publish/mark-read. The unread
// count is recomputed from the current snapshot on every query, never
// tracked incrementally, so it cannot drift.
//
// The read flag is feed-global: marking a notification read marks it
// read for every connected client.
type Bus struct {
	gw       remote.Gateway
	log      *zap.Logger
	sanitize *bluemonday.Policy
	cancel   remote.CancelFunc

	mu       sync.RWMutex
	current  []models.Notification
	watchers map[int]func(Update)
	nextID   int
}

// New creates a bus and opens its live subscription. Call Close when
// the bus goes away.
func New(mgr *feeds.Manager, gw remote.Gateway, logger *zap.Logger) *Bus {
	b := &Bus{
		gw:       gw,
		log:      logger,
		sanitize: bluemonday.StrictPolicy(),
		watchers: make(map[int]func(Update)),
	}
	b.cancel = mgr.Notifications(b.apply)
	return b
}

// Close tears down the live subscription.
func (b *Bus) Close() {
	if b.cancel != nil {
		b.cancel()
	}
}

// apply replaces the held snapshot and fans out to watchers.
func (b *Bus) apply(ns []models.Notification) {
	b.mu.Lock()
	b.current = ns
	u := Update{Notifications: ns, Unread: countUnread(ns)}
	watchers := make([]func(Update), 0, len(b.watchers))
	for _, fn := range b.watchers {
		watchers = append(watchers, fn)
	}
	b.mu.Unlock()

	for _, fn := range watchers {
		fn(u)
	}
}

// Publish appends a notification with read=false and a server
// timestamp. It is fire-and-forget from the caller's point of view:
// failures are logged, not returned, and no local state is touched.
// The entry appears in the feed only once the store's own change
// notification comes back around.
func (b *Bus) Publish(kind, message, audience string) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	fields := bson.M{
		"kind":      kind,
		"message":   b.sanitize.Sanitize(message),
		"audience":  audience,
		"read":      false,
		"timestamp": time.Now().UTC(),
	}
	if _, err := b.gw.Upsert(ctx, remote.CollNotifications, "", fields); err != nil {
		b.log.Warn("publish notification failed",
			zap.String("kind", kind), zap.Error(err))
	}
}

// MarkRead sets read=true on one notification. Marking an already-read
// notification has no observable effect.
func (b *Bus) MarkRead(ctx context.Context, id string) error {
	_, err := b.gw.Upsert(ctx, remote.CollNotifications, id, bson.M{"read": true})
	return err
}

// Notifications returns the current feed snapshot.
func (b *Bus) Notifications() []models.Notification {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]models.Notification, len(b.current))
	copy(out, b.current)
	return out
}

// UnreadCount reports how many currently held notifications are unread.
func (b *Bus) UnreadCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return countUnread(b.current)
}

// Watch registers a callback for feed updates. The current state is
// delivered immediately; the returned CancelFunc stops deliveries.
func (b *Bus) Watch(fn func(Update)) remote.CancelFunc {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.watchers[id] = fn
	u := Update{Notifications: b.current, Unread: countUnread(b.current)}
	b.mu.Unlock()

	fn(u)

	return func() {
		b.mu.Lock()
		delete(b.watchers, id)
		b.mu.Unlock()
	}
}

func countUnread(ns []models.Notification) int {
	n := 0
	for _, notif := range ns {
		if !notif.Read {
			n++
		}
	}
	return n
}

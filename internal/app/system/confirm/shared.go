// internal/app/system/confirm/shared.go
package confirm

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/ministryhub/internal/app/store/remote"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// SharedStore keeps one remote document per composite key. Writes are
// upserts with a fresh server timestamp; other clients observe them
// through the live confirmation feed, which is the only supported way
// remote changes reach a reader. Concurrent toggles of the same key are
// last-write-wins.
type SharedStore struct {
	gw  remote.Gateway
	log *zap.Logger
}

// NewShared creates a shared-path store over gw.
func NewShared(gw remote.Gateway, logger *zap.Logger) *SharedStore {
	return &SharedStore{gw: gw, log: logger}
}

func (s *SharedStore) Toggle(ctx context.Context, eventID, userID string) (bool, error) {
	cur, err := s.Read(ctx, eventID, userID)
	if err != nil {
		return false, err
	}
	next := !cur

	fields := bson.M{
		"event_id":  eventID,
		"user_id":   userID,
		"confirmed": next,
		"timestamp": time.Now().UTC(),
	}
	if _, err := s.gw.Upsert(ctx, remote.CollConfirmations, Key(eventID, userID), fields); err != nil {
		return false, err
	}
	return next, nil
}

func (s *SharedStore) Read(ctx context.Context, eventID, userID string) (bool, error) {
	snap, err := s.gw.GetAll(ctx, remote.CollConfirmations)
	if err != nil {
		return false, err
	}

	key := Key(eventID, userID)
	for _, doc := range snap {
		if id, _ := doc["_id"].(string); id == key {
			confirmed, _ := doc["confirmed"].(bool)
			return confirmed, nil
		}
	}
	return false, nil
}

// MigrateLegacy copies every legacy blob entry into the shared store.
// It is a one-time step run at startup when the shared backend takes
// over; entries that already exist remotely are overwritten, matching
// last-write-wins. Returns how many entries were copied.
func MigrateLegacy(ctx context.Context, legacy *LegacyStore, gw remote.Gateway, logger *zap.Logger) (int, error) {
	entries, err := legacy.Entries()
	if err != nil {
		return 0, err
	}

	copied := 0
	now := time.Now().UTC()
	for key, confirmed := range entries {
		eventID, userID, ok := strings.Cut(key, "_")
		if !ok {
			logger.Warn("skipping malformed legacy confirmation key", zap.String("key", key))
			continue
		}
		fields := bson.M{
			"event_id":  eventID,
			"user_id":   userID,
			"confirmed": confirmed,
			"timestamp": now,
		}
		if _, err := gw.Upsert(ctx, remote.CollConfirmations, key, fields); err != nil {
			return copied, err
		}
		copied++
	}
	return copied, nil
}

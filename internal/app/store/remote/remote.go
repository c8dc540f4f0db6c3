// internal/app/store/remote/remote.go
package remote

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

// Collection names shared across the app.
const (
	CollUsers         = "users"
	CollEvents        = "events"
	CollSongs         = "songs"
	CollNotifications = "notifications"
	CollConfirmations = "confirmations"
)

// Snapshot is the full current state of a collection, delivered on
// every change. Consumers replace prior state with each snapshot; it is
// never a diff.
type Snapshot []bson.M

// SnapshotFunc receives snapshots from a live subscription.
type SnapshotFunc func(Snapshot)

// CancelFunc tears down a live subscription. After it returns, the
// subscription's SnapshotFunc is not invoked again. Safe to call more
// than once.
type CancelFunc func()

// Query describes the ordering and cap applied to a subscription's
// snapshots.
type Query struct {
	OrderBy    string // field to sort by; empty means unordered
	Descending bool
	Limit      int64 // 0 means no cap
}

// Gateway is the generic document-store surface the rest of the app is
// written against: named collections of documents keyed by opaque
// string ids, with ordered queries and live-update subscriptions.
//
// Subscribe never fails loudly: if the underlying store is unavailable
// it logs, returns a no-op CancelFunc, and the callback is simply never
// invoked. Write operations report their errors to the caller.
type Gateway interface {
	// GetAll returns the current contents of a collection.
	GetAll(ctx context.Context, collection string) (Snapshot, error)

	// Upsert creates a document when id is empty (returning the
	// generated id) and merges the given fields into the existing
	// document otherwise.
	Upsert(ctx context.Context, collection, id string, fields bson.M) (string, error)

	// Delete removes one document. Deleting a missing id is not an
	// error.
	Delete(ctx context.Context, collection, id string) error

	// Subscribe opens a live query. The callback receives the full
	// ordered snapshot immediately and again after every change to the
	// collection, until the returned CancelFunc is called.
	Subscribe(collection string, q Query, fn SnapshotFunc) CancelFunc
}

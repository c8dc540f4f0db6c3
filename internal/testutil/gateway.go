// internal/testutil/gateway.go
package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dalemusser/ministryhub/internal/app/store/remote"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// ErrGatewayDown is returned from FakeGateway writes when FailWrites is
// set, standing in for a transport error from the real store.
var ErrGatewayDown = errors.New("gateway unavailable")

// FakeGateway is an in-memory remote.Gateway for tests. Snapshot
// callbacks fire synchronously on every write, so tests observe live
// updates without sleeping.
type FakeGateway struct {
	mu          sync.Mutex
	colls       map[string]map[string]bson.M
	subs        map[int]*fakeSub
	nextSub     int
	FailWrites  bool // writes return ErrGatewayDown
	Unavailable bool // Subscribe degrades to a no-op cancel
}

type fakeSub struct {
	collection string
	query      remote.Query
	fn         remote.SnapshotFunc
}

// NewFakeGateway returns an empty in-memory gateway.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		colls: make(map[string]map[string]bson.M),
		subs:  make(map[int]*fakeSub),
	}
}

// Seed inserts a document without notifying subscribers. Use it to set
// up state before the code under test subscribes.
func (g *FakeGateway) Seed(collection, id string, fields bson.M) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.put(collection, id, fields)
}

// Count reports how many documents a collection holds.
func (g *FakeGateway) Count(collection string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.colls[collection])
}

func (g *FakeGateway) GetAll(ctx context.Context, collection string) (remote.Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.FailWrites {
		return nil, ErrGatewayDown
	}
	return g.snapshot(collection, remote.Query{}), nil
}

func (g *FakeGateway) Upsert(ctx context.Context, collection, id string, fields bson.M) (string, error) {
	g.mu.Lock()
	if g.FailWrites {
		g.mu.Unlock()
		return "", ErrGatewayDown
	}
	if id == "" {
		id = uuid.NewString()
	}
	g.put(collection, id, fields)
	g.mu.Unlock()

	g.broadcast(collection)
	return id, nil
}

func (g *FakeGateway) Delete(ctx context.Context, collection, id string) error {
	g.mu.Lock()
	if g.FailWrites {
		g.mu.Unlock()
		return ErrGatewayDown
	}
	delete(g.colls[collection], id)
	g.mu.Unlock()

	g.broadcast(collection)
	return nil
}

func (g *FakeGateway) Subscribe(collection string, q remote.Query, fn remote.SnapshotFunc) remote.CancelFunc {
	g.mu.Lock()
	if g.Unavailable {
		g.mu.Unlock()
		return func() {}
	}
	id := g.nextSub
	g.nextSub++
	g.subs[id] = &fakeSub{collection: collection, query: q, fn: fn}
	initial := g.snapshot(collection, q)
	g.mu.Unlock()

	fn(initial)

	return func() {
		g.mu.Lock()
		delete(g.subs, id)
		g.mu.Unlock()
	}
}

// put merges fields into an existing document or creates a new one.
func (g *FakeGateway) put(collection, id string, fields bson.M) {
	coll := g.colls[collection]
	if coll == nil {
		coll = make(map[string]bson.M)
		g.colls[collection] = coll
	}
	doc := coll[id]
	if doc == nil {
		doc = bson.M{}
		coll[id] = doc
	}
	for k, v := range fields {
		doc[k] = v
	}
	doc["_id"] = id
}

func (g *FakeGateway) broadcast(collection string) {
	g.mu.Lock()
	type delivery struct {
		fn   remote.SnapshotFunc
		snap remote.Snapshot
	}
	var out []delivery
	for _, s := range g.subs {
		if s.collection == collection {
			out = append(out, delivery{s.fn, g.snapshot(collection, s.query)})
		}
	}
	g.mu.Unlock()

	for _, d := range out {
		d.fn(d.snap)
	}
}

// snapshot builds an ordered, capped copy of a collection. Caller holds
// the lock.
func (g *FakeGateway) snapshot(collection string, q remote.Query) remote.Snapshot {
	snap := make(remote.Snapshot, 0, len(g.colls[collection]))
	for _, doc := range g.colls[collection] {
		copied := bson.M{}
		for k, v := range doc {
			copied[k] = v
		}
		snap = append(snap, copied)
	}

	if q.OrderBy != "" {
		sort.SliceStable(snap, func(i, j int) bool {
			less := fieldLess(snap[i][q.OrderBy], snap[j][q.OrderBy])
			if q.Descending {
				return !less && !fieldEqual(snap[i][q.OrderBy], snap[j][q.OrderBy])
			}
			return less
		})
	}
	if q.Limit > 0 && int64(len(snap)) > q.Limit {
		snap = snap[:q.Limit]
	}
	return snap
}

func fieldLess(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, _ := b.(string)
		return av < bv
	case time.Time:
		bv, _ := b.(time.Time)
		return av.Before(bv)
	case int:
		bv, _ := b.(int)
		return av < bv
	case int64:
		bv, _ := b.(int64)
		return av < bv
	case float64:
		bv, _ := b.(float64)
		return av < bv
	}
	return false
}

func fieldEqual(a, b any) bool {
	return !fieldLess(a, b) && !fieldLess(b, a)
}

// internal/app/store/remote/mongo.go
package remote

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoGateway implements Gateway on a MongoDB database. Documents use
// string _id values so externally supplied ids (auth subject ids,
// confirmation composite keys) pass through unchanged; generated ids
// are UUIDs.
//
// Subscriptions are backed by change streams: each collection event
// triggers a re-query of the full ordered snapshot, so callbacks always
// see current state rather than a diff.
type MongoGateway struct {
	db  *mongo.Database
	log *zap.Logger
}

// NewMongoGateway creates a gateway over db.
func NewMongoGateway(db *mongo.Database, logger *zap.Logger) *MongoGateway {
	return &MongoGateway{db: db, log: logger}
}

func (g *MongoGateway) GetAll(ctx context.Context, collection string) (Snapshot, error) {
	cur, err := g.db.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var snap Snapshot
	if err := cur.All(ctx, &snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (g *MongoGateway) Upsert(ctx context.Context, collection, id string, fields bson.M) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	opts := options.Update().SetUpsert(true)
	_, err := g.db.Collection(collection).UpdateOne(ctx,
		bson.M{"_id": id}, bson.M{"$set": fields}, opts)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (g *MongoGateway) Delete(ctx context.Context, collection, id string) error {
	_, err := g.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (g *MongoGateway) Subscribe(collection string, q Query, fn SnapshotFunc) CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())

	stream, err := g.db.Collection(collection).Watch(ctx, mongo.Pipeline{})
	if err != nil {
		// Store unavailable (or no replica set): degrade to no live
		// updates rather than failing the consumer.
		g.log.Warn("change stream unavailable, feed will stay empty",
			zap.String("collection", collection), zap.Error(err))
		cancel()
		return func() {}
	}

	go func() {
		defer stream.Close(context.Background())

		g.emit(ctx, collection, q, fn)
		for stream.Next(ctx) {
			g.emit(ctx, collection, q, fn)
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			g.log.Warn("change stream ended",
				zap.String("collection", collection), zap.Error(err))
		}
	}()

	return CancelFunc(cancel)
}

// emit re-queries the ordered snapshot and delivers it, unless the
// subscription has been cancelled.
func (g *MongoGateway) emit(ctx context.Context, collection string, q Query, fn SnapshotFunc) {
	opts := options.Find()
	if q.OrderBy != "" {
		dir := 1
		if q.Descending {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: q.OrderBy, Value: dir}})
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}

	cur, err := g.db.Collection(collection).Find(ctx, bson.M{}, opts)
	if err != nil {
		if ctx.Err() == nil {
			g.log.Warn("snapshot query failed",
				zap.String("collection", collection), zap.Error(err))
		}
		return
	}
	defer cur.Close(ctx)

	var snap Snapshot
	if err := cur.All(ctx, &snap); err != nil {
		g.log.Warn("snapshot decode failed",
			zap.String("collection", collection), zap.Error(err))
		return
	}
	if ctx.Err() != nil {
		return
	}
	fn(snap)
}

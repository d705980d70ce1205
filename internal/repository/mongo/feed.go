package mongo

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/techLii/chatobi/internal/live"
)

// changeEvent is the part of a change stream document the feed reads.
type changeEvent[T any] struct {
	OperationType string `bson:"operationType"`
	FullDocument  *T     `bson:"fullDocument"`
	DocumentKey   struct {
		ID primitive.ObjectID `bson:"_id"`
	} `bson:"documentKey"`
}

// watch opens a change stream on coll and translates it into live changes.
// Deletes carry no document, so tombstone builds one holding only the id.
// The returned channel is closed when ctx is done or the stream fails.
func watch[T any](ctx context.Context, coll *mongo.Collection, tombstone func(primitive.ObjectID) T) (<-chan live.Change[T], error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "operationType", Value: bson.D{
			{Key: "$in", Value: bson.A{"insert", "update", "replace", "delete"}},
		}}}}},
	}
	stream, err := coll.Watch(ctx, pipeline, options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", coll.Name(), err)
	}

	out := make(chan live.Change[T])
	go func() {
		defer close(out)
		defer stream.Close(context.Background())

		for stream.Next(ctx) {
			var ev changeEvent[T]
			if err := stream.Decode(&ev); err != nil {
				log.Printf("[mongo:%s] could not decode change: %v", coll.Name(), err)
				continue
			}
			change, ok := toChange(ev, tombstone)
			if !ok {
				continue
			}
			select {
			case out <- change:
			case <-ctx.Done():
				return
			}
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			log.Printf("[mongo:%s] change stream ended: %v", coll.Name(), err)
		}
	}()
	return out, nil
}

func toChange[T any](ev changeEvent[T], tombstone func(primitive.ObjectID) T) (live.Change[T], bool) {
	switch ev.OperationType {
	case "insert":
		if ev.FullDocument != nil {
			return live.Change[T]{Kind: live.Create, Doc: *ev.FullDocument}, true
		}
	case "update", "replace":
		// the document may be gone by the time it is looked up
		if ev.FullDocument != nil {
			return live.Change[T]{Kind: live.Update, Doc: *ev.FullDocument}, true
		}
	case "delete":
		return live.Change[T]{Kind: live.Delete, Doc: tombstone(ev.DocumentKey.ID)}, true
	}
	return live.Change[T]{}, false
}

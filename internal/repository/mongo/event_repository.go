package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/techLii/chatobi/internal/domain"
	"github.com/techLii/chatobi/internal/live"
)

// EventRepository handles database operations for constituency events.
type EventRepository struct {
	DB *mongo.Database
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{DB: db}
}

// CreateEvent inserts a new event and sets its id.
func (r *EventRepository) CreateEvent(ctx context.Context, event *domain.Event) error {
	res, err := r.DB.Collection(eventCollection).InsertOne(ctx, event)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		event.ID = id
	}
	return nil
}

// ListEventsByConstituency retrieves the events of a constituency ordered by
// start time.
func (r *EventRepository) ListEventsByConstituency(ctx context.Context, constituency string, limit int64) ([]*domain.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}}).SetLimit(limit)
	cursor, err := r.DB.Collection(eventCollection).Find(ctx, bson.M{"constituency": constituency}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*domain.Event
	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// DeleteEvent removes an event by id.
func (r *EventRepository) DeleteEvent(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}
	res, err := r.DB.Collection(eventCollection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// WatchEvents streams changes to the events collection.
func (r *EventRepository) WatchEvents(ctx context.Context) (<-chan live.Change[domain.Event], error) {
	return watch(ctx, r.DB.Collection(eventCollection), func(id primitive.ObjectID) domain.Event {
		return domain.Event{ID: id}
	})
}

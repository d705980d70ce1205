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

// DirectMessageRepository handles database operations for direct messages.
type DirectMessageRepository struct {
	DB *mongo.Database
}

// NewDirectMessageRepository creates a new DirectMessageRepository.
func NewDirectMessageRepository(db *mongo.Database) *DirectMessageRepository {
	return &DirectMessageRepository{DB: db}
}

// CreateDirectMessage inserts a new direct message and sets its id.
func (r *DirectMessageRepository) CreateDirectMessage(ctx context.Context, message *domain.DirectMessage) error {
	res, err := r.DB.Collection(directMessageCollection).InsertOne(ctx, message)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		message.ID = id
	}
	return nil
}

// GetMessagesByConversationID retrieves the first N messages of a
// conversation, oldest first.
func (r *DirectMessageRepository) GetMessagesByConversationID(ctx context.Context, conversationID string, limit int64) ([]*domain.DirectMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}).SetLimit(limit)
	cursor, err := r.DB.Collection(directMessageCollection).Find(ctx, bson.M{"conversation_id": conversationID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []*domain.DirectMessage
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// WatchDirectMessages streams changes to the direct messages collection.
func (r *DirectMessageRepository) WatchDirectMessages(ctx context.Context) (<-chan live.Change[domain.DirectMessage], error) {
	return watch(ctx, r.DB.Collection(directMessageCollection), func(id primitive.ObjectID) domain.DirectMessage {
		return domain.DirectMessage{ID: id}
	})
}

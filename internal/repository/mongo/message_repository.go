package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/techLii/chatobi/internal/domain"
	"github.com/techLii/chatobi/internal/live"
)

// MessageRepository handles database operations for chat messages.
type MessageRepository struct {
	DB *mongo.Database
}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{DB: db}
}

// CreateMessage inserts a new chat message and sets its id.
func (r *MessageRepository) CreateMessage(ctx context.Context, message *domain.Message) error {
	collection := r.DB.Collection(messageCollection)
	res, err := collection.InsertOne(ctx, message)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		message.ID = id
	}
	return nil
}

// ListMessagesByConstituency retrieves the last N messages of a constituency,
// newest first.
func (r *MessageRepository) ListMessagesByConstituency(ctx context.Context, constituency string, limit int64) ([]*domain.Message, error) {
	collection := r.DB.Collection(messageCollection)

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := collection.Find(ctx, bson.M{"constituency": constituency}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []*domain.Message
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// GetLatestMessageByAuthor retrieves the most recent message of a user.
func (r *MessageRepository) GetLatestMessageByAuthor(ctx context.Context, authorID string) (*domain.Message, error) {
	collection := r.DB.Collection(messageCollection)

	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	message := &domain.Message{}
	err := collection.FindOne(ctx, bson.M{"userId": authorID}, opts).Decode(message)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return message, nil
}

// SetVote moves one voter to the set matching dir, or out of both sets for
// VoteNone. Other voters are left untouched.
func (r *MessageRepository) SetVote(ctx context.Context, messageID, voterID string, dir domain.VoteDirection) error {
	id, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return domain.ErrNotFound
	}

	var update bson.M
	switch dir {
	case domain.VoteUp:
		update = bson.M{"$addToSet": bson.M{"upvotes": voterID}, "$pull": bson.M{"downvotes": voterID}}
	case domain.VoteDown:
		update = bson.M{"$addToSet": bson.M{"downvotes": voterID}, "$pull": bson.M{"upvotes": voterID}}
	default:
		update = bson.M{"$pull": bson.M{"upvotes": voterID, "downvotes": voterID}}
	}

	res, err := r.DB.Collection(messageCollection).UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// WatchMessages streams changes to the messages collection.
func (r *MessageRepository) WatchMessages(ctx context.Context) (<-chan live.Change[domain.Message], error) {
	return watch(ctx, r.DB.Collection(messageCollection), func(id primitive.ObjectID) domain.Message {
		return domain.Message{ID: id}
	})
}

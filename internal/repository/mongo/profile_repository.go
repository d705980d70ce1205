package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/techLii/chatobi/internal/domain"
)

// ProfileRepository handles database operations for user profiles.
type ProfileRepository struct {
	DB *mongo.Database
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

// GetProfileByUserID retrieves the profile of a user.
func (r *ProfileRepository) GetProfileByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	profile := &domain.Profile{}
	err := r.DB.Collection(profileCollection).FindOne(ctx, bson.M{"userId": userID}).Decode(profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return profile, nil
}

// UpsertProfile replaces the profile of the user, creating it if needed, and
// returns the stored document.
func (r *ProfileRepository) UpsertProfile(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	replacement := *profile
	replacement.ID = primitive.NilObjectID

	opts := options.FindOneAndReplace().SetUpsert(true).SetReturnDocument(options.After)
	saved := &domain.Profile{}
	err := r.DB.Collection(profileCollection).
		FindOneAndReplace(ctx, bson.M{"userId": profile.UserID}, replacement, opts).
		Decode(saved)
	if err != nil {
		return nil, err
	}
	return saved, nil
}

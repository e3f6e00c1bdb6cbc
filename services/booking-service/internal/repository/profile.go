package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/model"
)

// ProfileRepository defines the interface for mentor and mentee profile operations.
type ProfileRepository interface {
	// GetProfile retrieves the profile of a user.
	GetProfile(ctx context.Context, uid string) (*model.Profile, error)

	// ListProfilesByType retrieves all profiles of the given role in creation order.
	ListProfilesByType(ctx context.Context, userType model.UserType) ([]model.Profile, error)

	// UpsertProfile creates or replaces the profile of a user.
	UpsertProfile(ctx context.Context, profile *model.Profile) (*model.Profile, error)
}

const profileCollection = "mentorProgram"

type profileMongoRepository struct {
	db *mongo.Database
}

// NewProfileMongoRepository creates a new MongoDB repository for profiles.
func NewProfileMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) ProfileRepository {
	_, err := db.Collection(profileCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "type", Value: 1}, {Key: "created_at", Value: 1}},
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create profile indexes")
	}

	return &profileMongoRepository{db: db}
}

func (r *profileMongoRepository) GetProfile(ctx context.Context, uid string) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.Collection(profileCollection).FindOne(ctx, bson.M{"_id": uid}).Decode(&profile); err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *profileMongoRepository) ListProfilesByType(
	ctx context.Context,
	userType model.UserType,
) ([]model.Profile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.db.Collection(profileCollection).Find(ctx, bson.M{"type": userType}, opts)
	if err != nil {
		return nil, err
	}

	var profiles []model.Profile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}

	return profiles, nil
}

func (r *profileMongoRepository) UpsertProfile(ctx context.Context, profile *model.Profile) (*model.Profile, error) {
	now := time.Now()
	profile.UpdatedAt = now

	existing, err := r.GetProfile(ctx, profile.UID)
	switch {
	case err == nil:
		profile.CreatedAt = existing.CreatedAt
	case errors.Is(err, mongo.ErrNoDocuments):
		profile.CreatedAt = now
	default:
		return nil, err
	}

	_, err = r.db.Collection(profileCollection).ReplaceOne(
		ctx,
		bson.M{"_id": profile.UID},
		profile,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return nil, err
	}

	return profile, nil
}

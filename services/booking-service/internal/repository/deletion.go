package repository

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/model"
)

// DeletionRepository stores undo batches of bulk-deleted bookings.
type DeletionRepository interface {
	CreateBatch(ctx context.Context, batch *model.DeletionBatch) error
	GetBatch(ctx context.Context, id string) (*model.DeletionBatch, error)
	DeleteBatch(ctx context.Context, id string) error
}

const deletionCollection = "bookingDeletions"

type deletionMongoRepository struct {
	db *mongo.Database
}

// NewDeletionMongoRepository creates the repository. Batches are removed by a
// TTL index once they expire.
func NewDeletionMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) DeletionRepository {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0), // TTL index
		},
	}

	if _, err := db.Collection(deletionCollection).Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Fatal().Err(err).Msg("failed to create booking deletion indexes")
	}

	return &deletionMongoRepository{db: db}
}

func (r *deletionMongoRepository) CreateBatch(ctx context.Context, batch *model.DeletionBatch) error {
	_, err := r.db.Collection(deletionCollection).InsertOne(ctx, batch)
	return err
}

func (r *deletionMongoRepository) GetBatch(ctx context.Context, id string) (*model.DeletionBatch, error) {
	var batch model.DeletionBatch
	if err := r.db.Collection(deletionCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&batch); err != nil {
		return nil, err
	}

	return &batch, nil
}

func (r *deletionMongoRepository) DeleteBatch(ctx context.Context, id string) error {
	_, err := r.db.Collection(deletionCollection).DeleteOne(ctx, bson.M{"_id": id})
	return err
}

package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/model"
)

// DismissalRepository records Cal.com bookings a user removed from their list.
type DismissalRepository interface {
	Dismiss(ctx context.Context, userID, bookingID string) error
	ListDismissedIDs(ctx context.Context, userID string) (map[string]bool, error)
}

const dismissalCollection = "dismissedBookings"

type dismissalMongoRepository struct {
	db *mongo.Database
}

func NewDismissalMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) DismissalRepository {
	_, err := db.Collection(dismissalCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "booking_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create dismissed booking indexes")
	}

	return &dismissalMongoRepository{db: db}
}

func (r *dismissalMongoRepository) Dismiss(ctx context.Context, userID, bookingID string) error {
	filter := bson.M{"user_id": userID, "booking_id": bookingID}
	update := bson.M{"$setOnInsert": bson.M{"dismissed_at": time.Now()}}

	_, err := r.db.Collection(dismissalCollection).UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true))
	return err
}

func (r *dismissalMongoRepository) ListDismissedIDs(ctx context.Context, userID string) (map[string]bool, error) {
	cursor, err := r.db.Collection(dismissalCollection).Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}

	var dismissed []model.DismissedBooking
	if err := cursor.All(ctx, &dismissed); err != nil {
		return nil, err
	}

	ids := make(map[string]bool, len(dismissed))
	for _, d := range dismissed {
		ids[d.BookingID] = true
	}

	return ids, nil
}

package repository

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/model"
)

// FeedbackRepository defines the interface for session feedback operations.
type FeedbackRepository interface {
	// CreateFeedback inserts feedback. A second submission by the same giver for
	// the same booking fails with a duplicate key error.
	CreateFeedback(ctx context.Context, feedback *model.Feedback) (*model.Feedback, error)

	// ListFeedbackByBooking retrieves all feedback given for a booking.
	ListFeedbackByBooking(ctx context.Context, bookingID string) ([]model.Feedback, error)
}

const feedbackCollection = "feedback"

type feedbackMongoRepository struct {
	db *mongo.Database
}

func NewFeedbackMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) FeedbackRepository {
	_, err := db.Collection(feedbackCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "booking_id", Value: 1}, {Key: "giver_user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create feedback indexes")
	}

	return &feedbackMongoRepository{db: db}
}

func (r *feedbackMongoRepository) CreateFeedback(ctx context.Context, feedback *model.Feedback) (*model.Feedback, error) {
	if _, err := r.db.Collection(feedbackCollection).InsertOne(ctx, feedback); err != nil {
		return nil, err
	}

	return feedback, nil
}

func (r *feedbackMongoRepository) ListFeedbackByBooking(ctx context.Context, bookingID string) ([]model.Feedback, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: 1}})

	cursor, err := r.db.Collection(feedbackCollection).Find(ctx, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, err
	}

	var feedback []model.Feedback
	if err := cursor.All(ctx, &feedback); err != nil {
		return nil, err
	}

	return feedback, nil
}

package repository

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/model"
)

// BookingRepository defines the interface for booking-related database operations.
type BookingRepository interface {
	// CreateBooking inserts a new booking.
	CreateBooking(ctx context.Context, booking *model.Booking) (*model.Booking, error)

	// GetBooking retrieves a booking by id.
	GetBooking(ctx context.Context, id string) (*model.Booking, error)

	// ListBookingsForUser retrieves every booking where uid is the mentor or the mentee.
	ListBookingsForUser(ctx context.Context, uid string) ([]model.Booking, error)

	// ListBookingsByIDs retrieves the bookings with the given ids.
	ListBookingsByIDs(ctx context.Context, ids []string) ([]model.Booking, error)

	// UpdateStatus sets the status of a booking and returns the updated booking.
	UpdateStatus(ctx context.Context, id string, status model.BookingStatus) (*model.Booking, error)

	// SetMeeting stores the meeting link and calendar event of a booking.
	SetMeeting(ctx context.Context, id, meetLink, eventID string) (*model.Booking, error)

	// MarkFeedbackSubmitted records that the mentor or mentee has given feedback.
	MarkFeedbackSubmitted(ctx context.Context, id string, feedbackType model.FeedbackType) error

	// DeleteBooking removes a booking.
	DeleteBooking(ctx context.Context, id string) error

	// DeleteBookings removes the bookings with the given ids and returns how many were removed.
	DeleteBookings(ctx context.Context, ids []string) (int64, error)

	// RestoreBookings writes the given snapshots back, replacing any document with the same id.
	RestoreBookings(ctx context.Context, bookings []model.Booking) error
}

const bookingCollection = "bookings"

type bookingMongoRepository struct {
	db *mongo.Database
}

// NewBookingMongoRepository creates a new MongoDB repository for bookings.
func NewBookingMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) BookingRepository {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "mentor_id", Value: 1}, {Key: "session_date", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "mentee_id", Value: 1}, {Key: "session_date", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "calcom_booking_id", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}

	if _, err := db.Collection(bookingCollection).Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Fatal().Err(err).Msg("failed to create booking indexes")
	}

	return &bookingMongoRepository{db: db}
}

func (r *bookingMongoRepository) CreateBooking(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	if _, err := r.db.Collection(bookingCollection).InsertOne(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

func (r *bookingMongoRepository) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	var booking model.Booking
	if err := r.db.Collection(bookingCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&booking); err != nil {
		return nil, err
	}

	return &booking, nil
}

func (r *bookingMongoRepository) ListBookingsForUser(ctx context.Context, uid string) ([]model.Booking, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"mentor_id": uid},
		bson.M{"mentee_id": uid},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "session_date", Value: 1}, {Key: "start_time", Value: 1}})

	return r.find(ctx, filter, opts)
}

func (r *bookingMongoRepository) ListBookingsByIDs(ctx context.Context, ids []string) ([]model.Booking, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find())
}

func (r *bookingMongoRepository) find(
	ctx context.Context,
	filter bson.M,
	opts *options.FindOptionsBuilder,
) ([]model.Booking, error) {
	cursor, err := r.db.Collection(bookingCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var bookings []model.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *bookingMongoRepository) UpdateStatus(
	ctx context.Context,
	id string,
	status model.BookingStatus,
) (*model.Booking, error) {
	return r.update(ctx, id, bson.M{"$set": bson.M{"status": status}})
}

func (r *bookingMongoRepository) SetMeeting(ctx context.Context, id, meetLink, eventID string) (*model.Booking, error) {
	return r.update(ctx, id, bson.M{"$set": bson.M{"meet_link": meetLink, "event_id": eventID}})
}

func (r *bookingMongoRepository) MarkFeedbackSubmitted(
	ctx context.Context,
	id string,
	feedbackType model.FeedbackType,
) error {
	field := "feedback_submitted_mentee"
	if feedbackType == model.FeedbackTypeMentor {
		field = "feedback_submitted_mentor"
	}

	_, err := r.update(ctx, id, bson.M{"$set": bson.M{field: true}})
	return err
}

func (r *bookingMongoRepository) update(ctx context.Context, id string, update bson.M) (*model.Booking, error) {
	result := r.db.Collection(bookingCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var booking model.Booking
	if err := result.Decode(&booking); err != nil {
		return nil, err
	}

	return &booking, nil
}

func (r *bookingMongoRepository) DeleteBooking(ctx context.Context, id string) error {
	result, err := r.db.Collection(bookingCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}

func (r *bookingMongoRepository) DeleteBookings(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result, err := r.db.Collection(bookingCollection).DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}

	return result.DeletedCount, nil
}

func (r *bookingMongoRepository) RestoreBookings(ctx context.Context, bookings []model.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(bookings))
	for i := range bookings {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": bookings[i].ID}).
			SetReplacement(bookings[i]).
			SetUpsert(true))
	}

	_, err := r.db.Collection(bookingCollection).BulkWrite(ctx, models)
	return err
}

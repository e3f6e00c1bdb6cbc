package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/model"
)

// ErrSlotNotReserved is returned when the slot is missing or already taken.
var ErrSlotNotReserved = errors.New("slot not reserved")

// AvailabilityRepository defines the interface for mentor availability operations.
type AvailabilityRepository interface {
	// GetAvailability retrieves the availability document of a mentor.
	GetAvailability(ctx context.Context, mentorID string) (*model.MentorAvailability, error)

	// SetTimeSlots replaces all slots of a mentor.
	SetTimeSlots(ctx context.Context, mentorID string, slots []model.TimeSlot) (*model.MentorAvailability, error)

	// ReserveSlot flips an available slot to unavailable in a single conditional
	// update. It returns ErrSlotNotReserved when no available slot matched.
	ReserveSlot(ctx context.Context, mentorID, slotID string) error

	// ReleaseSlot marks a slot as available again.
	ReleaseSlot(ctx context.Context, mentorID, slotID string) error
}

const availabilityCollection = "mentorAvailability"

type availabilityMongoRepository struct {
	db *mongo.Database
}

func NewAvailabilityMongoRepository(db *mongo.Database) AvailabilityRepository {
	return &availabilityMongoRepository{db: db}
}

func (r *availabilityMongoRepository) GetAvailability(
	ctx context.Context,
	mentorID string,
) (*model.MentorAvailability, error) {
	var availability model.MentorAvailability
	err := r.db.Collection(availabilityCollection).FindOne(ctx, bson.M{"_id": mentorID}).Decode(&availability)
	if err != nil {
		return nil, err
	}

	return &availability, nil
}

func (r *availabilityMongoRepository) SetTimeSlots(
	ctx context.Context,
	mentorID string,
	slots []model.TimeSlot,
) (*model.MentorAvailability, error) {
	if slots == nil {
		slots = []model.TimeSlot{}
	}

	availability := &model.MentorAvailability{
		MentorID:    mentorID,
		TimeSlots:   slots,
		LastUpdated: time.Now(),
	}

	_, err := r.db.Collection(availabilityCollection).ReplaceOne(
		ctx,
		bson.M{"_id": mentorID},
		availability,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return nil, err
	}

	return availability, nil
}

func (r *availabilityMongoRepository) ReserveSlot(ctx context.Context, mentorID, slotID string) error {
	matched, err := r.setSlotAvailability(ctx, mentorID, bson.M{"id": slotID, "is_available": true}, false)
	if err != nil {
		return err
	}
	if !matched {
		return ErrSlotNotReserved
	}

	return nil
}

func (r *availabilityMongoRepository) ReleaseSlot(ctx context.Context, mentorID, slotID string) error {
	matched, err := r.setSlotAvailability(ctx, mentorID, bson.M{"id": slotID}, true)
	if err != nil {
		return err
	}
	if !matched {
		return mongo.ErrNoDocuments
	}

	return nil
}

func (r *availabilityMongoRepository) setSlotAvailability(
	ctx context.Context,
	mentorID string,
	slotMatch bson.M,
	available bool,
) (bool, error) {
	filter := bson.M{
		"_id":        mentorID,
		"time_slots": bson.M{"$elemMatch": slotMatch},
	}
	update := bson.M{
		"$set": bson.M{
			"time_slots.$.is_available": available,
			"last_updated":              time.Now(),
		},
	}

	result, err := r.db.Collection(availabilityCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}

	return result.MatchedCount > 0, nil
}

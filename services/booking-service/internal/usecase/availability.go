package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/model"
	"github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/repository"
)

const (
	weekViewDays = 7
	dateLayout   = "2006-01-02"
	clockLayout  = "15:04"
)

var (
	ErrNotMentor          = errors.New("only mentors can manage availability")
	ErrAvailabilityNotSet = errors.New("mentor availability not set")
	ErrInvalidTimeSlot    = errors.New("invalid time slot")
)

// WeekDay lists the open slots of one calendar day.
type WeekDay struct {
	Date    string           `json:"date"`
	Weekday string           `json:"weekday"`
	Slots   []model.TimeSlot `json:"slots"`
}

// WeekView is what a mentee chooses from when booking.
type WeekView struct {
	MentorID        string    `json:"mentorId"`
	AvailabilitySet bool      `json:"availabilitySet"`
	Days            []WeekDay `json:"days"`
}

// AvailabilityUsecase defines the business logic for mentor availability.
type AvailabilityUsecase interface {
	// SetAvailability replaces the caller's weekly slots. Slots without an id get one.
	SetAvailability(ctx context.Context, caller Caller, slots []model.TimeSlot) (*model.MentorAvailability, error)

	// GetAvailability returns all slots of a mentor.
	GetAvailability(ctx context.Context, mentorID string) (*model.MentorAvailability, error)

	// GetWeekView lists the available slots of the 7 calendar days starting at from.
	// A mentor without availability yields AvailabilitySet=false, not an error.
	GetWeekView(ctx context.Context, mentorID string, from time.Time) (*WeekView, error)
}

type availabilityUsecase struct {
	profileRepo      repository.ProfileRepository
	availabilityRepo repository.AvailabilityRepository
	location         *time.Location
}

// NewAvailabilityUsecase creates a new instance of AvailabilityUsecase.
func NewAvailabilityUsecase(
	profileRepo repository.ProfileRepository,
	availabilityRepo repository.AvailabilityRepository,
	location *time.Location,
) AvailabilityUsecase {
	return &availabilityUsecase{
		profileRepo:      profileRepo,
		availabilityRepo: availabilityRepo,
		location:         location,
	}
}

func (u *availabilityUsecase) SetAvailability(
	ctx context.Context,
	caller Caller,
	slots []model.TimeSlot,
) (*model.MentorAvailability, error) {
	profile, err := u.profileRepo.GetProfile(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	if profile.Type != model.UserTypeMentor {
		return nil, ErrNotMentor
	}

	normalized := make([]model.TimeSlot, 0, len(slots))
	seen := make(map[string]struct{}, len(slots))
	for _, slot := range slots {
		if err := validateTimeSlot(slot); err != nil {
			return nil, err
		}
		if slot.ID == "" {
			slot.ID = uuid.NewString()
		}
		if _, dup := seen[slot.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate slot id %q", ErrInvalidTimeSlot, slot.ID)
		}
		seen[slot.ID] = struct{}{}
		normalized = append(normalized, slot)
	}

	return u.availabilityRepo.SetTimeSlots(ctx, caller.UserID, normalized)
}

func (u *availabilityUsecase) GetAvailability(ctx context.Context, mentorID string) (*model.MentorAvailability, error) {
	availability, err := u.availabilityRepo.GetAvailability(ctx, mentorID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAvailabilityNotSet
		}
		return nil, err
	}

	return availability, nil
}

func (u *availabilityUsecase) GetWeekView(ctx context.Context, mentorID string, from time.Time) (*WeekView, error) {
	view := &WeekView{MentorID: mentorID, Days: []WeekDay{}}

	availability, err := u.availabilityRepo.GetAvailability(ctx, mentorID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return view, nil
		}
		return nil, err
	}
	view.AvailabilitySet = true

	from = from.In(u.location)
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, u.location)

	for i := range weekViewDays {
		date := start.AddDate(0, 0, i)
		weekday := date.Weekday().String()

		day := WeekDay{
			Date:    date.Format(dateLayout),
			Weekday: weekday,
			Slots:   []model.TimeSlot{},
		}
		for _, slot := range availability.TimeSlots {
			if slot.Day == weekday && slot.IsAvailable {
				day.Slots = append(day.Slots, slot)
			}
		}

		view.Days = append(view.Days, day)
	}

	return view, nil
}

func validateTimeSlot(slot model.TimeSlot) error {
	if _, ok := parseWeekday(slot.Day); !ok {
		return fmt.Errorf("%w: unknown day %q", ErrInvalidTimeSlot, slot.Day)
	}

	start, err := time.Parse(clockLayout, slot.StartTime)
	if err != nil {
		return fmt.Errorf("%w: start time %q is not HH:MM", ErrInvalidTimeSlot, slot.StartTime)
	}
	end, err := time.Parse(clockLayout, slot.EndTime)
	if err != nil {
		return fmt.Errorf("%w: end time %q is not HH:MM", ErrInvalidTimeSlot, slot.EndTime)
	}
	if !start.Before(end) {
		return fmt.Errorf("%w: start time must be before end time", ErrInvalidTimeSlot)
	}

	return nil
}

func parseWeekday(name string) (time.Weekday, bool) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if d.String() == name {
			return d, true
		}
	}
	return 0, false
}

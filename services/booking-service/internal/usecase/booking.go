package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/model"
	"github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/repository"
	"github.com/vasapolrittideah/mentorship-api/shared/calcom"
	"github.com/vasapolrittideah/mentorship-api/shared/meetclient"
	"github.com/vasapolrittideah/mentorship-api/shared/notify"
)

// bookingWindowDays is how far ahead, counting today, a session may be booked.
const bookingWindowDays = 7

var (
	ErrMentorNotFound        = errors.New("mentor not found")
	ErrMissingEmail          = errors.New("mentor and mentee email are required")
	ErrSelfBooking           = errors.New("mentors cannot book their own slots")
	ErrSlotNotFound          = errors.New("time slot not found")
	ErrSlotDayMismatch       = errors.New("session date does not fall on the slot's weekday")
	ErrSessionOutOfRange     = errors.New("session date must fall within the next 7 days")
	ErrSlotUnavailable       = errors.New("time slot is no longer available")
	ErrBookingNotFound       = errors.New("booking not found")
	ErrNotParticipant        = errors.New("user is not a participant of the booking")
	ErrNotBookingMentor      = errors.New("only the mentor can confirm a booking")
	ErrBookingNotCancelled   = errors.New("only cancelled bookings can be deleted")
	ErrCalComBookingReadOnly = errors.New("operation not supported for Cal.com bookings")
	ErrCalComUnavailable     = errors.New("calcom proxy is not configured")
	ErrUndoNotFound          = errors.New("undo batch not found")
	ErrUndoExpired           = errors.New("undo window has expired")
	ErrNothingToDelete       = errors.New("no cancelled bookings to delete")
)

// CalComClient reads and cancels bookings held by Cal.com.
type CalComClient interface {
	GetBookings(ctx context.Context, mentorUID string) ([]calcom.Booking, error)
	CancelBooking(ctx context.Context, mentorUID, bookingID, reason string) error
}

// MeetingClient creates meeting links for bookings.
type MeetingClient interface {
	CreateMeeting(ctx context.Context, booking meetclient.Booking) (*meetclient.Meeting, error)
}

// Notifier tells participants about booking changes.
type Notifier interface {
	Notify(ctx context.Context, kind notify.Kind, to string, data notify.Data)
}

// CreateBookingParams selects the slot a mentee books.
type CreateBookingParams struct {
	MentorID    string
	SlotID      string
	SessionDate time.Time
}

// BulkDeleteResult describes a bulk delete that can still be undone.
type BulkDeleteResult struct {
	BatchID       string    `json:"batchId"`
	Deleted       int       `json:"deleted"`
	UndoExpiresAt time.Time `json:"undoExpiresAt"`
}

// DeleteResult tells whether a delete removed the booking or only hid it.
type DeleteResult struct {
	Dismissed bool   `json:"dismissed"`
	Message   string `json:"message"`
}

// MeetingResult is the link produced for a booking.
type MeetingResult struct {
	MeetLink  string `json:"meetLink"`
	EventID   string `json:"eventId,omitempty"`
	HTMLLink  string `json:"htmlLink,omitempty"`
	Method    string `json:"method"`
	Message   string `json:"message,omitempty"`
	Persisted bool   `json:"persisted"`
}

// BookingUsecase defines the business logic for booking sessions.
type BookingUsecase interface {
	// CreateBooking reserves the slot and records a pending booking for the caller.
	CreateBooking(ctx context.Context, caller Caller, params CreateBookingParams) (*model.Booking, error)

	// ListBookings merges the caller's bookings with their Cal.com bookings,
	// then filters and sorts them.
	ListBookings(ctx context.Context, caller Caller, opts ListOptions) ([]model.Booking, error)

	// ConfirmBooking lets the mentor accept a booking.
	ConfirmBooking(ctx context.Context, caller Caller, id string) (*model.Booking, error)

	// CancelBooking cancels an internal booking or the Cal.com booking behind a calcom- id.
	// The reserved slot stays unavailable.
	CancelBooking(ctx context.Context, caller Caller, id string) error

	// DeleteBooking removes a cancelled internal booking, or hides a Cal.com
	// booking from the caller's list while leaving it active on Cal.com.
	DeleteBooking(ctx context.Context, caller Caller, id string) (*DeleteResult, error)

	// BulkDeleteCancelled deletes the caller's cancelled bookings among ids and
	// keeps snapshots for undo.
	BulkDeleteCancelled(ctx context.Context, caller Caller, ids []string) (*BulkDeleteResult, error)

	// UndoDelete restores a bulk delete while its undo window is open.
	UndoDelete(ctx context.Context, caller Caller, batchID string) ([]model.Booking, error)

	// AttachMeeting asks the meet relay for a link. Google Meet links are stored
	// on the booking; calendar fallback links are only returned.
	AttachMeeting(ctx context.Context, caller Caller, id string) (*MeetingResult, error)
}

type bookingUsecase struct {
	profileRepo      repository.ProfileRepository
	availabilityRepo repository.AvailabilityRepository
	bookingRepo      repository.BookingRepository
	deletionRepo     repository.DeletionRepository
	dismissalRepo    repository.DismissalRepository
	calcom           CalComClient
	meetings         MeetingClient
	notifier         Notifier
	location         *time.Location
	undoWindow       time.Duration
	logger           *zerolog.Logger
	now              func() time.Time
}

// BookingDependencies groups the collaborators of the booking usecase.
type BookingDependencies struct {
	ProfileRepo      repository.ProfileRepository
	AvailabilityRepo repository.AvailabilityRepository
	BookingRepo      repository.BookingRepository
	DeletionRepo     repository.DeletionRepository
	DismissalRepo    repository.DismissalRepository
	CalCom           CalComClient
	Meetings         MeetingClient
	Notifier         Notifier
}

// NewBookingUsecase creates a new instance of BookingUsecase. CalCom may be nil
// when no Cal.com proxy is configured.
func NewBookingUsecase(
	deps BookingDependencies,
	location *time.Location,
	undoWindow time.Duration,
	logger *zerolog.Logger,
) BookingUsecase {
	return &bookingUsecase{
		profileRepo:      deps.ProfileRepo,
		availabilityRepo: deps.AvailabilityRepo,
		bookingRepo:      deps.BookingRepo,
		deletionRepo:     deps.DeletionRepo,
		dismissalRepo:    deps.DismissalRepo,
		calcom:           deps.CalCom,
		meetings:         deps.Meetings,
		notifier:         deps.Notifier,
		location:         location,
		undoWindow:       undoWindow,
		logger:           logger,
		now:              time.Now,
	}
}

func (u *bookingUsecase) CreateBooking(
	ctx context.Context,
	caller Caller,
	params CreateBookingParams,
) (*model.Booking, error) {
	if params.MentorID == caller.UserID {
		return nil, ErrSelfBooking
	}

	mentor, err := u.profileRepo.GetProfile(ctx, params.MentorID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMentorNotFound
		}
		return nil, err
	}
	if mentor.Type != model.UserTypeMentor {
		return nil, ErrMentorNotFound
	}

	menteeName, menteeEmail := caller.Name, caller.Email
	mentee, err := u.profileRepo.GetProfile(ctx, caller.UserID)
	switch {
	case err == nil:
		if mentee.Name != "" {
			menteeName = mentee.Name
		}
		if mentee.Email != "" {
			menteeEmail = mentee.Email
		}
	case !errors.Is(err, mongo.ErrNoDocuments):
		return nil, err
	}

	if mentor.Email == "" || menteeEmail == "" {
		return nil, ErrMissingEmail
	}

	availability, err := u.availabilityRepo.GetAvailability(ctx, mentor.UID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAvailabilityNotSet
		}
		return nil, err
	}

	slot, ok := availability.FindSlot(params.SlotID)
	if !ok {
		return nil, ErrSlotNotFound
	}

	sessionDate := params.SessionDate.In(u.location)
	sessionDay := time.Date(sessionDate.Year(), sessionDate.Month(), sessionDate.Day(), 0, 0, 0, 0, u.location)
	today := u.now().In(u.location)
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, u.location)
	if sessionDay.Before(today) || !sessionDay.Before(today.AddDate(0, 0, bookingWindowDays)) {
		return nil, ErrSessionOutOfRange
	}
	if sessionDay.Weekday().String() != slot.Day {
		return nil, ErrSlotDayMismatch
	}
	if !slot.IsAvailable {
		return nil, ErrSlotUnavailable
	}

	if err := u.availabilityRepo.ReserveSlot(ctx, mentor.UID, slot.ID); err != nil {
		if errors.Is(err, repository.ErrSlotNotReserved) {
			return nil, ErrSlotUnavailable
		}
		return nil, err
	}

	booking := &model.Booking{
		ID:          uuid.NewString(),
		MentorID:    mentor.UID,
		MenteeID:    caller.UserID,
		MentorName:  mentor.Name,
		MenteeName:  menteeName,
		MentorEmail: mentor.Email,
		MenteeEmail: menteeEmail,
		Day:         slot.Day,
		StartTime:   slot.StartTime,
		EndTime:     slot.EndTime,
		Status:      model.BookingStatusPending,
		CreatedAt:   u.now(),
		SessionDate: sessionDay,
		SlotID:      slot.ID,
		Origin:      model.BookingOriginInternal,
	}

	created, err := u.bookingRepo.CreateBooking(ctx, booking)
	if err != nil {
		if releaseErr := u.availabilityRepo.ReleaseSlot(ctx, mentor.UID, slot.ID); releaseErr != nil {
			u.logger.Error().
				Err(releaseErr).
				Str("mentor_id", mentor.UID).
				Str("slot_id", slot.ID).
				Msg("failed to release slot after booking insert failed")
		}
		return nil, err
	}

	u.notify(ctx, notify.BookingRequested, created, created.MentorEmail, created.MentorName)

	return created, nil
}

// getParticipantBooking loads an internal booking the caller takes part in.
func (u *bookingUsecase) getParticipantBooking(ctx context.Context, caller Caller, id string) (*model.Booking, error) {
	booking, err := u.bookingRepo.GetBooking(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if !booking.IsParticipant(caller.UserID) {
		return nil, ErrNotParticipant
	}

	return booking, nil
}

func (u *bookingUsecase) notify(ctx context.Context, kind notify.Kind, b *model.Booking, to, recipientName string) {
	if u.notifier == nil {
		return
	}

	u.notifier.Notify(ctx, kind, to, notify.Data{
		RecipientName: recipientName,
		MentorName:    b.MentorName,
		MenteeName:    b.MenteeName,
		SessionDate:   b.SessionDate.In(u.location).Format("02/01/2006"),
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		MeetLink:      b.MeetLink,
	})
}

package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/model"
	"github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/repository"
)

var (
	ErrFeedbackNotAllowed = errors.New("feedback can only be given for confirmed bookings")
	ErrFeedbackExists     = errors.New("feedback already submitted")
)

// FeedbackUsecase defines the business logic for session feedback.
type FeedbackUsecase interface {
	// SubmitFeedback records the caller's feedback about the other participant.
	SubmitFeedback(
		ctx context.Context,
		caller Caller,
		bookingID string,
		questions []model.FeedbackQuestion,
	) (*model.Feedback, error)

	// ListFeedback returns the feedback given for a booking the caller takes part in.
	ListFeedback(ctx context.Context, caller Caller, bookingID string) ([]model.Feedback, error)
}

type feedbackUsecase struct {
	bookingRepo  repository.BookingRepository
	feedbackRepo repository.FeedbackRepository
	now          func() time.Time
}

// NewFeedbackUsecase creates a new instance of FeedbackUsecase.
func NewFeedbackUsecase(
	bookingRepo repository.BookingRepository,
	feedbackRepo repository.FeedbackRepository,
) FeedbackUsecase {
	return &feedbackUsecase{bookingRepo: bookingRepo, feedbackRepo: feedbackRepo, now: time.Now}
}

func (u *feedbackUsecase) SubmitFeedback(
	ctx context.Context,
	caller Caller,
	bookingID string,
	questions []model.FeedbackQuestion,
) (*model.Feedback, error) {
	booking, err := u.participantBooking(ctx, caller, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != model.BookingStatusConfirmed {
		return nil, ErrFeedbackNotAllowed
	}

	feedback := &model.Feedback{
		ID:           uuid.NewString(),
		BookingID:    booking.ID,
		GiverUserID:  caller.UserID,
		Questions:    questions,
		FeedbackType: model.FeedbackTypeMentee,
		SubmittedAt:  u.now().UTC(),
	}
	if booking.MentorID == caller.UserID {
		feedback.FeedbackType = model.FeedbackTypeMentor
		feedback.ReceiverUserID = booking.MenteeID
	} else {
		feedback.ReceiverUserID = booking.MentorID
	}

	created, err := u.feedbackRepo.CreateFeedback(ctx, feedback)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrFeedbackExists
		}
		return nil, err
	}

	if err := u.bookingRepo.MarkFeedbackSubmitted(ctx, booking.ID, feedback.FeedbackType); err != nil {
		return nil, err
	}

	return created, nil
}

func (u *feedbackUsecase) ListFeedback(ctx context.Context, caller Caller, bookingID string) ([]model.Feedback, error) {
	if _, err := u.participantBooking(ctx, caller, bookingID); err != nil {
		return nil, err
	}

	return u.feedbackRepo.ListFeedbackByBooking(ctx, bookingID)
}

func (u *feedbackUsecase) participantBooking(ctx context.Context, caller Caller, id string) (*model.Booking, error) {
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

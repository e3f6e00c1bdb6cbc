package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/mentorship-api/shared/calcom"
	"github.com/vasapolrittideah/mentorship-api/shared/meetclient"
)

var ErrMeetingUnavailable = errors.New("meet relay is not configured")

func (u *bookingUsecase) AttachMeeting(ctx context.Context, caller Caller, id string) (*MeetingResult, error) {
	if _, ok := calcom.ParseID(id); ok {
		return nil, ErrCalComBookingReadOnly
	}
	if u.meetings == nil {
		return nil, ErrMeetingUnavailable
	}

	booking, err := u.getParticipantBooking(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	meeting, err := u.meetings.CreateMeeting(ctx, meetclient.Booking{
		ID:          booking.ID,
		MentorName:  booking.MentorName,
		MenteeName:  booking.MenteeName,
		MentorEmail: booking.MentorEmail,
		MenteeEmail: booking.MenteeEmail,
		SessionDate: booking.SessionDate,
		StartTime:   booking.StartTime,
		EndTime:     booking.EndTime,
	})
	if err != nil {
		if errors.Is(err, meetclient.ErrMeetingFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", meetclient.ErrMeetingFailed, err)
	}

	result := &MeetingResult{
		MeetLink: meeting.MeetLink,
		EventID:  meeting.EventID,
		HTMLLink: meeting.HTMLLink,
		Method:   meeting.Method,
		Message:  meeting.Message,
	}

	// Calendar fallback links are templates for the user, not real meetings.
	if meeting.Method != meetclient.MethodGoogleMeet || meeting.MeetLink == "" {
		return result, nil
	}

	if _, err := u.bookingRepo.SetMeeting(ctx, booking.ID, meeting.MeetLink, meeting.EventID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	result.Persisted = true

	return result, nil
}

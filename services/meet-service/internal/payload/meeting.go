package payload

import (
	"errors"
	"time"

	"github.com/vasapolrittideah/mentorship-api/services/meet-service/internal/usecase"
)

var ErrInvalidSessionDate = errors.New("sessionDate must be an RFC 3339 timestamp or a YYYY-MM-DD date")

// MeetingBooking is the booking summary sent by the booking service. Fields are
// checked in declaration order so the first missing one is reported.
type MeetingBooking struct {
	ID          string `json:"id"          validate:"required"`
	MentorName  string `json:"mentorName"  validate:"required"`
	MenteeName  string `json:"menteeName"  validate:"required"`
	SessionDate string `json:"sessionDate" validate:"required"`
	StartTime   string `json:"startTime"   validate:"required"`
	EndTime     string `json:"endTime"     validate:"required"`
	MentorEmail string `json:"mentorEmail"`
	MenteeEmail string `json:"menteeEmail"`
}

type MeetingRequest struct {
	Booking *MeetingBooking `json:"booking"`
}

// ToBooking parses the session date. Dates without a zone are read in loc.
func (b *MeetingBooking) ToBooking(loc *time.Location) (usecase.Booking, error) {
	sessionDate, err := time.Parse(time.RFC3339, b.SessionDate)
	if err != nil {
		sessionDate, err = time.ParseInLocation(time.DateOnly, b.SessionDate, loc)
		if err != nil {
			return usecase.Booking{}, ErrInvalidSessionDate
		}
	}

	return usecase.Booking{
		ID:          b.ID,
		MentorName:  b.MentorName,
		MenteeName:  b.MenteeName,
		MentorEmail: b.MentorEmail,
		MenteeEmail: b.MenteeEmail,
		SessionDate: sessionDate,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
	}, nil
}

type MeetingResponse struct {
	Success  bool   `json:"success"`
	MeetLink string `json:"meetLink"`
	EventID  string `json:"eventId,omitempty"`
	HTMLLink string `json:"htmlLink,omitempty"`
	Method   string `json:"method,omitempty"`
	Message  string `json:"message,omitempty"`
}

type DeleteMeetingResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status               string    `json:"status"`
	GoogleMeetConfigured bool      `json:"googleMeetConfigured"`
	Timestamp            time.Time `json:"timestamp"`
}

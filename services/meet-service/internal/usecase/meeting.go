package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/vasapolrittideah/mentorship-api/shared/provider"
)

const (
	MethodGoogleMeet       = "google-meet-api"
	MethodCalendarFallback = "calendar-fallback"

	fallbackMessage = "Google Meet API not configured. Add this event to your Google Calendar to get the Meet link"
	calendarRender  = "https://calendar.google.com/calendar/render"
	calendarStamp   = "20060102T150405Z"
	displayDate     = "02/01/2006"
	clockLayout     = "15:04"
)

var (
	ErrMissingParticipantEmail = errors.New("mentor or mentee email is missing in booking data")
	ErrInvalidSessionTime      = errors.New("invalid session time")
)

// CalendarProvider writes meeting events to a calendar with Meet conferences.
type CalendarProvider interface {
	CreateEvent(ctx context.Context, ev provider.CalendarEvent) (*provider.CalendarEventResult, error)
	UpdateEvent(ctx context.Context, eventID string, ev provider.CalendarEvent) (*provider.CalendarEventResult, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// Booking is the session a meeting is created for. StartTime and EndTime are
// "HH:MM" on the calendar day of SessionDate in the relay's time zone.
type Booking struct {
	ID          string
	MentorName  string
	MenteeName  string
	MentorEmail string
	MenteeEmail string
	SessionDate time.Time
	StartTime   string
	EndTime     string
}

// Meeting is the link handed back to the caller.
type Meeting struct {
	MeetLink string
	EventID  string
	HTMLLink string
	Method   string
	Message  string
}

// MeetingUsecase defines the business logic of the meeting-link relay.
type MeetingUsecase interface {
	// GoogleConfigured reports whether meetings are created through Google Calendar.
	GoogleConfigured() bool

	// CreateMeeting creates a Google Meet event, or a pre-filled calendar link
	// when Google is not configured.
	CreateMeeting(ctx context.Context, booking Booking) (*Meeting, error)

	// UpdateMeeting moves an existing event to the booking's new time.
	UpdateMeeting(ctx context.Context, eventID string, booking Booking) (*Meeting, error)

	// DeleteMeeting removes an event.
	DeleteMeeting(ctx context.Context, eventID string) error
}

type meetingUsecase struct {
	calendar CalendarProvider
	location *time.Location
	now      func() time.Time
}

// NewMeetingUsecase creates a new instance of MeetingUsecase. A nil calendar
// switches the relay to calendar links.
func NewMeetingUsecase(calendar CalendarProvider, location *time.Location) MeetingUsecase {
	return &meetingUsecase{calendar: calendar, location: location, now: time.Now}
}

func (u *meetingUsecase) GoogleConfigured() bool {
	return u.calendar != nil
}

func (u *meetingUsecase) CreateMeeting(ctx context.Context, booking Booking) (*Meeting, error) {
	start, end, err := u.sessionBounds(booking)
	if err != nil {
		return nil, err
	}

	if u.calendar == nil {
		return &Meeting{
			MeetLink: fallbackLink(booking, start, end, u.location),
			Method:   MethodCalendarFallback,
			Message:  fallbackMessage,
		}, nil
	}

	if booking.MentorEmail == "" || booking.MenteeEmail == "" {
		return nil, ErrMissingParticipantEmail
	}

	ev := u.calendarEvent(booking, start, end)
	ev.ConferenceRequestID = fmt.Sprintf("meeting-%s-%d", booking.ID, u.now().UnixMilli())

	result, err := u.calendar.CreateEvent(ctx, ev)
	if err != nil {
		return nil, err
	}

	return &Meeting{
		MeetLink: result.MeetLink,
		EventID:  result.EventID,
		HTMLLink: result.HTMLLink,
		Method:   MethodGoogleMeet,
		Message: fmt.Sprintf(
			"Meeting created in service account calendar. Share the Meet link with %s and %s.",
			booking.MentorEmail, booking.MenteeEmail,
		),
	}, nil
}

func (u *meetingUsecase) UpdateMeeting(ctx context.Context, eventID string, booking Booking) (*Meeting, error) {
	if u.calendar == nil {
		return nil, provider.ErrGoogleNotConfigured
	}
	if booking.MentorEmail == "" || booking.MenteeEmail == "" {
		return nil, ErrMissingParticipantEmail
	}

	start, end, err := u.sessionBounds(booking)
	if err != nil {
		return nil, err
	}

	result, err := u.calendar.UpdateEvent(ctx, eventID, u.calendarEvent(booking, start, end))
	if err != nil {
		return nil, err
	}

	return &Meeting{
		MeetLink: result.MeetLink,
		EventID:  result.EventID,
		HTMLLink: result.HTMLLink,
		Method:   MethodGoogleMeet,
	}, nil
}

func (u *meetingUsecase) DeleteMeeting(ctx context.Context, eventID string) error {
	if u.calendar == nil {
		return provider.ErrGoogleNotConfigured
	}

	return u.calendar.DeleteEvent(ctx, eventID)
}

// sessionBounds places the booking's clock times on its calendar day.
func (u *meetingUsecase) sessionBounds(booking Booking) (time.Time, time.Time, error) {
	day := booking.SessionDate.In(u.location)

	start, err := u.atClock(day, booking.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := u.atClock(day, booking.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	return start, end, nil
}

func (u *meetingUsecase) atClock(day time.Time, clock string) (time.Time, error) {
	t, err := time.Parse(clockLayout, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not HH:MM", ErrInvalidSessionTime, clock)
	}

	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, u.location), nil
}

func (u *meetingUsecase) calendarEvent(booking Booking, start, end time.Time) provider.CalendarEvent {
	description := fmt.Sprintf(`%s

This meeting includes Google Meet integration for video conferencing.

Participants:
- Mentor: %s (%s)
- Mentee: %s (%s)`,
		sessionSummary(booking, start),
		booking.MentorName, booking.MentorEmail,
		booking.MenteeName, booking.MenteeEmail,
	)

	return provider.CalendarEvent{
		Summary:     eventTitle(booking),
		Description: description,
		Start:       start,
		End:         end,
		TimeZone:    u.location.String(),
	}
}

func eventTitle(booking Booking) string {
	return fmt.Sprintf("Mentoring Session: %s & %s", booking.MentorName, booking.MenteeName)
}

func sessionSummary(booking Booking, start time.Time) string {
	return fmt.Sprintf(`Mentoring session between %s (Mentor) and %s (Mentee).

Session Details:
- Date: %s
- Time: %s - %s
- Duration: 1 hour`,
		booking.MentorName, booking.MenteeName,
		start.Format(displayDate),
		booking.StartTime, booking.EndTime,
	)
}

// fallbackLink builds a Google Calendar "add event" URL the user can open to
// create the meeting themselves.
func fallbackLink(booking Booking, start, end time.Time, location *time.Location) string {
	details := sessionSummary(booking, start.In(location)) + "\n\nThis meeting will include Google Meet integration."

	var b strings.Builder
	b.WriteString(calendarRender)
	b.WriteString("?action=TEMPLATE&text=")
	b.WriteString(encodeComponent(eventTitle(booking)))
	b.WriteString("&dates=")
	b.WriteString(start.UTC().Format(calendarStamp))
	b.WriteString("/")
	b.WriteString(end.UTC().Format(calendarStamp))
	b.WriteString("&details=")
	b.WriteString(encodeComponent(details))
	b.WriteString("&add=true")

	return b.String()
}

// encodeComponent escapes s for a query value with spaces as %20.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

package usecase

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasapolrittideah/mentorship-api/shared/provider"
)

type fakeCalendar struct {
	created []provider.CalendarEvent
	updated map[string]provider.CalendarEvent
	deleted []string
	err     error
}

func (c *fakeCalendar) CreateEvent(_ context.Context, ev provider.CalendarEvent) (*provider.CalendarEventResult, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.created = append(c.created, ev)
	return &provider.CalendarEventResult{
		EventID:  "evt-1",
		MeetLink: "https://meet.google.com/abc-defg-hij",
		HTMLLink: "https://calendar.google.com/event?eid=evt-1",
	}, nil
}

func (c *fakeCalendar) UpdateEvent(
	_ context.Context,
	eventID string,
	ev provider.CalendarEvent,
) (*provider.CalendarEventResult, error) {
	if c.err != nil {
		return nil, c.err
	}
	if c.updated == nil {
		c.updated = make(map[string]provider.CalendarEvent)
	}
	c.updated[eventID] = ev
	return &provider.CalendarEventResult{EventID: eventID, MeetLink: "https://meet.google.com/abc-defg-hij"}, nil
}

func (c *fakeCalendar) DeleteEvent(_ context.Context, eventID string) error {
	c.deleted = append(c.deleted, eventID)
	return c.err
}

func london(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)
	return loc
}

func sampleBooking(t *testing.T, date string) Booking {
	t.Helper()
	day, err := time.ParseInLocation(time.DateOnly, date, london(t))
	require.NoError(t, err)

	return Booking{
		ID:          "b1",
		MentorName:  "Ada",
		MenteeName:  "Bob",
		MentorEmail: "ada@example.com",
		MenteeEmail: "bob@example.com",
		SessionDate: day,
		StartTime:   "09:00",
		EndTime:     "10:00",
	}
}

func TestCreateMeetingFallback(t *testing.T) {
	u := NewMeetingUsecase(nil, london(t))
	assert.False(t, u.GoogleConfigured())

	tests := []struct {
		date      string
		wantDates string
	}{
		{date: "2025-01-06", wantDates: "20250106T090000Z/20250106T100000Z"},
		{date: "2025-06-02", wantDates: "20250602T080000Z/20250602T090000Z"},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			meeting, err := u.CreateMeeting(context.Background(), sampleBooking(t, tt.date))
			require.NoError(t, err)
			assert.Equal(t, MethodCalendarFallback, meeting.Method)
			assert.Equal(t, fallbackMessage, meeting.Message)

			link, err := url.Parse(meeting.MeetLink)
			require.NoError(t, err)
			assert.Equal(t, "calendar.google.com", link.Host)
			assert.NotContains(t, meeting.MeetLink, "+")

			q := link.Query()
			assert.Equal(t, "TEMPLATE", q.Get("action"))
			assert.Equal(t, "Mentoring Session: Ada & Bob", q.Get("text"))
			assert.Equal(t, tt.wantDates, q.Get("dates"))
			assert.Equal(t, "true", q.Get("add"))
			assert.True(t, strings.HasPrefix(q.Get("details"), "Mentoring session between Ada (Mentor) and Bob (Mentee)."))
			assert.Contains(t, q.Get("details"), "- Time: 09:00 - 10:00")
		})
	}
}

func TestCreateMeetingWithGoogle(t *testing.T) {
	calendar := &fakeCalendar{}
	u := NewMeetingUsecase(calendar, london(t)).(*meetingUsecase)
	u.now = func() time.Time { return time.UnixMilli(1700000000000) }

	meeting, err := u.CreateMeeting(context.Background(), sampleBooking(t, "2025-01-06"))
	require.NoError(t, err)
	assert.Equal(t, MethodGoogleMeet, meeting.Method)
	assert.Equal(t, "https://meet.google.com/abc-defg-hij", meeting.MeetLink)
	assert.Equal(t, "evt-1", meeting.EventID)
	assert.Equal(t,
		"Meeting created in service account calendar. Share the Meet link with ada@example.com and bob@example.com.",
		meeting.Message)

	require.Len(t, calendar.created, 1)
	ev := calendar.created[0]
	assert.Equal(t, "meeting-b1-1700000000000", ev.ConferenceRequestID)
	assert.Equal(t, "Mentoring Session: Ada & Bob", ev.Summary)
	assert.Equal(t, "Europe/London", ev.TimeZone)
	assert.Equal(t, time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC), ev.Start.UTC())
	assert.Equal(t, time.Hour, ev.End.Sub(ev.Start))
	assert.Contains(t, ev.Description, "- Mentee: Bob (bob@example.com)")
	assert.Contains(t, ev.Description, "- Date: 06/01/2025")
}

func TestCreateMeetingErrors(t *testing.T) {
	u := NewMeetingUsecase(&fakeCalendar{}, london(t))
	ctx := context.Background()

	booking := sampleBooking(t, "2025-01-06")
	booking.MenteeEmail = ""
	_, err := u.CreateMeeting(ctx, booking)
	assert.ErrorIs(t, err, ErrMissingParticipantEmail)

	booking = sampleBooking(t, "2025-01-06")
	booking.StartTime = "9am"
	_, err = u.CreateMeeting(ctx, booking)
	assert.ErrorIs(t, err, ErrInvalidSessionTime)

	failing := NewMeetingUsecase(&fakeCalendar{err: provider.ErrCalendarAccessDenied}, london(t))
	_, err = failing.CreateMeeting(ctx, sampleBooking(t, "2025-01-06"))
	assert.ErrorIs(t, err, provider.ErrCalendarAccessDenied)
}

func TestUpdateAndDeleteMeeting(t *testing.T) {
	ctx := context.Background()

	fallback := NewMeetingUsecase(nil, london(t))
	_, err := fallback.UpdateMeeting(ctx, "evt-1", sampleBooking(t, "2025-01-06"))
	assert.ErrorIs(t, err, provider.ErrGoogleNotConfigured)
	assert.ErrorIs(t, fallback.DeleteMeeting(ctx, "evt-1"), provider.ErrGoogleNotConfigured)

	calendar := &fakeCalendar{}
	u := NewMeetingUsecase(calendar, london(t))

	booking := sampleBooking(t, "2025-01-07")
	booking.StartTime, booking.EndTime = "14:30", "15:15"
	meeting, err := u.UpdateMeeting(ctx, "evt-1", booking)
	require.NoError(t, err)
	assert.Equal(t, "evt-1", meeting.EventID)

	ev := calendar.updated["evt-1"]
	assert.Empty(t, ev.ConferenceRequestID)
	assert.Equal(t, 45*time.Minute, ev.End.Sub(ev.Start))

	require.NoError(t, u.DeleteMeeting(ctx, "evt-1"))
	assert.Equal(t, []string{"evt-1"}, calendar.deleted)
}

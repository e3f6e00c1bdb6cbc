package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/model"
	"github.com/vasapolrittideah/mentorship-api/shared/meetclient"
	"github.com/vasapolrittideah/mentorship-api/shared/notify"
)

// monday is a Monday in Europe/London.
var monday = time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)

type bookingFixture struct {
	usecase      *bookingUsecase
	profiles     *fakeProfileRepo
	availability *fakeAvailabilityRepo
	bookings     *fakeBookingRepo
	deletions    *fakeDeletionRepo
	dismissals   *fakeDismissalRepo
	calcom       *fakeCalCom
	meetings     *fakeMeetings
	notifier     *fakeNotifier
	clock        time.Time
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	f := &bookingFixture{
		profiles: &fakeProfileRepo{profiles: []model.Profile{
			{UID: "mentor-1", Name: "Ada", Email: "ada@example.com", Type: model.UserTypeMentor},
			{UID: "mentee-1", Name: "Bob", Email: "bob@example.com", Type: model.UserTypeMentee},
			{UID: "mentee-2", Name: "Cy", Email: "cy@example.com", Type: model.UserTypeMentee},
		}},
		availability: newFakeAvailabilityRepo(model.MentorAvailability{
			MentorID: "mentor-1",
			TimeSlots: []model.TimeSlot{
				{ID: "slot-1", Day: "Monday", StartTime: "09:00", EndTime: "10:00", IsAvailable: true},
				{ID: "slot-2", Day: "Tuesday", StartTime: "09:00", EndTime: "10:00", IsAvailable: false},
			},
		}),
		bookings:   &fakeBookingRepo{},
		deletions:  newFakeDeletionRepo(),
		dismissals: newFakeDismissalRepo(),
		calcom:     &fakeCalCom{},
		meetings:   &fakeMeetings{},
		notifier:   &fakeNotifier{},
		clock:      time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC),
	}

	u := NewBookingUsecase(BookingDependencies{
		ProfileRepo:      f.profiles,
		AvailabilityRepo: f.availability,
		BookingRepo:      f.bookings,
		DeletionRepo:     f.deletions,
		DismissalRepo:    f.dismissals,
		CalCom:           f.calcom,
		Meetings:         f.meetings,
		Notifier:         f.notifier,
	}, london(t), 5*time.Second, nopLogger())

	f.usecase = u.(*bookingUsecase)
	f.usecase.now = func() time.Time { return f.clock }

	return f
}

var (
	mentor  = Caller{UserID: "mentor-1", Email: "ada@example.com", Name: "Ada"}
	mentee  = Caller{UserID: "mentee-1", Email: "bob@example.com", Name: "Bob"}
	mentee2 = Caller{UserID: "mentee-2", Email: "cy@example.com", Name: "Cy"}
)

func (f *bookingFixture) book(t *testing.T, caller Caller) *model.Booking {
	t.Helper()

	booking, err := f.usecase.CreateBooking(context.Background(), caller, CreateBookingParams{
		MentorID:    "mentor-1",
		SlotID:      "slot-1",
		SessionDate: monday,
	})
	require.NoError(t, err)
	return booking
}

func TestCreateBooking(t *testing.T) {
	f := newBookingFixture(t)

	booking := f.book(t, mentee)

	assert.Equal(t, model.BookingStatusPending, booking.Status)
	assert.Equal(t, model.BookingOriginInternal, booking.Origin)
	assert.Equal(t, "mentor-1", booking.MentorID)
	assert.Equal(t, "mentee-1", booking.MenteeID)
	assert.Equal(t, "Bob", booking.MenteeName)
	assert.Equal(t, "Monday", booking.Day)
	assert.Equal(t, "09:00", booking.StartTime)
	assert.Equal(t, "slot-1", booking.SlotID)
	assert.False(t, f.availability.slot("mentor-1", "slot-1").IsAvailable)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, notify.BookingRequested, f.notifier.sent[0].Kind)
	assert.Equal(t, "ada@example.com", f.notifier.sent[0].To)
	assert.Equal(t, "06/01/2025", f.notifier.sent[0].Data.SessionDate)
}

func TestCreateBookingRejections(t *testing.T) {
	tests := []struct {
		name    string
		caller  Caller
		params  CreateBookingParams
		prepare func(f *bookingFixture)
		wantErr error
	}{
		{
			name:    "self booking",
			caller:  mentor,
			params:  CreateBookingParams{MentorID: "mentor-1", SlotID: "slot-1", SessionDate: monday},
			wantErr: ErrSelfBooking,
		},
		{
			name:    "unknown mentor",
			caller:  mentee,
			params:  CreateBookingParams{MentorID: "nobody", SlotID: "slot-1", SessionDate: monday},
			wantErr: ErrMentorNotFound,
		},
		{
			name:    "target is not a mentor",
			caller:  mentee,
			params:  CreateBookingParams{MentorID: "mentee-2", SlotID: "slot-1", SessionDate: monday},
			wantErr: ErrMentorNotFound,
		},
		{
			name:   "missing mentor email",
			caller: mentee,
			params: CreateBookingParams{MentorID: "mentor-1", SlotID: "slot-1", SessionDate: monday},
			prepare: func(f *bookingFixture) {
				f.profiles.profiles[0].Email = ""
			},
			wantErr: ErrMissingEmail,
		},
		{
			name:    "unknown slot",
			caller:  mentee,
			params:  CreateBookingParams{MentorID: "mentor-1", SlotID: "slot-9", SessionDate: monday},
			wantErr: ErrSlotNotFound,
		},
		{
			name:    "date on another weekday",
			caller:  mentee,
			params:  CreateBookingParams{MentorID: "mentor-1", SlotID: "slot-1", SessionDate: monday.AddDate(0, 0, 1)},
			wantErr: ErrSlotDayMismatch,
		},
		{
			name:    "session date in the past",
			caller:  mentee,
			params:  CreateBookingParams{MentorID: "mentor-1", SlotID: "slot-1", SessionDate: monday.AddDate(0, 0, -7)},
			wantErr: ErrSessionOutOfRange,
		},
		{
			name:    "session date beyond the booking window",
			caller:  mentee,
			params:  CreateBookingParams{MentorID: "mentor-1", SlotID: "slot-1", SessionDate: monday.AddDate(0, 0, 7)},
			wantErr: ErrSessionOutOfRange,
		},
		{
			name:    "slot already taken",
			caller:  mentee,
			params:  CreateBookingParams{MentorID: "mentor-1", SlotID: "slot-2", SessionDate: monday.AddDate(0, 0, 1)},
			wantErr: ErrSlotUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t)
			if tt.prepare != nil {
				tt.prepare(f)
			}

			_, err := f.usecase.CreateBooking(context.Background(), tt.caller, tt.params)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.bookings.ids())
			assert.True(t, f.availability.slot("mentor-1", "slot-1").IsAvailable)
		})
	}
}

func TestCreateBookingConcurrentRequestsReserveOnce(t *testing.T) {
	f := newBookingFixture(t)

	const attempts = 20
	var wg sync.WaitGroup
	var succeeded, unavailable atomic.Int32

	for i := range attempts {
		caller := mentee
		if i%2 == 1 {
			caller = mentee2
		}

		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := f.usecase.CreateBooking(context.Background(), caller, CreateBookingParams{
				MentorID:    "mentor-1",
				SlotID:      "slot-1",
				SessionDate: monday,
			})
			switch {
			case err == nil:
				succeeded.Add(1)
			case assert.ErrorIs(t, err, ErrSlotUnavailable):
				unavailable.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(attempts-1), unavailable.Load())
	assert.Len(t, f.bookings.ids(), 1)
}

func TestCreateBookingReleasesSlotWhenInsertFails(t *testing.T) {
	f := newBookingFixture(t)
	f.bookings.createErr = errStore

	_, err := f.usecase.CreateBooking(context.Background(), mentee, CreateBookingParams{
		MentorID:    "mentor-1",
		SlotID:      "slot-1",
		SessionDate: monday,
	})

	assert.ErrorIs(t, err, errStore)
	assert.Equal(t, []string{"slot-1"}, f.availability.released)
	assert.True(t, f.availability.slot("mentor-1", "slot-1").IsAvailable)
	assert.Empty(t, f.notifier.sent)
}

func TestCancelBookingKeepsSlotUnavailable(t *testing.T) {
	f := newBookingFixture(t)
	booking := f.book(t, mentee)

	require.NoError(t, f.usecase.CancelBooking(context.Background(), mentee, booking.ID))

	stored, err := f.bookings.GetBooking(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, stored.Status)
	assert.False(t, f.availability.slot("mentor-1", "slot-1").IsAvailable)

	last := f.notifier.sent[len(f.notifier.sent)-1]
	assert.Equal(t, notify.BookingCancelled, last.Kind)
	assert.Equal(t, "ada@example.com", last.To)
}

func TestCancelBookingByOutsider(t *testing.T) {
	f := newBookingFixture(t)
	booking := f.book(t, mentee)

	err := f.usecase.CancelBooking(context.Background(), mentee2, booking.ID)
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestConfirmBooking(t *testing.T) {
	f := newBookingFixture(t)
	booking := f.book(t, mentee)
	ctx := context.Background()

	_, err := f.usecase.ConfirmBooking(ctx, mentee, booking.ID)
	assert.ErrorIs(t, err, ErrNotBookingMentor)

	_, err = f.usecase.ConfirmBooking(ctx, mentor, "calcom-42")
	assert.ErrorIs(t, err, ErrCalComBookingReadOnly)

	confirmed, err := f.usecase.ConfirmBooking(ctx, mentor, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusConfirmed, confirmed.Status)

	last := f.notifier.sent[len(f.notifier.sent)-1]
	assert.Equal(t, notify.BookingConfirmed, last.Kind)
	assert.Equal(t, "bob@example.com", last.To)
}

func TestAttachMeeting(t *testing.T) {
	t.Run("google meet link is stored", func(t *testing.T) {
		f := newBookingFixture(t)
		booking := f.book(t, mentee)
		f.meetings.meeting = &meetclient.Meeting{
			Success:  true,
			MeetLink: "https://meet.google.com/abc-defg-hij",
			EventID:  "evt-1",
			Method:   meetclient.MethodGoogleMeet,
		}

		result, err := f.usecase.AttachMeeting(context.Background(), mentor, booking.ID)
		require.NoError(t, err)
		assert.True(t, result.Persisted)

		stored, err := f.bookings.GetBooking(context.Background(), booking.ID)
		require.NoError(t, err)
		assert.Equal(t, "https://meet.google.com/abc-defg-hij", stored.MeetLink)
		assert.Equal(t, "evt-1", stored.EventID)

		require.Len(t, f.meetings.got, 1)
		assert.Equal(t, "Ada", f.meetings.got[0].MentorName)
		assert.Equal(t, "09:00", f.meetings.got[0].StartTime)
	})

	t.Run("calendar fallback is only returned", func(t *testing.T) {
		f := newBookingFixture(t)
		booking := f.book(t, mentee)
		f.meetings.meeting = &meetclient.Meeting{
			Success:  true,
			MeetLink: "https://calendar.google.com/calendar/render?action=TEMPLATE",
			Method:   meetclient.MethodCalendarFallback,
		}

		result, err := f.usecase.AttachMeeting(context.Background(), mentee, booking.ID)
		require.NoError(t, err)
		assert.False(t, result.Persisted)

		stored, err := f.bookings.GetBooking(context.Background(), booking.ID)
		require.NoError(t, err)
		assert.Empty(t, stored.MeetLink)
	})

	t.Run("relay failure leaves the booking alone", func(t *testing.T) {
		f := newBookingFixture(t)
		booking := f.book(t, mentee)
		f.meetings.err = errStore

		_, err := f.usecase.AttachMeeting(context.Background(), mentee, booking.ID)
		assert.ErrorIs(t, err, meetclient.ErrMeetingFailed)
		assert.ErrorIs(t, err, errStore)

		stored, err := f.bookings.GetBooking(context.Background(), booking.ID)
		require.NoError(t, err)
		assert.Empty(t, stored.MeetLink)
	})
}

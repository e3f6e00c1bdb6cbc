package usecase

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/model"
	"github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/repository"
	"github.com/vasapolrittideah/mentorship-api/shared/calcom"
	"github.com/vasapolrittideah/mentorship-api/shared/meetclient"
	"github.com/vasapolrittideah/mentorship-api/shared/notify"
)

var errStore = errors.New("store unavailable")

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

type fakeProfileRepo struct {
	profiles []model.Profile
}

func (r *fakeProfileRepo) GetProfile(_ context.Context, uid string) (*model.Profile, error) {
	for i := range r.profiles {
		if r.profiles[i].UID == uid {
			p := r.profiles[i]
			return &p, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeProfileRepo) ListProfilesByType(_ context.Context, userType model.UserType) ([]model.Profile, error) {
	var out []model.Profile
	for _, p := range r.profiles {
		if p.Type == userType {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProfileRepo) UpsertProfile(_ context.Context, profile *model.Profile) (*model.Profile, error) {
	for i := range r.profiles {
		if r.profiles[i].UID == profile.UID {
			r.profiles[i] = *profile
			return profile, nil
		}
	}
	r.profiles = append(r.profiles, *profile)
	return profile, nil
}

type fakeAvailabilityRepo struct {
	mu         sync.Mutex
	docs       map[string]*model.MentorAvailability
	reserveErr error
	releaseErr error
	released   []string
}

func newFakeAvailabilityRepo(docs ...model.MentorAvailability) *fakeAvailabilityRepo {
	r := &fakeAvailabilityRepo{docs: make(map[string]*model.MentorAvailability)}
	for i := range docs {
		doc := docs[i]
		doc.TimeSlots = slices.Clone(doc.TimeSlots)
		r.docs[doc.MentorID] = &doc
	}
	return r
}

func (r *fakeAvailabilityRepo) GetAvailability(_ context.Context, mentorID string) (*model.MentorAvailability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[mentorID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	out := *doc
	out.TimeSlots = slices.Clone(doc.TimeSlots)
	return &out, nil
}

func (r *fakeAvailabilityRepo) SetTimeSlots(
	_ context.Context,
	mentorID string,
	slots []model.TimeSlot,
) (*model.MentorAvailability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := &model.MentorAvailability{MentorID: mentorID, TimeSlots: slices.Clone(slots)}
	r.docs[mentorID] = doc
	return doc, nil
}

// ReserveSlot mirrors the conditional update: it only flips a slot that is still available.
func (r *fakeAvailabilityRepo) ReserveSlot(_ context.Context, mentorID, slotID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.reserveErr != nil {
		return r.reserveErr
	}
	doc, ok := r.docs[mentorID]
	if !ok {
		return repository.ErrSlotNotReserved
	}
	for i := range doc.TimeSlots {
		if doc.TimeSlots[i].ID == slotID && doc.TimeSlots[i].IsAvailable {
			doc.TimeSlots[i].IsAvailable = false
			return nil
		}
	}
	return repository.ErrSlotNotReserved
}

func (r *fakeAvailabilityRepo) ReleaseSlot(_ context.Context, mentorID, slotID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.released = append(r.released, slotID)
	if r.releaseErr != nil {
		return r.releaseErr
	}
	doc, ok := r.docs[mentorID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	for i := range doc.TimeSlots {
		if doc.TimeSlots[i].ID == slotID {
			doc.TimeSlots[i].IsAvailable = true
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *fakeAvailabilityRepo) slot(mentorID, slotID string) model.TimeSlot {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot, _ := r.docs[mentorID].FindSlot(slotID)
	return slot
}

type fakeBookingRepo struct {
	mu        sync.Mutex
	bookings  []model.Booking
	createErr error
	deleteErr error
}

func (r *fakeBookingRepo) CreateBooking(_ context.Context, booking *model.Booking) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return nil, r.createErr
	}
	r.bookings = append(r.bookings, *booking)
	return booking, nil
}

func (r *fakeBookingRepo) GetBooking(_ context.Context, id string) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return nil, mongo.ErrNoDocuments
	}
	b := r.bookings[i]
	return &b, nil
}

func (r *fakeBookingRepo) ListBookingsForUser(_ context.Context, uid string) ([]model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []model.Booking
	for _, b := range r.bookings {
		if b.IsParticipant(uid) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ListBookingsByIDs(_ context.Context, ids []string) ([]model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []model.Booking
	for _, b := range r.bookings {
		if slices.Contains(ids, b.ID) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, id string, status model.BookingStatus) (*model.Booking, error) {
	return r.update(id, func(b *model.Booking) { b.Status = status })
}

func (r *fakeBookingRepo) SetMeeting(_ context.Context, id, meetLink, eventID string) (*model.Booking, error) {
	return r.update(id, func(b *model.Booking) {
		b.MeetLink = meetLink
		b.EventID = eventID
	})
}

func (r *fakeBookingRepo) MarkFeedbackSubmitted(_ context.Context, id string, feedbackType model.FeedbackType) error {
	_, err := r.update(id, func(b *model.Booking) {
		if feedbackType == model.FeedbackTypeMentor {
			b.FeedbackSubmittedMentor = true
		} else {
			b.FeedbackSubmittedMentee = true
		}
	})
	return err
}

func (r *fakeBookingRepo) update(id string, fn func(*model.Booking)) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return nil, mongo.ErrNoDocuments
	}
	fn(&r.bookings[i])
	b := r.bookings[i]
	return &b, nil
}

func (r *fakeBookingRepo) DeleteBooking(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return mongo.ErrNoDocuments
	}
	r.bookings = slices.Delete(r.bookings, i, i+1)
	return nil
}

func (r *fakeBookingRepo) DeleteBookings(_ context.Context, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.deleteErr != nil {
		return 0, r.deleteErr
	}
	before := len(r.bookings)
	r.bookings = slices.DeleteFunc(r.bookings, func(b model.Booking) bool {
		return slices.Contains(ids, b.ID)
	})
	return int64(before - len(r.bookings)), nil
}

func (r *fakeBookingRepo) RestoreBookings(_ context.Context, bookings []model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range bookings {
		if i := r.index(b.ID); i >= 0 {
			r.bookings[i] = b
		} else {
			r.bookings = append(r.bookings, b)
		}
	}
	return nil
}

func (r *fakeBookingRepo) index(id string) int {
	return slices.IndexFunc(r.bookings, func(b model.Booking) bool { return b.ID == id })
}

func (r *fakeBookingRepo) ids() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.bookings))
	for _, b := range r.bookings {
		out = append(out, b.ID)
	}
	return out
}

type fakeDeletionRepo struct {
	batches map[string]*model.DeletionBatch
}

func newFakeDeletionRepo() *fakeDeletionRepo {
	return &fakeDeletionRepo{batches: make(map[string]*model.DeletionBatch)}
}

func (r *fakeDeletionRepo) CreateBatch(_ context.Context, batch *model.DeletionBatch) error {
	b := *batch
	r.batches[batch.ID] = &b
	return nil
}

func (r *fakeDeletionRepo) GetBatch(_ context.Context, id string) (*model.DeletionBatch, error) {
	b, ok := r.batches[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	out := *b
	return &out, nil
}

func (r *fakeDeletionRepo) DeleteBatch(_ context.Context, id string) error {
	delete(r.batches, id)
	return nil
}

type fakeDismissalRepo struct {
	dismissed map[string]map[string]bool
}

func newFakeDismissalRepo() *fakeDismissalRepo {
	return &fakeDismissalRepo{dismissed: make(map[string]map[string]bool)}
}

func (r *fakeDismissalRepo) Dismiss(_ context.Context, userID, bookingID string) error {
	if r.dismissed[userID] == nil {
		r.dismissed[userID] = make(map[string]bool)
	}
	r.dismissed[userID][bookingID] = true
	return nil
}

func (r *fakeDismissalRepo) ListDismissedIDs(_ context.Context, userID string) (map[string]bool, error) {
	out := make(map[string]bool)
	for id := range r.dismissed[userID] {
		out[id] = true
	}
	return out, nil
}

type fakeFeedbackRepo struct {
	feedback []model.Feedback
}

func (r *fakeFeedbackRepo) CreateFeedback(_ context.Context, feedback *model.Feedback) (*model.Feedback, error) {
	for _, f := range r.feedback {
		if f.BookingID == feedback.BookingID && f.GiverUserID == feedback.GiverUserID {
			return nil, mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "duplicate key"}}}
		}
	}
	r.feedback = append(r.feedback, *feedback)
	return feedback, nil
}

func (r *fakeFeedbackRepo) ListFeedbackByBooking(_ context.Context, bookingID string) ([]model.Feedback, error) {
	var out []model.Feedback
	for _, f := range r.feedback {
		if f.BookingID == bookingID {
			out = append(out, f)
		}
	}
	return out, nil
}

type fakeCalCom struct {
	bookings  []calcom.Booking
	err       error
	cancelled []string
}

func (c *fakeCalCom) GetBookings(_ context.Context, _ string) ([]calcom.Booking, error) {
	return c.bookings, c.err
}

func (c *fakeCalCom) CancelBooking(_ context.Context, _, bookingID, _ string) error {
	c.cancelled = append(c.cancelled, bookingID)
	return c.err
}

type fakeMeetings struct {
	meeting *meetclient.Meeting
	err     error
	got     []meetclient.Booking
}

func (m *fakeMeetings) CreateMeeting(_ context.Context, booking meetclient.Booking) (*meetclient.Meeting, error) {
	m.got = append(m.got, booking)
	return m.meeting, m.err
}

type sentNotification struct {
	Kind notify.Kind
	To   string
	Data notify.Data
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (n *fakeNotifier) Notify(_ context.Context, kind notify.Kind, to string, data notify.Data) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{Kind: kind, To: to, Data: data})
}

package usecase

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/model"
	"github.com/vasapolrittideah/mentorship-api/shared/calcom"
	"github.com/vasapolrittideah/mentorship-api/shared/notify"
)

// SortField selects the ordering of a booking list.
type SortField string

const (
	SortByDate   SortField = "date"
	SortByStatus SortField = "status"
	SortByRole   SortField = "role"
	SortByName   SortField = "name"
	SortByTime   SortField = "time"
)

// ListOptions filters and sorts a booking list. Zero values mean no filter
// and ascending date order.
type ListOptions struct {
	Sort   SortField
	Desc   bool
	Status model.BookingStatus
	Role   model.UserType
	Origin model.BookingOrigin
	Search string
}

func (u *bookingUsecase) ListBookings(ctx context.Context, caller Caller, opts ListOptions) ([]model.Booking, error) {
	bookings, err := u.bookingRepo.ListBookingsForUser(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	calComBookings := u.fetchCalComBookings(ctx, caller)
	if len(calComBookings) > 0 {
		bookings, err = u.mergeCalComBookings(ctx, caller, bookings, calComBookings)
		if err != nil {
			return nil, err
		}
	}

	filtered := make([]model.Booking, 0, len(bookings))
	for i := range bookings {
		if matchesListOptions(&bookings[i], caller.UserID, opts) {
			filtered = append(filtered, bookings[i])
		}
	}

	sortBookings(filtered, caller.UserID, opts)

	return filtered, nil
}

// fetchCalComBookings never fails the list; Cal.com errors are only logged.
func (u *bookingUsecase) fetchCalComBookings(ctx context.Context, caller Caller) []model.Booking {
	if u.calcom == nil {
		return nil
	}

	remote, err := u.calcom.GetBookings(ctx, caller.UserID)
	if err != nil {
		u.logger.Warn().Err(err).Str("user_id", caller.UserID).Msg("failed to fetch Cal.com bookings")
		return nil
	}

	bookings := make([]model.Booking, 0, len(remote))
	for i := range remote {
		bookings = append(bookings, u.fromCalCom(&remote[i], caller))
	}

	return bookings
}

// mergeCalComBookings appends Cal.com bookings that are neither mirrored by an
// internal booking nor dismissed by the caller.
func (u *bookingUsecase) mergeCalComBookings(
	ctx context.Context,
	caller Caller,
	internal, remote []model.Booking,
) ([]model.Booking, error) {
	dismissed, err := u.dismissalRepo.ListDismissedIDs(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	mirrored := make(map[string]bool)
	for _, b := range internal {
		if b.CalComBookingID != "" {
			mirrored[b.CalComBookingID] = true
		}
	}

	for _, b := range remote {
		if mirrored[b.CalComBookingID] || dismissed[b.ID] {
			continue
		}
		internal = append(internal, b)
	}

	return internal, nil
}

func (u *bookingUsecase) fromCalCom(remote *calcom.Booking, caller Caller) model.Booking {
	var mentor, mentee *calcom.Attendee
	for i := range remote.Attendees {
		attendee := &remote.Attendees[i]
		if attendee.Email == caller.Email {
			if mentor == nil {
				mentor = attendee
			}
		} else if mentee == nil {
			mentee = attendee
		}
	}

	booking := model.Booking{
		ID:              calcom.FormatID(remote.ID),
		MentorID:        caller.UserID,
		MenteeID:        "unknown",
		MentorName:      cmp.Or(caller.Name, "Unknown Mentor"),
		MenteeName:      "Unknown Mentee",
		MentorEmail:     caller.Email,
		Status:          calComStatus(remote.Status),
		CreatedAt:       u.now(),
		SessionDate:     remote.StartTime,
		Origin:          model.BookingOriginCalCom,
		IsCalComBooking: true,
		CalComBookingID: string(remote.ID),
		CalComEventType: &model.CalComEventType{ID: remote.EventType.ID, Title: remote.EventType.Title},
	}

	if mentor != nil {
		booking.MentorName = cmp.Or(mentor.Name, booking.MentorName)
		booking.MentorEmail = cmp.Or(mentor.Email, booking.MentorEmail)
	}
	if mentee != nil {
		booking.MenteeID = cmp.Or(mentee.Email, booking.MenteeID)
		booking.MenteeName = cmp.Or(mentee.Name, booking.MenteeName)
		booking.MenteeEmail = mentee.Email
	}

	if !remote.StartTime.IsZero() {
		start := remote.StartTime.In(u.location)
		booking.Day = start.Weekday().String()
		booking.StartTime = start.Format(clockLayout)
	}
	if !remote.EndTime.IsZero() {
		booking.EndTime = remote.EndTime.In(u.location).Format(clockLayout)
	}

	for _, a := range remote.Attendees {
		booking.CalComAttendees = append(booking.CalComAttendees, model.CalComAttendee{
			Name:     a.Name,
			Email:    a.Email,
			TimeZone: a.TimeZone,
		})
	}

	return booking
}

func calComStatus(status string) model.BookingStatus {
	switch status {
	case calcom.StatusAccepted:
		return model.BookingStatusConfirmed
	case calcom.StatusPending:
		return model.BookingStatusPending
	default:
		return model.BookingStatusCancelled
	}
}

// bookingRole is the caller's role in b.
func bookingRole(b *model.Booking, uid string) model.UserType {
	if b.MentorID == uid {
		return model.UserTypeMentor
	}
	return model.UserTypeMentee
}

// otherPartyName is the name of the participant who is not uid.
func otherPartyName(b *model.Booking, uid string) string {
	if b.MentorID == uid {
		return b.MenteeName
	}
	return b.MentorName
}

func matchesListOptions(b *model.Booking, uid string, opts ListOptions) bool {
	if opts.Status != "" && b.Status != opts.Status {
		return false
	}
	if opts.Role != "" && bookingRole(b, uid) != opts.Role {
		return false
	}
	if opts.Origin == model.BookingOriginCalCom && !b.IsCalComBooking {
		return false
	}
	if opts.Origin == model.BookingOriginInternal && b.IsCalComBooking {
		return false
	}

	if opts.Search == "" {
		return true
	}

	search := strings.ToLower(opts.Search)
	fields := []string{b.MentorName, b.MenteeName, b.StartTime, b.EndTime, otherPartyName(b, uid)}
	if b.CalComEventType != nil {
		fields = append(fields, b.CalComEventType.Title)
	}

	return slices.ContainsFunc(fields, func(f string) bool {
		return strings.Contains(strings.ToLower(f), search)
	})
}

func sortBookings(bookings []model.Booking, uid string, opts ListOptions) {
	compare := func(a, b *model.Booking) int {
		switch opts.Sort {
		case SortByStatus:
			return cmp.Compare(a.Status, b.Status)
		case SortByRole:
			return cmp.Compare(bookingRole(a, uid), bookingRole(b, uid))
		case SortByName:
			return cmp.Compare(strings.ToLower(otherPartyName(a, uid)), strings.ToLower(otherPartyName(b, uid)))
		case SortByTime:
			return cmp.Compare(a.StartTime, b.StartTime)
		default:
			if c := a.SessionDate.Compare(b.SessionDate); c != 0 {
				return c
			}
			return cmp.Compare(a.StartTime, b.StartTime)
		}
	}

	slices.SortStableFunc(bookings, func(a, b model.Booking) int {
		if opts.Desc {
			return compare(&b, &a)
		}
		return compare(&a, &b)
	})
}

func (u *bookingUsecase) ConfirmBooking(ctx context.Context, caller Caller, id string) (*model.Booking, error) {
	if _, ok := calcom.ParseID(id); ok {
		return nil, ErrCalComBookingReadOnly
	}

	booking, err := u.getParticipantBooking(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if booking.MentorID != caller.UserID {
		return nil, ErrNotBookingMentor
	}

	updated, err := u.bookingRepo.UpdateStatus(ctx, id, model.BookingStatusConfirmed)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	u.notify(ctx, notify.BookingConfirmed, updated, updated.MenteeEmail, updated.MenteeName)

	return updated, nil
}

func (u *bookingUsecase) CancelBooking(ctx context.Context, caller Caller, id string) error {
	if calComID, ok := calcom.ParseID(id); ok {
		if u.calcom == nil {
			return ErrCalComUnavailable
		}
		return u.calcom.CancelBooking(ctx, caller.UserID, calComID, "")
	}

	booking, err := u.getParticipantBooking(ctx, caller, id)
	if err != nil {
		return err
	}

	updated, err := u.bookingRepo.UpdateStatus(ctx, booking.ID, model.BookingStatusCancelled)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrBookingNotFound
		}
		return err
	}

	if updated.MentorID == caller.UserID {
		u.notify(ctx, notify.BookingCancelled, updated, updated.MenteeEmail, updated.MenteeName)
	} else {
		u.notify(ctx, notify.BookingCancelled, updated, updated.MentorEmail, updated.MentorName)
	}

	return nil
}

func (u *bookingUsecase) DeleteBooking(ctx context.Context, caller Caller, id string) (*DeleteResult, error) {
	if _, ok := calcom.ParseID(id); ok {
		if err := u.dismissalRepo.Dismiss(ctx, caller.UserID, id); err != nil {
			return nil, err
		}
		return &DeleteResult{
			Dismissed: true,
			Message:   "Cal.com booking removed from view. The booking is still active in Cal.com.",
		}, nil
	}

	booking, err := u.getParticipantBooking(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if booking.Status != model.BookingStatusCancelled {
		return nil, ErrBookingNotCancelled
	}

	if err := u.bookingRepo.DeleteBooking(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return &DeleteResult{Message: "Booking deleted successfully!"}, nil
}

func (u *bookingUsecase) BulkDeleteCancelled(
	ctx context.Context,
	caller Caller,
	ids []string,
) (*BulkDeleteResult, error) {
	candidates, err := u.bookingRepo.ListBookingsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	var snapshots []model.Booking
	var deleteIDs []string
	for _, b := range candidates {
		if b.IsParticipant(caller.UserID) && b.Status == model.BookingStatusCancelled {
			snapshots = append(snapshots, b)
			deleteIDs = append(deleteIDs, b.ID)
		}
	}
	if len(snapshots) == 0 {
		return nil, ErrNothingToDelete
	}

	now := u.now()
	batch := &model.DeletionBatch{
		ID:        uuid.NewString(),
		UserID:    caller.UserID,
		Bookings:  snapshots,
		CreatedAt: now,
		ExpiresAt: now.Add(u.undoWindow),
	}

	// The batch is written first so deleted bookings always have a snapshot.
	if err := u.deletionRepo.CreateBatch(ctx, batch); err != nil {
		return nil, err
	}

	deleted, err := u.bookingRepo.DeleteBookings(ctx, deleteIDs)
	if err != nil {
		return nil, err
	}

	return &BulkDeleteResult{
		BatchID:       batch.ID,
		Deleted:       int(deleted),
		UndoExpiresAt: batch.ExpiresAt,
	}, nil
}

func (u *bookingUsecase) UndoDelete(ctx context.Context, caller Caller, batchID string) ([]model.Booking, error) {
	batch, err := u.deletionRepo.GetBatch(ctx, batchID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUndoNotFound
		}
		return nil, err
	}
	if batch.UserID != caller.UserID {
		return nil, ErrUndoNotFound
	}

	// The TTL monitor removes expired batches lazily, so expiry is checked here too.
	if !u.now().Before(batch.ExpiresAt) {
		return nil, ErrUndoExpired
	}

	if err := u.bookingRepo.RestoreBookings(ctx, batch.Bookings); err != nil {
		return nil, err
	}

	if err := u.deletionRepo.DeleteBatch(ctx, batch.ID); err != nil {
		u.logger.Warn().Err(err).Str("batch_id", batch.ID).Msg("failed to remove restored deletion batch")
	}

	return batch.Bookings, nil
}

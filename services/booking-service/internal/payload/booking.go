package payload

import (
	"time"

	"github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/model"
)

type CreateBookingRequest struct {
	MentorID    string    `json:"mentorId"    validate:"required"`
	SlotID      string    `json:"slotId"      validate:"required"`
	SessionDate time.Time `json:"sessionDate" validate:"required"`
}

type BookingResponse struct {
	Success bool           `json:"success"`
	Booking *model.Booking `json:"booking"`
}

type ListBookingsResponse struct {
	Success  bool            `json:"success"`
	Bookings []model.Booking `json:"bookings"`
}

// ListBookingsQuery is read from the query string of GET /bookings.
type ListBookingsQuery struct {
	Sort   string `json:"sort"   validate:"omitempty,oneof=date status role name time"`
	Dir    string `json:"dir"    validate:"omitempty,oneof=asc desc"`
	Status string `json:"status" validate:"omitempty,oneof=pending confirmed cancelled"`
	Role   string `json:"role"   validate:"omitempty,oneof=mentor mentee"`
	Type   string `json:"type"   validate:"omitempty,oneof=calcom internal"`
	Search string `json:"search" validate:"max=200"`
}

type BulkDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,max=500,dive,required"`
}

type BulkDeleteResponse struct {
	Success       bool      `json:"success"`
	BatchID       string    `json:"batchId"`
	Deleted       int       `json:"deleted"`
	UndoExpiresAt time.Time `json:"undoExpiresAt"`
}

type UndoDeleteResponse struct {
	Success  bool            `json:"success"`
	Restored int             `json:"restored"`
	Bookings []model.Booking `json:"bookings"`
}

type MessageResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Dismissed bool   `json:"dismissed,omitempty"`
}

type MeetingResponse struct {
	Success   bool   `json:"success"`
	MeetLink  string `json:"meetLink"`
	EventID   string `json:"eventId,omitempty"`
	HTMLLink  string `json:"htmlLink,omitempty"`
	Method    string `json:"method"`
	Message   string `json:"message,omitempty"`
	Persisted bool   `json:"persisted"`
}

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/model"
	"github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/payload"
	"github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/usecase"
	"github.com/vasapolrittideah/mentorship-api/shared/httpx"
)

func (h *bookingHTTPHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req payload.CreateBookingRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	booking, err := h.bookingUsecase.CreateBooking(r.Context(), caller, usecase.CreateBookingParams{
		MentorID:    req.MentorID,
		SlotID:      req.SlotID,
		SessionDate: req.SessionDate,
	})
	if err != nil {
		h.writeUsecaseError(w, err, "failed to create booking")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, payload.BookingResponse{Success: true, Booking: booking})
}

func (h *bookingHTTPHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	q := r.URL.Query()
	query := payload.ListBookingsQuery{
		Sort:   q.Get("sort"),
		Dir:    q.Get("dir"),
		Status: q.Get("status"),
		Role:   q.Get("role"),
		Type:   q.Get("type"),
		Search: q.Get("search"),
	}
	if !h.validate(w, &query) {
		return
	}

	bookings, err := h.bookingUsecase.ListBookings(r.Context(), caller, usecase.ListOptions{
		Sort:   usecase.SortField(query.Sort),
		Desc:   query.Dir == "desc",
		Status: model.BookingStatus(query.Status),
		Role:   model.UserType(query.Role),
		Origin: model.BookingOrigin(query.Type),
		Search: query.Search,
	})
	if err != nil {
		h.writeUsecaseError(w, err, "failed to list bookings")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, payload.ListBookingsResponse{Success: true, Bookings: bookings})
}

func (h *bookingHTTPHandler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	booking, err := h.bookingUsecase.ConfirmBooking(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		h.writeUsecaseError(w, err, "failed to confirm booking")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, payload.BookingResponse{Success: true, Booking: booking})
}

func (h *bookingHTTPHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	if err := h.bookingUsecase.CancelBooking(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		h.writeUsecaseError(w, err, "failed to cancel booking")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, payload.MessageResponse{Success: true, Message: "Booking cancelled successfully!"})
}

func (h *bookingHTTPHandler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	result, err := h.bookingUsecase.DeleteBooking(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		h.writeUsecaseError(w, err, "failed to delete booking")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, payload.MessageResponse{
		Success:   true,
		Message:   result.Message,
		Dismissed: result.Dismissed,
	})
}

func (h *bookingHTTPHandler) BulkDeleteCancelled(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req payload.BulkDeleteRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.bookingUsecase.BulkDeleteCancelled(r.Context(), caller, req.IDs)
	if err != nil {
		h.writeUsecaseError(w, err, "failed to bulk delete bookings")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, payload.BulkDeleteResponse{
		Success:       true,
		BatchID:       result.BatchID,
		Deleted:       result.Deleted,
		UndoExpiresAt: result.UndoExpiresAt,
	})
}

func (h *bookingHTTPHandler) UndoDelete(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	restored, err := h.bookingUsecase.UndoDelete(r.Context(), caller, chi.URLParam(r, "batchId"))
	if err != nil {
		h.writeUsecaseError(w, err, "failed to undo bulk delete")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, payload.UndoDeleteResponse{
		Success:  true,
		Restored: len(restored),
		Bookings: restored,
	})
}

func (h *bookingHTTPHandler) AttachMeeting(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	meeting, err := h.bookingUsecase.AttachMeeting(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		h.writeUsecaseError(w, err, "failed to attach meeting")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, payload.MeetingResponse{
		Success:   true,
		MeetLink:  meeting.MeetLink,
		EventID:   meeting.EventID,
		HTMLLink:  meeting.HTMLLink,
		Method:    meeting.Method,
		Message:   meeting.Message,
		Persisted: meeting.Persisted,
	})
}

package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/mentorship-api/services/meet-service/internal/payload"
	"github.com/vasapolrittideah/mentorship-api/services/meet-service/internal/usecase"
	"github.com/vasapolrittideah/mentorship-api/shared/httpx"
	"github.com/vasapolrittideah/mentorship-api/shared/validation"
)

const googleNotConfigured = "Google Meet API not configured"

type meetingHTTPHandler struct {
	meetingUsecase usecase.MeetingUsecase
	validator      *validation.Validator
	location       *time.Location
	maxBodyBytes   int64
	now            func() time.Time
	logger         *zerolog.Logger
}

func NewMeetingHTTPHandler(
	meetingUsecase usecase.MeetingUsecase,
	validator *validation.Validator,
	location *time.Location,
	maxBodyBytes int64,
	logger *zerolog.Logger,
) *meetingHTTPHandler {
	return &meetingHTTPHandler{
		meetingUsecase: meetingUsecase,
		validator:      validator,
		location:       location,
		maxBodyBytes:   maxBodyBytes,
		now:            time.Now,
		logger:         logger,
	}
}

func (h *meetingHTTPHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)
	r.Post("/api/create-meeting", h.CreateMeeting)
	r.Delete("/api/delete-meeting/{eventId}", h.DeleteMeeting)
	r.Put("/api/update-meeting/{eventId}", h.UpdateMeeting)
}

func (h *meetingHTTPHandler) Health(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, payload.HealthResponse{
		Status:               "OK",
		GoogleMeetConfigured: h.meetingUsecase.GoogleConfigured(),
		Timestamp:            h.now().UTC(),
	})
}

func (h *meetingHTTPHandler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	booking, ok := h.decodeBooking(w, r)
	if !ok {
		return
	}

	meeting, err := h.meetingUsecase.CreateMeeting(r.Context(), booking)
	if errors.Is(err, usecase.ErrInvalidSessionTime) {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to create meeting")
		httpx.WriteErrorDetails(w, http.StatusInternalServerError, "Failed to create meeting", err.Error())
		return
	}

	h.logger.Info().
		Str("booking_id", booking.ID).
		Str("method", meeting.Method).
		Str("event_id", meeting.EventID).
		Msg("meeting created")

	httpx.WriteJSON(w, http.StatusOK, payload.MeetingResponse{
		Success:  true,
		MeetLink: meeting.MeetLink,
		EventID:  meeting.EventID,
		HTMLLink: meeting.HTMLLink,
		Method:   meeting.Method,
		Message:  meeting.Message,
	})
}

func (h *meetingHTTPHandler) UpdateMeeting(w http.ResponseWriter, r *http.Request) {
	booking, ok := h.decodeBooking(w, r)
	if !ok {
		return
	}

	if !h.meetingUsecase.GoogleConfigured() {
		httpx.WriteError(w, http.StatusBadRequest, googleNotConfigured)
		return
	}

	eventID := chi.URLParam(r, "eventId")
	meeting, err := h.meetingUsecase.UpdateMeeting(r.Context(), eventID, booking)
	if errors.Is(err, usecase.ErrInvalidSessionTime) {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("event_id", eventID).Msg("failed to update meeting")
		httpx.WriteErrorDetails(w, http.StatusInternalServerError, "Failed to update meeting", err.Error())
		return
	}

	httpx.WriteJSON(w, http.StatusOK, payload.MeetingResponse{
		Success:  true,
		MeetLink: meeting.MeetLink,
		EventID:  meeting.EventID,
		HTMLLink: meeting.HTMLLink,
	})
}

func (h *meetingHTTPHandler) DeleteMeeting(w http.ResponseWriter, r *http.Request) {
	if !h.meetingUsecase.GoogleConfigured() {
		httpx.WriteError(w, http.StatusBadRequest, googleNotConfigured)
		return
	}

	eventID := chi.URLParam(r, "eventId")
	if err := h.meetingUsecase.DeleteMeeting(r.Context(), eventID); err != nil {
		h.logger.Error().Err(err).Str("event_id", eventID).Msg("failed to delete meeting")
		httpx.WriteErrorDetails(w, http.StatusInternalServerError, "Failed to delete meeting", err.Error())
		return
	}

	httpx.WriteJSON(w, http.StatusOK, payload.DeleteMeetingResponse{
		Success: true,
		Message: "Meeting deleted successfully",
	})
}

// decodeBooking writes a 400 and returns false when the booking is missing or incomplete.
func (h *meetingHTTPHandler) decodeBooking(w http.ResponseWriter, r *http.Request) (usecase.Booking, bool) {
	var req payload.MeetingRequest
	if err := httpx.DecodeJSON(w, r, &req, h.maxBodyBytes); err != nil && !errors.Is(err, httpx.ErrEmptyBody) {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return usecase.Booking{}, false
	}

	if req.Booking == nil {
		httpx.WriteError(w, http.StatusBadRequest, "Booking data is required")
		return usecase.Booking{}, false
	}

	if err := h.validator.Struct(req.Booking); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) && len(verr.Names) > 0 {
			httpx.WriteError(w, http.StatusBadRequest, "Missing required field: "+verr.Names[0])
			return usecase.Booking{}, false
		}
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return usecase.Booking{}, false
	}

	booking, err := req.Booking.ToBooking(h.location)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return usecase.Booking{}, false
	}

	return booking, true
}

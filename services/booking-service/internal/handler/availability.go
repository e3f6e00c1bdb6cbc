package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/payload"
	"github.com/vasapolrittideah/mentorship-api/shared/httpx"
)

func (h *bookingHTTPHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req payload.SetAvailabilityRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	availability, err := h.availabilityUsecase.SetAvailability(r.Context(), caller, req.ToModel())
	if err != nil {
		h.writeUsecaseError(w, err, "failed to set availability")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, payload.AvailabilityResponse{Success: true, Availability: availability})
}

func (h *bookingHTTPHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	availability, err := h.availabilityUsecase.GetAvailability(r.Context(), chi.URLParam(r, "mentorId"))
	if err != nil {
		h.writeUsecaseError(w, err, "failed to get availability")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, payload.AvailabilityResponse{Success: true, Availability: availability})
}

// GetWeekView accepts an optional from=YYYY-MM-DD query parameter and defaults to today.
func (h *bookingHTTPHandler) GetWeekView(w http.ResponseWriter, r *http.Request) {
	from := h.now()
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "from must be a date in YYYY-MM-DD format")
			return
		}
		// Noon keeps the calendar day when the view converts to the platform time zone.
		from = parsed.Add(12 * time.Hour)
	}

	view, err := h.availabilityUsecase.GetWeekView(r.Context(), chi.URLParam(r, "mentorId"), from)
	if err != nil {
		h.writeUsecaseError(w, err, "failed to get week view")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, payload.WeekViewResponse{Success: true, WeekView: view})
}

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/payload"
	"github.com/vasapolrittideah/mentorship-api/shared/httpx"
)

func (h *bookingHTTPHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profileUsecase.GetProfile(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		h.writeUsecaseError(w, err, "failed to get profile")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, payload.ProfileResponse{Success: true, Profile: profile})
}

func (h *bookingHTTPHandler) UpsertMyProfile(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req payload.UpsertProfileRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	profile, err := h.profileUsecase.UpsertMyProfile(r.Context(), caller, req.ToModel())
	if err != nil {
		h.writeUsecaseError(w, err, "failed to save profile")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, payload.ProfileResponse{Success: true, Profile: profile})
}

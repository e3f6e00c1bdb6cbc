package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/payload"
	"github.com/vasapolrittideah/mentorship-api/shared/httpx"
)

func (h *bookingHTTPHandler) GetMyMatches(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	h.writeMatches(w, r, caller.UserID)
}

func (h *bookingHTTPHandler) GetUserMatches(w http.ResponseWriter, r *http.Request) {
	h.writeMatches(w, r, chi.URLParam(r, "uid"))
}

func (h *bookingHTTPHandler) writeMatches(w http.ResponseWriter, r *http.Request, uid string) {
	matches, err := h.matchingUsecase.GetBestMatchesForUser(r.Context(), uid)
	if err != nil {
		h.writeUsecaseError(w, err, "failed to get matches")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, payload.MatchesResponse{Success: true, Matches: matches})
}

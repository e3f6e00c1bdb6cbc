package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/payload"
	"github.com/vasapolrittideah/mentorship-api/shared/httpx"
)

func (h *bookingHTTPHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req payload.SubmitFeedbackRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	feedback, err := h.feedbackUsecase.SubmitFeedback(r.Context(), caller, chi.URLParam(r, "id"), req.ToModel())
	if err != nil {
		h.writeUsecaseError(w, err, "failed to submit feedback")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, payload.FeedbackResponse{Success: true, Feedback: feedback})
}

func (h *bookingHTTPHandler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	feedback, err := h.feedbackUsecase.ListFeedback(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		h.writeUsecaseError(w, err, "failed to list feedback")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, payload.ListFeedbackResponse{Success: true, Feedback: feedback})
}

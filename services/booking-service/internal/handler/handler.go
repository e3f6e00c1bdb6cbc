package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/usecase"
	"github.com/vasapolrittideah/mentorship-api/shared/calcom"
	"github.com/vasapolrittideah/mentorship-api/shared/httpx"
	"github.com/vasapolrittideah/mentorship-api/shared/meetclient"
	"github.com/vasapolrittideah/mentorship-api/shared/middleware"
	"github.com/vasapolrittideah/mentorship-api/shared/validation"
)

var errUnauthenticated = errors.New("missing user claims")

type bookingHTTPHandler struct {
	matchingUsecase     usecase.MatchingUsecase
	availabilityUsecase usecase.AvailabilityUsecase
	bookingUsecase      usecase.BookingUsecase
	feedbackUsecase     usecase.FeedbackUsecase
	profileUsecase      usecase.ProfileUsecase
	validator           *validation.Validator
	maxBodyBytes        int64
	now                 func() time.Time
	logger              *zerolog.Logger
}

// Usecases groups what the booking HTTP handler serves.
type Usecases struct {
	Matching     usecase.MatchingUsecase
	Availability usecase.AvailabilityUsecase
	Booking      usecase.BookingUsecase
	Feedback     usecase.FeedbackUsecase
	Profile      usecase.ProfileUsecase
}

func NewBookingHTTPHandler(
	usecases Usecases,
	validator *validation.Validator,
	maxBodyBytes int64,
	logger *zerolog.Logger,
) *bookingHTTPHandler {
	return &bookingHTTPHandler{
		matchingUsecase:     usecases.Matching,
		availabilityUsecase: usecases.Availability,
		bookingUsecase:      usecases.Booking,
		feedbackUsecase:     usecases.Feedback,
		profileUsecase:      usecases.Profile,
		validator:           validator,
		maxBodyBytes:        maxBodyBytes,
		now:                 time.Now,
		logger:              logger,
	}
}

// RegisterRoutes mounts the booking API on r. r must already authenticate requests.
func (h *bookingHTTPHandler) RegisterRoutes(r chi.Router) {
	r.Get("/matches", h.GetMyMatches)
	r.Get("/users/{uid}/matches", h.GetUserMatches)

	r.Get("/profiles/{uid}", h.GetProfile)
	r.Put("/profiles/me", h.UpsertMyProfile)

	r.Put("/availability", h.SetAvailability)
	r.Get("/mentors/{mentorId}/availability", h.GetAvailability)
	r.Get("/mentors/{mentorId}/week", h.GetWeekView)

	r.Route("/bookings", func(r chi.Router) {
		r.Post("/", h.CreateBooking)
		r.Get("/", h.ListBookings)
		r.Post("/bulk-delete", h.BulkDeleteCancelled)
		r.Post("/undo/{batchId}", h.UndoDelete)

		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", h.DeleteBooking)
			r.Post("/confirm", h.ConfirmBooking)
			r.Post("/cancel", h.CancelBooking)
			r.Post("/meeting", h.AttachMeeting)
			r.Post("/feedback", h.SubmitFeedback)
			r.Get("/feedback", h.ListFeedback)
		})
	})
}

func callerFromRequest(r *http.Request) (usecase.Caller, error) {
	claims, ok := middleware.UserClaimsFromContext(r.Context())
	if !ok || claims.UserID() == "" {
		return usecase.Caller{}, errUnauthenticated
	}

	return usecase.Caller{UserID: claims.UserID(), Email: claims.Email, Name: claims.Name}, nil
}

// decodeAndValidate writes a 400 and returns false when the body is not acceptable.
func (h *bookingHTTPHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(w, r, dst, h.maxBodyBytes); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return false
	}

	return h.validate(w, dst)
}

func (h *bookingHTTPHandler) validate(w http.ResponseWriter, v any) bool {
	if err := h.validator.Struct(v); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// writeUsecaseError maps usecase errors onto HTTP status codes.
func (h *bookingHTTPHandler) writeUsecaseError(w http.ResponseWriter, err error, msg string) {
	status, text := classifyError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error().Err(err).Msg(msg)
	} else {
		h.logger.Debug().Err(err).Msg(msg)
	}

	httpx.WriteError(w, status, text)
}

func classifyError(err error) (int, string) {
	var apiErr *calcom.APIError

	switch {
	case errors.Is(err, usecase.ErrProfileNotFound),
		errors.Is(err, usecase.ErrMentorNotFound),
		errors.Is(err, usecase.ErrBookingNotFound),
		errors.Is(err, usecase.ErrSlotNotFound),
		errors.Is(err, usecase.ErrAvailabilityNotSet),
		errors.Is(err, usecase.ErrUndoNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, usecase.ErrMissingEmail),
		errors.Is(err, usecase.ErrSelfBooking),
		errors.Is(err, usecase.ErrSlotDayMismatch),
		errors.Is(err, usecase.ErrSessionOutOfRange),
		errors.Is(err, usecase.ErrInvalidTimeSlot),
		errors.Is(err, usecase.ErrInvalidUserType),
		errors.Is(err, usecase.ErrCalComBookingReadOnly),
		errors.Is(err, usecase.ErrNothingToDelete):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, usecase.ErrNotParticipant),
		errors.Is(err, usecase.ErrNotBookingMentor),
		errors.Is(err, usecase.ErrNotMentor):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, usecase.ErrSlotUnavailable),
		errors.Is(err, usecase.ErrBookingNotCancelled),
		errors.Is(err, usecase.ErrFeedbackNotAllowed),
		errors.Is(err, usecase.ErrFeedbackExists):
		return http.StatusConflict, err.Error()
	case errors.Is(err, usecase.ErrUndoExpired):
		return http.StatusGone, err.Error()
	case errors.Is(err, usecase.ErrCalComUnavailable),
		errors.Is(err, usecase.ErrMeetingUnavailable):
		return http.StatusServiceUnavailable, err.Error()
	case errors.Is(err, meetclient.ErrMeetingFailed):
		return http.StatusBadGateway, "failed to create meeting"
	case errors.As(err, &apiErr):
		return http.StatusBadGateway, "Cal.com request failed"
	default:
		return http.StatusInternalServerError, "something went wrong"
	}
}

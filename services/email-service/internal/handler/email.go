package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/mentorship-api/services/email-service/internal/payload"
	"github.com/vasapolrittideah/mentorship-api/services/email-service/internal/usecase"
	"github.com/vasapolrittideah/mentorship-api/shared/httpx"
	"github.com/vasapolrittideah/mentorship-api/shared/validation"
)

// Guards are the middlewares placed in front of the relay routes. Nil entries are skipped.
type Guards struct {
	// APILimit applies to every /api route.
	APILimit func(http.Handler) http.Handler
	// SendLimit applies to the send routes only.
	SendLimit func(http.Handler) http.Handler
	// APIKey protects the send and config routes.
	APIKey func(http.Handler) http.Handler
}

type emailHTTPHandler struct {
	emailUsecase usecase.EmailUsecase
	validator    *validation.Validator
	serviceName  string
	maxBodyBytes int64
	now          func() time.Time
	logger       *zerolog.Logger
}

func NewEmailHTTPHandler(
	emailUsecase usecase.EmailUsecase,
	validator *validation.Validator,
	serviceName string,
	maxBodyBytes int64,
	logger *zerolog.Logger,
) *emailHTTPHandler {
	return &emailHTTPHandler{
		emailUsecase: emailUsecase,
		validator:    validator,
		serviceName:  serviceName,
		maxBodyBytes: maxBodyBytes,
		now:          time.Now,
		logger:       logger,
	}
}

func (h *emailHTTPHandler) RegisterRoutes(r chi.Router, guards Guards) {
	r.Route("/api", func(r chi.Router) {
		use(r, guards.APILimit)
		r.Get("/health", h.Health)

		r.Group(func(r chi.Router) {
			use(r, guards.APIKey)
			r.Get("/config-test", h.ConfigTest)

			r.Group(func(r chi.Router) {
				use(r, guards.SendLimit)
				r.Post("/email/send", h.Send)
				r.Post("/email/send-bulk", h.SendBulk)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteError(w, http.StatusNotFound, "Endpoint not found")
	})
}

func use(r chi.Router, mw func(http.Handler) http.Handler) {
	if mw != nil {
		r.Use(mw)
	}
}

func (h *emailHTTPHandler) Health(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, payload.HealthResponse{
		Status:    "ok",
		Timestamp: h.now().UTC(),
		Service:   h.serviceName,
	})
}

func (h *emailHTTPHandler) ConfigTest(w http.ResponseWriter, r *http.Request) {
	status := h.emailUsecase.ConfigStatus(r.Context())
	if status.AccessTokenError != "" || status.APIPermissionsError != "" {
		h.logger.Warn().
			Str("access_token_error", status.AccessTokenError).
			Str("api_permissions_error", status.APIPermissionsError).
			Msg("Zoho configuration check failed")
	}

	httpx.WriteJSON(w, http.StatusOK, payload.ConfigTestResponse{
		Success:   true,
		Config:    status,
		Timestamp: h.now().UTC(),
	})
}

func (h *emailHTTPHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req payload.SendEmailRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.emailUsecase.Send(r.Context(), req.ToMessage())
	if err != nil {
		h.writeSendError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, payload.SendEmailResponse{
		Success:   true,
		MessageID: result.MessageID,
		Details:   result.Details,
	})
}

func (h *emailHTTPHandler) SendBulk(w http.ResponseWriter, r *http.Request) {
	var req payload.SendBulkRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	results, err := h.emailUsecase.SendBulk(r.Context(), req.ToMessages())
	if err != nil {
		h.logger.Error().Err(err).Int("messages", len(req.Messages)).Msg("bulk send aborted")
		httpx.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := payload.SendBulkResponse{Success: true, Results: results}
	for _, result := range results {
		if result.Success {
			resp.TotalSent++
		} else {
			resp.TotalFailed++
		}
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *emailHTTPHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(w, r, dst, h.maxBodyBytes); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return false
	}

	return true
}

func (h *emailHTTPHandler) writeSendError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidAttachment):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		httpx.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

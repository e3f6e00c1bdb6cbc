package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/vasapolrittideah/mentorship-api/services/meet-service/internal/config"
	"github.com/vasapolrittideah/mentorship-api/services/meet-service/internal/handler"
	"github.com/vasapolrittideah/mentorship-api/services/meet-service/internal/usecase"
	"github.com/vasapolrittideah/mentorship-api/shared/discovery"
	"github.com/vasapolrittideah/mentorship-api/shared/logger"
	"github.com/vasapolrittideah/mentorship-api/shared/middleware"
	"github.com/vasapolrittideah/mentorship-api/shared/provider"
	"github.com/vasapolrittideah/mentorship-api/shared/utilities"
	"github.com/vasapolrittideah/mentorship-api/shared/validation"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.NewMeetServiceConfig()
	if err != nil {
		logger.New("meet-service").Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(cfg.ServiceName)
	ctx := context.Background()

	var calendar usecase.CalendarProvider
	if cfg.Google.Configured() {
		googleProvider, err := provider.NewGoogleCalendarProvider(ctx, cfg.Google)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Google Calendar")
		}
		calendar = googleProvider
		log.Info().Str("calendar_id", googleProvider.CalendarID()).Msg("Google Meet integration enabled")
	} else {
		log.Warn().Msg("Google service account not configured, using calendar links")
	}

	validator, err := validation.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create validator")
	}

	location := cfg.Location()
	meetingHandler := handler.NewMeetingHTTPHandler(
		usecase.NewMeetingUsecase(calendar, location),
		validator,
		location,
		cfg.MaxBodyBytes,
		log,
	)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}).Handler)
	meetingHandler.RegisterRoutes(r)

	healthServer, err := utilities.ServeHealth(cfg.GRPCHealthAddr, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start gRPC health server")
	}
	defer healthServer.GracefulStop()

	if cfg.Consul.Addr != "" {
		registry, err := discovery.NewRegistry(cfg.Consul.Addr, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create Consul client")
		}
		reg, err := discovery.NewRegistration(cfg.ServiceName, cfg.Consul.ServiceAddress, cfg.HTTPAddr, cfg.GRPCHealthAddr)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to build service registration")
		}
		if err := registry.Register(reg); err != nil {
			log.Fatal().Err(err).Msg("failed to register with Consul")
		}
		defer func() {
			if err := registry.Deregister(reg.ID); err != nil {
				log.Error().Err(err).Msg("failed to deregister from Consul")
			}
		}()
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := utilities.RunHTTPServer(srv, log); err != nil {
		log.Error().Err(err).Msg("HTTP server failed")
	}
}

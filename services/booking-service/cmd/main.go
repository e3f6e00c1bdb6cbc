package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/config"
	"github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/handler"
	"github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/repository"
	"github.com/vasapolrittideah/mentorship-api/services/booking-service/internal/usecase"
	"github.com/vasapolrittideah/mentorship-api/shared/auth"
	"github.com/vasapolrittideah/mentorship-api/shared/calcom"
	"github.com/vasapolrittideah/mentorship-api/shared/database"
	"github.com/vasapolrittideah/mentorship-api/shared/discovery"
	"github.com/vasapolrittideah/mentorship-api/shared/emailclient"
	"github.com/vasapolrittideah/mentorship-api/shared/logger"
	"github.com/vasapolrittideah/mentorship-api/shared/meetclient"
	"github.com/vasapolrittideah/mentorship-api/shared/middleware"
	"github.com/vasapolrittideah/mentorship-api/shared/notify"
	"github.com/vasapolrittideah/mentorship-api/shared/utilities"
	"github.com/vasapolrittideah/mentorship-api/shared/validation"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.NewBookingServiceConfig()
	if err != nil {
		logger.New("booking-service").Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(cfg.ServiceName)
	ctx := context.Background()

	mongoClient, err := database.ConnectMongo(ctx, cfg.Mongo.URI)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()
	db := mongoClient.Database(cfg.Mongo.Database)

	var registry *discovery.Registry
	if cfg.Consul.Addr != "" {
		registry, err = discovery.NewRegistry(cfg.Consul.Addr, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create Consul client")
		}
	}

	profileRepo := repository.NewProfileMongoRepository(ctx, log, db)
	availabilityRepo := repository.NewAvailabilityMongoRepository(db)
	bookingRepo := repository.NewBookingMongoRepository(ctx, log, db)
	deletionRepo := repository.NewDeletionMongoRepository(ctx, log, db)
	dismissalRepo := repository.NewDismissalMongoRepository(ctx, log, db)
	feedbackRepo := repository.NewFeedbackMongoRepository(ctx, log, db)

	deps := usecase.BookingDependencies{
		ProfileRepo:      profileRepo,
		AvailabilityRepo: availabilityRepo,
		BookingRepo:      bookingRepo,
		DeletionRepo:     deletionRepo,
		DismissalRepo:    dismissalRepo,
	}

	if cfg.Relays.CalComURL != "" {
		deps.CalCom = calcom.NewClient(cfg.Relays.CalComURL, cfg.Relays.RequestTimeout)
	} else {
		log.Warn().Msg("CALCOM_SERVER_BASE_URL not set, Cal.com bookings are disabled")
	}

	if meetURL := relayURL(registry, cfg.Relays.MeetURL, cfg.Consul.MeetServiceName, log); meetURL != nil {
		deps.Meetings = meetclient.NewResolvingClient(meetURL, cfg.Relays.RequestTimeout)
	}

	if emailURL := relayURL(registry, cfg.Relays.EmailURL, cfg.Consul.EmailServiceName, log); emailURL != nil {
		renderer, err := notify.NewRenderer()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to parse notification templates")
		}
		emailClient := emailclient.NewResolvingClient(emailURL, cfg.Relays.EmailAPIKey, cfg.Relays.RequestTimeout)
		deps.Notifier = notify.NewNotifier(renderer, emailClient, log)
	}

	location := cfg.Location()
	bookingHandler := handler.NewBookingHTTPHandler(
		handler.Usecases{
			Matching:     usecase.NewMatchingUsecase(profileRepo),
			Availability: usecase.NewAvailabilityUsecase(profileRepo, availabilityRepo, location),
			Booking:      usecase.NewBookingUsecase(deps, location, cfg.UndoWindow, log),
			Feedback:     usecase.NewFeedbackUsecase(bookingRepo, feedbackRepo),
			Profile:      usecase.NewProfileUsecase(profileRepo),
		},
		mustValidator(log),
		cfg.MaxBodyBytes,
		log,
	)

	jwtAuth := auth.NewJWTAuthenticator(cfg.Token.Secret, cfg.Token.Audience, cfg.Token.Issuer)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}).Handler)
	r.Use(utilities.ForwardHeaders())

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewJWTMiddleware(jwtAuth, log))
		bookingHandler.RegisterRoutes(r)
	})

	healthServer, err := utilities.ServeHealth(cfg.GRPCHealthAddr, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start gRPC health server")
	}
	defer healthServer.GracefulStop()

	if registry != nil {
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

// relayURL prefers the configured URL. Otherwise the relay is looked up in
// Consul on every request, so it may come up after this service.
func relayURL(registry *discovery.Registry, configured, serviceName string, log *zerolog.Logger) discovery.URLFunc {
	if configured != "" {
		return discovery.StaticURL(configured)
	}
	if registry == nil {
		log.Warn().Str("service", serviceName).Msg("relay URL not configured and Consul disabled")
		return nil
	}

	log.Info().Str("service", serviceName).Msg("relay will be resolved through Consul per request")
	return registry.Resolver(serviceName, "http")
}

func mustValidator(log *zerolog.Logger) *validation.Validator {
	v, err := validation.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create validator")
	}
	return v
}

package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/vasapolrittideah/mentorship-api/services/email-service/internal/config"
	"github.com/vasapolrittideah/mentorship-api/services/email-service/internal/handler"
	"github.com/vasapolrittideah/mentorship-api/services/email-service/internal/usecase"
	"github.com/vasapolrittideah/mentorship-api/shared/database"
	"github.com/vasapolrittideah/mentorship-api/shared/discovery"
	"github.com/vasapolrittideah/mentorship-api/shared/logger"
	"github.com/vasapolrittideah/mentorship-api/shared/mailer"
	"github.com/vasapolrittideah/mentorship-api/shared/middleware"
	"github.com/vasapolrittideah/mentorship-api/shared/provider"
	"github.com/vasapolrittideah/mentorship-api/shared/ratelimit"
	"github.com/vasapolrittideah/mentorship-api/shared/utilities"
	"github.com/vasapolrittideah/mentorship-api/shared/validation"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.NewEmailServiceConfig()
	if err != nil {
		logger.New("email-service").Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(cfg.ServiceName)
	ctx := context.Background()

	m := mailer.NewMailer(log)
	if err := m.Verify(); err != nil {
		log.Warn().Err(err).Msg("SMTP connection check failed")
	} else {
		log.Info().Msg("SMTP connection verified")
	}

	var store ratelimit.Store = ratelimit.NewMemoryStore()
	if cfg.Mongo.URI != "" {
		client, err := database.ConnectMongo(ctx, cfg.Mongo.URI)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to MongoDB")
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Error().Err(err).Msg("failed to disconnect from MongoDB")
			}
		}()

		store, err = ratelimit.NewMongoStore(ctx, client.Database(cfg.Mongo.Database))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize rate limit store")
		}
	} else {
		log.Warn().Msg("MONGO_URI not set, rate limits are per instance")
	}

	fromEmail, fromName := m.From()
	emailUsecase := usecase.NewEmailUsecase(
		m,
		provider.NewZohoProvider(cfg.Zoho, &http.Client{Timeout: cfg.ZohoTimeout}),
		usecase.EmailOptions{
			BatchSize:   cfg.Bulk.BatchSize,
			BatchDelay:  cfg.Bulk.BatchDelay,
			FromEmail:   fromEmail,
			FromName:    fromName,
			Environment: cfg.Environment,
			Zoho:        cfg.Zoho,
		},
		log,
	)

	validator, err := validation.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create validator")
	}

	emailHandler := handler.NewEmailHTTPHandler(emailUsecase, validator, cfg.ServiceName, cfg.MaxBodyBytes, log)

	if cfg.APIKeyHash == "" {
		log.Warn().Msg("API_KEY_HASH not set, email routes accept unauthenticated requests")
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", middleware.APIKeyHeader, "X-Request-ID"},
		AllowCredentials: true,
	}).Handler)
	emailHandler.RegisterRoutes(r, handler.Guards{
		APILimit: middleware.RateLimit(
			ratelimit.NewLimiter(store, "api", cfg.RateLimit.APILimit, cfg.RateLimit.APIWindow),
			"Too many requests from this IP, please try again later.",
			log,
		),
		SendLimit: middleware.RateLimit(
			ratelimit.NewLimiter(store, "email", cfg.RateLimit.SendLimit, cfg.RateLimit.SendWindow),
			"Too many email requests, please try again later.",
			log,
		),
		APIKey: middleware.RequireAPIKey(cfg.APIKeyHash, log),
	})

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

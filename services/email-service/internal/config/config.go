package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/vasapolrittideah/mentorship-api/shared/provider"
)

// EmailServiceConfig holds the configuration of the email relay.
type EmailServiceConfig struct {
	ServiceName    string   `env:"SERVICE_NAME"     envDefault:"email-service"`
	Environment    string   `env:"APP_ENV"          envDefault:"development"`
	HTTPAddr       string   `env:"HTTP_ADDR"        envDefault:":3002"`
	GRPCHealthAddr string   `env:"GRPC_HEALTH_ADDR" envDefault:":9082"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS"  envDefault:"http://localhost:5173,http://localhost:3000"`
	MaxBodyBytes   int64    `env:"MAX_BODY_BYTES"   envDefault:"10485760"`

	// APIKeyHash is the argon2 encoded hash of the key callers send in X-API-Key.
	// Empty leaves the send routes open.
	APIKeyHash string `env:"API_KEY_HASH"`

	RateLimit RateLimitConfig `envPrefix:"RATE_LIMIT_"`
	Bulk      BulkConfig      `envPrefix:"BULK_"`
	Mongo     MongoConfig     `envPrefix:"MONGO_"`
	Zoho      provider.ZohoConfig
	Consul    ConsulConfig `envPrefix:"CONSUL_"`

	ZohoTimeout time.Duration `env:"ZOHO_TIMEOUT" envDefault:"10s"`
}

type RateLimitConfig struct {
	APILimit   int64         `env:"API_LIMIT"   envDefault:"100"`
	APIWindow  time.Duration `env:"API_WINDOW"  envDefault:"15m"`
	SendLimit  int64         `env:"SEND_LIMIT"  envDefault:"10"`
	SendWindow time.Duration `env:"SEND_WINDOW" envDefault:"1m"`
}

type BulkConfig struct {
	BatchSize  int           `env:"BATCH_SIZE"  envDefault:"5"`
	BatchDelay time.Duration `env:"BATCH_DELAY" envDefault:"2s"`
}

// MongoConfig is optional here. Without a URI rate limits are kept in memory.
type MongoConfig struct {
	URI      string `env:"URI"`
	Database string `env:"DATABASE" envDefault:"mentorship"`
}

type ConsulConfig struct {
	Addr           string `env:"ADDR"`
	ServiceAddress string `env:"SERVICE_ADDRESS" envDefault:"localhost"`
}

// NewEmailServiceConfig parses the configuration from environment variables.
func NewEmailServiceConfig() (*EmailServiceConfig, error) {
	cfg, err := env.ParseAs[EmailServiceConfig]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if cfg.Bulk.BatchSize < 1 {
		return nil, fmt.Errorf("BULK_BATCH_SIZE must be positive, got %d", cfg.Bulk.BatchSize)
	}

	return &cfg, nil
}

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// BookingServiceConfig holds the configuration of the booking service.
type BookingServiceConfig struct {
	ServiceName    string        `env:"SERVICE_NAME"     envDefault:"booking-service"`
	HTTPAddr       string        `env:"HTTP_ADDR"        envDefault:":8080"`
	GRPCHealthAddr string        `env:"GRPC_HEALTH_ADDR" envDefault:":9080"`
	TimeZone       string        `env:"TIME_ZONE"        envDefault:"Europe/London"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS"  envDefault:"http://localhost:5173,http://localhost:3000"`
	UndoWindow     time.Duration `env:"UNDO_WINDOW"      envDefault:"5s"`
	MaxBodyBytes   int64         `env:"MAX_BODY_BYTES"   envDefault:"1048576"`

	Mongo  MongoConfig  `envPrefix:"MONGO_"`
	Token  TokenConfig  `envPrefix:"JWT_"`
	Relays RelayConfig
	Consul ConsulConfig `envPrefix:"CONSUL_"`
}

type MongoConfig struct {
	URI      string `env:"URI"      envDefault:"mongodb://localhost:27017"`
	Database string `env:"DATABASE" envDefault:"mentorship"`
}

type TokenConfig struct {
	Secret   string `env:"SECRET,required"`
	Issuer   string `env:"ISSUER"          envDefault:"mentorship-api"`
	Audience string `env:"AUDIENCE"        envDefault:"mentorship"`
}

// RelayConfig points at the relays booking-service calls. Empty meet and email
// URLs are resolved through Consul.
type RelayConfig struct {
	MeetURL        string        `env:"MEET_RELAY_URL"`
	EmailURL       string        `env:"EMAIL_RELAY_URL"`
	EmailAPIKey    string        `env:"EMAIL_RELAY_API_KEY"`
	CalComURL      string        `env:"CALCOM_SERVER_BASE_URL"`
	RequestTimeout time.Duration `env:"RELAY_TIMEOUT"          envDefault:"15s"`
}

type ConsulConfig struct {
	Addr             string `env:"ADDR"`
	ServiceAddress   string `env:"SERVICE_ADDRESS"     envDefault:"localhost"`
	MeetServiceName  string `env:"MEET_SERVICE_NAME"   envDefault:"meet-service"`
	EmailServiceName string `env:"EMAIL_SERVICE_NAME"  envDefault:"email-service"`
}

// NewBookingServiceConfig parses the configuration from environment variables.
func NewBookingServiceConfig() (*BookingServiceConfig, error) {
	cfg, err := env.ParseAs[BookingServiceConfig]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if _, err := time.LoadLocation(cfg.TimeZone); err != nil {
		return nil, fmt.Errorf("invalid TIME_ZONE %q: %w", cfg.TimeZone, err)
	}

	return &cfg, nil
}

// Location returns the time zone weekday names and slot times refer to.
func (c *BookingServiceConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/vasapolrittideah/mentorship-api/shared/provider"
)

// MeetServiceConfig holds the configuration of the meeting-link relay.
type MeetServiceConfig struct {
	ServiceName    string   `env:"SERVICE_NAME"     envDefault:"meet-service"`
	HTTPAddr       string   `env:"HTTP_ADDR"        envDefault:":3001"`
	GRPCHealthAddr string   `env:"GRPC_HEALTH_ADDR" envDefault:":9081"`
	TimeZone       string   `env:"TIME_ZONE"        envDefault:"Europe/London"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS"  envDefault:"*"`
	MaxBodyBytes   int64    `env:"MAX_BODY_BYTES"   envDefault:"1048576"`

	Google provider.GoogleCalendarConfig
	Consul ConsulConfig `envPrefix:"CONSUL_"`
}

type ConsulConfig struct {
	Addr           string `env:"ADDR"`
	ServiceAddress string `env:"SERVICE_ADDRESS" envDefault:"localhost"`
}

// NewMeetServiceConfig parses the configuration from environment variables.
func NewMeetServiceConfig() (*MeetServiceConfig, error) {
	cfg, err := env.ParseAs[MeetServiceConfig]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if _, err := time.LoadLocation(cfg.TimeZone); err != nil {
		return nil, fmt.Errorf("invalid TIME_ZONE %q: %w", cfg.TimeZone, err)
	}

	return &cfg, nil
}

// Location returns the time zone session times are given in.
func (c *MeetServiceConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

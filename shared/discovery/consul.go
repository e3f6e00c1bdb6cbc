package discovery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/hashicorp/consul/api"
	"github.com/rs/zerolog"
)

var ErrNoHealthyInstance = errors.New("no healthy service instance")

// Registration describes one service instance announced to Consul.
type Registration struct {
	ID             string
	Name           string
	Address        string
	Port           int
	GRPCHealthAddr string
	Tags           []string
}

// Registry registers services with Consul and resolves their addresses.
type Registry struct {
	client *api.Client
	logger *zerolog.Logger
}

// NewRegistry creates a Registry for the Consul agent at addr.
func NewRegistry(addr string, logger *zerolog.Logger) (*Registry, error) {
	cfg := api.DefaultConfig()
	if addr != "" {
		cfg.Address = addr
	}

	client, err := api.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	return &Registry{client: client, logger: logger}, nil
}

// Register announces the instance with a gRPC health check.
func (r *Registry) Register(reg Registration) error {
	service := &api.AgentServiceRegistration{
		ID:      reg.ID,
		Name:    reg.Name,
		Address: reg.Address,
		Port:    reg.Port,
		Tags:    reg.Tags,
	}

	if reg.GRPCHealthAddr != "" {
		service.Check = &api.AgentServiceCheck{
			GRPC:                           reg.GRPCHealthAddr,
			Interval:                       "10s",
			Timeout:                        "3s",
			DeregisterCriticalServiceAfter: "1m",
		}
	}

	if err := r.client.Agent().ServiceRegister(service); err != nil {
		return fmt.Errorf("failed to register %s: %w", reg.Name, err)
	}

	r.logger.Info().Str("service_id", reg.ID).Str("service", reg.Name).Msg("registered with consul")

	return nil
}

// Deregister removes the instance from Consul.
func (r *Registry) Deregister(id string) error {
	return r.client.Agent().ServiceDeregister(id)
}

// ResolveURL returns scheme://host:port of the first healthy instance of name.
func (r *Registry) ResolveURL(ctx context.Context, name, scheme string) (string, error) {
	entries, _, err := r.client.Health().Service(name, "", true, (&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoHealthyInstance, name)
	}

	entry := entries[0]
	host := entry.Service.Address
	if host == "" {
		host = entry.Node.Address
	}

	return fmt.Sprintf("%s://%s:%d", scheme, host, entry.Service.Port), nil
}

// NewRegistration builds a Registration for a service listening on httpAddr
// (":8080" or "host:8080") and announced under host.
func NewRegistration(name, host, httpAddr, grpcHealthAddr string) (Registration, error) {
	_, portStr, err := net.SplitHostPort(httpAddr)
	if err != nil {
		return Registration{}, fmt.Errorf("invalid HTTP address %q: %w", httpAddr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return Registration{}, fmt.Errorf("invalid HTTP port %q: %w", portStr, err)
	}

	reg := Registration{
		ID:      fmt.Sprintf("%s-%s-%d", name, host, port),
		Name:    name,
		Address: host,
		Port:    port,
		Tags:    []string{"http"},
	}

	if grpcHealthAddr != "" {
		_, healthPort, err := net.SplitHostPort(grpcHealthAddr)
		if err != nil {
			return Registration{}, fmt.Errorf("invalid gRPC health address %q: %w", grpcHealthAddr, err)
		}
		reg.GRPCHealthAddr = net.JoinHostPort(host, healthPort)
	}

	return reg, nil
}

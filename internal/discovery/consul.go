package discovery

import (
	"fmt"

	"github.com/hashicorp/consul/api"
	"github.com/rs/zerolog"

	"github.com/Tsaleem123/game-inventory-backend/internal/config"
)

// Registrar announces the service to consul so other services can find it.
type Registrar struct {
	client    *api.Client
	cfg       config.ConsulConfig
	serviceID string
	logger    *zerolog.Logger
}

// NewRegistrar creates a consul registrar.
func NewRegistrar(cfg config.ConsulConfig, logger *zerolog.Logger) (*Registrar, error) {
	consulCfg := api.DefaultConfig()
	consulCfg.Address = cfg.Address

	client, err := api.NewClient(consulCfg)
	if err != nil {
		return nil, err
	}

	return &Registrar{
		client:    client,
		cfg:       cfg,
		serviceID: fmt.Sprintf("%s-%s-%d", cfg.ServiceName, cfg.ServiceHost, cfg.ServicePort),
		logger:    logger,
	}, nil
}

// Register announces the service with an HTTP health check on /healthz.
func (r *Registrar) Register() error {
	registration := &api.AgentServiceRegistration{
		ID:      r.serviceID,
		Name:    r.cfg.ServiceName,
		Address: r.cfg.ServiceHost,
		Port:    r.cfg.ServicePort,
		Check: &api.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/healthz", r.cfg.ServiceHost, r.cfg.ServicePort),
			Interval:                       "10s",
			Timeout:                        "5s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}

	if err := r.client.Agent().ServiceRegister(registration); err != nil {
		return err
	}

	r.logger.Info().Str("service_id", r.serviceID).Msg("registered with consul")

	return nil
}

// Deregister removes the service from consul.
func (r *Registrar) Deregister() {
	if err := r.client.Agent().ServiceDeregister(r.serviceID); err != nil {
		r.logger.Warn().Err(err).Msg("failed to deregister from consul")
		return
	}

	r.logger.Info().Str("service_id", r.serviceID).Msg("deregistered from consul")
}

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds the application configuration parsed from the environment.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"game_inventory"`

	Token   TokenConfig
	App     AppConfig
	Catalog CatalogConfig
	Consul  ConsulConfig
}

// TokenConfig holds the JWT signing configuration.
type TokenConfig struct {
	Secret                      string        `env:"TOKEN_SECRET"`
	Issuer                      string        `env:"TOKEN_ISSUER" envDefault:"game-inventory-api"`
	Audience                    string        `env:"TOKEN_AUDIENCE" envDefault:"game-inventory-api"`
	SessionTokenExpiresIn       time.Duration `env:"SESSION_TOKEN_EXPIRES_IN" envDefault:"24h"`
	EmailTokenExpiresIn         time.Duration `env:"EMAIL_TOKEN_EXPIRES_IN" envDefault:"15m"`
	PasswordResetTokenExpiresIn time.Duration `env:"PASSWORD_RESET_TOKEN_EXPIRES_IN" envDefault:"15m"`
}

// AppConfig holds the links embedded into outgoing emails.
type AppConfig struct {
	EmailConfirmURL  string `env:"APP_EMAIL_CONFIRM_URL"`
	PasswordResetURL string `env:"APP_PASSWORD_RESET_URL"`
}

// CatalogConfig holds the configuration for the external game catalog.
type CatalogConfig struct {
	BaseURL  string        `env:"CATALOG_BASE_URL" envDefault:"https://api.rawg.io/api"`
	APIKey   string        `env:"CATALOG_API_KEY"`
	CacheTTL time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"1h"`
}

// ConsulConfig holds the optional service registration settings.
type ConsulConfig struct {
	Enabled     bool   `env:"CONSUL_ENABLED" envDefault:"false"`
	Address     string `env:"CONSUL_ADDRESS" envDefault:"localhost:8500"`
	ServiceName string `env:"CONSUL_SERVICE_NAME" envDefault:"game-inventory-api"`
	ServiceHost string `env:"CONSUL_SERVICE_HOST" envDefault:"localhost"`
	ServicePort int    `env:"CONSUL_SERVICE_PORT" envDefault:"8080"`
}

// NewConfig creates a Config instance from environment variables.
func NewConfig(logger *zerolog.Logger) *Config {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate configuration")
	}

	return &cfg
}

// validate checks if the configuration is valid.
func (c *Config) validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("missing MONGO_URI environment variable")
	}
	if c.Token.Secret == "" {
		return fmt.Errorf("missing TOKEN_SECRET environment variable")
	}
	if c.App.EmailConfirmURL == "" {
		return fmt.Errorf("missing APP_EMAIL_CONFIRM_URL environment variable")
	}
	if c.App.PasswordResetURL == "" {
		return fmt.Errorf("missing APP_PASSWORD_RESET_URL environment variable")
	}

	return nil
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"aegis"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	PostgresDSN string `env:"POSTGRES_DSN"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:"," envDefault:"localhost:9092"`

	// TokenSecret is the process-wide signing key, loaded once at startup and
	// immutable thereafter.
	TokenSecret string `env:"TOKEN_SECRET"`
	// TokenDurationSeconds drives token expiry; non-positive values are kept
	// as-is so immediately expired tokens can be issued in tests.
	TokenDurationSeconds int64 `env:"TOKEN_DURATION_SECONDS" envDefault:"86400"`

	WorkerPollInterval time.Duration `env:"WORKER_POLL_INTERVAL" envDefault:"2s"`

	EnableProfileReplication bool `env:"ENABLE_PROFILE_REPLICATION" envDefault:"true"`
	EnableOutboxRelay        bool `env:"ENABLE_OUTBOX_RELAY" envDefault:"true"`
}

// Load reads .env (when present) and the process environment.
func Load() (Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.ServiceName = strings.TrimSpace(cfg.ServiceName)
	if cfg.ServiceName == "" {
		cfg.ServiceName = "aegis"
	}
	return cfg, nil
}

// TokenDuration returns the configured token lifetime.
func (c Config) TokenDuration() time.Duration {
	return time.Duration(c.TokenDurationSeconds) * time.Second
}

// HTTPAddr normalizes the configured port into a listen address.
func (c Config) HTTPAddr() string {
	value := strings.TrimSpace(c.HTTPPort)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}

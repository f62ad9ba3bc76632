package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all server configuration, loaded from environment variables
type Config struct {
	Host string `env:"CHECKER_HOST" envDefault:""`
	Port int    `env:"CHECKER_PORT" envDefault:"8080"`

	// StorageType selects the storage backend ("memory" or "redis")
	StorageType string `env:"CHECKER_STORAGE" envDefault:"memory"`
	RedisURL    string `env:"CHECKER_REDIS_URL" envDefault:"redis://localhost:6379"`

	SessionDuration time.Duration `env:"CHECKER_SESSION_TTL" envDefault:"24h"`
}

// Load parses configuration from the environment
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

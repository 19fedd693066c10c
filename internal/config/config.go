// Package config reads server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds server configuration
type Config struct {
	Host string `env:"GP_HOST" envDefault:""`
	Port int    `env:"GP_PORT" envDefault:"8080"`

	// StorageType selects the storage backend: memory, redis or postgres
	StorageType string `env:"GP_STORAGE" envDefault:"memory"`
	RedisURL    string `env:"GP_REDIS_URL"`
	DatabaseDSN string `env:"GP_DATABASE_DSN"`

	// Round policy
	RoundDuration time.Duration `env:"GP_ROUND_DURATION" envDefault:"2m"`
	WinReward     int64         `env:"GP_WIN_REWARD" envDefault:"50"`

	// Account policy
	StartingCoins   int64         `env:"GP_STARTING_COINS" envDefault:"100"`
	SessionDuration time.Duration `env:"GP_SESSION_DURATION" envDefault:"24h"`
}

// Parse reads configuration from environment variables and validates it
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageType {
	case "memory":
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("GP_REDIS_URL required when GP_STORAGE=redis")
		}
	case "postgres":
		if c.DatabaseDSN == "" {
			return fmt.Errorf("GP_DATABASE_DSN required when GP_STORAGE=postgres")
		}
	default:
		return fmt.Errorf("invalid GP_STORAGE %q: must be memory, redis or postgres", c.StorageType)
	}

	if c.RoundDuration <= 0 {
		return fmt.Errorf("GP_ROUND_DURATION must be positive")
	}
	if c.WinReward < 0 {
		return fmt.Errorf("GP_WIN_REWARD must not be negative")
	}
	if c.StartingCoins < 0 {
		return fmt.Errorf("GP_STARTING_COINS must not be negative")
	}
	if c.SessionDuration <= 0 {
		return fmt.Errorf("GP_SESSION_DURATION must be positive")
	}

	return nil
}

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration read from the environment.
type Config struct {
	Addr          string        `env:"HEROINES_ADDR" envDefault:":8080"`
	DatabasePath  string        `env:"HEROINES_DB" envDefault:"./data/heroines.db"`
	CatalogPath   string        `env:"HEROINES_CATALOG" envDefault:"./heroines_catalog.json"`
	StateTTL      time.Duration `env:"HEROINES_STATE_TTL" envDefault:"24h"`
	SweepInterval time.Duration `env:"HEROINES_SWEEP_INTERVAL" envDefault:"1m"`
	// MediaURL is the public base URL of portraits and battle backgrounds.
	MediaURL string `env:"HEROINES_MEDIA_URL" envDefault:"/media"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns the Config for the current environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.SweepInterval <= 0 {
		return Config{}, fmt.Errorf("HEROINES_SWEEP_INTERVAL must be positive, got %s", cfg.SweepInterval)
	}
	return cfg, nil
}

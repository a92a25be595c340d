// Package config reads runtime settings from the environment and an optional
// .env file.
package config

import (
	"fmt"
	"time"

	"fightnight/policy"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL   string        `env:"DATABASE_URL" envDefault:"./fightnight.db"`
	Port          string        `env:"PORT" envDefault:"8080"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	RosterImport  string        `env:"ROSTER_IMPORT"`
	PromotionName string        `env:"PROMOTION_NAME" envDefault:"FNC"`
	StartYear     int           `env:"START_YEAR" envDefault:"2012"`
	StartEvent    int           `env:"START_EVENT" envDefault:"142"`
	Seed          int64         `env:"SIM_SEED" envDefault:"0"`
	EventInterval time.Duration `env:"EVENT_INTERVAL" envDefault:"0s"`

	Policy policy.SimulationPolicy `envPrefix:"SIM_"`

	// DotEnvLoaded reports whether a .env file was found.
	DotEnvLoaded bool `env:"-"`
}

// Load reads .env when present, then the process environment. Variables
// already set in the environment win over .env.
func Load() (*Config, error) {
	cfg := &Config{DotEnvLoaded: godotenv.Load() == nil}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.PromotionName == "" {
		return fmt.Errorf("PROMOTION_NAME is required")
	}
	if c.StartEvent < 1 {
		return fmt.Errorf("START_EVENT must be positive, got %d", c.StartEvent)
	}
	if c.EventInterval < 0 {
		return fmt.Errorf("EVENT_INTERVAL must not be negative, got %s", c.EventInterval)
	}
	if err := c.Policy.Validate(); err != nil {
		return fmt.Errorf("SIM_*: %w", err)
	}
	return nil
}

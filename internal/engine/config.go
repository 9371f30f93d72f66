package engine

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config carries the tunables of the engine. Defaults match the shipped
// behavior; the environment can override them for power users and tests.
type Config struct {
	DBPath         string        `env:"FATELINE_DB_PATH"`
	PersistDelay   time.Duration `env:"FATELINE_PERSIST_DEBOUNCE" envDefault:"200ms"`
	SpinDelay      time.Duration `env:"FATELINE_SPIN_DELAY" envDefault:"1500ms"`
	HydrateTimeout time.Duration `env:"FATELINE_HYDRATE_TIMEOUT" envDefault:"3s"`
}

// FromEnv loads configuration from environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns the built-in defaults without consulting the
// environment.
func DefaultConfig() Config {
	return Config{
		PersistDelay:   200 * time.Millisecond,
		SpinDelay:      1500 * time.Millisecond,
		HydrateTimeout: 3 * time.Second,
	}
}

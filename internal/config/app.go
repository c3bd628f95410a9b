package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type App struct {
	BasePath      string        `env:"APP_BASE_PATH"`
	Port          string        `env:"APP_PORT"           envDefault:":8080"`
	SessionTTL    time.Duration `env:"APP_SESSION_TTL"    envDefault:"24h"`
	SweepInterval time.Duration `env:"APP_SWEEP_INTERVAL" envDefault:"10m"`
	MaxCells      int           `env:"APP_MAX_CELLS"      envDefault:"10000"`
}

func NewApp() (*App, error) {
	var cfg App
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("unable to parse app config: %w", err)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("APP_SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	if cfg.SweepInterval <= 0 {
		return nil, fmt.Errorf("APP_SWEEP_INTERVAL must be positive, got %s", cfg.SweepInterval)
	}
	return &cfg, nil
}

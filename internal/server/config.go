package server

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// AppConfig holds runtime configuration. Values come from the environment
// (CC_* variables) with flag overrides applied in main.
type AppConfig struct {
	Addr          string `env:"CC_ADDR" envDefault:":8080"`
	DBPath        string `env:"CC_DB_PATH" envDefault:"catalyst-core.db"`
	StoreBaseURL  string `env:"CC_STORE_BASE_URL"`
	DefaultPlayer string `env:"CC_DEFAULT_PLAYER" envDefault:"Anon"`
}

// DefaultAppConfig returns the built-in defaults without consulting the
// environment.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Addr:          ":8080",
		DBPath:        "catalyst-core.db",
		DefaultPlayer: "Anon",
	}
}

// LoadAppConfig parses configuration from the environment.
func LoadAppConfig() (AppConfig, error) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return DefaultAppConfig(), fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

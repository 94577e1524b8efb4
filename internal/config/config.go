package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

const envDev = "dev"

// ErrSessionSecretRequired is returned outside development when SESSION_SECRET is empty.
var ErrSessionSecretRequired = errors.New("SESSION_SECRET is required outside dev")

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env           string `env:"APP_ENV" envDefault:"dev"`
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
	SessionSecret string `env:"SESSION_SECRET"`
	DBPath        string `env:"DB_PATH" envDefault:"./dev.db"`
	Port          string `env:"PORT" envDefault:"8080"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
}

// IsDev reports whether the process runs in the local development environment.
func (c Config) IsDev() bool {
	return c.Env == envDev
}

// Validate rejects settings that are only tolerated in development.
func (c Config) Validate() error {
	if !c.IsDev() && c.SessionSecret == "" {
		return fmt.Errorf("%w (APP_ENV=%s)", ErrSessionSecretRequired, c.Env)
	}
	return nil
}

// Load reads an optional .env file and the environment into a Config.
func Load() (Config, error) {
	// Best-effort: a missing .env is normal outside local development.
	// godotenv never overrides variables already present in the environment.
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	return Parse()
}

// Parse builds a Config from the current process environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.AdminEmail == "" {
		slog.Warn("ADMIN_EMAIL is not set")
	}
	if cfg.AdminPassword == "" {
		slog.Warn("ADMIN_PASSWORD is not set")
	}
	if cfg.SessionSecret == "" {
		slog.Warn("SESSION_SECRET is not set")
	}

	return cfg, nil
}

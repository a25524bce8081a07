// Package config loads the backoffice configuration from environment
// variables, once, at startup.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix for all settings.
const Prefix = "backoffice"

// Config is the full configuration surface. All values come from
// BACKOFFICE_* environment variables.
type Config struct {
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":8080"`

	// APIURL is the base address of the chatbot backend.
	APIURL string `envconfig:"API_URL" default:"http://localhost:3000"`

	// AuthEnabled switches between the real auth provider and the
	// always-authenticated stub.
	AuthEnabled bool `envconfig:"AUTH_ENABLED" default:"false"`

	// AuthURL and AuthAnonKey configure the auth provider. Both are
	// required when AuthEnabled is on and ignored otherwise.
	AuthURL     string `envconfig:"AUTH_URL"`
	AuthAnonKey string `envconfig:"AUTH_ANON_KEY"`

	DataDir         string        `envconfig:"DATA_DIR" default:"/var/lib/backoffice"`
	SessionLifetime time.Duration `envconfig:"SESSION_LIFETIME" default:"24h"`

	// PageSize is the lead table page size.
	PageSize int `envconfig:"PAGE_SIZE" default:"10"`
}

// Load reads and validates configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if cfg.AuthEnabled {
		if cfg.AuthURL == "" {
			return nil, fmt.Errorf("BACKOFFICE_AUTH_URL is required when auth is enabled")
		}
		if cfg.AuthAnonKey == "" {
			return nil, fmt.Errorf("BACKOFFICE_AUTH_ANON_KEY is required when auth is enabled")
		}
	}
	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("BACKOFFICE_PAGE_SIZE must be positive, got %d", cfg.PageSize)
	}

	return &cfg, nil
}

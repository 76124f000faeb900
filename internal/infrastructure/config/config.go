package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all client configuration.
type Config struct {
	Server    ServerConfig
	Session   SessionConfig
	Transport TransportConfig
	Catalog   CatalogConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds the local control API listener.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8700"`
	Host string `envconfig:"HOST" default:"127.0.0.1"`
}

// SessionConfig holds idle watchdog settings.
type SessionConfig struct {
	IdleTimeout  time.Duration `envconfig:"SESSION_IDLE_TIMEOUT" default:"5m"`
	TickInterval time.Duration `envconfig:"SESSION_TICK_INTERVAL" default:"30s"`
}

// TransportConfig holds the backend websocket link settings.
type TransportConfig struct {
	URL              string        `envconfig:"TRANSPORT_URL" default:"ws://localhost:8000/stream"`
	HandshakeTimeout time.Duration `envconfig:"TRANSPORT_HANDSHAKE_TIMEOUT" default:"10s"`
	WriteTimeout     time.Duration `envconfig:"TRANSPORT_WRITE_TIMEOUT" default:"5s"`
}

// CatalogConfig holds view catalog seeding settings.
type CatalogConfig struct {
	Dir       string `envconfig:"CATALOG_DIR" default:"./views"`
	Pattern   string `envconfig:"CATALOG_PATTERN" default:"**/*.{view.yaml,view.yml,view.toml,view.json}"`
	RemoteURL string `envconfig:"CATALOG_REMOTE_URL"`
	Watch     bool   `envconfig:"CATALOG_WATCH" default:"false"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds control API rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"50"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"100"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8700",
			Host: "127.0.0.1",
		},
		Session: SessionConfig{
			IdleTimeout:  5 * time.Minute,
			TickInterval: 30 * time.Second,
		},
		Transport: TransportConfig{
			URL:              "ws://localhost:8000/stream",
			HandshakeTimeout: 10 * time.Second,
			WriteTimeout:     5 * time.Second,
		},
		Catalog: CatalogConfig{
			Dir:     "./views",
			Pattern: "**/*.{view.yaml,view.yml,view.toml,view.json}",
		},
		Logging: LogConfig{
			Level: "info",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 50,
			Burst:             100,
			Enabled:           true,
		},
	}
}

// Validate rejects settings the watchdog cannot run with.
func (c *Config) Validate() error {
	if c.Session.TickInterval <= 0 {
		return fmt.Errorf("session tick interval must be positive, got %s", c.Session.TickInterval)
	}
	if c.Session.IdleTimeout < c.Session.TickInterval {
		return fmt.Errorf("session idle timeout %s is shorter than tick interval %s",
			c.Session.IdleTimeout, c.Session.TickInterval)
	}
	return nil
}

// Addr returns the control API listen address.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "8700", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "127.0.0.1:8700", cfg.Server.Addr())

	assert.Equal(t, 5*time.Minute, cfg.Session.IdleTimeout)
	assert.Equal(t, 30*time.Second, cfg.Session.TickInterval)

	assert.Equal(t, "ws://localhost:8000/stream", cfg.Transport.URL)
	assert.Equal(t, "./views", cfg.Catalog.Dir)
	assert.False(t, cfg.Catalog.Watch)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	assert.Equal(t, 50, cfg.RateLimit.RequestsPerSecond)
	assert.True(t, cfg.RateLimit.Enabled)

	require.NoError(t, cfg.Validate())
}

func TestLoadMatchesDefault(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":                        "9100",
		"HOST":                        "0.0.0.0",
		"SESSION_IDLE_TIMEOUT":        "10m",
		"SESSION_TICK_INTERVAL":       "15s",
		"TRANSPORT_URL":               "wss://backend.local/stream",
		"TRANSPORT_HANDSHAKE_TIMEOUT": "2s",
		"CATALOG_DIR":                 "/opt/views",
		"CATALOG_REMOTE_URL":          "https://views.local/catalog.json",
		"CATALOG_WATCH":               "true",
		"LOG_LEVEL":                   "debug",
		"LOG_DEV":                     "true",
		"RATE_LIMIT_ENABLED":          "false",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 10*time.Minute, cfg.Session.IdleTimeout)
	assert.Equal(t, 15*time.Second, cfg.Session.TickInterval)
	assert.Equal(t, "wss://backend.local/stream", cfg.Transport.URL)
	assert.Equal(t, 2*time.Second, cfg.Transport.HandshakeTimeout)
	assert.Equal(t, 5*time.Second, cfg.Transport.WriteTimeout)
	assert.Equal(t, "/opt/views", cfg.Catalog.Dir)
	assert.Equal(t, "https://views.local/catalog.json", cfg.Catalog.RemoteURL)
	assert.True(t, cfg.Catalog.Watch)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		idle     time.Duration
		interval time.Duration
		wantErr  bool
	}{
		{name: "defaults", idle: 5 * time.Minute, interval: 30 * time.Second},
		{name: "equal", idle: time.Minute, interval: time.Minute},
		{name: "zero interval", idle: time.Minute, interval: 0, wantErr: true},
		{name: "idle shorter than interval", idle: 10 * time.Second, interval: time.Minute, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Session.IdleTimeout = tt.idle
			cfg.Session.TickInterval = tt.interval

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadOrDefaultFallsBack(t *testing.T) {
	t.Setenv("SESSION_TICK_INTERVAL", "not-a-duration")

	_, err := Load()
	require.Error(t, err)

	cfg := LoadOrDefault()
	assert.Equal(t, 30*time.Second, cfg.Session.TickInterval)
}

// Package config provides 12-factor configuration for the client.
//
// Configuration is loaded from environment variables with defaults; CLI
// flags in cmd/client override individual values.
//
// Configuration Sections:
//   - Server: local control API listener
//   - Session: idle threshold and watchdog tick interval
//   - Transport: websocket link to the backend
//   - Catalog: where view definitions are seeded from
//   - Logging: log level and output format
//   - RateLimit: control API rate limiting
//
// Environment Variables:
//   - PORT, HOST
//   - SESSION_IDLE_TIMEOUT, SESSION_TICK_INTERVAL
//   - TRANSPORT_URL, TRANSPORT_HANDSHAKE_TIMEOUT, TRANSPORT_WRITE_TIMEOUT
//   - CATALOG_DIR, CATALOG_PATTERN, CATALOG_REMOTE_URL, CATALOG_WATCH
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config

// Package logging provides structured logging using uber/zap.
//
// Two output modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: colored console output for humans
//
// Components receive a *zap.Logger and name it after themselves, so a
// session expiry reads as "session" in the logger field.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Named("watchdog").Info("armed", zap.Duration("interval", 30*time.Second))
package logging

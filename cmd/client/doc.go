// Package main is the entry point for the AgentOS session client.
//
// The client loads view definitions into the catalog, connects to the
// backend over a websocket, opens a session and serves a local control API
// for driving it. The session ends when its idle watchdog fires, when the
// control API closes it, or on SIGINT/SIGTERM.
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Connect to a local backend with views from ./views
//	./client --server ws://localhost:8000/stream --views ./views
//
//	# Development mode with hot-reloaded views and an auto-login
//	./client --dev --watch --user ada
//
// Signals:
//   - SIGINT, SIGTERM: Finish the session and shut down
package main

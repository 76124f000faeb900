/*
Package monitoring provides Prometheus metrics for the client.

# Overview

Each Metrics value owns its own registry so several sessions (or several
tests) can collect side by side without colliding on global registration.

# Tracked Metrics

- Control API requests (count, latency)
- Session lifecycle (starts, terminations by reason, live sessions)
- Watchdog ticks and recovered tick failures
- Navigation results per operation
- Packets sent and received per type
- Transport connections and catalog size

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, "set_primary")
	// ... navigate ...
	timer.Stop("success")
*/
package monitoring

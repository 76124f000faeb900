package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Session metrics
	SessionsActive      prometheus.Gauge
	SessionsStarted     prometheus.Counter
	SessionTerminations *prometheus.CounterVec

	// Watchdog metrics
	WatchdogTicks    prometheus.Counter
	WatchdogFailures prometheus.Counter

	// Navigation metrics
	Navigations        *prometheus.CounterVec
	NavigationDuration *prometheus.HistogramVec

	// Transport metrics
	Packets       *prometheus.CounterVec
	WSConnections prometheus.Gauge
	CatalogViews  prometheus.Gauge

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds current values for the health endpoint
type Snapshot struct {
	TotalRequests   int64 `json:"total_requests"`
	SessionsActive  int64 `json:"sessions_active"`
	WatchdogTicks   int64 `json:"watchdog_ticks"`
	PacketsSent     int64 `json:"packets_sent"`
	PacketsReceived int64 `json:"packets_received"`
	Terminations    int64 `json:"terminations"`
}

// NewMetrics creates a metrics collector backed by a private registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "client_http_requests_total",
				Help: "Total number of control API requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "client_http_request_duration_seconds",
				Help:    "Control API request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"method", "path"},
		),

		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "client_sessions_active",
				Help: "Number of sessions that are started and not terminated",
			},
		),
		SessionsStarted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "client_sessions_started_total",
				Help: "Total number of sessions started",
			},
		),
		SessionTerminations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "client_session_terminations_total",
				Help: "Total number of session terminations by reason",
			},
			[]string{"reason"},
		),

		WatchdogTicks: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "client_watchdog_ticks_total",
				Help: "Total number of idle watchdog checks",
			},
		),
		WatchdogFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "client_watchdog_tick_failures_total",
				Help: "Total number of watchdog checks that panicked and were recovered",
			},
		),

		Navigations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "client_navigations_total",
				Help: "Total number of navigation operations by result",
			},
			[]string{"operation", "status"},
		),
		NavigationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "client_navigation_duration_seconds",
				Help:    "Navigation operation duration in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"operation"},
		),

		Packets: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "client_packets_total",
				Help: "Total number of packets by direction and type",
			},
			[]string{"direction", "type"},
		),
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "client_websocket_connections",
				Help: "Number of open backend websocket connections",
			},
		),
		CatalogViews: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "client_catalog_views",
				Help: "Number of views known to the catalog",
			},
		),

		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "client_uptime_seconds",
				Help: "Client uptime in seconds",
			},
		),
	}

	go m.updateUptime()

	return m
}

// Handler serves this collector in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordHTTPRequest records a control API request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.mu.Unlock()
}

// SessionStarted records a session leaving the unauthenticated start
func (m *Metrics) SessionStarted() {
	m.SessionsStarted.Inc()
	m.SessionsActive.Inc()

	m.mu.Lock()
	m.snapshot.SessionsActive++
	m.mu.Unlock()
}

// SessionTerminated records a termination; reason is "finish" or "idle_timeout"
func (m *Metrics) SessionTerminated(reason string, wasStarted bool) {
	m.SessionTerminations.WithLabelValues(reason).Inc()
	if wasStarted {
		m.SessionsActive.Dec()
	}

	m.mu.Lock()
	m.snapshot.Terminations++
	if wasStarted {
		m.snapshot.SessionsActive--
	}
	m.mu.Unlock()
}

// RecordWatchdogTick records one idle check
func (m *Metrics) RecordWatchdogTick() {
	m.WatchdogTicks.Inc()

	m.mu.Lock()
	m.snapshot.WatchdogTicks++
	m.mu.Unlock()
}

// RecordWatchdogFailure records a recovered tick panic
func (m *Metrics) RecordWatchdogFailure() {
	m.WatchdogFailures.Inc()
}

// RecordNavigation records a navigation operation outcome
func (m *Metrics) RecordNavigation(operation, status string, duration time.Duration) {
	m.Navigations.WithLabelValues(operation, status).Inc()
	m.NavigationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordPacket records a packet; direction is "sent" or "received"
func (m *Metrics) RecordPacket(direction, packetType string) {
	m.Packets.WithLabelValues(direction, packetType).Inc()

	m.mu.Lock()
	switch direction {
	case "sent":
		m.snapshot.PacketsSent++
	case "received":
		m.snapshot.PacketsReceived++
	}
	m.mu.Unlock()
}

// IncWSConnections increments open websocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
}

// DecWSConnections decrements open websocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
}

// SetCatalogViews sets the catalog size
func (m *Metrics) SetCatalogViews(count int) {
	m.CatalogViews.Set(float64(count))
}

// GetSnapshot returns a copy of the current counters
func (m *Metrics) GetSnapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

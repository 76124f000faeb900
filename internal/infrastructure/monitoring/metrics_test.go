package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsIndependentRegistries(t *testing.T) {
	// Two collectors must not collide on registration.
	a := NewMetrics()
	b := NewMetrics()

	a.SessionStarted()

	assert.Equal(t, float64(1), testutil.ToFloat64(a.SessionsActive))
	assert.Equal(t, float64(0), testutil.ToFloat64(b.SessionsActive))
}

func TestSessionLifecycleMetrics(t *testing.T) {
	m := NewMetrics()

	m.SessionStarted()
	m.SessionTerminated("idle_timeout", true)
	m.SessionTerminated("finish", false)

	assert.Equal(t, float64(0), testutil.ToFloat64(m.SessionsActive))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SessionTerminations.WithLabelValues("idle_timeout")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SessionTerminations.WithLabelValues("finish")))

	snap := m.GetSnapshot()
	assert.Equal(t, int64(0), snap.SessionsActive)
	assert.Equal(t, int64(2), snap.Terminations)
}

func TestPacketAndWatchdogMetrics(t *testing.T) {
	m := NewMetrics()

	m.RecordPacket("sent", "logout")
	m.RecordPacket("received", "pong")
	m.RecordPacket("received", "pong")
	m.RecordWatchdogTick()
	m.RecordWatchdogFailure()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.Packets.WithLabelValues("received", "pong")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.WatchdogFailures))

	snap := m.GetSnapshot()
	assert.Equal(t, int64(1), snap.PacketsSent)
	assert.Equal(t, int64(2), snap.PacketsReceived)
	assert.Equal(t, int64(1), snap.WatchdogTicks)
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/views/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	router.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/views/home", nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/views/:id", "204")))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "client_http_requests_total"))
}

func TestTimerNilMetrics(t *testing.T) {
	assert.NotPanics(t, func() {
		NewTimer(nil, "set_primary").Stop("success")
	})
}

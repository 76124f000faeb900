package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStartSpanContinuesTrace(t *testing.T) {
	tracer := New("client", nil)
	defer tracer.Close()

	root, ctx := tracer.StartSpan(context.Background(), "root")
	child, ctx := tracer.StartSpan(ctx, "child")

	assert.NotEmpty(t, root.TraceID)
	assert.Equal(t, root.TraceID, child.TraceID)
	assert.Equal(t, root.SpanID, child.ParentID)
	assert.NotEqual(t, root.SpanID, child.SpanID)
	assert.Equal(t, child.SpanID, GetSpanID(ctx))
}

func TestInjectExtractRoundTrip(t *testing.T) {
	tracer := New("client", nil)
	defer tracer.Close()

	span, ctx := tracer.StartSpan(context.Background(), "dial")
	header := http.Header{}
	InjectTraceContext(ctx, header)

	got := ExtractTraceContext(context.Background(), header)
	assert.Equal(t, span.TraceID, GetTraceID(got))
	assert.Equal(t, span.SpanID, GetSpanID(got))
}

func TestCloseFlushesSpans(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tracer := New("client", zap.New(core))

	span, _ := tracer.StartSpan(context.Background(), "fail")
	span.SetError(errors.New("boom"))
	span.Finish()
	tracer.Submit(span)

	tracer.Close()
	tracer.Close()
	tracer.Submit(span)

	require.Equal(t, 1, logs.FilterMessage("span completed with error").Len())
}

func TestHTTPMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	tracer := New("client", zap.New(core))

	var seen TraceID
	router := gin.New()
	router.Use(HTTPMiddleware(tracer))
	router.GET("/health", func(c *gin.Context) {
		seen = GetTraceID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(HeaderTraceID, "trace-1")
	router.ServeHTTP(w, req)
	tracer.Close()

	assert.Equal(t, TraceID("trace-1"), seen)
	assert.Equal(t, "trace-1", w.Header().Get(HeaderTraceID))
	assert.NotEmpty(t, w.Header().Get(HeaderSpanID))

	entries := logs.FilterMessage("span completed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "GET /health", entries[0].ContextMap()["operation"])
}

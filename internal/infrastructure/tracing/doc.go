/*
Package tracing provides lightweight request tracing for the client.

Spans carry a trace id and a span id. Incoming control API requests
continue the trace named by the X-Trace-ID and X-Span-ID headers, and
the same headers are written on the websocket handshake so the backend
can correlate a session's link with the request that opened it.

# Usage

	tracer := tracing.New("client", logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "dial")
	defer func() { span.Finish(); tracer.Submit(span) }()

	header := http.Header{}
	tracing.InjectTraceContext(ctx, header)

Finished spans are logged by a collector goroutine; Close drains the
buffer before returning.
*/
package tracing

package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestHTTPMiddleware_RecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	mw := HTTPMiddleware(tp.Tracer("test"),
		func(*http.Request) string { return "/api/next" },
		func(*http.Request) string { return "req-1" },
	)
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/next", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, SpanRemote, spans[0].Name())

	attrs := map[string]any{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	require.Equal(t, "POST", attrs[AttrHTTPMethod])
	require.Equal(t, "/api/next", attrs[AttrHTTPRoute])
	require.Equal(t, "req-1", attrs[AttrRequestID])
	require.EqualValues(t, 500, attrs[AttrHTTPStatus])
}

func TestHTTPMiddleware_NilTracerPassThrough(t *testing.T) {
	called := false
	h := HTTPMiddleware(nil, nil, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.True(t, called)
}

package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

func setupTracing(t *testing.T) {
	t.Helper()
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
}

func TestHTTPMiddleware_PutsLoggerInContext(t *testing.T) {
	setupTracing(t)

	base := zap.NewNop()
	var got *zap.Logger
	var traced bool

	router := chi.NewRouter()
	router.Use(HTTPMiddleware("test", base))
	router.Get("/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		got = LoggerFromContext(r.Context(), nil)
		traced = len(TraceFields(r.Context())) == 2
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/42", nil))

	require.Equal(t, http.StatusTeapot, rec.Code)
	require.NotNil(t, got)
	require.True(t, traced)
}

func TestLoggerFromContext_Fallback(t *testing.T) {
	fallback := zap.NewNop()
	require.Same(t, fallback, LoggerFromContext(context.Background(), fallback))
}

func TestKafkaHeaders_RoundTrip(t *testing.T) {
	setupTracing(t)

	ctx, span := otel.Tracer("test").Start(context.Background(), "publish")
	defer span.End()

	headers := InjectKafkaHeaders(ctx, []kafka.Header{{Key: "content-type", Value: []byte("application/json")}})
	require.Len(t, headers, 2)

	extracted := ExtractKafkaHeaders(context.Background(), headers)
	require.Equal(t, span.SpanContext().TraceID().String(), TraceFields(extracted)[0].String)
}

func TestNewHTTPClient_InjectsTraceparent(t *testing.T) {
	setupTracing(t)

	var traceparent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceparent = r.Header.Get("traceparent")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, span := otel.Tracer("test").Start(context.Background(), "parent")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := NewHTTPClient("test", 0).Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.NotEmpty(t, traceparent)
	require.Empty(t, req.Header.Get("traceparent"))
}

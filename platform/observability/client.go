package observability

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// NewHTTPClient создаёт http.Client для вызовов внешних API (Paystack, OpenAI, ElevenLabs, Telegram):
// span на каждый запрос + инжект trace context в заголовки.
// timeout <= 0 означает отсутствие таймаута на уровне клиента.
func NewHTTPClient(serviceName string, timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &tracingTransport{
			base:   http.DefaultTransport,
			tracer: otel.Tracer(serviceName),
		},
	}
}

type tracingTransport struct {
	base   http.RoundTripper
	tracer trace.Tracer
}

// RoundTrip создаёт client span и прокидывает trace context дальше
func (t *tracingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx, span := t.tracer.Start(req.Context(), "HTTP "+req.Method+" "+req.URL.Host,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("server.address", req.URL.Host),
			attribute.String("url.path", req.URL.Path),
		),
	)
	defer span.End()

	// RoundTripper не должен менять исходный запрос
	outReq := req.Clone(ctx)
	otel.GetTextMapPropagator().Inject(ctx, httpHeaderCarrier{outReq.Header})

	resp, err := t.base.RoundTrip(outReq)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, resp.Status)
	}
	return resp, nil
}

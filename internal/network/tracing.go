package network

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/url-shortener/url-shortener/internal/network"

// TracingProvider decorates a Provider with one client span per call.
type TracingProvider struct {
	next   Provider
	tracer trace.Tracer
}

// NewTracingProvider wraps next. A nil tp uses the global tracer provider.
func NewTracingProvider(next Provider, tp trace.TracerProvider) *TracingProvider {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &TracingProvider{
		next:   next,
		tracer: tp.Tracer(instrumentationName),
	}
}

func (p *TracingProvider) Do(ctx context.Context, req Request) (*Response[[]byte], error) {
	ctx, span := p.start(ctx, req)
	defer span.End()

	resp, err := p.next.Do(ctx, req)
	finish(span, resp, err)
	return resp, err
}

func (p *TracingProvider) DoInto(ctx context.Context, req Request, out any) (*Response[[]byte], error) {
	ctx, span := p.start(ctx, req)
	defer span.End()

	resp, err := p.next.DoInto(ctx, req, out)
	finish(span, resp, err)
	return resp, err
}

func (p *TracingProvider) start(ctx context.Context, req Request) (context.Context, trace.Span) {
	return p.tracer.Start(ctx, "network."+string(req.method()),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", string(req.method())),
			attribute.String("url.full", req.Endpoint),
			attribute.Int("network.query_params", len(req.Query)),
		),
	)
}

func finish(span trace.Span, resp *Response[[]byte], err error) {
	if status, ok := StatusCode(err); ok {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
}

var _ Provider = (*TracingProvider)(nil)

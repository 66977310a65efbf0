// Package telemetry traces progress vertices as OpenTelemetry spans.
package telemetry

import (
	"context"
	"io"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/lumos/internal/core/domain"
	"go.trai.ch/lumos/internal/core/ports"
)

// InstrumentationName names the tracer spans are recorded under.
const InstrumentationName = "go.trai.ch/lumos"

var _ ports.Telemetry = (*Tracing)(nil)

// Tracing wraps a ports.Telemetry and mirrors each vertex as a span.
type Tracing struct {
	next   ports.Telemetry
	tracer trace.Tracer
}

// NewTracing creates a Tracing on the globally registered tracer provider.
func NewTracing(next ports.Telemetry) *Tracing {
	return NewTracingWithProvider(next, otel.GetTracerProvider())
}

// NewTracingWithProvider creates a Tracing on the given tracer provider.
func NewTracingWithProvider(next ports.Telemetry, provider trace.TracerProvider) *Tracing {
	return &Tracing{
		next:   next,
		tracer: provider.Tracer(InstrumentationName),
	}
}

// Record starts a span and a vertex of the wrapped telemetry.
func (t *Tracing) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	ctx, span := t.tracer.Start(ctx, name)
	ctx, inner := t.next.Record(ctx, name)

	v := &SpanVertex{next: inner, span: span}
	return ports.ContextWithVertex(ctx, v), v
}

// Close closes the wrapped telemetry.
func (t *Tracing) Close() error {
	return t.next.Close()
}

// SpanVertex is a ports.Vertex that ends its span when the vertex finishes.
type SpanVertex struct {
	next ports.Vertex
	span trace.Span
	once sync.Once
}

// Stdout returns the writer of the wrapped vertex.
func (v *SpanVertex) Stdout() io.Writer {
	return v.next.Stdout()
}

// Stderr returns the writer of the wrapped vertex.
func (v *SpanVertex) Stderr() io.Writer {
	return v.next.Stderr()
}

// Log records msg as a span event and forwards it.
func (v *SpanVertex) Log(level domain.LogLevel, msg string) {
	v.span.AddEvent("log", trace.WithAttributes(
		attribute.String("level", level.String()),
		attribute.String("message", msg),
	))
	v.next.Log(level, msg)
}

// Complete ends the span, marking it failed when err is non-nil.
func (v *SpanVertex) Complete(err error) {
	v.once.Do(func() {
		if err != nil {
			v.span.RecordError(err)
			v.span.SetStatus(codes.Error, err.Error())
		} else {
			v.span.SetStatus(codes.Ok, "")
		}
		v.span.End()
	})
	v.next.Complete(err)
}

// Cached ends the span as a cache hit.
func (v *SpanVertex) Cached() {
	v.once.Do(func() {
		v.span.SetAttributes(attribute.Bool("cached", true))
		v.span.SetStatus(codes.Ok, "")
		v.span.End()
	})
	v.next.Cached()
}

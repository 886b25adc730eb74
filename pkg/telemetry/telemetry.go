// Package telemetry instruments tool dispatch with OpenTelemetry traces and
// metrics. Both middlewares work against any provider; with the global
// no-op providers they cost next to nothing.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/germanamz/calcmcp/pkg/tools/envelope"
	"github.com/germanamz/calcmcp/pkg/tools/schema"
	"github.com/germanamz/calcmcp/pkg/tools/toolbox"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName identifies the tracer and meter created by this package.
const InstrumentationName = "github.com/germanamz/calcmcp/pkg/telemetry"

const (
	attrToolName    = "tool.name"
	attrToolIsError = "tool.is_error"
	attrToolOutcome = "tool.outcome"
)

// Outcome attribute values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
	OutcomeFault = "fault"
)

func outcomeOf(out envelope.Outcome, err error) string {
	switch {
	case err != nil:
		return OutcomeFault
	case out.Failed():
		return OutcomeError
	default:
		return OutcomeOK
	}
}

// Tracing returns a Middleware that records one "tool.call" span per call.
// Faults set the span status to Error; failed outcomes are tagged with
// tool.is_error but keep an Unset status.
func Tracing(tp trace.TracerProvider) toolbox.Middleware {
	tracer := tp.Tracer(InstrumentationName)

	return func(name string, next toolbox.Handler) toolbox.Handler {
		return func(ctx context.Context, args schema.Args) (envelope.Outcome, error) {
			ctx, span := tracer.Start(ctx, "tool.call",
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(attribute.String(attrToolName, name)),
			)
			defer span.End()

			out, err := next(ctx, args)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())

				return out, err
			}

			span.SetAttributes(attribute.Bool(attrToolIsError, out.Failed()))

			return out, nil
		}
	}
}

// Metrics holds the dispatch instruments.
type Metrics struct {
	calls    metric.Int64Counter
	duration metric.Float64Histogram
}

// NewMetrics creates the tool.calls counter and tool.duration histogram.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter(InstrumentationName)

	calls, err := meter.Int64Counter("tool.calls",
		metric.WithDescription("Number of tool calls."),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create tool.calls counter: %w", err)
	}

	duration, err := meter.Float64Histogram("tool.duration",
		metric.WithDescription("Duration of tool calls."),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create tool.duration histogram: %w", err)
	}

	return &Metrics{calls: calls, duration: duration}, nil
}

// Middleware returns a Middleware that counts calls and records their
// duration, both tagged with tool.name and tool.outcome.
func (m *Metrics) Middleware() toolbox.Middleware {
	return func(name string, next toolbox.Handler) toolbox.Handler {
		return func(ctx context.Context, args schema.Args) (envelope.Outcome, error) {
			start := time.Now()

			out, err := next(ctx, args)

			attrs := metric.WithAttributes(
				attribute.String(attrToolName, name),
				attribute.String(attrToolOutcome, outcomeOf(out, err)),
			)
			m.calls.Add(ctx, 1, attrs)
			m.duration.Record(ctx, time.Since(start).Seconds(), attrs)

			return out, err
		}
	}
}

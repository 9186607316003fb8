package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	model "github.com/navi-mes/planfeed/pkg/planner/core/domain/model"
	metrics "github.com/navi-mes/planfeed/pkg/planner/core/metrics"
)

// OpenTelemetryTracer is an implementation of metrics.Tracer using OpenTelemetry.
type OpenTelemetryTracer struct {
	tracer trace.Tracer
}

var _ metrics.Tracer = (*OpenTelemetryTracer)(nil)

// NewOpenTelemetryTracer creates a tracer on provider.
func NewOpenTelemetryTracer(provider trace.TracerProvider) *OpenTelemetryTracer {
	return &OpenTelemetryTracer{tracer: provider.Tracer(instrumentationName)}
}

// StartRunSpan starts the root span of a synthesis run.
func (t *OpenTelemetryTracer) StartRunSpan(ctx context.Context, run *model.SynthesisRun) (context.Context, func()) {
	ctx, span := t.tracer.Start(ctx, "synthesis.run", trace.WithAttributes(
		attribute.String("planfeed.run_id", run.RunID),
		attribute.String("planfeed.tenant_id", run.TenantID),
		attribute.String("planfeed.variant", string(run.Variant)),
		attribute.String("planfeed.trigger", run.Trigger),
	))
	return ctx, func() {
		span.SetAttributes(attribute.String("planfeed.status", string(run.Status)))
		if run.Status == model.RunStatusCompleted {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
}

// StartStageSpan starts a span for a stage, as a child of the span in ctx.
func (t *OpenTelemetryTracer) StartStageSpan(ctx context.Context, stage *model.StageExecution) (context.Context, func()) {
	ctx, span := t.tracer.Start(ctx, "synthesis.stage."+stage.Name, trace.WithAttributes(
		attribute.String("planfeed.run_id", stage.RunID),
		attribute.String("planfeed.stage", stage.Name),
	))
	return ctx, func() {
		span.SetAttributes(attribute.String("planfeed.status", string(stage.Status)))
		span.End()
	}
}

// RecordError records err on the span in ctx and marks it as failed.
func (t *OpenTelemetryTracer) RecordError(ctx context.Context, module string, err error) {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err, trace.WithAttributes(attribute.String("planfeed.module", module)))
	span.SetStatus(codes.Error, err.Error())
}

// RecordEvent adds an event to the span in ctx. Attribute values are converted by type.
func (t *OpenTelemetryTracer) RecordEvent(ctx context.Context, name string, attributes map[string]interface{}) {
	kvs := make([]attribute.KeyValue, 0, len(attributes))
	for k, v := range attributes {
		switch val := v.(type) {
		case string:
			kvs = append(kvs, attribute.String(k, val))
		case int:
			kvs = append(kvs, attribute.Int(k, val))
		case int64:
			kvs = append(kvs, attribute.Int64(k, val))
		case float64:
			kvs = append(kvs, attribute.Float64(k, val))
		case bool:
			kvs = append(kvs, attribute.Bool(k, val))
		default:
			kvs = append(kvs, attribute.String(k, fmt.Sprint(val)))
		}
	}
	trace.SpanFromContext(ctx).AddEvent(name, trace.WithAttributes(kvs...))
}

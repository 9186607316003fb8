package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"

	model "github.com/navi-mes/planfeed/pkg/planner/core/domain/model"
	metrics "github.com/navi-mes/planfeed/pkg/planner/core/metrics"
	logger "github.com/navi-mes/planfeed/pkg/planner/support/util/logger"
)

const instrumentationName = "github.com/navi-mes/planfeed"

// OpenTelemetryRecorder records synthesis metrics through an OpenTelemetry MeterProvider.
type OpenTelemetryRecorder struct {
	runs          otelmetric.Int64Counter
	runDuration   otelmetric.Float64Histogram
	stages        otelmetric.Int64Counter
	stageDuration otelmetric.Float64Histogram
	skipped       otelmetric.Int64Counter
	opDuration    otelmetric.Float64Histogram
}

var _ metrics.MetricRecorder = (*OpenTelemetryRecorder)(nil)

// NewOpenTelemetryRecorder creates the instruments on a meter of provider.
func NewOpenTelemetryRecorder(provider otelmetric.MeterProvider) (*OpenTelemetryRecorder, error) {
	meter := provider.Meter(instrumentationName)
	r := &OpenTelemetryRecorder{}
	var err error
	if r.runs, err = meter.Int64Counter("planfeed.runs",
		otelmetric.WithDescription("Synthesis runs by variant and status.")); err != nil {
		return nil, err
	}
	if r.runDuration, err = meter.Float64Histogram("planfeed.run.duration",
		otelmetric.WithUnit("s"), otelmetric.WithDescription("Duration of synthesis runs.")); err != nil {
		return nil, err
	}
	if r.stages, err = meter.Int64Counter("planfeed.stages",
		otelmetric.WithDescription("Stage executions by stage and status.")); err != nil {
		return nil, err
	}
	if r.stageDuration, err = meter.Float64Histogram("planfeed.stage.duration",
		otelmetric.WithUnit("s"), otelmetric.WithDescription("Duration of pipeline stages.")); err != nil {
		return nil, err
	}
	if r.skipped, err = meter.Int64Counter("planfeed.records.skipped",
		otelmetric.WithDescription("Store records left out of instances by stage and reason.")); err != nil {
		return nil, err
	}
	if r.opDuration, err = meter.Float64Histogram("planfeed.operation.duration",
		otelmetric.WithUnit("s"), otelmetric.WithDescription("Duration of miscellaneous operations.")); err != nil {
		return nil, err
	}
	logger.Debugf("Metrics: OpenTelemetry recorder initialized.")
	return r, nil
}

func (r *OpenTelemetryRecorder) RecordRunStart(ctx context.Context, run *model.SynthesisRun) {}

func (r *OpenTelemetryRecorder) RecordRunEnd(ctx context.Context, run *model.SynthesisRun) {
	if run.EndTime.IsZero() {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("variant", string(run.Variant)),
		attribute.String("status", string(run.Status)),
	)
	r.runs.Add(ctx, 1, attrs)
	r.runDuration.Record(ctx, run.Duration().Seconds(), attrs)
}

func (r *OpenTelemetryRecorder) RecordStageStart(ctx context.Context, stage *model.StageExecution) {}

func (r *OpenTelemetryRecorder) RecordStageEnd(ctx context.Context, stage *model.StageExecution) {
	if stage.EndTime.IsZero() {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("stage", stage.Name),
		attribute.String("status", string(stage.Status)),
	)
	r.stages.Add(ctx, 1, attrs)
	r.stageDuration.Record(ctx, stage.Duration().Seconds(), attrs)
}

func (r *OpenTelemetryRecorder) RecordSkip(ctx context.Context, stage string, reason string, count int) {
	if count <= 0 {
		return
	}
	r.skipped.Add(ctx, int64(count), otelmetric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("reason", reason),
	))
}

func (r *OpenTelemetryRecorder) RecordDuration(ctx context.Context, name string, duration time.Duration, tags map[string]string) {
	kvs := make([]attribute.KeyValue, 0, len(tags)+1)
	kvs = append(kvs, attribute.String("operation", name))
	for k, v := range tags {
		kvs = append(kvs, attribute.String(k, v))
	}
	r.opDuration.Record(ctx, duration.Seconds(), otelmetric.WithAttributes(kvs...))
}

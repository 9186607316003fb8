package metrics

import (
	"context"
	"time"

	"github.com/navi-mes/planfeed/pkg/planner/core/domain/model"
)

// NoOpMetricRecorder is a MetricRecorder that does nothing.
// It is used when metrics are disabled or during testing.
type NoOpMetricRecorder struct{}

// NewNoOpMetricRecorder creates a new instance of NoOpMetricRecorder.
func NewNoOpMetricRecorder() MetricRecorder {
	return &NoOpMetricRecorder{}
}

// RecordRunStart does nothing.
func (r *NoOpMetricRecorder) RecordRunStart(ctx context.Context, run *model.SynthesisRun) {}

// RecordRunEnd does nothing.
func (r *NoOpMetricRecorder) RecordRunEnd(ctx context.Context, run *model.SynthesisRun) {}

// RecordStageStart does nothing.
func (r *NoOpMetricRecorder) RecordStageStart(ctx context.Context, stage *model.StageExecution) {}

// RecordStageEnd does nothing.
func (r *NoOpMetricRecorder) RecordStageEnd(ctx context.Context, stage *model.StageExecution) {}

// RecordSkip does nothing.
func (r *NoOpMetricRecorder) RecordSkip(ctx context.Context, stage string, reason string, count int) {
}

// RecordDuration does nothing.
func (r *NoOpMetricRecorder) RecordDuration(ctx context.Context, name string, duration time.Duration, tags map[string]string) {
}

var _ MetricRecorder = (*NoOpMetricRecorder)(nil)

// NoOpTracer is a Tracer that does nothing.
type NoOpTracer struct{}

// NewNoOpTracer creates a new instance of NoOpTracer.
func NewNoOpTracer() Tracer {
	return &NoOpTracer{}
}

// StartRunSpan returns ctx unchanged and an empty finish func.
func (t *NoOpTracer) StartRunSpan(ctx context.Context, run *model.SynthesisRun) (context.Context, func()) {
	return ctx, func() {}
}

// StartStageSpan returns ctx unchanged and an empty finish func.
func (t *NoOpTracer) StartStageSpan(ctx context.Context, stage *model.StageExecution) (context.Context, func()) {
	return ctx, func() {}
}

// RecordError does nothing.
func (t *NoOpTracer) RecordError(ctx context.Context, module string, err error) {}

// RecordEvent does nothing.
func (t *NoOpTracer) RecordEvent(ctx context.Context, name string, attributes map[string]interface{}) {}

var _ Tracer = (*NoOpTracer)(nil)

// Package metrics declares the observability abstractions of the synthesis pipeline.
// Backends (Prometheus, OpenTelemetry) live in the infrastructure layer.
package metrics

import (
	"context"
	"time"

	"github.com/navi-mes/planfeed/pkg/planner/core/domain/model"
)

// MetricRecorder records metrics about synthesis runs and their stages.
type MetricRecorder interface {
	// RecordRunStart records the start of a synthesis run.
	RecordRunStart(ctx context.Context, run *model.SynthesisRun)

	// RecordRunEnd records the outcome, duration and instance size of a finished run.
	RecordRunEnd(ctx context.Context, run *model.SynthesisRun)

	// RecordStageStart records the start of a pipeline stage.
	RecordStageStart(ctx context.Context, stage *model.StageExecution)

	// RecordStageEnd records the outcome and duration of a pipeline stage.
	RecordStageEnd(ctx context.Context, stage *model.StageExecution)

	// RecordSkip records records left out by a stage.
	// reason names the rule that dropped them (e.g., "skipped_no_cycle_time").
	RecordSkip(ctx context.Context, stage string, reason string, count int)

	// RecordDuration records the execution time of an arbitrary operation.
	//
	// tags: additional labels, e.g. `{"endpoint": "/planner-input"}`.
	RecordDuration(ctx context.Context, name string, duration time.Duration, tags map[string]string)
}

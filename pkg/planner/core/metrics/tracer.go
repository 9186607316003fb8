package metrics

import (
	"context"

	"github.com/navi-mes/planfeed/pkg/planner/core/domain/model"
)

// Tracer integrates the pipeline with a distributed tracing system.
type Tracer interface {
	// StartRunSpan starts a span for a synthesis run.
	// It returns a context carrying the span and a function that ends it.
	StartRunSpan(ctx context.Context, run *model.SynthesisRun) (context.Context, func())

	// StartStageSpan starts a span for a stage. ctx is typically the context returned by StartRunSpan.
	StartStageSpan(ctx context.Context, stage *model.StageExecution) (context.Context, func())

	// RecordError records an error on the span in ctx.
	RecordError(ctx context.Context, module string, err error)

	// RecordEvent records an event on the span in ctx.
	RecordEvent(ctx context.Context, name string, attributes map[string]interface{})
}

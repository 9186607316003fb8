// Package tracing provides listeners that open a span per synthesis run and a child span per stage.
package tracing

import (
	"context"
	"sync"

	port "github.com/navi-mes/planfeed/pkg/planner/core/application/port"
	model "github.com/navi-mes/planfeed/pkg/planner/core/domain/model"
	"github.com/navi-mes/planfeed/pkg/planner/core/metrics"
)

type openSpan struct {
	ctx context.Context
	end func()
}

// TracingListener manages the spans of runs and their stages.
// Runs may overlap, so open spans are keyed by run and stage id.
type TracingListener struct {
	tracer metrics.Tracer

	mu     sync.Mutex
	runs   map[string]openSpan // RunID -> run span
	stages map[string]openSpan // StageExecution.ID -> stage span
}

var (
	_ port.RunListener   = (*TracingListener)(nil)
	_ port.StageListener = (*TracingListener)(nil)
)

func NewTracingListener(tracer metrics.Tracer) *TracingListener {
	return &TracingListener{
		tracer: tracer,
		runs:   make(map[string]openSpan),
		stages: make(map[string]openSpan),
	}
}

func (l *TracingListener) BeforeRun(ctx context.Context, run *model.SynthesisRun) {
	spanCtx, end := l.tracer.StartRunSpan(ctx, run)
	l.mu.Lock()
	l.runs[run.RunID] = openSpan{ctx: spanCtx, end: end}
	l.mu.Unlock()
}

func (l *TracingListener) AfterRun(ctx context.Context, run *model.SynthesisRun) {
	l.mu.Lock()
	span, ok := l.runs[run.RunID]
	delete(l.runs, run.RunID)
	l.mu.Unlock()
	if !ok {
		return
	}
	if run.Err != nil {
		l.tracer.RecordError(span.ctx, "synthesis", run.Err)
	}
	l.tracer.RecordEvent(span.ctx, "instance_assembled", map[string]interface{}{
		"orders":           run.Summary.Orders,
		"products":         run.Summary.Products,
		"routes":           run.Summary.Routes,
		"downtime_windows": run.Summary.DowntimeWindows,
	})
	span.end()
}

// BeforeStage starts the stage span as a child of its run span when one is open.
func (l *TracingListener) BeforeStage(ctx context.Context, stage *model.StageExecution) {
	l.mu.Lock()
	parent := ctx
	if run, ok := l.runs[stage.RunID]; ok {
		parent = run.ctx
	}
	l.mu.Unlock()

	spanCtx, end := l.tracer.StartStageSpan(parent, stage)
	l.mu.Lock()
	l.stages[stage.ID] = openSpan{ctx: spanCtx, end: end}
	l.mu.Unlock()
}

func (l *TracingListener) AfterStage(ctx context.Context, stage *model.StageExecution) {
	l.mu.Lock()
	span, ok := l.stages[stage.ID]
	delete(l.stages, stage.ID)
	l.mu.Unlock()
	if !ok {
		return
	}
	if stage.Err != nil {
		l.tracer.RecordError(span.ctx, stage.Name, stage.Err)
	}
	if len(stage.Counts) > 0 {
		attrs := make(map[string]interface{}, len(stage.Counts))
		for k, v := range stage.Counts {
			attrs[k] = v
		}
		l.tracer.RecordEvent(span.ctx, "stage_counts", attrs)
	}
	span.end()
}

// OpenSpans returns the number of run and stage spans not yet ended.
func (l *TracingListener) OpenSpans() (runs, stages int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.runs), len(l.stages)
}

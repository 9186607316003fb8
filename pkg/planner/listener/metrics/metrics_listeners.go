// Package metrics provides listeners that feed synthesis runs into the MetricRecorder.
package metrics

import (
	"context"
	"strings"

	port "github.com/navi-mes/planfeed/pkg/planner/core/application/port"
	model "github.com/navi-mes/planfeed/pkg/planner/core/domain/model"
	"github.com/navi-mes/planfeed/pkg/planner/core/metrics"
)

// --- Run Listener ---

type MetricsRunListener struct {
	recorder metrics.MetricRecorder
}

func NewMetricsRunListener(recorder metrics.MetricRecorder) port.RunListener {
	return &MetricsRunListener{recorder: recorder}
}

func (l *MetricsRunListener) BeforeRun(ctx context.Context, run *model.SynthesisRun) {
	l.recorder.RecordRunStart(ctx, run)
}

func (l *MetricsRunListener) AfterRun(ctx context.Context, run *model.SynthesisRun) {
	l.recorder.RecordRunEnd(ctx, run)
}

var _ port.RunListener = (*MetricsRunListener)(nil)

// --- Stage Listener ---

type MetricsStageListener struct {
	recorder metrics.MetricRecorder
}

func NewMetricsStageListener(recorder metrics.MetricRecorder) port.StageListener {
	return &MetricsStageListener{recorder: recorder}
}

func (l *MetricsStageListener) BeforeStage(ctx context.Context, stage *model.StageExecution) {
	l.recorder.RecordStageStart(ctx, stage)
}

// AfterStage records the stage outcome and every non-zero skipped_* counter.
func (l *MetricsStageListener) AfterStage(ctx context.Context, stage *model.StageExecution) {
	l.recorder.RecordStageEnd(ctx, stage)
	for reason, n := range stage.Counts {
		if n > 0 && strings.HasPrefix(reason, "skipped_") {
			l.recorder.RecordSkip(ctx, stage.Name, reason, n)
		}
	}
}

var _ port.StageListener = (*MetricsStageListener)(nil)

// Package port defines the extension points the synthesis use case calls into.
package port

import (
	"context"

	"github.com/navi-mes/planfeed/pkg/planner/core/domain/model"
)

// RunListener is notified around a whole synthesis run.
type RunListener interface {
	BeforeRun(ctx context.Context, run *model.SynthesisRun)
	// AfterRun is called for completed and failed runs alike.
	AfterRun(ctx context.Context, run *model.SynthesisRun)
}

// StageListener is notified around each pipeline stage.
// AfterStage receives the stage counters (records skipped by reason, routes padded, ...).
type StageListener interface {
	BeforeStage(ctx context.Context, stage *model.StageExecution)
	AfterStage(ctx context.Context, stage *model.StageExecution)
}

package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/navi-mes/planfeed/pkg/planner/core/domain/model"
)

func finishedRun(err error) *model.SynthesisRun {
	start := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	run := model.NewSynthesisRun(model.RunMetadata{
		RunID:    "run-1",
		TenantID: "tenant-a",
		Variant:  model.VariantTimestamp,
		Trigger:  "FULL_REPLAN",
	}, start)
	run.Summary = model.InstanceSummary{Orders: 4, Products: 2, Routes: 3, DowntimeWindows: 5}
	run.Finish(start.Add(1500*time.Millisecond), err)
	return run
}

func TestPrometheusRecorder_RunMetrics(t *testing.T) {
	r := NewPrometheusRecorder()
	ctx := context.Background()

	run := finishedRun(nil)
	r.RecordRunStart(ctx, run)
	r.RecordRunEnd(ctx, run)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.runStatusCounter.WithLabelValues("timestamp", "STARTED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runStatusCounter.WithLabelValues("timestamp", "COMPLETED")))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.instanceOrders.WithLabelValues("tenant-a", "timestamp")))
	assert.Equal(t, 5.0, testutil.ToFloat64(r.instanceWindows.WithLabelValues("tenant-a", "timestamp")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.runDurationSeconds))
}

func TestPrometheusRecorder_FailedRunKeepsInstanceGauges(t *testing.T) {
	r := NewPrometheusRecorder()
	ctx := context.Background()

	r.RecordRunEnd(ctx, finishedRun(nil))
	failed := finishedRun(assert.AnError)
	failed.Summary = model.InstanceSummary{}
	r.RecordRunEnd(ctx, failed)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.runStatusCounter.WithLabelValues("timestamp", "FAILED")))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.instanceOrders.WithLabelValues("tenant-a", "timestamp")))
}

func TestPrometheusRecorder_UnfinishedRunIgnored(t *testing.T) {
	r := NewPrometheusRecorder()
	run := model.NewSynthesisRun(model.RunMetadata{RunID: "run-2", Variant: model.VariantNumeric}, time.Now())

	r.RecordRunEnd(context.Background(), run)

	assert.Equal(t, 0, testutil.CollectAndCount(r.runDurationSeconds))
}

func TestPrometheusRecorder_StageAndSkipMetrics(t *testing.T) {
	r := NewPrometheusRecorder()
	ctx := context.Background()
	run := finishedRun(nil)
	stage := model.NewStageExecution(run, model.StageStructure, run.StartTime)
	r.RecordStageStart(ctx, stage)
	stage.Finish(run.StartTime.Add(time.Second), nil)
	r.RecordStageEnd(ctx, stage)

	late := model.NewStageExecution(run, model.StageAssemble, run.StartTime)
	late.Finish(run.StartTime.Add(time.Second), nil)
	r.RecordStageStart(ctx, late)
	r.RecordSkip(ctx, model.StageStructure, "skipped_no_cycle_time", 3)
	r.RecordSkip(ctx, model.StageStructure, "skipped_no_cycle_time", 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.stageStatusCounter.WithLabelValues("structure", "STARTED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.stageStatusCounter.WithLabelValues("structure", "COMPLETED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.stageStatusCounter.WithLabelValues("assemble", "STARTED")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.stageStatusCounter.WithLabelValues("assemble", "COMPLETED")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.recordSkipCounter.WithLabelValues("structure", "skipped_no_cycle_time")))
}

func TestPrometheusRecorder_RecordDurationAndRegistry(t *testing.T) {
	r := NewPrometheusRecorder()
	r.RecordDuration(context.Background(), "http.planner_input", 20*time.Millisecond, map[string]string{"status": "200", "method": "GET"})

	families, err := r.GetRegistry().Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["planfeed_operation_duration_seconds"])
	assert.True(t, names["go_goroutines"])
}

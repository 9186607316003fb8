package metrics

import (
	"context"
	"sync"
	"time"

	"go.uber.org/fx"

	config "github.com/navi-mes/planfeed/pkg/planner/core/config"
	"github.com/navi-mes/planfeed/pkg/planner/core/domain/model"
	"github.com/navi-mes/planfeed/pkg/planner/core/metrics"
	"github.com/navi-mes/planfeed/pkg/planner/support/util/logger"
)

const defaultBufferSize = 100

// MetricEvent is one queued recorder call. Run and Stage are snapshots taken when the event was queued.
type MetricEvent struct {
	Type     string
	Run      *model.SynthesisRun
	Stage    *model.StageExecution
	Name     string
	Reason   string
	Count    int
	Duration time.Duration
	Tags     map[string]string
}

// Metric event type constants
const (
	MetricEventTypeRunStart       = "run_start"
	MetricEventTypeRunEnd         = "run_end"
	MetricEventTypeStageStart     = "stage_start"
	MetricEventTypeStageEnd       = "stage_end"
	MetricEventTypeSkip           = "skip"
	MetricEventTypeRecordDuration = "record_duration"
)

// AsyncMetricRecorder forwards recorder calls to a worker goroutine so that
// synthesis requests never wait on a metrics backend.
type AsyncMetricRecorder struct {
	eventQueue   chan MetricEvent
	stopCh       chan struct{}
	stopOnce     sync.Once
	wg           sync.WaitGroup
	syncRecorder metrics.MetricRecorder
}

var _ metrics.MetricRecorder = (*AsyncMetricRecorder)(nil)

// NewAsyncMetricRecorder starts the worker. A bufferSize of 0 or less selects the default.
func NewAsyncMetricRecorder(bufferSize int, syncRec metrics.MetricRecorder) *AsyncMetricRecorder {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	r := &AsyncMetricRecorder{
		eventQueue:   make(chan MetricEvent, bufferSize),
		stopCh:       make(chan struct{}),
		syncRecorder: syncRec,
	}
	r.wg.Add(1)
	go r.run()
	logger.Debugf("AsyncMetricRecorder: Worker goroutine started (buffer size: %d).", bufferSize)
	return r
}

func (r *AsyncMetricRecorder) run() {
	defer r.wg.Done()
	for {
		select {
		case event := <-r.eventQueue:
			r.processEvent(event)
		case <-r.stopCh:
			remaining := len(r.eventQueue)
			for i := 0; i < remaining; i++ {
				r.processEvent(<-r.eventQueue)
			}
			logger.Debugf("AsyncMetricRecorder: Worker goroutine stopped. Processed %d remaining events.", remaining)
			return
		}
	}
}

func (r *AsyncMetricRecorder) processEvent(event MetricEvent) {
	ctx := context.Background()
	switch event.Type {
	case MetricEventTypeRunStart:
		r.syncRecorder.RecordRunStart(ctx, event.Run)
	case MetricEventTypeRunEnd:
		r.syncRecorder.RecordRunEnd(ctx, event.Run)
	case MetricEventTypeStageStart:
		r.syncRecorder.RecordStageStart(ctx, event.Stage)
	case MetricEventTypeStageEnd:
		r.syncRecorder.RecordStageEnd(ctx, event.Stage)
	case MetricEventTypeSkip:
		r.syncRecorder.RecordSkip(ctx, event.Name, event.Reason, event.Count)
	case MetricEventTypeRecordDuration:
		r.syncRecorder.RecordDuration(ctx, event.Name, event.Duration, event.Tags)
	default:
		logger.Warnf("AsyncMetricRecorder: Unknown metric event type: %s", event.Type)
	}
}

// Close stops the worker after draining queued events. It is safe to call more than once.
func (r *AsyncMetricRecorder) Close() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
		r.wg.Wait()
		logger.Debugf("AsyncMetricRecorder: Shutdown complete.")
	})
}

// sendEvent queues event, dropping it with a warning when the queue is full.
func (r *AsyncMetricRecorder) sendEvent(event MetricEvent, id string) {
	select {
	case r.eventQueue <- event:
	default:
		logger.Warnf("AsyncMetricRecorder: Event queue is full (type: %s, ID: %s). Event discarded.", event.Type, id)
	}
}

func snapshotRun(run *model.SynthesisRun) *model.SynthesisRun {
	c := *run
	return &c
}

func snapshotStage(stage *model.StageExecution) *model.StageExecution {
	c := *stage
	c.Counts = make(map[string]int, len(stage.Counts))
	for k, v := range stage.Counts {
		c.Counts[k] = v
	}
	return &c
}

func (r *AsyncMetricRecorder) RecordRunStart(ctx context.Context, run *model.SynthesisRun) {
	r.sendEvent(MetricEvent{Type: MetricEventTypeRunStart, Run: snapshotRun(run)}, run.RunID)
}

func (r *AsyncMetricRecorder) RecordRunEnd(ctx context.Context, run *model.SynthesisRun) {
	r.sendEvent(MetricEvent{Type: MetricEventTypeRunEnd, Run: snapshotRun(run)}, run.RunID)
}

func (r *AsyncMetricRecorder) RecordStageStart(ctx context.Context, stage *model.StageExecution) {
	r.sendEvent(MetricEvent{Type: MetricEventTypeStageStart, Stage: snapshotStage(stage)}, stage.ID)
}

func (r *AsyncMetricRecorder) RecordStageEnd(ctx context.Context, stage *model.StageExecution) {
	r.sendEvent(MetricEvent{Type: MetricEventTypeStageEnd, Stage: snapshotStage(stage)}, stage.ID)
}

func (r *AsyncMetricRecorder) RecordSkip(ctx context.Context, stage string, reason string, count int) {
	r.sendEvent(MetricEvent{Type: MetricEventTypeSkip, Name: stage, Reason: reason, Count: count}, stage)
}

func (r *AsyncMetricRecorder) RecordDuration(ctx context.Context, name string, duration time.Duration, tags map[string]string) {
	r.sendEvent(MetricEvent{Type: MetricEventTypeRecordDuration, Name: name, Duration: duration, Tags: tags}, name)
}

// NewAsyncMetricRecorderWrapper decorates the configured recorder and closes it on shutdown.
func NewAsyncMetricRecorderWrapper(lc fx.Lifecycle, cfg *config.Config, syncRecorder metrics.MetricRecorder) metrics.MetricRecorder {
	asyncRecorder := NewAsyncMetricRecorder(cfg.Planner.Metrics.AsyncBufferSize, syncRecorder)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			asyncRecorder.Close()
			return nil
		},
	})
	logger.Debugf("MetricRecorder decorated with asynchronous wrapper.")
	return asyncRecorder
}

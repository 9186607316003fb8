package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	model "github.com/navi-mes/planfeed/pkg/planner/core/domain/model"
	metrics "github.com/navi-mes/planfeed/pkg/planner/core/metrics"
	logger "github.com/navi-mes/planfeed/pkg/planner/support/util/logger"
)

// PrometheusRecorder is a Prometheus implementation of the metrics.MetricRecorder interface.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	// Run Metrics
	runDurationSeconds *prometheus.HistogramVec
	runStatusCounter   *prometheus.CounterVec
	instanceOrders     *prometheus.GaugeVec
	instanceWindows    *prometheus.GaugeVec

	// Stage Metrics
	stageDurationSeconds *prometheus.HistogramVec
	stageStatusCounter   *prometheus.CounterVec
	recordSkipCounter    *prometheus.CounterVec

	// Generic operation durations, e.g. HTTP handlers.
	operationDurationSeconds *prometheus.HistogramVec
}

var _ metrics.MetricRecorder = (*PrometheusRecorder)(nil)

// NewPrometheusRecorder creates a recorder with its own registry, including Go and process collectors.
func NewPrometheusRecorder() *PrometheusRecorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &PrometheusRecorder{
		registry: registry,
		runDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "planfeed_run_duration_seconds",
			Help:    "Duration of planning instance synthesis runs.",
			Buckets: prometheus.DefBuckets,
		}, []string{"variant", "status"}),
		runStatusCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planfeed_run_status_total",
			Help: "Total number of synthesis runs by status.",
		}, []string{"variant", "status"}),
		instanceOrders: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "planfeed_instance_orders",
			Help: "Number of orders in the most recent instance per tenant.",
		}, []string{"tenant", "variant"}),
		instanceWindows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "planfeed_instance_downtime_windows",
			Help: "Number of unavailability windows in the most recent instance per tenant.",
		}, []string{"tenant", "variant"}),
		stageDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "planfeed_stage_duration_seconds",
			Help:    "Duration of synthesis pipeline stages.",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage", "status"}),
		stageStatusCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planfeed_stage_status_total",
			Help: "Total number of stage executions by status.",
		}, []string{"stage", "status"}),
		recordSkipCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planfeed_records_skipped_total",
			Help: "Total store records left out of instances by stage and reason.",
		}, []string{"stage", "reason"}),
		operationDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "planfeed_operation_duration_seconds",
			Help:    "Duration of miscellaneous operations such as HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation", "status"}),
	}

	registry.MustRegister(
		r.runDurationSeconds,
		r.runStatusCounter,
		r.instanceOrders,
		r.instanceWindows,
		r.stageDurationSeconds,
		r.stageStatusCounter,
		r.recordSkipCounter,
		r.operationDurationSeconds,
	)
	return r
}

// GetRegistry returns the Prometheus registry.
func (r *PrometheusRecorder) GetRegistry() *prometheus.Registry {
	return r.registry
}

// RecordRunStart counts the run under STARTED regardless of its current status.
func (r *PrometheusRecorder) RecordRunStart(ctx context.Context, run *model.SynthesisRun) {
	r.runStatusCounter.WithLabelValues(string(run.Variant), string(model.RunStatusStarted)).Inc()
	logger.Debugf("Metrics: Run '%s' started.", run.RunID)
}

// RecordRunEnd records duration and outcome. Instance sizes are only updated for completed runs.
func (r *PrometheusRecorder) RecordRunEnd(ctx context.Context, run *model.SynthesisRun) {
	if run.EndTime.IsZero() {
		return
	}
	variant, status := string(run.Variant), string(run.Status)
	r.runStatusCounter.WithLabelValues(variant, status).Inc()
	r.runDurationSeconds.WithLabelValues(variant, status).Observe(run.Duration().Seconds())
	if run.Status == model.RunStatusCompleted {
		r.instanceOrders.WithLabelValues(run.TenantID, variant).Set(float64(run.Summary.Orders))
		r.instanceWindows.WithLabelValues(run.TenantID, variant).Set(float64(run.Summary.DowntimeWindows))
	}
	logger.Debugf("Metrics: Run '%s' ended. Duration: %.3fs", run.RunID, run.Duration().Seconds())
}

// RecordStageStart counts the stage under STARTED regardless of its current status.
func (r *PrometheusRecorder) RecordStageStart(ctx context.Context, stage *model.StageExecution) {
	r.stageStatusCounter.WithLabelValues(stage.Name, string(model.RunStatusStarted)).Inc()
}

func (r *PrometheusRecorder) RecordStageEnd(ctx context.Context, stage *model.StageExecution) {
	if stage.EndTime.IsZero() {
		return
	}
	r.stageStatusCounter.WithLabelValues(stage.Name, string(stage.Status)).Inc()
	r.stageDurationSeconds.WithLabelValues(stage.Name, string(stage.Status)).Observe(stage.Duration().Seconds())
}

func (r *PrometheusRecorder) RecordSkip(ctx context.Context, stage string, reason string, count int) {
	if count <= 0 {
		return
	}
	r.recordSkipCounter.WithLabelValues(stage, reason).Add(float64(count))
}

// RecordDuration observes duration under name. The "status" tag becomes a label; other tags are ignored.
func (r *PrometheusRecorder) RecordDuration(ctx context.Context, name string, duration time.Duration, tags map[string]string) {
	r.operationDurationSeconds.WithLabelValues(name, tags["status"]).Observe(duration.Seconds())
}

package metrics

import "go.uber.org/fx"

// Module decorates the MetricRecorder asynchronously and registers the metrics listeners.
var Module = fx.Options(
	fx.Decorate(NewAsyncMetricRecorderWrapper),
	fx.Provide(fx.Annotate(NewMetricsRunListener, fx.ResultTags(`group:"run_listeners"`))),
	fx.Provide(fx.Annotate(NewMetricsStageListener, fx.ResultTags(`group:"stage_listeners"`))),
)

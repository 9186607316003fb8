package tracing

import (
	"go.uber.org/fx"

	port "github.com/navi-mes/planfeed/pkg/planner/core/application/port"
)

func asRunListener(l *TracingListener) port.RunListener     { return l }
func asStageListener(l *TracingListener) port.StageListener { return l }

// Module registers the tracing listener for runs and stages.
// The Tracer itself is provided by the infrastructure layer.
var Module = fx.Options(
	fx.Provide(NewTracingListener),
	fx.Provide(fx.Annotate(asRunListener, fx.ResultTags(`group:"run_listeners"`))),
	fx.Provide(fx.Annotate(asStageListener, fx.ResultTags(`group:"stage_listeners"`))),
)

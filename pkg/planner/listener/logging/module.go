package logging

import "go.uber.org/fx"

// Module registers the logging listeners with the synthesizer.
var Module = fx.Options(
	fx.Provide(fx.Annotate(NewLoggingRunListener, fx.ResultTags(`group:"run_listeners"`))),
	fx.Provide(fx.Annotate(NewLoggingStageListener, fx.ResultTags(`group:"stage_listeners"`))),
)

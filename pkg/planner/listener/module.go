// Package listener aggregates the observability listeners of the synthesis pipeline.
package listener

import (
	"go.uber.org/fx"

	"github.com/navi-mes/planfeed/pkg/planner/listener/logging"
	"github.com/navi-mes/planfeed/pkg/planner/listener/metrics"
	"github.com/navi-mes/planfeed/pkg/planner/listener/tracing"
)

// Module aggregates all listener modules.
var Module = fx.Options(
	logging.Module,
	metrics.Module,
	tracing.Module,
)

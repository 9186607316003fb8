package migration

import (
	"context"

	"go.uber.org/fx"

	"github.com/navi-mes/planfeed/pkg/planner/adapter/database"
	config "github.com/navi-mes/planfeed/pkg/planner/core/config"
	"github.com/navi-mes/planfeed/pkg/planner/support/util/logger"
)

// Enabled marks that the application was started with schema migration requested.
type Enabled bool

// RegisterStartupMigration applies the schema to the store connection on start when enabled.
func RegisterStartupMigration(lc fx.Lifecycle, enabled Enabled, cfg *config.Config, resolver database.DBConnectionResolver) {
	if !enabled {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			name := cfg.Planner.Infrastructure.StoreDBRef
			logger.Infof("Applying planning schema to '%s'.", name)
			return Run(ctx, resolver, name)
		},
	})
}

// Module runs the migration on start when an Enabled(true) value is supplied.
var Module = fx.Invoke(RegisterStartupMigration)

package sql

import (
	"go.uber.org/fx"

	"github.com/navi-mes/planfeed/pkg/planner/adapter/database"
	config "github.com/navi-mes/planfeed/pkg/planner/core/config"
	repository "github.com/navi-mes/planfeed/pkg/planner/core/domain/repository"
)

// NewPlanningStoreProvider creates the store on the configured store connection.
func NewPlanningStoreProvider(resolver database.DBConnectionResolver, cfg *config.Config) repository.PlanningStore {
	return NewSQLPlanningStore(resolver, cfg.Planner.Infrastructure.StoreDBRef)
}

// Module provides the SQL-backed repository.PlanningStore.
var Module = fx.Provide(NewPlanningStoreProvider)

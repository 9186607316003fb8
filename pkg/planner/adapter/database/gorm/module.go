package gorm

import (
	"go.uber.org/fx"

	"github.com/navi-mes/planfeed/pkg/planner/adapter/database"
)

// Module provides the database.DBConnectionResolver. Dialect packages provide the DBProviders.
var Module = fx.Provide(fx.Annotate(
	NewGormDBConnectionResolverProvider,
	fx.As(new(database.DBConnectionResolver)),
))

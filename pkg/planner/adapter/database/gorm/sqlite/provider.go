// Package sqlite provides the gorm DBProvider for SQLite, used for local development stores.
package sqlite

import (
	"errors"

	"go.uber.org/fx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/navi-mes/planfeed/pkg/planner/adapter/database"
	dbconfig "github.com/navi-mes/planfeed/pkg/planner/adapter/database/config"
	gormadapter "github.com/navi-mes/planfeed/pkg/planner/adapter/database/gorm"
	config "github.com/navi-mes/planfeed/pkg/planner/core/config"
)

// ProviderType is the configuration type handled by this package.
const ProviderType = "sqlite"

func init() {
	gormadapter.RegisterDialector(ProviderType, func(cfg dbconfig.DatabaseConfig) (gorm.Dialector, error) {
		if cfg.Database == "" {
			return nil, errors.New("SQLite database path cannot be empty")
		}
		return sqlite.Open(ConnectionString(cfg)), nil
	})
}

// ConnectionString returns the database file with foreign keys and a busy timeout enabled.
func ConnectionString(c dbconfig.DatabaseConfig) string {
	return "file:" + c.Database + "?_foreign_keys=on&_busy_timeout=5000"
}

// NewProvider creates the SQLite DBProvider.
func NewProvider(cfg *config.Config) database.DBProvider {
	return gormadapter.NewBaseProvider(cfg, ProviderType)
}

// Module contributes the SQLite provider to the db_providers group.
var Module = fx.Provide(fx.Annotate(
	NewProvider,
	fx.ResultTags(`group:"`+database.DBProviderGroup+`"`),
))

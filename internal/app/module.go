package app

import (
	"strings"

	"go.uber.org/fx"

	"github.com/navi-mes/planfeed/pkg/planner/adapter/database/gorm/mysql"
	"github.com/navi-mes/planfeed/pkg/planner/adapter/database/gorm/postgres"
	"github.com/navi-mes/planfeed/pkg/planner/adapter/database/gorm/sqlite"
	"github.com/navi-mes/planfeed/pkg/planner/adapter/storage/gcs"
	"github.com/navi-mes/planfeed/pkg/planner/adapter/storage/local"
	"github.com/navi-mes/planfeed/pkg/planner/adapter/storage/minio"
	"github.com/navi-mes/planfeed/pkg/planner/support/util/logger"
)

// DBModules maps a database type to the module contributing its provider.
var DBModules = map[string]fx.Option{
	postgres.ProviderType: postgres.Module,
	mysql.ProviderType:    mysql.Module,
	sqlite.ProviderType:   sqlite.Module,
}

// SelectModules returns the modules named in the comma-separated list. Unknown names are skipped with a warning.
func SelectModules(kind, names string, modules map[string]fx.Option) []fx.Option {
	options := make([]fx.Option, 0)
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if module, ok := modules[name]; ok {
			options = append(options, module)
			logger.Debugf("%s provider '%s' selected and registered.", kind, name)
		} else {
			logger.Warnf("%s provider '%s' is configured but not recognized/supported. Skipping.", kind, name)
		}
	}
	return options
}

// StorageModules maps a storage type to the module contributing its provider.
var StorageModules = map[string]fx.Option{
	local.ProviderType: local.Module,
	gcs.ProviderType:   gcs.Module,
	minio.ProviderType: minio.Module,
}

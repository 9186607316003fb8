// Package app assembles the planfeed service from its fx modules.
package app

import (
	"go.uber.org/fx"

	"github.com/navi-mes/planfeed/internal/server"
	gormadapter "github.com/navi-mes/planfeed/pkg/planner/adapter/database/gorm"
	"github.com/navi-mes/planfeed/pkg/planner/adapter/storage"
	"github.com/navi-mes/planfeed/pkg/planner/component/migration"
	usecase "github.com/navi-mes/planfeed/pkg/planner/core/application/usecase"
	config "github.com/navi-mes/planfeed/pkg/planner/core/config"
	infraMetrics "github.com/navi-mes/planfeed/pkg/planner/infrastructure/metrics"
	"github.com/navi-mes/planfeed/pkg/planner/infrastructure/repository/sql"
	plannerlistener "github.com/navi-mes/planfeed/pkg/planner/listener"
	"github.com/navi-mes/planfeed/pkg/planner/support/util/logger"
)

// Options configures one application run.
type Options struct {
	EnvFilePath    string
	EmbeddedConfig config.EmbeddedConfig
	// Migrate applies the embedded planning schema to the store database on startup.
	Migrate bool
	// DBModules and StorageModules contribute the selected adapter providers.
	DBModules      []fx.Option
	StorageModules []fx.Option
}

// Modules returns every fx option of the service.
func Modules(opts Options) fx.Option {
	return fx.Options(
		fx.Supply(
			opts.EmbeddedConfig,
			fx.Annotate(opts.EnvFilePath, fx.ResultTags(`name:"envFilePath"`)),
			migration.Enabled(opts.Migrate),
		),
		logger.Module,
		config.Module,

		fx.Options(opts.DBModules...),
		gormadapter.Module,
		fx.Options(opts.StorageModules...),
		storage.Module,

		infraMetrics.Module,
		plannerlistener.Module,
		sql.Module,
		usecase.Module,
		migration.Module,
		server.Module,
	)
}

// New builds the fx application serving the planner API.
func New(opts Options) *fx.App {
	return fx.New(Modules(opts))
}

// RunApplication runs the service until it receives a termination signal.
func RunApplication(opts Options) {
	app := New(opts)
	app.Run()

	if app.Err() != nil {
		logger.Fatalf("Application run failed: %v", app.Err())
	}
}

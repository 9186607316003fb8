package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/navi-mes/planfeed/internal/app"
)

const testConfig = `
planner:
  database:
    mes:
      type: sqlite
      database: planfeed.db
  storage:
    schedules:
      type: local
      base_dir: /tmp/planfeed
`

func TestModulesResolve(t *testing.T) {
	opts := app.Options{
		EmbeddedConfig: []byte(testConfig),
		DBModules:      app.SelectModules("DB", "sqlite", app.DBModules),
		StorageModules: app.SelectModules("Storage", "local", app.StorageModules),
	}
	require.NoError(t, fx.ValidateApp(app.Modules(opts)))
}

func TestSelectModules(t *testing.T) {
	assert.Len(t, app.SelectModules("DB", "postgres, mysql,,oracle", app.DBModules), 2)
	assert.Empty(t, app.SelectModules("Storage", "", app.StorageModules))
	assert.Len(t, app.SelectModules("Storage", "local,gcs,minio", app.StorageModules), 3)
}

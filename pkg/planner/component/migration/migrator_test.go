package migration

import (
	"context"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	dbconfig "github.com/navi-mes/planfeed/pkg/planner/adapter/database/config"
	gormadapter "github.com/navi-mes/planfeed/pkg/planner/adapter/database/gorm"
)

func TestEmbeddedSchemaPerDialect(t *testing.T) {
	for _, dialect := range []string{"postgres", "mysql", "sqlite"} {
		entries, err := fs.ReadDir(schemaFS, "sql/"+dialect)
		require.NoError(t, err, dialect)
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		assert.ElementsMatch(t, []string{
			"000001_planning_schema.up.sql",
			"000001_planning_schema.down.sql",
		}, names, dialect)
	}
}

func newSQLiteConnection(t *testing.T) *gormadapter.GormDBAdapter {
	t.Helper()
	path := filepath.Join(t.TempDir(), "planfeed.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)
	conn, err := gormadapter.NewGormDBAdapter(db, dbconfig.DatabaseConfig{Type: "sqlite", Database: path}, "mes")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestMigrator_UpIsIdempotent(t *testing.T) {
	conn := newSQLiteConnection(t)
	m := NewMigrator(conn)

	require.NoError(t, m.Up(context.Background()))
	require.NoError(t, m.Up(context.Background()))

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	type tableName struct {
		Name string `gorm:"column:name"`
	}
	var tables []tableName
	require.NoError(t, conn.QueryRaw(context.Background(), &tables,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ?",
		[]string{"work_orders", "barcode_events", "job_cards"}))
	assert.Len(t, tables, 3)
}

func TestMigrator_Down(t *testing.T) {
	conn := newSQLiteConnection(t)
	m := NewMigrator(conn)
	require.NoError(t, m.Up(context.Background()))

	require.NoError(t, m.Down(context.Background()))

	var tables []struct {
		Name string `gorm:"column:name"`
	}
	require.NoError(t, conn.QueryRaw(context.Background(), &tables,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", "work_orders"))
	assert.Empty(t, tables)
}

func TestMigrator_UnsupportedType(t *testing.T) {
	conn := newSQLiteConnection(t)
	m := NewMigrator(conn)
	m.dbType = "oracle"

	err := m.Up(context.Background())
	assert.ErrorContains(t, err, "unsupported database type for migration: oracle")
}

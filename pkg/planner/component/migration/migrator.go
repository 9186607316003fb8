// Package migration applies the reference planning schema to a named database connection.
// It is used by `planfeed -migrate` for development and test stores; the synthesis
// pipeline never runs it.
package migration

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/navi-mes/planfeed/pkg/planner/adapter/database"
	"github.com/navi-mes/planfeed/pkg/planner/support/util/logger"
)

// MigrationsTable tracks the applied schema version.
const MigrationsTable = "planfeed_schema_migrations"

//go:embed sql
var schemaFS embed.FS

// Migrator applies the embedded schema of one dialect to a connection.
type Migrator struct {
	dbConn database.DBConnection
	dbType string
	source fs.FS
}

// NewMigrator creates a Migrator for dbConn using the embedded schema.
func NewMigrator(dbConn database.DBConnection) *Migrator {
	return &Migrator{dbConn: dbConn, dbType: dbConn.Type(), source: schemaFS}
}

// sourcePath returns the schema directory of the connection's dialect.
func (m *Migrator) sourcePath() (string, error) {
	switch m.dbType {
	case "postgres", "mysql", "sqlite":
		return "sql/" + m.dbType, nil
	default:
		return "", fmt.Errorf("unsupported database type for migration: %s", m.dbType)
	}
}

func (m *Migrator) databaseDriver(sqlDB *sql.DB) (migratedb.Driver, error) {
	switch m.dbType {
	case "postgres":
		return postgres.WithInstance(sqlDB, &postgres.Config{MigrationsTable: MigrationsTable})
	case "mysql":
		return mysql.WithInstance(sqlDB, &mysql.Config{MigrationsTable: MigrationsTable})
	case "sqlite":
		return sqlite3.WithInstance(sqlDB, &sqlite3.Config{MigrationsTable: MigrationsTable})
	default:
		return nil, fmt.Errorf("unsupported database type for migration: %s", m.dbType)
	}
}

// instance builds a migrate instance on the connection's pool. It is never closed:
// closing it would close the shared *sql.DB.
func (m *Migrator) instance() (*migrate.Migrate, error) {
	path, err := m.sourcePath()
	if err != nil {
		return nil, err
	}
	sqlDB, err := m.dbConn.GetSQLDB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sourceDriver, err := iofs.New(m.source, path)
	if err != nil {
		return nil, fmt.Errorf("failed to create iofs source driver for path %s: %w", path, err)
	}
	dbDriver, err := m.databaseDriver(sqlDB)
	if err != nil {
		return nil, fmt.Errorf("failed to create database driver: %w", err)
	}
	instance, err := migrate.NewWithInstance("iofs", sourceDriver, m.dbType, dbDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return instance, nil
}

// Up applies all pending migrations. An up-to-date schema is not an error.
func (m *Migrator) Up(ctx context.Context) error {
	return m.run(ctx, "up", func(mi *migrate.Migrate) error { return mi.Up() })
}

// Down rolls back every applied migration.
func (m *Migrator) Down(ctx context.Context) error {
	return m.run(ctx, "down", func(mi *migrate.Migrate) error { return mi.Down() })
}

// Version returns the applied schema version. dirty is true after a failed migration.
func (m *Migrator) Version() (version uint, dirty bool, err error) {
	mi, err := m.instance()
	if err != nil {
		return 0, false, err
	}
	version, dirty, err = mi.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func (m *Migrator) run(ctx context.Context, command string, apply func(*migrate.Migrate) error) error {
	logger.Infof("Executing migration '%s' on '%s' (%s, table: %s)", command, m.dbConn.Name(), m.dbType, MigrationsTable)

	mi, err := m.instance()
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := apply(mi); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		if _, dirty, versionErr := mi.Version(); versionErr == nil && dirty {
			logger.Errorf("Migration left schema of '%s' dirty.", m.dbConn.Name())
		}
		return fmt.Errorf("migration failed for command '%s' (DB: %s): %w", command, m.dbType, err)
	}
	logger.Infof("Migration '%s' completed successfully.", command)
	return nil
}

// Run resolves the named connection and applies all pending migrations.
func Run(ctx context.Context, resolver database.DBConnectionResolver, name string) error {
	conn, err := resolver.ResolveDBConnection(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to resolve database connection '%s' for migration: %w", name, err)
	}
	return NewMigrator(conn).Up(ctx)
}

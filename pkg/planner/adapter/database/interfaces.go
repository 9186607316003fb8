// Package database defines the common interfaces for relational database adapters.
package database

import (
	"context"
	"database/sql"

	dbconfig "github.com/navi-mes/planfeed/pkg/planner/adapter/database/config"
	coreAdapter "github.com/navi-mes/planfeed/pkg/planner/core/adapter"
)

// DBExecutor defines the read operations the planning store needs.
type DBExecutor interface {
	// QueryRaw runs a raw SELECT and scans every row into target, which must be a pointer to a slice.
	// Slice arguments are expanded for "IN ?" placeholders.
	QueryRaw(ctx context.Context, target interface{}, query string, args ...interface{}) error

	// QueryRow runs a raw SELECT and scans the first row into target.
	// found is false when the query returned no rows.
	QueryRow(ctx context.Context, target interface{}, query string, args ...interface{}) (found bool, err error)
}

// DBConnection represents an abstraction of a database connection.
type DBConnection interface {
	coreAdapter.ResourceConnection // Type(), Name(), Close()
	DBExecutor

	// IsTableNotExistError checks if the given error indicates that a table does not exist.
	IsTableNotExistError(err error) bool
	// RefreshConnection pings the underlying pool.
	RefreshConnection(ctx context.Context) error
	// Config returns the database configuration associated with this connection.
	Config() dbconfig.DatabaseConfig
	// GetSQLDB returns the underlying *sql.DB connection.
	GetSQLDB() (*sql.DB, error)
}

// DBConnectionResolver resolves database connections by configuration name.
type DBConnectionResolver interface {
	coreAdapter.ResourceConnectionResolver

	// ResolveDBConnection returns the named connection, re-establishing it when its pool no longer answers.
	ResolveDBConnection(ctx context.Context, name string) (DBConnection, error)
}

// DBProvider creates and caches connections of one database type.
type DBProvider interface {
	// GetConnection retrieves a database connection with the specified name.
	GetConnection(name string) (DBConnection, error)
	// CloseAll closes all connections managed by this provider.
	CloseAll() error
	// Type returns the database type handled by this provider (e.g., "postgres", "mysql", "sqlite").
	Type() string
	// ForceReconnect closes and re-opens the connection with the specified name.
	ForceReconnect(name string) (DBConnection, error)
}

// DBProviderGroup is the Fx group all DBProvider implementations are provided into.
const DBProviderGroup = "db_providers"

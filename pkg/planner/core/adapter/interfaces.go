// Package adapter defines the connection abstractions shared by database and storage adapters.
package adapter

import "context"

// ResourceConnection represents a generic connection to any resource (e.g., database, storage).
type ResourceConnection interface {
	// Close closes the resource connection.
	Close() error
	// Type returns the type of the resource (e.g., "postgres", "gcs").
	Type() string
	// Name returns the connection name from the configuration (e.g., "mes", "schedules").
	Name() string
}

// ResourceConnectionResolver resolves a resource connection instance by name.
type ResourceConnectionResolver interface {
	// ResolveConnection returns a valid connection, re-establishing it if necessary.
	ResolveConnection(ctx context.Context, name string) (ResourceConnection, error)
}

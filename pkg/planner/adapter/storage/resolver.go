package storage

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	storageConfig "github.com/navi-mes/planfeed/pkg/planner/adapter/storage/config"
	coreAdapter "github.com/navi-mes/planfeed/pkg/planner/core/adapter"
	coreConfig "github.com/navi-mes/planfeed/pkg/planner/core/config"
	"github.com/navi-mes/planfeed/pkg/planner/support/util/logger"
)

// ConnectionResolver picks the provider matching the configured type of a named connection.
type ConnectionResolver struct {
	providers map[string]StorageProvider
	cfg       *coreConfig.Config
}

var _ StorageConnectionResolver = (*ConnectionResolver)(nil)

// NewConnectionResolver creates a resolver over providers, keyed by their type.
func NewConnectionResolver(providers []StorageProvider, cfg *coreConfig.Config) *ConnectionResolver {
	byType := make(map[string]StorageProvider, len(providers))
	for _, p := range providers {
		byType[p.Type()] = p
	}
	return &ConnectionResolver{providers: byType, cfg: cfg}
}

// ResolveConnection resolves a generic resource connection by name.
func (r *ConnectionResolver) ResolveConnection(ctx context.Context, name string) (coreAdapter.ResourceConnection, error) {
	return r.ResolveStorageConnection(ctx, name)
}

// ResolveStorageConnection returns the storage connection configured under name.
func (r *ConnectionResolver) ResolveStorageConnection(ctx context.Context, name string) (StorageConnection, error) {
	sc, err := storageConfig.Decode(r.cfg.Planner.StorageConfigs, name)
	if err != nil {
		return nil, err
	}
	provider, ok := r.providers[sc.Type]
	if !ok {
		return nil, fmt.Errorf("no storage provider registered for type '%s' (connection '%s')", sc.Type, name)
	}
	logger.Debugf("Resolving storage connection '%s' via %s provider.", name, sc.Type)
	return provider.GetConnection(name)
}

// CloseAll closes the connections of every provider.
func (r *ConnectionResolver) CloseAll() error {
	var firstErr error
	for t, p := range r.providers {
		if err := p.CloseAll(); err != nil {
			logger.Warnf("Failed to close %s storage connections: %v", t, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// ResolverParams defines the dependencies for NewConnectionResolverProvider.
type ResolverParams struct {
	fx.In
	Lifecycle fx.Lifecycle
	Config    *coreConfig.Config
	Providers []StorageProvider `group:"storage_providers"`
}

// NewConnectionResolverProvider builds the resolver and closes all connections on shutdown.
func NewConnectionResolverProvider(p ResolverParams) StorageConnectionResolver {
	r := NewConnectionResolver(p.Providers, p.Config)
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return r.CloseAll()
		},
	})
	return r
}

// Module provides the StorageConnectionResolver. Adapter modules contribute providers.
var Module = fx.Options(
	fx.Provide(NewConnectionResolverProvider),
)

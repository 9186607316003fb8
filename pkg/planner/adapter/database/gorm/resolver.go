package gorm

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/fx"

	"github.com/navi-mes/planfeed/pkg/planner/adapter/database"
	dbconfig "github.com/navi-mes/planfeed/pkg/planner/adapter/database/config"
	coreAdapter "github.com/navi-mes/planfeed/pkg/planner/core/adapter"
	config "github.com/navi-mes/planfeed/pkg/planner/core/config"
	"github.com/navi-mes/planfeed/pkg/planner/support/util/logger"
)

// GormDBConnectionResolver is the gorm implementation of database.DBConnectionResolver.
type GormDBConnectionResolver struct {
	dbProviders map[string]database.DBProvider // keyed by database type
	cfg         *config.Config
}

var _ database.DBConnectionResolver = (*GormDBConnectionResolver)(nil)

// NewGormDBConnectionResolver indexes providers by their type.
func NewGormDBConnectionResolver(providers []database.DBProvider, cfg *config.Config) *GormDBConnectionResolver {
	providerMap := make(map[string]database.DBProvider, len(providers))
	for _, provider := range providers {
		providerMap[provider.Type()] = provider
	}
	return &GormDBConnectionResolver{dbProviders: providerMap, cfg: cfg}
}

// ResolveDBConnection resolves the named connection. A connection whose ping fails is re-established.
func (r *GormDBConnectionResolver) ResolveDBConnection(ctx context.Context, name string) (database.DBConnection, error) {
	dbConfig, err := dbconfig.Decode(r.cfg.Planner.AdapterConfigs, name)
	if err != nil {
		return nil, fmt.Errorf("DBConnectionResolver: %w", err)
	}

	provider, ok := r.dbProviders[dbConfig.Type]
	if !ok {
		return nil, fmt.Errorf("DBConnectionResolver: DBProvider for type '%s' not found for connection '%s'", dbConfig.Type, name)
	}

	conn, err := provider.GetConnection(name)
	if err != nil {
		return nil, fmt.Errorf("DBConnectionResolver: failed to get connection '%s': %w", name, err)
	}

	if pingErr := conn.RefreshConnection(ctx); pingErr != nil {
		logger.Warnf("DBConnectionResolver: Connection '%s' is invalid (%v). Attempting to reconnect.", name, pingErr)
		reconnected, reconnectErr := provider.ForceReconnect(name)
		if reconnectErr != nil {
			return nil, fmt.Errorf("DBConnectionResolver: failed to reconnect connection '%s': %w", name, reconnectErr)
		}
		logger.Infof("DBConnectionResolver: Successfully reconnected connection '%s'.", name)
		return reconnected, nil
	}
	return conn, nil
}

// ResolveConnection implements coreAdapter.ResourceConnectionResolver.
func (r *GormDBConnectionResolver) ResolveConnection(ctx context.Context, name string) (coreAdapter.ResourceConnection, error) {
	return r.ResolveDBConnection(ctx, name)
}

// CloseAll closes the connections of every registered provider.
func (r *GormDBConnectionResolver) CloseAll() error {
	var result *multierror.Error
	for _, provider := range r.dbProviders {
		if err := provider.CloseAll(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// ResolverParams holds the dependencies of NewGormDBConnectionResolverProvider.
type ResolverParams struct {
	fx.In
	Lifecycle   fx.Lifecycle
	Config      *config.Config
	DBProviders []database.DBProvider `group:"db_providers"`
}

// NewGormDBConnectionResolverProvider builds the resolver and closes every connection on stop.
func NewGormDBConnectionResolverProvider(p ResolverParams) *GormDBConnectionResolver {
	resolver := NewGormDBConnectionResolver(p.DBProviders, p.Config)
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Infof("Closing all database connections.")
			return resolver.CloseAll()
		},
	})
	return resolver
}

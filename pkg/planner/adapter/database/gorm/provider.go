// Package gorm implements the database adapter on top of gorm.io/gorm.
// Dialect packages (postgres, mysql, sqlite) register a DialectorFactory and
// contribute a DBProvider to the "db_providers" group.
package gorm

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"gorm.io/gorm"

	"github.com/navi-mes/planfeed/pkg/planner/adapter/database"
	dbconfig "github.com/navi-mes/planfeed/pkg/planner/adapter/database/config"
	config "github.com/navi-mes/planfeed/pkg/planner/core/config"
	"github.com/navi-mes/planfeed/pkg/planner/support/util/logger"
)

// DialectorFactory builds the gorm dialector for one named database.
type DialectorFactory func(cfg dbconfig.DatabaseConfig) (gorm.Dialector, error)

type dialectRegistry struct {
	sync.RWMutex
	factories map[string]DialectorFactory
}

var dialects = &dialectRegistry{factories: map[string]DialectorFactory{}}

// RegisterDialector makes factory available for connections of dbType.
// Dialect packages call it from init; a second registration replaces the first.
func RegisterDialector(dbType string, factory DialectorFactory) {
	dialects.Lock()
	defer dialects.Unlock()
	if _, dup := dialects.factories[dbType]; dup {
		logger.Warnf("Replacing dialector for database type '%s'.", dbType)
	}
	dialects.factories[dbType] = factory
}

// GetDialectorFactory returns the factory registered for dbType.
func GetDialectorFactory(dbType string) (DialectorFactory, error) {
	dialects.RLock()
	defer dialects.RUnlock()
	if factory, ok := dialects.factories[dbType]; ok {
		return factory, nil
	}
	return nil, fmt.Errorf("no dialector registered for database type: %s", dbType)
}

// BaseProvider opens and caches the gorm connections of one database type.
// Connections are keyed by their name under planner.database.
type BaseProvider struct {
	cfg    *config.Config
	dbType string

	mu    sync.RWMutex
	pools map[string]database.DBConnection
}

var _ database.DBProvider = (*BaseProvider)(nil)

// NewBaseProvider creates a provider for connections whose configured type is dbType.
func NewBaseProvider(cfg *config.Config, dbType string) *BaseProvider {
	return &BaseProvider{cfg: cfg, dbType: dbType, pools: map[string]database.DBConnection{}}
}

// Type returns the database type served by this provider.
func (p *BaseProvider) Type() string { return p.dbType }

func (p *BaseProvider) cached(name string) (database.DBConnection, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	conn, ok := p.pools[name]
	return conn, ok
}

// GetConnection returns the cached connection for name, opening it on first use.
func (p *BaseProvider) GetConnection(name string) (database.DBConnection, error) {
	if conn, ok := p.cached(name); ok {
		return conn, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if conn, ok := p.pools[name]; ok {
		return conn, nil
	}
	return p.open(name)
}

// ForceReconnect discards the cached connection for name and opens a fresh one.
func (p *BaseProvider) ForceReconnect(name string) (database.DBConnection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if stale, ok := p.pools[name]; ok {
		delete(p.pools, name)
		if err := stale.Close(); err != nil {
			logger.Warnf("Closing stale connection '%s' failed: %v", name, err)
		}
	}
	conn, err := p.open(name)
	if err != nil {
		return nil, err
	}
	logger.Infof("Reconnected database '%s' (%s).", name, p.dbType)
	return conn, nil
}

// open decodes the named configuration and caches the new connection. Callers hold mu.
func (p *BaseProvider) open(name string) (database.DBConnection, error) {
	dbCfg, err := dbconfig.Decode(p.cfg.Planner.AdapterConfigs, name)
	if err != nil {
		return nil, err
	}
	if dbCfg.Type != p.dbType {
		return nil, fmt.Errorf("provider type mismatch: connection '%s' is '%s', provider serves '%s'", name, dbCfg.Type, p.dbType)
	}

	factory, err := GetDialectorFactory(dbCfg.Type)
	if err != nil {
		return nil, err
	}
	dialector, err := factory(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s dialector for '%s': %w", dbCfg.Type, name, err)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 NewGormLogger(p.cfg.Planner.System.Logging.Level),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database '%s': %w", name, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access pool of database '%s': %w", name, err)
	}
	applyPool(sqlDB, dbCfg.Pool)

	conn, err := NewGormDBAdapter(db, dbCfg, name)
	if err != nil {
		return nil, err
	}
	p.pools[name] = conn
	logger.Infof("Opened database '%s' (%s).", name, p.dbType)
	return conn, nil
}

// applyPool sets the pool limits that are configured; zero keeps the database/sql default.
func applyPool(db *sql.DB, pool dbconfig.PoolConfig) {
	if pool.MaxOpenConns > 0 {
		db.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		db.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetimeMinutes > 0 {
		db.SetConnMaxLifetime(time.Duration(pool.ConnMaxLifetimeMinutes) * time.Minute)
	}
}

// CloseAll closes every cached connection and reports all failures.
func (p *BaseProvider) CloseAll() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs *multierror.Error
	for name, conn := range p.pools {
		delete(p.pools, name)
		if err := conn.Close(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("close database '%s': %w", name, err))
		}
	}
	return errs.ErrorOrNil()
}

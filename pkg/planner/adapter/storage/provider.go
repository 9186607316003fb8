package storage

import (
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"

	storageConfig "github.com/navi-mes/planfeed/pkg/planner/adapter/storage/config"
	coreConfig "github.com/navi-mes/planfeed/pkg/planner/core/config"
	"github.com/navi-mes/planfeed/pkg/planner/support/util/logger"
)

// ConnectionFactory opens a connection for one named storage configuration.
type ConnectionFactory func(cfg storageConfig.StorageConfig, name string) (StorageConnection, error)

// CachingProvider is a StorageProvider that opens each named connection once.
// Concrete adapters embed it with their own factory.
type CachingProvider struct {
	providerType string
	cfg          *coreConfig.Config
	factory      ConnectionFactory

	mu          sync.RWMutex
	connections map[string]StorageConnection
}

var _ StorageProvider = (*CachingProvider)(nil)

// NewCachingProvider creates a provider for connections of providerType.
func NewCachingProvider(providerType string, cfg *coreConfig.Config, factory ConnectionFactory) *CachingProvider {
	return &CachingProvider{
		providerType: providerType,
		cfg:          cfg,
		factory:      factory,
		connections:  make(map[string]StorageConnection),
	}
}

// GetConnection returns the connection configured under name, opening it on first use.
func (p *CachingProvider) GetConnection(name string) (StorageConnection, error) {
	p.mu.RLock()
	conn, ok := p.connections[name]
	p.mu.RUnlock()
	if ok {
		return conn, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if conn, ok = p.connections[name]; ok {
		return conn, nil
	}

	sc, err := storageConfig.Decode(p.cfg.Planner.StorageConfigs, name)
	if err != nil {
		return nil, err
	}
	if sc.Type != p.providerType {
		return nil, fmt.Errorf("storage config type mismatch for '%s': expected '%s', got '%s'", name, p.providerType, sc.Type)
	}

	conn, err = p.factory(sc, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s adapter for '%s': %w", p.providerType, name, err)
	}
	p.connections[name] = conn
	logger.Debugf("Created new %s storage connection '%s'.", p.providerType, name)
	return conn, nil
}

// CloseAll closes all connections managed by this provider.
func (p *CachingProvider) CloseAll() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var result *multierror.Error
	for name, conn := range p.connections {
		if err := conn.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("failed to close %s storage connection '%s': %w", p.providerType, name, err))
		}
		delete(p.connections, name)
	}
	logger.Debugf("All %s storage connections closed.", p.providerType)
	return result.ErrorOrNil()
}

// Type returns the storage type handled by this provider.
func (p *CachingProvider) Type() string {
	return p.providerType
}

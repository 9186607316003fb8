// Package config holds the configuration of a single database connection.
package config

import (
	"fmt"

	"github.com/navi-mes/planfeed/pkg/planner/support/util/configbinder"
)

// PoolConfig holds database connection pool settings.
type PoolConfig struct {
	MaxOpenConns           int `yaml:"max_open_conns"`
	MaxIdleConns           int `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int `yaml:"conn_max_lifetime_minutes"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Type     string     `yaml:"type"`     // Database type ("postgres", "mysql", "sqlite").
	Host     string     `yaml:"host"`     // Database host address.
	Port     int        `yaml:"port"`     // Database port number.
	Database string     `yaml:"database"` // Database name, or the file path for sqlite.
	User     string     `yaml:"user"`     // Database user.
	Password string     `yaml:"password"` // Database password.
	Sslmode  string     `yaml:"sslmode"`  // SSL mode for PostgreSQL.
	Timezone string     `yaml:"timezone"` // Session time zone for PostgreSQL.
	Pool     PoolConfig `yaml:"pool"`     // Connection pool settings.
}

// Decode reads the connection configured under name from the raw database section.
func Decode(raw map[string]interface{}, name string) (DatabaseConfig, error) {
	var cfg DatabaseConfig
	named, ok := raw[name]
	if !ok {
		return cfg, fmt.Errorf("database configuration '%s' not found in planner.database configs", name)
	}
	if err := configbinder.Bind(named, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode database config for '%s': %w", name, err)
	}
	return cfg, nil
}

package config

import (
	"go.uber.org/fx"

	"github.com/navi-mes/planfeed/pkg/planner/core/domain/model"
)

// NewLoggingConfigProvider extracts *LoggingConfig from *Config.
func NewLoggingConfigProvider(cfg *Config) *LoggingConfig {
	return &cfg.Planner.System.Logging
}

// NewPolicyProvider derives the default synthesis policy from *Config.
func NewPolicyProvider(cfg *Config) (model.Policy, error) {
	return cfg.Policy()
}

// Module provides configuration-related components to Fx.
var Module = fx.Options(
	fx.Provide(NewConfigProvider),
	fx.Provide(NewLoggingConfigProvider),
	fx.Provide(NewPolicyProvider),
	fx.Provide(func() EnvironmentExpander {
		return NewOsEnvironmentExpander()
	}),
)

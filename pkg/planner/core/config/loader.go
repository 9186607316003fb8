package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"gopkg.in/yaml.v3"

	"github.com/navi-mes/planfeed/pkg/planner/support/util/exception"
	"github.com/navi-mes/planfeed/pkg/planner/support/util/logger"
)

const moduleName = "config"

// ConfigParams defines the dependencies for NewConfigProvider.
type ConfigParams struct {
	fx.In
	EmbeddedConfig EmbeddedConfig
	EnvFilePath    string              `name:"envFilePath" optional:"true"`
	Expander       EnvironmentExpander `optional:"true"`
}

// loadConfig loads configuration in this order: .env file, defaults, embedded YAML
// (after environment expansion), then environment variable overrides.
func loadConfig(envFilePath string, embeddedConfig EmbeddedConfig, expander EnvironmentExpander) (*Config, error) {
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			logger.Warnf(".env file (%s) not found or could not be loaded: %v", envFilePath, err)
		}
	} else if err := godotenv.Load(); err != nil {
		logger.Debugf(".env file not found or could not be loaded: %v", err)
	}
	if expander == nil {
		expander = NewOsEnvironmentExpander()
	}

	cfg := NewConfig()

	expanded, err := expander.Expand(embeddedConfig)
	if err != nil {
		return nil, exception.NewPlannerError(moduleName, "failed to expand embedded config", err, false)
	}
	var yamlConfig Config
	if err := yaml.Unmarshal(expanded, &yamlConfig); err != nil {
		return nil, exception.NewPlannerError(moduleName, "failed to unmarshal embedded config", err, false)
	}
	mergeConfig(cfg, &yamlConfig)

	if err := loadStructFromEnv(reflect.ValueOf(cfg).Elem(), ""); err != nil {
		return nil, exception.NewPlannerError(moduleName, "failed to load config from environment variables", err, false)
	}
	cfg.EmbeddedConfig = embeddedConfig
	return cfg, nil
}

// NewConfigProvider is an Fx provider that loads, validates and publishes *Config.
// It also applies the configured log level.
func NewConfigProvider(params ConfigParams) (*Config, error) {
	cfg, err := loadConfig(params.EnvFilePath, params.EmbeddedConfig, params.Expander)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, exception.NewPlannerError(moduleName, "invalid configuration", err, false)
	}

	GlobalConfig = cfg

	logger.SetLogLevel(cfg.Planner.System.Logging.Level)
	logger.Infof("Log level set to: %s", cfg.Planner.System.Logging.Level)
	return cfg, nil
}

// LoadConfig loads configuration without validating it.
func LoadConfig(envFilePath string, embeddedConfig EmbeddedConfig) (*Config, error) {
	return loadConfig(envFilePath, embeddedConfig, nil)
}

// mergeConfig copies every non-zero value of source into dest.
func mergeConfig(dest, source *Config) {
	d, s := &dest.Planner, &source.Planner

	if s.System.Timezone != "" {
		d.System.Timezone = s.System.Timezone
	}
	if s.System.Logging.Level != "" {
		d.System.Logging.Level = s.System.Logging.Level
	}

	if s.Scope.LimitWorkOrders {
		d.Scope.LimitWorkOrders = true
	}
	if s.Scope.WorkOrderNumbers != nil {
		d.Scope.WorkOrderNumbers = s.Scope.WorkOrderNumbers
	}

	if s.Padding.SentinelWorkstation != "" {
		d.Padding.SentinelWorkstation = s.Padding.SentinelWorkstation
	}
	if s.Padding.SentinelCycleTime != 0 {
		d.Padding.SentinelCycleTime = s.Padding.SentinelCycleTime
	}
	if s.Padding.SentinelMinBatch != 0 {
		d.Padding.SentinelMinBatch = s.Padding.SentinelMinBatch
	}

	mergeSynthesisConfig(&d.Synthesis, &s.Synthesis)

	if s.Shift.DayShiftEnd != "" {
		d.Shift.DayShiftEnd = s.Shift.DayShiftEnd
	}
	if s.Shift.NightShiftEnd != "" {
		d.Shift.NightShiftEnd = s.Shift.NightShiftEnd
	}
	if s.Shift.FrequencyMinutes != 0 {
		d.Shift.FrequencyMinutes = s.Shift.FrequencyMinutes
	}

	if s.Operations.StorageMapping != nil {
		d.Operations.StorageMapping = s.Operations.StorageMapping
	}
	if s.Operations.MaxWaitTimes != nil {
		d.Operations.MaxWaitTimes = s.Operations.MaxWaitTimes
	}
	if s.Operations.ObjectiveRanking != nil {
		d.Operations.ObjectiveRanking = s.Operations.ObjectiveRanking
	}

	if s.Server.Addr != "" {
		d.Server.Addr = s.Server.Addr
	}
	if s.Server.Gzip {
		d.Server.Gzip = true
	}

	mergeObservabilityConfig(d, s)

	if s.Infrastructure.StoreDBRef != "" {
		d.Infrastructure.StoreDBRef = s.Infrastructure.StoreDBRef
	}
	if s.Infrastructure.ScheduleStorageRef != "" {
		d.Infrastructure.ScheduleStorageRef = s.Infrastructure.ScheduleStorageRef
	}
	if s.Infrastructure.ScheduleBucket != "" {
		d.Infrastructure.ScheduleBucket = s.Infrastructure.ScheduleBucket
	}
	if s.Infrastructure.ScheduleObject != "" {
		d.Infrastructure.ScheduleObject = s.Infrastructure.ScheduleObject
	}

	for key, value := range s.AdapterConfigs {
		d.AdapterConfigs[key] = value
	}
	for key, value := range s.StorageConfigs {
		d.StorageConfigs[key] = value
	}
}

func mergeSynthesisConfig(dest, source *SynthesisConfig) {
	if source.DefaultTenant != "" {
		dest.DefaultTenant = source.DefaultTenant
	}
	if source.DefaultTrigger != "" {
		dest.DefaultTrigger = source.DefaultTrigger
	}
	if source.DefaultVariant != "" {
		dest.DefaultVariant = source.DefaultVariant
	}
	if source.TimeUnitSeconds != 0 {
		dest.TimeUnitSeconds = source.TimeUnitSeconds
	}
	if source.MaxProcTime != 0 {
		dest.MaxProcTime = source.MaxProcTime
	}
}

func mergeObservabilityConfig(dest, source *PlannerConfig) {
	if source.Metrics.Backend != "" {
		dest.Metrics.Backend = source.Metrics.Backend
	}
	if source.Metrics.OTLP.Protocol != "" {
		dest.Metrics.OTLP.Protocol = source.Metrics.OTLP.Protocol
	}
	if source.Metrics.OTLP.Endpoint != "" {
		dest.Metrics.OTLP.Endpoint = source.Metrics.OTLP.Endpoint
	}
	if source.Metrics.OTLP.Insecure {
		dest.Metrics.OTLP.Insecure = true
	}
	if source.Metrics.AsyncBufferSize > 0 {
		dest.Metrics.AsyncBufferSize = source.Metrics.AsyncBufferSize
	}
	if source.Tracing.Enabled {
		dest.Tracing.Enabled = true
	}
	if source.Tracing.Protocol != "" {
		dest.Tracing.Protocol = source.Tracing.Protocol
	}
	if source.Tracing.Endpoint != "" {
		dest.Tracing.Endpoint = source.Tracing.Endpoint
	}
	if source.Tracing.Insecure {
		dest.Tracing.Insecure = true
	}
	if source.Tracing.ServiceName != "" {
		dest.Tracing.ServiceName = source.Tracing.ServiceName
	}
}

// loadStructFromEnv recursively loads configuration values into a struct from environment variables.
// The variable name is the upper-cased chain of "yaml" tags joined by "_",
// e.g. PLANNER_SCOPE_LIMIT_WORK_ORDERS.
func loadStructFromEnv(val reflect.Value, prefix string) error {
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)
		yamlTag := fieldType.Tag.Get("yaml")
		if yamlTag == "" || yamlTag == "-" {
			continue
		}
		envVarName := strings.ToUpper(prefix + yamlTag)

		if field.Kind() == reflect.Struct {
			if err := loadStructFromEnv(field, envVarName+"_"); err != nil {
				return err
			}
			continue
		}

		envValue, exists := os.LookupEnv(envVarName)
		if !exists {
			continue
		}
		if err := setField(field, envValue); err != nil {
			return fmt.Errorf("failed to set field '%s' from env var '%s': %w", fieldType.Name, envVarName, err)
		}
	}
	return nil
}

// setField sets a field from its string form. Slices of strings are comma-separated;
// maps are left to the YAML file.
func setField(field reflect.Value, value string) error {
	if !field.CanSet() {
		return nil
	}
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(intValue)
	case reflect.Float64, reflect.Float32:
		floatValue, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(floatValue)
	case reflect.Bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(boolValue)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return nil
		}
		items := make([]string, 0)
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		field.Set(reflect.ValueOf(items))
	}
	return nil
}

// Package config provides the configuration structures of the planfeed service and
// converts them into the per-run synthesis policy.
package config

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/navi-mes/planfeed/pkg/planner/core/domain/model"
)

// EmbeddedConfig holds the content of the configuration file, typically passed from main.go.
type EmbeddedConfig []byte

// LogLevel defines the logging level for the application.
type LogLevel string

const (
	LogLevelTrace  LogLevel = "TRACE"
	LogLevelDebug  LogLevel = "DEBUG"
	LogLevelInfo   LogLevel = "INFO"
	LogLevelWarn   LogLevel = "WARN"
	LogLevelError  LogLevel = "ERROR"
	LogLevelFatal  LogLevel = "FATAL"
	LogLevelSilent LogLevel = "SILENT"
)

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the logging level (e.g., "INFO", "DEBUG").
	Level string `yaml:"level"`
}

// SystemConfig holds system-wide settings.
type SystemConfig struct {
	// Timezone is the wall clock used for shift boundaries (e.g., "UTC", "Europe/Istanbul").
	Timezone string        `yaml:"timezone"`
	Logging  LoggingConfig `yaml:"logging"`
}

// ScopeConfig restricts which work orders are planned.
type ScopeConfig struct {
	// LimitWorkOrders enables the allow-list. With an empty list nothing is planned.
	LimitWorkOrders  bool     `yaml:"limit_work_orders"`
	WorkOrderNumbers []string `yaml:"work_order_numbers"`
}

// PaddingConfig holds the sentinel used to equalize route lengths.
type PaddingConfig struct {
	SentinelWorkstation string  `yaml:"sentinel_workstation"`
	SentinelCycleTime   float64 `yaml:"sentinel_cycle_time"`
	SentinelMinBatch    float64 `yaml:"sentinel_min_batch"`
}

// SynthesisConfig holds request defaults and instance constants.
type SynthesisConfig struct {
	DefaultTenant   string  `yaml:"default_tenant"`
	DefaultTrigger  string  `yaml:"default_trigger"`
	DefaultVariant  string  `yaml:"default_variant"`
	TimeUnitSeconds float64 `yaml:"time_unit_seconds"`
	MaxProcTime     int     `yaml:"max_proc_time"`
}

// ShiftConfig holds the daily shift boundaries ("HH:MM").
type ShiftConfig struct {
	DayShiftEnd      string `yaml:"day_shift_end"`
	NightShiftEnd    string `yaml:"night_shift_end"`
	FrequencyMinutes int    `yaml:"frequency_minutes"`
}

// OperationsConfig holds the fixed scheduling tables attached to timestamp instances.
type OperationsConfig struct {
	StorageMapping   map[string]string `yaml:"storage_mapping"`
	MaxWaitTimes     map[string]int    `yaml:"max_wait_times"`
	ObjectiveRanking map[string]int    `yaml:"objective_ranking"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	Gzip bool   `yaml:"gzip"`
}

// OTLPConfig holds OpenTelemetry exporter settings.
type OTLPConfig struct {
	// Protocol is "grpc" or "http".
	Protocol string `yaml:"protocol"`
	Endpoint string `yaml:"endpoint"`
	Insecure bool   `yaml:"insecure"`
}

// MetricsConfig selects the metrics backend.
type MetricsConfig struct {
	// Backend is "prometheus", "otel" or "none".
	Backend string     `yaml:"backend"`
	OTLP    OTLPConfig `yaml:"otlp"`
	// AsyncBufferSize is the queue length of the asynchronous recorder. Events beyond it are dropped.
	AsyncBufferSize int `yaml:"async_buffer_size"`
}

// TracingConfig holds distributed tracing settings.
type TracingConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Protocol    string `yaml:"protocol"`
	Endpoint    string `yaml:"endpoint"`
	Insecure    bool   `yaml:"insecure"`
	ServiceName string `yaml:"service_name"`
}

// InfrastructureConfig holds logical dependency settings for infrastructure components.
type InfrastructureConfig struct {
	// StoreDBRef is the name of the database connection the planning store reads from.
	StoreDBRef string `yaml:"store_db_ref"`
	// ScheduleStorageRef is the name of the storage connection holding uploaded schedules.
	ScheduleStorageRef string `yaml:"schedule_storage_ref"`
	ScheduleBucket     string `yaml:"schedule_bucket"`
	ScheduleObject     string `yaml:"schedule_object"`
}

// PlannerConfig holds all configuration under the "planner" top-level key.
type PlannerConfig struct {
	System         SystemConfig         `yaml:"system"`
	Scope          ScopeConfig          `yaml:"scope"`
	Padding        PaddingConfig        `yaml:"padding"`
	Synthesis      SynthesisConfig      `yaml:"synthesis"`
	Shift          ShiftConfig          `yaml:"shift"`
	Operations     OperationsConfig     `yaml:"operations"`
	Server         ServerConfig         `yaml:"server"`
	Metrics        MetricsConfig        `yaml:"metrics"`
	Tracing        TracingConfig        `yaml:"tracing"`
	Infrastructure InfrastructureConfig `yaml:"infrastructure"`
	// AdapterConfigs holds named database connection configurations.
	AdapterConfigs map[string]interface{} `yaml:"database"`
	// StorageConfigs holds named object storage configurations.
	StorageConfigs map[string]interface{} `yaml:"storage"`
}

// Config is the root structure for the entire application configuration.
type Config struct {
	Planner PlannerConfig `yaml:"planner"`
	// EmbeddedConfig holds configuration loaded from an embedded source, not from YAML.
	EmbeddedConfig EmbeddedConfig `yaml:"-"`
}

// GlobalConfig is the configuration instance shared across the application.
var GlobalConfig *Config

// NewConfig returns a new instance of Config with default values.
func NewConfig() *Config {
	return &Config{
		Planner: PlannerConfig{
			System: SystemConfig{
				Timezone: "UTC",
				Logging:  LoggingConfig{Level: "INFO"},
			},
			Padding: PaddingConfig{
				SentinelWorkstation: "FAKE",
				SentinelCycleTime:   0.01,
				SentinelMinBatch:    100,
			},
			Synthesis: SynthesisConfig{
				DefaultTenant:   "demo-tenant",
				DefaultTrigger:  "FULL_REPLAN",
				DefaultVariant:  string(model.VariantTimestamp),
				TimeUnitSeconds: 60,
				MaxProcTime:     75000,
			},
			Shift: ShiftConfig{
				DayShiftEnd:      "19:30",
				NightShiftEnd:    "07:30",
				FrequencyMinutes: 720,
			},
			Operations: OperationsConfig{
				StorageMapping: map[string]string{
					"HKK 1": "yuv_araba", "HKK 2": "yuv_araba", "BKK 1": "yuv_araba", "BAL 1": "yuv_araba",
					"KUR 1": "dik_araba", "KUR 2": "dik_araba",
					"RKK 1": "dok", "TUP 1": "dok", "SAR 1": "dok", "SAR 2": "dok", "SAR 3": "dok",
					"SAR 4": "dok", "RAM 1": "dok", "RAM 2": "dok", "YIK 1": "dok", "DOK 1": "dok",
				},
				MaxWaitTimes: map[string]int{"yuv_araba": 60, "dik_araba": 60, "dok": 180},
				ObjectiveRanking: map[string]int{
					"makespan":        1,
					"shift_change":    2,
					"total_shifts":    3,
					"night_shifts":    4,
					"saturday_shifts": 5,
				},
			},
			Server:  ServerConfig{Addr: ":8000"},
			Metrics: MetricsConfig{Backend: "prometheus", OTLP: OTLPConfig{Protocol: "grpc"}, AsyncBufferSize: 100},
			Tracing: TracingConfig{Protocol: "grpc", ServiceName: "planfeed"},
			Infrastructure: InfrastructureConfig{
				StoreDBRef:         "mes",
				ScheduleStorageRef: "schedules",
				ScheduleBucket:     "schedules",
				ScheduleObject:     "latest_schedule.json",
			},
			AdapterConfigs: map[string]interface{}{},
			StorageConfigs: map[string]interface{}{},
		},
	}
}

// Location returns the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Planner.System.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Planner.System.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Planner.System.Timezone, err)
	}
	return loc, nil
}

// Policy converts the configuration into the synthesis policy applied to each run.
func (c *Config) Policy() (model.Policy, error) {
	p := c.Planner
	loc, err := c.Location()
	if err != nil {
		return model.Policy{}, err
	}
	day, err := model.ParseClockTime(p.Shift.DayShiftEnd)
	if err != nil {
		return model.Policy{}, err
	}
	night, err := model.ParseClockTime(p.Shift.NightShiftEnd)
	if err != nil {
		return model.Policy{}, err
	}
	return model.Policy{
		SentinelWorkstation: p.Padding.SentinelWorkstation,
		SentinelCycleTime:   p.Padding.SentinelCycleTime,
		SentinelMinBatch:    p.Padding.SentinelMinBatch,
		LimitWorkOrders:     p.Scope.LimitWorkOrders,
		WorkOrderAllowList:  append([]string(nil), p.Scope.WorkOrderNumbers...),
		TimeUnitSeconds:     p.Synthesis.TimeUnitSeconds,
		MaxProcTime:         p.Synthesis.MaxProcTime,
		Location:            loc,
		Shift: model.ShiftPolicy{
			DayShiftEnd:      day,
			NightShiftEnd:    night,
			FrequencyMinutes: p.Shift.FrequencyMinutes,
		},
		Operations: model.OperationalProfile{
			StorageMapping:   copyStrings(p.Operations.StorageMapping),
			MaxWaitTimes:     copyInts(p.Operations.MaxWaitTimes),
			ObjectiveRanking: copyInts(p.Operations.ObjectiveRanking),
		},
	}, nil
}

func copyStrings(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyInts(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

package config

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/navi-mes/planfeed/pkg/planner/core/domain/model"
)

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	p := c.Planner

	if p.Padding.SentinelWorkstation == "" {
		result = multierror.Append(result, fmt.Errorf("padding.sentinel_workstation must not be empty"))
	}
	if p.Padding.SentinelCycleTime <= 0 {
		result = multierror.Append(result, fmt.Errorf("padding.sentinel_cycle_time must be positive, got %v", p.Padding.SentinelCycleTime))
	}
	if p.Padding.SentinelMinBatch <= 0 {
		result = multierror.Append(result, fmt.Errorf("padding.sentinel_min_batch must be positive, got %v", p.Padding.SentinelMinBatch))
	}
	if p.Synthesis.TimeUnitSeconds <= 0 {
		result = multierror.Append(result, fmt.Errorf("synthesis.time_unit_seconds must be positive, got %v", p.Synthesis.TimeUnitSeconds))
	}
	if p.Synthesis.MaxProcTime <= 0 {
		result = multierror.Append(result, fmt.Errorf("synthesis.max_proc_time must be positive, got %d", p.Synthesis.MaxProcTime))
	}
	if _, err := model.ParseVariant(p.Synthesis.DefaultVariant); err != nil {
		result = multierror.Append(result, fmt.Errorf("synthesis.default_variant: %w", err))
	}
	if _, err := model.ParseClockTime(p.Shift.DayShiftEnd); err != nil {
		result = multierror.Append(result, fmt.Errorf("shift.day_shift_end: %w", err))
	}
	if _, err := model.ParseClockTime(p.Shift.NightShiftEnd); err != nil {
		result = multierror.Append(result, fmt.Errorf("shift.night_shift_end: %w", err))
	}
	if p.Shift.FrequencyMinutes <= 0 {
		result = multierror.Append(result, fmt.Errorf("shift.frequency_minutes must be positive, got %d", p.Shift.FrequencyMinutes))
	}
	if _, err := c.Location(); err != nil {
		result = multierror.Append(result, fmt.Errorf("system.timezone: %w", err))
	}

	switch p.Metrics.Backend {
	case "prometheus", "none":
	case "otel":
		if err := validateProtocol(p.Metrics.OTLP.Protocol); err != nil {
			result = multierror.Append(result, fmt.Errorf("metrics.otlp.protocol: %w", err))
		}
	default:
		result = multierror.Append(result, fmt.Errorf("metrics.backend must be one of prometheus, otel, none; got %q", p.Metrics.Backend))
	}
	if p.Tracing.Enabled {
		if err := validateProtocol(p.Tracing.Protocol); err != nil {
			result = multierror.Append(result, fmt.Errorf("tracing.protocol: %w", err))
		}
	}

	if _, ok := p.AdapterConfigs[p.Infrastructure.StoreDBRef]; !ok {
		result = multierror.Append(result, fmt.Errorf("infrastructure.store_db_ref %q has no database configuration", p.Infrastructure.StoreDBRef))
	}
	if _, ok := p.StorageConfigs[p.Infrastructure.ScheduleStorageRef]; !ok {
		result = multierror.Append(result, fmt.Errorf("infrastructure.schedule_storage_ref %q has no storage configuration", p.Infrastructure.ScheduleStorageRef))
	}
	if p.Infrastructure.ScheduleObject == "" {
		result = multierror.Append(result, fmt.Errorf("infrastructure.schedule_object must not be empty"))
	}

	return result.ErrorOrNil()
}

func validateProtocol(protocol string) error {
	switch protocol {
	case "grpc", "http":
		return nil
	default:
		return fmt.Errorf("must be grpc or http, got %q", protocol)
	}
}

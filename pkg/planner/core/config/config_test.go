package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navi-mes/planfeed/pkg/planner/core/config"
	"github.com/navi-mes/planfeed/pkg/planner/core/domain/model"
)

const sampleYAML = `
planner:
  system:
    timezone: Europe/Istanbul
    logging:
      level: DEBUG
  scope:
    limit_work_orders: true
    work_order_numbers: ["WO-1", "WO-2"]
  padding:
    sentinel_workstation: PAD
  synthesis:
    default_variant: numeric
  infrastructure:
    store_db_ref: mes
    schedule_storage_ref: schedules
  database:
    mes:
      type: postgres
      host: ${PLANFEED_TEST_DB_HOST}
      port: 5432
  storage:
    schedules:
      type: local
      base_dir: /tmp/schedules
`

func TestNewConfig_Defaults(t *testing.T) {
	cfg := config.NewConfig()
	p := cfg.Planner

	assert.Equal(t, "UTC", p.System.Timezone)
	assert.Equal(t, "INFO", p.System.Logging.Level)
	assert.Equal(t, "FAKE", p.Padding.SentinelWorkstation)
	assert.Equal(t, 0.01, p.Padding.SentinelCycleTime)
	assert.Equal(t, 100.0, p.Padding.SentinelMinBatch)
	assert.Equal(t, "demo-tenant", p.Synthesis.DefaultTenant)
	assert.Equal(t, "FULL_REPLAN", p.Synthesis.DefaultTrigger)
	assert.Equal(t, 75000, p.Synthesis.MaxProcTime)
	assert.Equal(t, "yuv_araba", p.Operations.StorageMapping["HKK 1"])
	assert.Equal(t, 180, p.Operations.MaxWaitTimes["dok"])
	assert.Equal(t, 5, p.Operations.ObjectiveRanking["saturday_shifts"])
	assert.False(t, p.Scope.LimitWorkOrders)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("PLANFEED_TEST_DB_HOST", "db.internal")

	t.Run("merges YAML over defaults and expands placeholders", func(t *testing.T) {
		cfg, err := config.LoadConfig("", config.EmbeddedConfig(sampleYAML))
		require.NoError(t, err)
		p := cfg.Planner

		assert.Equal(t, "Europe/Istanbul", p.System.Timezone)
		assert.Equal(t, "DEBUG", p.System.Logging.Level)
		assert.True(t, p.Scope.LimitWorkOrders)
		assert.Equal(t, []string{"WO-1", "WO-2"}, p.Scope.WorkOrderNumbers)
		assert.Equal(t, "PAD", p.Padding.SentinelWorkstation)
		assert.Equal(t, 0.01, p.Padding.SentinelCycleTime)
		assert.Equal(t, "numeric", p.Synthesis.DefaultVariant)

		mes, ok := p.AdapterConfigs["mes"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "db.internal", mes["host"])
		assert.Contains(t, p.StorageConfigs, "schedules")
		require.NoError(t, cfg.Validate())
	})

	t.Run("environment overrides YAML", func(t *testing.T) {
		t.Setenv("PLANNER_PADDING_SENTINEL_MIN_BATCH", "250")
		t.Setenv("PLANNER_SCOPE_LIMIT_WORK_ORDERS", "false")
		t.Setenv("PLANNER_SCOPE_WORK_ORDER_NUMBERS", "WO-7, WO-8,")
		t.Setenv("PLANNER_SERVER_ADDR", ":9090")

		cfg, err := config.LoadConfig("", config.EmbeddedConfig(sampleYAML))
		require.NoError(t, err)
		p := cfg.Planner
		assert.Equal(t, 250.0, p.Padding.SentinelMinBatch)
		assert.False(t, p.Scope.LimitWorkOrders)
		assert.Equal(t, []string{"WO-7", "WO-8"}, p.Scope.WorkOrderNumbers)
		assert.Equal(t, ":9090", p.Server.Addr)
	})

	t.Run("invalid environment value fails", func(t *testing.T) {
		t.Setenv("PLANNER_SYNTHESIS_MAX_PROC_TIME", "lots")
		_, err := config.LoadConfig("", config.EmbeddedConfig(sampleYAML))
		assert.Error(t, err)
	})

	t.Run("invalid YAML fails", func(t *testing.T) {
		_, err := config.LoadConfig("", config.EmbeddedConfig("planner: [unterminated"))
		assert.Error(t, err)
	})
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Planner.Padding.SentinelWorkstation = ""
	cfg.Planner.Padding.SentinelCycleTime = 0
	cfg.Planner.Shift.DayShiftEnd = "25:99"
	cfg.Planner.Metrics.Backend = "statsd"

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "padding.sentinel_workstation")
	assert.Contains(t, msg, "padding.sentinel_cycle_time")
	assert.Contains(t, msg, "shift.day_shift_end")
	assert.Contains(t, msg, "metrics.backend")
	assert.Contains(t, msg, "store_db_ref")
}

func TestPolicy(t *testing.T) {
	t.Setenv("PLANFEED_TEST_DB_HOST", "db.internal")
	cfg, err := config.LoadConfig("", config.EmbeddedConfig(sampleYAML))
	require.NoError(t, err)

	policy, err := cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, "PAD", policy.SentinelWorkstation)
	assert.True(t, policy.LimitWorkOrders)
	assert.Equal(t, []string{"WO-1", "WO-2"}, policy.WorkOrderAllowList)
	assert.Equal(t, model.ClockTime{Hour: 19, Minute: 30}, policy.Shift.DayShiftEnd)
	assert.Equal(t, "Europe/Istanbul", policy.Location.String())

	policy.Operations.StorageMapping["NEW 1"] = "dok"
	assert.NotContains(t, cfg.Planner.Operations.StorageMapping, "NEW 1")

	t.Run("bad timezone", func(t *testing.T) {
		c := config.NewConfig()
		c.Planner.System.Timezone = "Mars/Olympus"
		_, err := c.Policy()
		assert.Error(t, err)
	})

	t.Run("location defaults to UTC", func(t *testing.T) {
		c := config.NewConfig()
		c.Planner.System.Timezone = ""
		loc, err := c.Location()
		require.NoError(t, err)
		assert.Equal(t, time.UTC, loc)
	})
}

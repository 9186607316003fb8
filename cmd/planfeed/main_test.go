package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/navi-mes/planfeed/pkg/planner/core/config"
	"github.com/navi-mes/planfeed/pkg/planner/engine/assemble"
)

func TestEmbeddedConfig_ShiftBoundariesOnUTC(t *testing.T) {
	cfg, err := config.LoadConfig("", config.EmbeddedConfig(embeddedConfig))
	require.NoError(t, err)
	assert.Equal(t, "UTC", cfg.Planner.System.Timezone)

	policy, err := cfg.Policy()
	require.NoError(t, err)

	present := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	got := assemble.FirstShiftEnd(present, policy.Shift, policy.Location)
	assert.True(t, time.Date(2025, 3, 4, 19, 30, 0, 0, time.UTC).Equal(got), "got %s", got)
}

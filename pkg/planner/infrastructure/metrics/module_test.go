package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"

	config "github.com/navi-mes/planfeed/pkg/planner/core/config"
	metrics "github.com/navi-mes/planfeed/pkg/planner/core/metrics"
)

func TestNewMetricRecorder_Backends(t *testing.T) {
	lc := fxtest.NewLifecycle(t)

	cfg := config.NewConfig()
	res, err := NewMetricRecorder(lc, cfg)
	require.NoError(t, err)
	assert.IsType(t, &PrometheusRecorder{}, res.Recorder)
	assert.NotNil(t, res.Gatherer)

	cfg.Planner.Metrics.Backend = BackendNone
	res, err = NewMetricRecorder(lc, cfg)
	require.NoError(t, err)
	assert.IsType(t, &metrics.NoOpMetricRecorder{}, res.Recorder)
	assert.NotNil(t, res.Gatherer)

	cfg.Planner.Metrics.Backend = "statsd"
	_, err = NewMetricRecorder(lc, cfg)
	assert.ErrorContains(t, err, "unknown metrics backend")

	cfg.Planner.Metrics.Backend = BackendOTel
	cfg.Planner.Metrics.OTLP.Protocol = "udp"
	_, err = NewMetricRecorder(lc, cfg)
	assert.ErrorContains(t, err, "unsupported OTLP protocol")
}

func TestNewTracer_DisabledIsNoOp(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	cfg := config.NewConfig()

	tracer, err := NewTracer(lc, cfg)
	require.NoError(t, err)
	assert.IsType(t, &metrics.NoOpTracer{}, tracer)

	cfg.Planner.Tracing.Enabled = true
	cfg.Planner.Tracing.Protocol = "udp"
	_, err = NewTracer(lc, cfg)
	assert.ErrorContains(t, err, "unsupported OTLP protocol")
}

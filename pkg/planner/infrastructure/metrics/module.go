// Package metrics provides the Prometheus and OpenTelemetry backends of the
// MetricRecorder and Tracer abstractions.
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"

	config "github.com/navi-mes/planfeed/pkg/planner/core/config"
	metrics "github.com/navi-mes/planfeed/pkg/planner/core/metrics"
	logger "github.com/navi-mes/planfeed/pkg/planner/support/util/logger"
)

// Metrics backends.
const (
	BackendPrometheus = "prometheus"
	BackendOTel       = "otel"
	BackendNone       = "none"
)

// RecorderResult is the output of NewMetricRecorder.
type RecorderResult struct {
	fx.Out
	Recorder metrics.MetricRecorder
	// Gatherer backs the /metrics endpoint.
	Gatherer prometheus.Gatherer
}

// NewMetricRecorder builds the recorder of the configured backend.
// Without the Prometheus backend, /metrics still exposes Go runtime and process metrics.
func NewMetricRecorder(lc fx.Lifecycle, cfg *config.Config) (RecorderResult, error) {
	mc := cfg.Planner.Metrics
	switch mc.Backend {
	case BackendPrometheus, "":
		r := NewPrometheusRecorder()
		logger.Infof("Metrics: Prometheus recorder enabled.")
		return RecorderResult{Recorder: r, Gatherer: r.GetRegistry()}, nil

	case BackendOTel:
		exporter, err := newMetricExporter(context.Background(), mc.OTLP)
		if err != nil {
			return RecorderResult{}, err
		}
		provider := sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
			sdkmetric.WithResource(serviceResource(cfg)),
		)
		lc.Append(fx.Hook{OnStop: provider.Shutdown})
		r, err := NewOpenTelemetryRecorder(provider)
		if err != nil {
			return RecorderResult{}, fmt.Errorf("failed to create OpenTelemetry instruments: %w", err)
		}
		logger.Infof("Metrics: OpenTelemetry recorder enabled (protocol: %s, endpoint: %s).", mc.OTLP.Protocol, mc.OTLP.Endpoint)
		return RecorderResult{Recorder: r, Gatherer: runtimeRegistry()}, nil

	case BackendNone:
		logger.Infof("Metrics: disabled.")
		return RecorderResult{Recorder: metrics.NewNoOpMetricRecorder(), Gatherer: runtimeRegistry()}, nil

	default:
		return RecorderResult{}, fmt.Errorf("unknown metrics backend '%s'", mc.Backend)
	}
}

// NewTracer builds the OpenTelemetry tracer when tracing is enabled and a no-op tracer otherwise.
func NewTracer(lc fx.Lifecycle, cfg *config.Config) (metrics.Tracer, error) {
	tc := cfg.Planner.Tracing
	if !tc.Enabled {
		return metrics.NewNoOpTracer(), nil
	}
	exporter, err := newSpanExporter(context.Background(), tc)
	if err != nil {
		return nil, err
	}
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(serviceResource(cfg)),
	)
	otel.SetTracerProvider(provider)
	lc.Append(fx.Hook{OnStop: provider.Shutdown})
	logger.Infof("Tracing: OpenTelemetry tracer enabled (protocol: %s, endpoint: %s).", tc.Protocol, tc.Endpoint)
	return NewOpenTelemetryTracer(provider), nil
}

func newMetricExporter(ctx context.Context, oc config.OTLPConfig) (sdkmetric.Exporter, error) {
	switch oc.Protocol {
	case "http":
		var opts []otlpmetrichttp.Option
		if oc.Endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(oc.Endpoint))
		}
		if oc.Insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		return otlpmetrichttp.New(ctx, opts...)
	case "grpc", "":
		var opts []otlpmetricgrpc.Option
		if oc.Endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(oc.Endpoint))
		}
		if oc.Insecure {
			opts = append(opts, otlpmetricgrpc.WithInsecure())
		}
		return otlpmetricgrpc.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol '%s'", oc.Protocol)
	}
}

func newSpanExporter(ctx context.Context, tc config.TracingConfig) (sdktrace.SpanExporter, error) {
	switch tc.Protocol {
	case "http":
		var opts []otlptracehttp.Option
		if tc.Endpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpoint(tc.Endpoint))
		}
		if tc.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, opts...)
	case "grpc", "":
		var opts []otlptracegrpc.Option
		if tc.Endpoint != "" {
			opts = append(opts, otlptracegrpc.WithEndpoint(tc.Endpoint))
		}
		if tc.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		return otlptracegrpc.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol '%s'", tc.Protocol)
	}
}

func serviceResource(cfg *config.Config) *resource.Resource {
	name := cfg.Planner.Tracing.ServiceName
	if name == "" {
		name = "planfeed"
	}
	return resource.NewSchemaless(attribute.String("service.name", name))
}

func runtimeRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return registry
}

// Module provides the MetricRecorder, the Prometheus gatherer and the Tracer.
var Module = fx.Options(
	fx.Provide(NewMetricRecorder),
	fx.Provide(NewTracer),
)

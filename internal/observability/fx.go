package observability

import (
	"github.com/smallbiznis/hostelhub/internal/observability/logger"
	"github.com/smallbiznis/hostelhub/internal/observability/metrics"
	"github.com/smallbiznis/hostelhub/internal/observability/tracing"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

// Module wires logging, tracing, OTLP domain counters and the prometheus
// registry that backs /metrics and the store gauges.
var Module = fx.Module("observability",
	fx.Provide(
		NewConfig,
		func(c Config) logger.Config {
			return logger.Config{
				ServiceName: c.Service.Name,
				Environment: c.Service.Environment,
				Version:     c.Service.Version,
				Level:       c.Log.Level,
				Format:      c.Log.Format,
				Debug:       c.Debug(),
			}
		},
		func(c Config) tracing.Config {
			return tracing.Config{
				Enabled:          c.Telemetry.Enabled,
				ServiceName:      c.Service.Name,
				ServiceVersion:   c.Service.Version,
				Environment:      c.Service.Environment,
				ExporterEndpoint: c.Telemetry.Endpoint,
				ExporterProtocol: c.Telemetry.Protocol,
				SamplingRatio:    c.Telemetry.SamplingRatio,
			}
		},
		func(c Config) metrics.Config {
			return metrics.Config{
				Enabled:          c.Telemetry.Enabled,
				ExporterEndpoint: c.Telemetry.Endpoint,
				ExporterProtocol: c.Telemetry.Protocol,
				ServiceName:      c.Service.Name,
				Environment:      c.Service.Environment,
			}
		},
		logger.New,
		tracing.NewProvider,
		metrics.NewProvider,
		metrics.New,
		metrics.NewRegistry,
		metrics.NewStoreMetrics,
		metrics.NewHTTPMetrics,
	),
	// installs the global tracer provider
	fx.Invoke(func(trace.TracerProvider) {}),
)

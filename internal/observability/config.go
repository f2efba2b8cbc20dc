package observability

import (
	"time"

	"skillsync/internal/config"
)

// ObservabilityConfig holds configuration for observability
type ObservabilityConfig struct {
	ServiceName     string
	ServiceVersion  string
	ServiceInstance string
	Enabled         bool
	TracingEnabled  bool
	MetricsEnabled  bool
	ConsoleOutput   bool
	PrettyPrint     bool
	SampleRate      float64

	CollectionInterval time.Duration

	Prometheus PrometheusConfig
	OTLP       config.OTLPConfig
	Custom     config.CustomMetricsConfig
}

// GetObservabilityConfig creates observability config from provided config
func GetObservabilityConfig(cfg *config.Config, version string) ObservabilityConfig {
	if cfg == nil {
		// Fallback to defaults if config not available
		return ObservabilityConfig{
			ServiceName:        "skillsync",
			ServiceVersion:     version,
			ServiceInstance:    "skillsync-1",
			Enabled:            true,
			TracingEnabled:     true,
			MetricsEnabled:     true,
			ConsoleOutput:      true,
			PrettyPrint:        true,
			SampleRate:         1.0,
			CollectionInterval: 15 * time.Second,
			Prometheus:         GetPrometheusConfig(nil),
			Custom:             allCustomMetrics(),
		}
	}

	obs := cfg.Observability

	// Use app version if service version not specified
	serviceVersion := obs.ServiceVersion
	if serviceVersion == "" {
		serviceVersion = version
	}

	return ObservabilityConfig{
		ServiceName:        obs.ServiceName,
		ServiceVersion:     serviceVersion,
		ServiceInstance:    obs.ServiceInstance,
		Enabled:            obs.Enabled,
		TracingEnabled:     obs.Tracing.Enabled,
		MetricsEnabled:     obs.Metrics.Enabled,
		ConsoleOutput:      obs.ConsoleOutput,
		PrettyPrint:        obs.Console.PrettyPrint,
		SampleRate:         obs.Tracing.SampleRate,
		CollectionInterval: obs.Metrics.CollectionInterval,
		Prometheus:         GetPrometheusConfig(cfg),
		OTLP:               obs.OTLP,
		Custom:             obs.CustomMetrics,
	}
}

func allCustomMetrics() config.CustomMetricsConfig {
	return config.CustomMetricsConfig{
		AIOperations: config.AIOperationsMetricsConfig{
			Enabled: true, TrackDuration: true, TrackTokenUsage: true,
		},
		BusinessMetrics: config.BusinessMetricsConfig{
			Enabled: true, TrackSuccessRates: true, TrackReadiness: true, TrackSessionActions: true,
		},
		Infrastructure: config.InfrastructureMetricsConfig{
			Enabled: true, TrackRateLimits: true, TrackSessions: true,
		},
	}
}

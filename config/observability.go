package config

import (
	"fmt"
	"strings"
)

const defaultObservabilityName = "uploader"

// MetricsBackend selects where metrics are emitted.
type MetricsBackend string

const (
	// MetricsBackendStatsd emits StatsD line protocol over UDP.
	MetricsBackendStatsd MetricsBackend = "statsd"
	// MetricsBackendPrometheus exposes metrics for scraping.
	MetricsBackendPrometheus MetricsBackend = "prometheus"
)

// UnmarshalText implements encoding.TextUnmarshaler for MetricsBackend.
func (m *MetricsBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "statsd", "prometheus":
		*m = MetricsBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid MetricsBackend: %q (valid options: statsd, prometheus)", v)
	}
}

// ObservabilityConfig groups configuration that controls metrics and tracing.
type ObservabilityConfig struct {
	Metrics ObservabilityMetricsConfig
}

// Sanitize applies guardrails to observability sub-configs.
func (c *ObservabilityConfig) Sanitize() {
	c.Metrics.Sanitize()
}

// ObservabilityMetricsConfig controls emission of metrics to StatsD or Prometheus.
type ObservabilityMetricsConfig struct {
	Enabled       bool           `env:"OBSERVABILITY_METRICS_ENABLED"        envDefault:"false"`
	Backend       MetricsBackend `env:"OBSERVABILITY_METRICS_BACKEND"        envDefault:"prometheus"`
	Prefix        string         `env:"OBSERVABILITY_METRICS_PREFIX"         envDefault:"uploader"`
	StatsdAddress string         `env:"OBSERVABILITY_METRICS_STATSD_ADDRESS" envDefault:"127.0.0.1:8125"`
	// ListenAddr serves /metrics on a dedicated listener when the metrics service is enabled.
	ListenAddr string `env:"OBSERVABILITY_METRICS_LISTEN_ADDR" envDefault:":9090"`
}

// Sanitize normalises derived fields and enforces safe defaults.
func (c *ObservabilityMetricsConfig) Sanitize() {
	c.StatsdAddress = strings.TrimSpace(c.StatsdAddress)
	c.ListenAddr = strings.TrimSpace(c.ListenAddr)
	if c.Prefix = strings.TrimSpace(c.Prefix); c.Prefix == "" {
		c.Prefix = defaultObservabilityName
	}
	if c.Backend == "" {
		c.Backend = MetricsBackendPrometheus
	}
	if c.Backend == MetricsBackendStatsd && c.StatsdAddress == "" {
		c.Enabled = false
	}
}

// IsEnabled returns true when metrics emission is active after sanitisation.
func (c *ObservabilityMetricsConfig) IsEnabled() bool {
	if !c.Enabled {
		return false
	}
	if c.Backend == MetricsBackendStatsd {
		return c.StatsdAddress != ""
	}
	return true
}

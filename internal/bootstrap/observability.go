package bootstrap

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/orc-hfg/uploader/config"
	"github.com/orc-hfg/uploader/internal/observability/prom"
	"github.com/orc-hfg/uploader/internal/observability/statsd"
)

// ObservabilityContainer holds the metrics sink shared by the auth client, the
// route guard and the mock, plus the scrape handler when Prometheus is selected.
type ObservabilityContainer struct {
	Sink    statsd.Sink
	Handler http.Handler
	Config  config.ObservabilityMetricsConfig

	closer func() error
}

// Close releases the metrics transport.
func (o ObservabilityContainer) Close() error {
	if o.closer == nil {
		return nil
	}
	return o.closer()
}

// BuildObservability configures the metrics backend. Failures degrade to a no-op sink.
func BuildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	obsLogger := logger
	if obsLogger == nil {
		obsLogger = slog.Default()
	}

	out := ObservabilityContainer{Sink: statsd.Nop{}, Config: cfg.Metrics}
	if !cfg.Metrics.IsEnabled() {
		return out
	}

	switch cfg.Metrics.Backend {
	case config.MetricsBackendStatsd:
		client, err := statsd.NewClient(statsd.Config{
			Enabled: true,
			Address: cfg.Metrics.StatsdAddress,
			Prefix:  cfg.Metrics.Prefix,
			Logger:  obsLogger,
		})
		if err != nil {
			obsLogger.Error("failed to initialise statsd client", "error", err)
			return out
		}
		out.Sink = client
		out.closer = client.Close
	default:
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		out.Sink = prom.NewSink(prom.Options{
			Registerer: reg,
			Namespace:  cfg.Metrics.Prefix,
			Logger:     obsLogger,
		})
		out.Handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	}

	obsLogger.Info("metrics enabled", "backend", cfg.Metrics.Backend, "prefix", cfg.Metrics.Prefix)
	return out
}

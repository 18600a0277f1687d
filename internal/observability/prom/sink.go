// Package prom adapts the statsd.Sink interface onto Prometheus collectors so the
// same emitters can feed either a StatsD agent or a /metrics scrape endpoint.
package prom

import (
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/orc-hfg/uploader/internal/observability/statsd"
)

// DefaultBuckets covers outbound auth calls, from fast cache hits to the HTTP timeout.
var DefaultBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// Options configures a Sink.
type Options struct {
	// Registerer receives lazily created collectors. Defaults to prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
	// Namespace prefixes every metric name, e.g. "uploader".
	Namespace string
	Buckets   []float64
	Logger    *slog.Logger
}

// Sink creates one collector per metric name on first use. Label names are taken
// from the tag keys of that first call; later calls must use the same keys, and
// calls with a different key set are dropped.
type Sink struct {
	reg       prometheus.Registerer
	namespace string
	buckets   []float64
	logger    *slog.Logger

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
	labels     map[string][]string
}

var _ statsd.Sink = (*Sink)(nil)

// NewSink builds a Prometheus-backed metrics sink.
func NewSink(opts Options) *Sink {
	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	buckets := opts.Buckets
	if len(buckets) == 0 {
		buckets = DefaultBuckets
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{
		reg:        reg,
		namespace:  metricName(opts.Namespace),
		buckets:    buckets,
		logger:     logger.With("component", "prometheus_sink"),
		counters:   map[string]*prometheus.CounterVec{},
		gauges:     map[string]*prometheus.GaugeVec{},
		histograms: map[string]*prometheus.HistogramVec{},
		labels:     map[string][]string{},
	}
}

// Count adds value to the "<name>_total" counter.
func (s *Sink) Count(name string, value int64, tags map[string]string) {
	if s == nil || value < 0 {
		return
	}
	vec, values, ok := s.counter(name, tags)
	if !ok {
		return
	}
	vec.WithLabelValues(values...).Add(float64(value))
}

// Gauge sets the "<name>" gauge.
func (s *Sink) Gauge(name string, value float64, tags map[string]string) {
	if s == nil {
		return
	}
	vec, values, ok := s.gauge(name, tags)
	if !ok {
		return
	}
	vec.WithLabelValues(values...).Set(value)
}

// Timing observes value in the "<name>_seconds" histogram.
func (s *Sink) Timing(name string, value time.Duration, tags map[string]string) {
	if s == nil {
		return
	}
	vec, values, ok := s.histogram(name, tags)
	if !ok {
		return
	}
	vec.WithLabelValues(values...).Observe(value.Seconds())
}

func (s *Sink) counter(name string, tags map[string]string) (*prometheus.CounterVec, []string, bool) {
	full := s.fullName(name, "_total")
	if full == "" {
		return nil, nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	keys, values, ok := s.resolveLabels(full, tags)
	if !ok {
		return nil, nil, false
	}
	if vec, exists := s.counters[full]; exists {
		return vec, values, true
	}
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{Name: full, Help: "Count of " + name + " events."}, keys)
	if !s.register(full, vec) {
		return nil, nil, false
	}
	s.counters[full] = vec
	return vec, values, true
}

func (s *Sink) gauge(name string, tags map[string]string) (*prometheus.GaugeVec, []string, bool) {
	full := s.fullName(name, "")
	if full == "" {
		return nil, nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	keys, values, ok := s.resolveLabels(full, tags)
	if !ok {
		return nil, nil, false
	}
	if vec, exists := s.gauges[full]; exists {
		return vec, values, true
	}
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: full, Help: "Current value of " + name + "."}, keys)
	if !s.register(full, vec) {
		return nil, nil, false
	}
	s.gauges[full] = vec
	return vec, values, true
}

func (s *Sink) histogram(name string, tags map[string]string) (*prometheus.HistogramVec, []string, bool) {
	full := s.fullName(name, "_seconds")
	if full == "" {
		return nil, nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	keys, values, ok := s.resolveLabels(full, tags)
	if !ok {
		return nil, nil, false
	}
	if vec, exists := s.histograms[full]; exists {
		return vec, values, true
	}
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    full,
		Help:    "Duration of " + name + " in seconds.",
		Buckets: s.buckets,
	}, keys)
	if !s.register(full, vec) {
		return nil, nil, false
	}
	s.histograms[full] = vec
	return vec, values, true
}

// resolveLabels fixes the label set of a metric on first use and maps tags onto it.
// Callers hold s.mu.
func (s *Sink) resolveLabels(full string, tags map[string]string) ([]string, []string, bool) {
	keys, values := labelPairs(tags)
	known, seen := s.labels[full]
	if !seen {
		s.labels[full] = keys
		return keys, values, true
	}
	if !slices.Equal(known, keys) {
		s.logger.Debug("dropping metric with mismatched labels", "metric", full, "want", known, "got", keys)
		return nil, nil, false
	}
	return keys, values, true
}

func (s *Sink) register(full string, c prometheus.Collector) bool {
	if err := s.reg.Register(c); err != nil {
		s.logger.Warn("prometheus register failed", "metric", full, "error", err)
		return false
	}
	return true
}

func (s *Sink) fullName(name, suffix string) string {
	n := metricName(name)
	if n == "" {
		return ""
	}
	if s.namespace != "" {
		n = s.namespace + "_" + n
	}
	return n + suffix
}

// metricName converts a dotted statsd name into a Prometheus identifier.
func metricName(name string) string {
	n := statsd.NormalizeName(name)
	return strings.ReplaceAll(n, ".", "_")
}

func labelPairs(tags map[string]string) ([]string, []string) {
	cleaned := make(map[string]string, len(tags))
	for k, v := range tags {
		if key := metricName(k); key != "" {
			cleaned[key] = strings.TrimSpace(v)
		}
	}
	keys := make([]string, 0, len(cleaned))
	for k := range cleaned {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	values := make([]string, len(keys))
	for i, k := range keys {
		values[i] = cleaned[k]
	}
	return keys, values
}

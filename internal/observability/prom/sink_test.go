package prom

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatherValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) (float64, bool) {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			matched := 0
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] == lp.GetValue() {
					matched++
				}
			}
			if matched != len(labels) {
				continue
			}
			switch {
			case m.GetCounter() != nil:
				return m.GetCounter().GetValue(), true
			case m.GetGauge() != nil:
				return m.GetGauge().GetValue(), true
			case m.GetHistogram() != nil:
				return float64(m.GetHistogram().GetSampleCount()), true
			}
		}
	}
	return 0, false
}

func TestSink_Count(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink := NewSink(Options{Registerer: reg, Namespace: "uploader"})

	sink.Count("auth.sign_in", 1, map[string]string{"result": "success"})
	sink.Count("auth.sign_in", 2, map[string]string{"result": "success"})
	sink.Count("auth.sign_in", 1, map[string]string{"result": "error"})

	v, ok := gatherValue(t, reg, "uploader_auth_sign_in_total", map[string]string{"result": "success"})
	require.True(t, ok)
	assert.InDelta(t, 3, v, 0.0001)

	v, ok = gatherValue(t, reg, "uploader_auth_sign_in_total", map[string]string{"result": "error"})
	require.True(t, ok)
	assert.InDelta(t, 1, v, 0.0001)
}

func TestSink_DropsMismatchedLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink := NewSink(Options{Registerer: reg})

	sink.Count("auth.guard", 1, map[string]string{"decision": "allow"})
	sink.Count("auth.guard", 1, map[string]string{"decision": "allow", "extra": "x"})

	v, ok := gatherValue(t, reg, "auth_guard_total", map[string]string{"decision": "allow"})
	require.True(t, ok)
	assert.InDelta(t, 1, v, 0.0001)
}

func TestSink_TimingAndGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink := NewSink(Options{Registerer: reg, Namespace: "uploader"})

	sink.Timing("auth.validation", 20*time.Millisecond, map[string]string{"result": "success"})
	sink.Timing("auth.validation", 40*time.Millisecond, map[string]string{"result": "success"})
	sink.Gauge("mock.sessions", 3, nil)

	count, ok := gatherValue(t, reg, "uploader_auth_validation_seconds", map[string]string{"result": "success"})
	require.True(t, ok)
	assert.InDelta(t, 2, count, 0.0001)

	g, ok := gatherValue(t, reg, "uploader_mock_sessions", nil)
	require.True(t, ok)
	assert.InDelta(t, 3, g, 0.0001)
}

func TestSink_NilAndEmptyNames(t *testing.T) {
	var nilSink *Sink
	nilSink.Count("x", 1, nil)
	nilSink.Timing("x", time.Second, nil)

	reg := prometheus.NewRegistry()
	sink := NewSink(Options{Registerer: reg})
	sink.Count("  ", 1, nil)
	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Empty(t, families)
}

package results

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tphakala/go-cma-bench/internal/bench"
)

const metricsNamespace = "cma_bench"

// TimingMetrics holds the gauges describing one run's timing.
type TimingMetrics struct {
	registry   *prometheus.Registry
	batch      *prometheus.GaugeVec
	perUpdate  *prometheus.GaugeVec
	speedup    *prometheus.GaugeVec
	iterations prometheus.Gauge
}

// NewTimingMetrics registers the timing gauges on a private registry.
func NewTimingMetrics() *TimingMetrics {
	m := &TimingMetrics{
		registry: prometheus.NewRegistry(),
		batch: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "batch_seconds",
			Help:      "Elapsed wall-clock time of one timed batch of updates.",
		}, []string{"mode", "strategy"}),
		perUpdate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "update_seconds",
			Help:      "Mean time of a single update call.",
		}, []string{"mode", "strategy"}),
		speedup: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "speedup_ratio",
			Help:      "Sequential batch time divided by broadcast batch time.",
		}, []string{"mode"}),
		iterations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "iterations",
			Help:      "Updates per timed batch.",
		}),
	}
	m.registry.MustRegister(m.batch, m.perUpdate, m.speedup, m.iterations)
	return m
}

// Observe sets every gauge from t.
func (m *TimingMetrics) Observe(t bench.TimingSample) {
	for _, v := range bench.Variants {
		m.batch.WithLabelValues(v.Mode(), v.Strategy()).Set(t.Get(v).Seconds())
		m.perUpdate.WithLabelValues(v.Mode(), v.Strategy()).Set(t.PerUpdate(v).Seconds())
	}
	m.speedup.WithLabelValues(bench.ModeSingle).Set(t.Speedup(bench.ModeSingle))
	m.speedup.WithLabelValues(bench.ModeMulti).Set(t.Speedup(bench.ModeMulti))
	m.iterations.Set(float64(t.Iterations))
}

// Gatherer exposes the registry.
func (m *TimingMetrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes the gauges in the Prometheus text format, suitable for
// the node_exporter textfile collector.
func (m *TimingMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics %s: %w", path, err)
	}
	return nil
}

// WriteMetrics observes t and writes it to name inside the writer directory.
func (w *Writer) WriteMetrics(name string, t bench.TimingSample) error {
	m := NewTimingMetrics()
	m.Observe(t)
	err := m.WriteTextfile(w.Path(name))
	w.logResult(name, err)
	return err
}

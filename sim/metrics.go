package sim

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics aggregates run-level counters for one World on a private registry,
// so concurrent test worlds never share collectors.
type Metrics struct {
	registry *prometheus.Registry

	ticks         prometheus.Counter
	broadcasts    *prometheus.CounterVec
	acquisitions  *prometheus.CounterVec
	acquiredUnits *prometheus.CounterVec
	rejections    *prometheus.CounterVec
	enterprises   prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mfsim_ticks_total",
			Help: "Simulated days elapsed.",
		}),
		broadcasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mfsim_broadcasts_total",
			Help: "Broadcasts delivered to enterprises, by event kind.",
		}, []string{"kind"}),
		acquisitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mfsim_acquisitions_total",
			Help: "Accepted acquisitions, by family.",
		}, []string{"family"}),
		acquiredUnits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mfsim_acquired_units_total",
			Help: "Units acquired, by family.",
		}, []string{"family"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mfsim_rejected_acquisitions_total",
			Help: "Rejected acquisition attempts, by reason.",
		}, []string{"reason"}),
		enterprises: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mfsim_enterprises",
			Help: "Enterprises bound to the world.",
		}),
	}
	m.registry.MustRegister(m.ticks, m.broadcasts, m.acquisitions, m.acquiredUnits, m.rejections, m.enterprises)
	return m
}

// Registry returns the registry holding this world's collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// WriteTextfile writes the current values in the Prometheus text format,
// suitable for the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) observeTick() {
	m.ticks.Inc()
}

func (m *Metrics) observeBroadcast(kind EventKind) {
	m.broadcasts.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) observeAcquisition(family string, volume int, err error) {
	if err != nil {
		m.rejections.WithLabelValues(RejectionReason(err)).Inc()
		return
	}
	m.acquisitions.WithLabelValues(family).Inc()
	m.acquiredUnits.WithLabelValues(family).Add(float64(volume))
}

func (m *Metrics) setEnterprises(n int) {
	m.enterprises.Set(float64(n))
}

package tpool

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	workers   prometheus.Gauge
	pending   prometheus.GaugeFunc
	submitted prometheus.Counter
	completed prometheus.Counter
	failed    prometheus.Counter
	rejected  prometheus.Counter
	retired   prometheus.Counter
	duration  *prometheus.HistogramVec
}

// pending is read on every collect.
func newMetrics(registerer prometheus.Registerer, prefix string, pending func() int) (*metrics, error) {
	m := &metrics{
		workers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "_workers",
			Help: "Live workers in the pool",
		}),
		pending: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: prefix + "_pending",
			Help: "Work items queued and not yet dispatched",
		}, func() float64 {
			return float64(pending())
		}),
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_submitted_total",
			Help: "Total work items accepted",
		}),
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_completed_total",
			Help: "Total work items executed",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_failed_total",
			Help: "Total work items that returned an error or panicked",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_rejected_total",
			Help: "Total submissions refused because the pool was shutting down",
		}),
		retired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_retired_total",
			Help: "Total workers retired after the idle timeout",
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    prefix + "_work_duration_seconds",
			Help:    "Time spent executing work items",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 5.0},
		}, []string{"status"}),
	}

	collectors := []prometheus.Collector{
		m.workers, m.pending, m.submitted, m.completed,
		m.failed, m.rejected, m.retired, m.duration,
	}
	for i, c := range collectors {
		if err := registerer.Register(c); err != nil {
			for _, done := range collectors[:i] {
				registerer.Unregister(done)
			}
			return nil, err
		}
	}
	return m, nil
}

// All methods accept a nil receiver so the pool can call them unconditionally.

func (m *metrics) setWorkers(n int) {
	if m == nil {
		return
	}
	m.workers.Set(float64(n))
}

func (m *metrics) submit() {
	if m == nil {
		return
	}
	m.submitted.Inc()
}

func (m *metrics) reject() {
	if m == nil {
		return
	}
	m.rejected.Inc()
}

func (m *metrics) retire() {
	if m == nil {
		return
	}
	m.retired.Inc()
}

func (m *metrics) observe(err error, d time.Duration) {
	if m == nil {
		return
	}
	m.completed.Inc()
	status := "success"
	if err != nil {
		m.failed.Inc()
		status = "error"
	}
	m.duration.WithLabelValues(status).Observe(d.Seconds())
}

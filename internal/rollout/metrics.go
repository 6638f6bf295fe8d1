package rollout

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects rollout metrics in a dedicated registry so they can be
// written to a node-exporter textfile at the end of a run.
type Metrics struct {
	registry *prometheus.Registry

	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	unitsTotal        *prometheus.CounterVec
	governedRegions   prometheus.Gauge
	lastRunTimestamp  prometheus.Gauge
	lastRunSuccess    prometheus.Gauge
}

// NewMetrics creates and registers all rollout metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lzctl",
				Subsystem: "operation",
				Name:      "total",
				Help:      "Control Tower operations by kind and terminal status",
			},
			[]string{"kind", "status"},
		),
		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "lzctl",
				Subsystem: "operation",
				Name:      "duration_seconds",
				Help:      "Time from submitting an operation to observing its terminal status",
				Buckets:   prometheus.ExponentialBuckets(60, 2, 8), // 1min to ~2h
			},
			[]string{"kind"},
		),
		unitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lzctl",
				Subsystem: "rollout",
				Name:      "units_total",
				Help:      "OUs processed during rollout by outcome",
			},
			[]string{"outcome"},
		),
		governedRegions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lzctl",
			Subsystem: "landing_zone",
			Name:      "governed_regions",
			Help:      "Number of regions governed by the landing zone after the run",
		}),
		lastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lzctl",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
		lastRunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lzctl",
			Name:      "last_run_success",
			Help:      "1 if the last run completed without a fatal error",
		}),
	}

	m.registry.MustRegister(
		m.operationsTotal,
		m.operationDuration,
		m.unitsTotal,
		m.governedRegions,
		m.lastRunTimestamp,
		m.lastRunSuccess,
	)
	return m
}

// WriteTextfile writes all metrics to path in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

func (m *Metrics) recordOperation(kind, status string, seconds float64) {
	m.operationsTotal.WithLabelValues(kind, status).Inc()
	m.operationDuration.WithLabelValues(kind).Observe(seconds)
}

func (m *Metrics) recordUnit(outcome Outcome) {
	m.unitsTotal.WithLabelValues(string(outcome)).Inc()
}

func (m *Metrics) recordRun(s *Summary, err error) {
	if s.Regions != nil {
		m.governedRegions.Set(float64(len(s.Regions.Governed())))
	}
	m.lastRunTimestamp.Set(float64(s.FinishedAt.Unix()))
	if err == nil {
		m.lastRunSuccess.Set(1)
	} else {
		m.lastRunSuccess.Set(0)
	}
}

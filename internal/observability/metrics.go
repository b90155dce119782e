package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// scrape-and-poll service.
type Metrics struct {
	TicksTotal           *prometheus.CounterVec   // labels: location, status={updated,unchanged,no_data,error}
	ScrapeFailures       *prometheus.CounterVec   // labels: location, kind={connection,no_data,parsing}
	ScrapeDuration       *prometheus.HistogramVec // labels: location
	ConsecutiveErrors    *prometheus.GaugeVec     // labels: location
	LastSuccessTimestamp *prometheus.GaugeVec     // labels: location
	PollersRunning       prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		TicksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weerplaza",
			Name:      "ticks_total",
			Help:      "Completed poll ticks by location and outcome.",
		}, []string{"location", "status"}),
		ScrapeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weerplaza",
			Name:      "scrape_failures_total",
			Help:      "Scrape failures by location and failure kind.",
		}, []string{"location", "kind"}),
		ScrapeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weerplaza",
			Name:      "scrape_duration_seconds",
			Help:      "Duration of one fetch-and-parse cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}, []string{"location"}),
		ConsecutiveErrors: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "weerplaza",
			Name:      "consecutive_errors",
			Help:      "Current run of consecutive failed ticks per location.",
		}, []string{"location"}),
		LastSuccessTimestamp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "weerplaza",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last non-error tick per location.",
		}, []string{"location"}),
		PollersRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weerplaza",
			Name:      "pollers_running",
			Help:      "Number of active location pollers.",
		}),
	}

	prometheus.MustRegister(
		m.TicksTotal,
		m.ScrapeFailures,
		m.ScrapeDuration,
		m.ConsecutiveErrors,
		m.LastSuccessTimestamp,
		m.PollersRunning,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		TicksTotal:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weerplaza", Name: "ticks_total"}, []string{"location", "status"}),
		ScrapeFailures:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weerplaza", Name: "scrape_failures_total"}, []string{"location", "kind"}),
		ScrapeDuration:       prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "weerplaza", Name: "scrape_duration_seconds"}, []string{"location"}),
		ConsecutiveErrors:    prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: "weerplaza", Name: "consecutive_errors"}, []string{"location"}),
		LastSuccessTimestamp: prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: "weerplaza", Name: "last_success_timestamp_seconds"}, []string{"location"}),
		PollersRunning:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "weerplaza", Name: "pollers_running"}),
	}
}

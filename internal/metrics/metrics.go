package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus metrics for the warm-up engine
type Metrics struct {
	SendsTotal        prometheus.Counter
	SendFailuresTotal prometheus.Counter
	AutoPausesTotal   prometheus.Counter
	DaysAdvancedTotal prometheus.Counter
	BatchDuration     prometheus.Histogram
	ActiveWarmups     prometheus.Gauge

	registry *prometheus.Registry
}

// New creates a Metrics instance with all metrics registered
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		SendsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fangate_warmup_sends_total",
			Help: "Total number of warm-up emails handed to the provider",
		}),
		SendFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fangate_warmup_send_failures_total",
			Help: "Total number of per-recipient send failures",
		}),
		AutoPausesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fangate_warmup_auto_pauses_total",
			Help: "Total number of health-triggered warm-up pauses",
		}),
		DaysAdvancedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fangate_warmup_days_advanced_total",
			Help: "Total number of warm-up day advances",
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fangate_warmup_batch_duration_seconds",
			Help:    "Duration of one warm-up batch tick",
			Buckets: prometheus.DefBuckets,
		}),
		ActiveWarmups: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fangate_warmup_active_campaigns",
			Help: "Number of campaigns currently in active warm-up",
		}),
		registry: reg,
	}

	reg.MustRegister(
		m.SendsTotal,
		m.SendFailuresTotal,
		m.AutoPausesTotal,
		m.DaysAdvancedTotal,
		m.BatchDuration,
		m.ActiveWarmups,
	)

	return m
}

// Handler returns an HTTP handler exposing the registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

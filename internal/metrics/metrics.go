// Package metrics exposes the Prometheus instruments of the streamer.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prediction outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics groups the counters and histograms recorded by the pipeline and
// the backtest service. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	TicksTotal        *prometheus.CounterVec
	AlertsTriggered   *prometheus.CounterVec
	Predictions       *prometheus.CounterVec
	DispatchDropped   *prometheus.CounterVec
	BacktestRuns      prometheus.Counter
	BacktestDuration  prometheus.Histogram
	PredictionLatency prometheus.Histogram
}

// New creates the instruments and registers them on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		TicksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "streamer_ticks_total", Help: "Count of ticks processed"},
			[]string{"symbol"},
		),
		AlertsTriggered: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "streamer_alerts_triggered_total", Help: "Alerts moved to TRIGGERED"},
			[]string{"symbol"},
		),
		Predictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "streamer_predictions_total", Help: "Prediction calls by outcome"},
			[]string{"outcome"},
		),
		DispatchDropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "streamer_dispatch_dropped_total", Help: "Async jobs dropped on a full queue"},
			[]string{"kind"},
		),
		BacktestRuns: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "streamer_backtest_runs_total", Help: "Backtest simulations executed"},
		),
		BacktestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "streamer_backtest_duration_seconds",
			Help:    "Wall time of backtest simulations",
			Buckets: prometheus.DefBuckets,
		}),
		PredictionLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "streamer_prediction_latency_seconds",
			Help:    "Latency of prediction service calls",
			Buckets: prometheus.DefBuckets,
		}),
	}

	m.registry.MustRegister(
		m.TicksTotal,
		m.AlertsTriggered,
		m.Predictions,
		m.DispatchDropped,
		m.BacktestRuns,
		m.BacktestDuration,
		m.PredictionLatency,
	)

	return m
}

// Registry returns the registry the instruments are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) TickProcessed(symbol string) {
	if m == nil {
		return
	}

	m.TicksTotal.WithLabelValues(symbol).Inc()
}

func (m *Metrics) AlertTriggered(symbol string) {
	if m == nil {
		return
	}

	m.AlertsTriggered.WithLabelValues(symbol).Inc()
}

func (m *Metrics) PredictionObserved(ok bool, seconds float64) {
	if m == nil {
		return
	}

	outcome := OutcomeOK
	if !ok {
		outcome = OutcomeError
	}

	m.Predictions.WithLabelValues(outcome).Inc()
	m.PredictionLatency.Observe(seconds)
}

func (m *Metrics) Dropped(kind string) {
	if m == nil {
		return
	}

	m.DispatchDropped.WithLabelValues(kind).Inc()
}

func (m *Metrics) BacktestObserved(seconds float64) {
	if m == nil {
		return
	}

	m.BacktestRuns.Inc()
	m.BacktestDuration.Observe(seconds)
}

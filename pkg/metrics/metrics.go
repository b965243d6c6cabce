// Package metrics exposes Prometheus metrics for the backtest pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// PipelineMetrics collects counters and gauges for one pipeline run.
type PipelineMetrics struct {
	registry *prometheus.Registry

	// Feed metrics
	DatesDropped prometheus.Counter

	// Join metrics
	QuotePairs       prometheus.Counter
	QuotesMatched    prometheus.Counter
	QuotesUnmatched  prometheus.Counter
	QuotesUnresolved prometheus.Counter

	// Wagering metrics
	BetsTotal *prometheus.CounterVec
	Bankroll  *prometheus.GaugeVec
	AvgROI    *prometheus.GaugeVec
}

// NewPipelineMetrics creates a collector with its own registry.
func NewPipelineMetrics() *PipelineMetrics {
	registry := prometheus.NewRegistry()

	m := &PipelineMetrics{
		registry: registry,

		DatesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pennant_dates_dropped_total",
			Help: "Results feed rows discarded for unresolvable date strings",
		}),

		QuotePairs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pennant_quote_pairs_total",
			Help: "Quote pairs seen by the joiner",
		}),
		QuotesMatched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pennant_quote_pairs_matched_total",
			Help: "Quote pairs attached to a game",
		}),
		QuotesUnmatched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pennant_quote_pairs_unmatched_total",
			Help: "Quote pairs that matched no game and were dropped",
		}),
		QuotesUnresolved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pennant_quote_pairs_unresolved_total",
			Help: "Quote pairs with an unknown team abbreviation",
		}),

		BetsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pennant_bets_total",
				Help: "Bets settled during simulation",
			},
			[]string{"price", "outcome"},
		),
		Bankroll: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pennant_bankroll",
				Help: "Final bankroll of a simulation run",
			},
			[]string{"price", "predictor"},
		),
		AvgROI: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pennant_avg_roi",
				Help: "Mean per-bet return of a simulation run",
			},
			[]string{"price", "predictor"},
		),
	}

	registry.MustRegister(
		m.DatesDropped,
		m.QuotePairs,
		m.QuotesMatched,
		m.QuotesUnmatched,
		m.QuotesUnresolved,
		m.BetsTotal,
		m.Bankroll,
		m.AvgROI,
	)
	return m
}

// RecordJoin feeds a join pass into the quote counters.
func (m *PipelineMetrics) RecordJoin(pairs, matched, unmatched, unresolved int) {
	m.QuotePairs.Add(float64(pairs))
	m.QuotesMatched.Add(float64(matched))
	m.QuotesUnmatched.Add(float64(unmatched))
	m.QuotesUnresolved.Add(float64(unresolved))
}

// RecordRun feeds a simulation result into the wagering metrics.
func (m *PipelineMetrics) RecordRun(price, predictor string, wins, losses, pushes int, bankroll decimal.Decimal, avgROI float64) {
	m.BetsTotal.WithLabelValues(price, "win").Add(float64(wins))
	m.BetsTotal.WithLabelValues(price, "loss").Add(float64(losses))
	m.BetsTotal.WithLabelValues(price, "push").Add(float64(pushes))
	f, _ := bankroll.Float64()
	m.Bankroll.WithLabelValues(price, predictor).Set(f)
	m.AvgROI.WithLabelValues(price, predictor).Set(avgROI)
}

// Handler serves the registry over HTTP.
func (m *PipelineMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry for tests.
func (m *PipelineMetrics) Registry() *prometheus.Registry {
	return m.registry
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the pipeline's Prometheus instruments. A nil *Metrics
// is valid and records nothing, keeping instrumentation optional in
// tests and tooling.
type Metrics struct {
	syncRuns      *prometheus.CounterVec
	syncDuration  prometheus.Histogram
	syncSymbols   *prometheus.CounterVec
	insights      *prometheus.CounterVec
	batchDuration *prometheus.HistogramVec
}

// New creates and registers the pipeline metrics on reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		syncRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aurum_sync_runs_total",
			Help: "Sync runs by outcome",
		}, []string{"outcome"}),
		syncDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "aurum_sync_run_duration_seconds",
			Help:    "Wall time of one sync run",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		syncSymbols: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aurum_sync_symbols_total",
			Help: "Symbols processed during sync runs by result",
		}, []string{"result"}),
		insights: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aurum_insights_total",
			Help: "Insights generated by recommendation",
		}, []string{"recommendation"}),
		batchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aurum_analysis_batch_duration_seconds",
			Help:    "Wall time of one scheduled analysis batch",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}, []string{"periodicity"}),
	}

	reg.MustRegister(m.syncRuns, m.syncDuration, m.syncSymbols, m.insights, m.batchDuration)
	return m
}

// ObserveSyncRun records one finished sync run
func (m *Metrics) ObserveSyncRun(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.syncRuns.WithLabelValues(outcome).Inc()
	m.syncDuration.Observe(d.Seconds())
}

// IncSymbol counts one processed symbol
func (m *Metrics) IncSymbol(result string) {
	if m == nil {
		return
	}
	m.syncSymbols.WithLabelValues(result).Inc()
}

// IncInsight counts one generated insight
func (m *Metrics) IncInsight(recommendation string) {
	if m == nil {
		return
	}
	m.insights.WithLabelValues(recommendation).Inc()
}

// ObserveBatch records one scheduled analysis batch
func (m *Metrics) ObserveBatch(periodicity string, d time.Duration) {
	if m == nil {
		return
	}
	m.batchDuration.WithLabelValues(periodicity).Observe(d.Seconds())
}

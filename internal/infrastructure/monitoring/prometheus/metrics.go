// Package prometheus exposes the engine's operational metrics.  The registry
// is self-contained: the embedding application mounts Handler() wherever its
// HTTP surface lives, so the engine itself stays free of transport concerns.
package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// scoreBuckets covers the [0,1] clamped score range of dimension results.
var scoreBuckets = []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0}

// durationBuckets covers assessment and analysis wall-clock time in seconds.
var durationBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}

// Metrics holds every metric emitted by the risk engine and its adapters.
type Metrics struct {
	registry *prometheus.Registry

	// Assessment pipeline.
	AssessmentsTotal        *prometheus.CounterVec
	AssessmentDuration      prometheus.Histogram
	DimensionScore          *prometheus.HistogramVec
	ValidationFailuresTotal *prometheus.CounterVec

	// Trend analysis pipeline.
	TrendAnalysesTotal    prometheus.Counter
	TrendAnalysisDuration prometheus.Histogram
	TrendSkipsTotal       *prometheus.CounterVec

	// Collaborator adapters.
	EventPublishTotal    *prometheus.CounterVec
	CacheAccessTotal     *prometheus.CounterVec
	HistoryFetchDuration *prometheus.HistogramVec
}

// NewMetrics registers all engine metrics on a fresh registry.
func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		AssessmentsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_total",
			Help:      "Composite assessments generated, by overall risk level.",
		}, []string{"overall_level"}),
		AssessmentDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "assessment_duration_seconds",
			Help:      "Wall-clock duration of one composite assessment.",
			Buckets:   durationBuckets,
		}),
		DimensionScore: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dimension_score",
			Help:      "Distribution of numeric dimension scores.",
			Buckets:   scoreBuckets,
		}, []string{"dimension"}),
		ValidationFailuresTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Rejected assessment requests, by error code.",
		}, []string{"code"}),

		TrendAnalysesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trend_analyses_total",
			Help:      "Trend analysis calls completed.",
		}),
		TrendAnalysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "trend_analysis_duration_seconds",
			Help:      "Wall-clock duration of one trend analysis call.",
			Buckets:   durationBuckets,
		}),
		TrendSkipsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trend_subanalysis_skips_total",
			Help:      "Trend sub-analyses omitted for unmet preconditions or computation failure.",
		}, []string{"analysis", "reason"}),

		EventPublishTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_total",
			Help:      "Assessment events handed to the message broker, by outcome.",
		}, []string{"status"}),
		CacheAccessTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_access_total",
			Help:      "Trend cache lookups, by outcome.",
		}, []string{"outcome"}),
		HistoryFetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "history_fetch_duration_seconds",
			Help:      "Incident history query duration, by query kind.",
			Buckets:   durationBuckets,
		}, []string{"query"}),
	}
}

// Handler returns an http.Handler serving the engine registry in the
// Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry so the embedding application can
// add its own collectors next to the engine's.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveAssessment records one completed composite assessment.
func (m *Metrics) ObserveAssessment(level string, duration time.Duration) {
	m.AssessmentsTotal.WithLabelValues(level).Inc()
	m.AssessmentDuration.Observe(duration.Seconds())
}

// ObserveDimension records one dimension score.
func (m *Metrics) ObserveDimension(dimension string, score float64) {
	m.DimensionScore.WithLabelValues(dimension).Observe(score)
}

// ObserveTrendAnalysis records one completed trend analysis call.
func (m *Metrics) ObserveTrendAnalysis(duration time.Duration) {
	m.TrendAnalysesTotal.Inc()
	m.TrendAnalysisDuration.Observe(duration.Seconds())
}

// RecordTrendSkip records one omitted sub-analysis.
func (m *Metrics) RecordTrendSkip(analysis, reason string) {
	m.TrendSkipsTotal.WithLabelValues(analysis, reason).Inc()
}

// RecordPublish records one event publish outcome.
func (m *Metrics) RecordPublish(err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.EventPublishTotal.WithLabelValues(status).Inc()
}

// RecordCacheAccess records one trend cache lookup outcome.
func (m *Metrics) RecordCacheAccess(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.CacheAccessTotal.WithLabelValues(outcome).Inc()
}

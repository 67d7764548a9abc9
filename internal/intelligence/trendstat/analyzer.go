package trendstat

import (
	"time"

	"github.com/activsafe/ActivSafe-Platform/internal/infrastructure/monitoring/logging"
	"github.com/activsafe/ActivSafe-Platform/internal/infrastructure/monitoring/prometheus"
	"github.com/activsafe/ActivSafe-Platform/pkg/types/risk"
)

// maxClusters caps k for incident clustering.
const maxClusters = 3

// Analyzer computes the bundle of longitudinal analyses over historical
// incident data.  It holds no per-call state; one Analyzer serves concurrent
// callers.
type Analyzer struct {
	log     logging.Logger
	metrics *prometheus.Metrics
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithMetrics attaches sub-analysis skip counters.
func WithMetrics(m *prometheus.Metrics) Option {
	return func(a *Analyzer) { a.metrics = m }
}

// NewAnalyzer constructs an Analyzer.  A nil logger falls back to a no-op.
func NewAnalyzer(log logging.Logger, opts ...Option) *Analyzer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	a := &Analyzer{log: log.Named("trendstat")}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs every sub-analysis whose preconditions hold over the incident
// series, the optional risk-level series, and the optional contingency table.
//
// Sub-analyses fail independently: statistical insufficiency or a numerical
// failure in one is logged and its field omitted, never propagated to the
// siblings.  The returned result is always non-nil.
func (a *Analyzer) Analyze(
	series risk.HistoricalSeries,
	riskSeries risk.HistoricalSeries,
	contingency risk.ContingencyTable,
) *risk.TrendAnalysisResult {
	result := &risk.TrendAnalysisResult{AnalyzedAt: time.Now().UTC()}
	values := series.Sorted().Values()

	result.Trend = a.analyzeTrend(values)
	result.Correlation = a.analyzeCorrelation(values, riskSeries)
	result.Stationarity = a.analyzeStationarity(values)
	result.Seasonal = a.analyzeSeasonal(values)
	result.Clusters = a.analyzeClusters(contingency)

	return result
}

func (a *Analyzer) skip(analysis, reason string, fields ...logging.Field) {
	fields = append(fields, logging.String("reason", reason))
	a.log.Warn("sub-analysis skipped: "+analysis, fields...)
	if a.metrics != nil {
		a.metrics.RecordTrendSkip(analysis, reason)
	}
}

func (a *Analyzer) analyzeTrend(values []float64) *risk.TrendLine {
	if len(values) < 2 {
		a.skip("trend", "insufficient_data", logging.Int("observations", len(values)))
		return nil
	}
	if allEqual(values) {
		a.skip("trend", "zero_variance")
		return nil
	}
	slope, intercept, rsquared := olsFit(values)
	return &risk.TrendLine{Slope: slope, Intercept: intercept, RSquared: rsquared}
}

func (a *Analyzer) analyzeCorrelation(values []float64, riskSeries risk.HistoricalSeries) *risk.Correlation {
	riskValues := riskSeries.Sorted().Values()
	if len(values) == 0 || len(values) != len(riskValues) {
		a.skip("correlation", "insufficient_data",
			logging.Int("incident_observations", len(values)),
			logging.Int("risk_observations", len(riskValues)))
		return nil
	}
	coefficient, err := pearson(values, riskValues)
	if err != nil {
		a.skip("correlation", "computation_failed", logging.Err(err))
		return nil
	}
	return &risk.Correlation{
		Coefficient: coefficient,
		PValue:      pearsonPValue(coefficient, len(values)),
	}
}

func (a *Analyzer) analyzeStationarity(values []float64) *risk.Stationarity {
	if len(values) < adfMinObservations {
		a.skip("stationarity", "insufficient_data", logging.Int("observations", len(values)))
		return nil
	}
	res, err := augmentedDickeyFuller(values)
	if err != nil {
		a.skip("stationarity", "computation_failed", logging.Err(err))
		return nil
	}
	return &risk.Stationarity{
		Statistic:      res.statistic,
		PValue:         res.pValue,
		CriticalValues: res.criticalValues,
	}
}

func (a *Analyzer) analyzeSeasonal(values []float64) *risk.SeasonalDecomposition {
	if len(values) <= seasonalPeriod {
		a.skip("seasonal", "insufficient_data", logging.Int("observations", len(values)))
		return nil
	}
	trend, seasonal, residual, err := decomposeAdditive(values, seasonalPeriod)
	if err != nil {
		a.skip("seasonal", "computation_failed", logging.Err(err))
		return nil
	}
	return &risk.SeasonalDecomposition{
		Period:   seasonalPeriod,
		Trend:    trend,
		Seasonal: seasonal,
		Residual: residual,
	}
}

func (a *Analyzer) analyzeClusters(contingency risk.ContingencyTable) *risk.ClusterAnalysis {
	if contingency == nil {
		a.skip("clusters", "insufficient_data", logging.Int("incident_types", 0))
		return nil
	}
	types, matrix := contingency.Matrix()
	if len(types) < 2 {
		a.skip("clusters", "insufficient_data", logging.Int("incident_types", len(types)))
		return nil
	}
	if contingency.Total() == 0 {
		a.skip("clusters", "insufficient_data", logging.Int("total_count", 0))
		return nil
	}

	k := maxClusters
	if len(types) < k {
		k = len(types)
	}
	res, err := kmeans(standardizeColumns(matrix), k)
	if err != nil {
		a.skip("clusters", "computation_failed", logging.Err(err))
		return nil
	}
	return &risk.ClusterAnalysis{
		Centers: res.centers,
		Labels:  res.labels,
		Inertia: res.inertia,
	}
}

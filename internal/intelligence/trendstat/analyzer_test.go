package trendstat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/activsafe/ActivSafe-Platform/internal/infrastructure/monitoring/logging"
	"github.com/activsafe/ActivSafe-Platform/pkg/types/risk"
)

func seriesOf(counts ...float64) risk.HistoricalSeries {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make(risk.HistoricalSeries, len(counts))
	for i, c := range counts {
		out[i] = risk.SeriesPoint{Date: start.AddDate(0, 0, i), Count: c}
	}
	return out
}

func TestAnalyze_SinglePointYieldsEmptyResult(t *testing.T) {
	a := NewAnalyzer(logging.NewNopLogger())
	res := a.Analyze(seriesOf(4), nil, nil)

	require.NotNil(t, res)
	assert.Nil(t, res.Trend)
	assert.Nil(t, res.Correlation)
	assert.Nil(t, res.Stationarity)
	assert.Nil(t, res.Seasonal)
	assert.Nil(t, res.Clusters)
	assert.False(t, res.AnalyzedAt.IsZero())
}

func TestAnalyze_ZeroVarianceSeriesHasNoTrend(t *testing.T) {
	a := NewAnalyzer(logging.NewNopLogger())
	res := a.Analyze(seriesOf(3, 3, 3, 3, 3), nil, nil)
	assert.Nil(t, res.Trend)
}

func TestAnalyze_IncreasingSeriesHasPositiveSlope(t *testing.T) {
	a := NewAnalyzer(logging.NewNopLogger())
	res := a.Analyze(seriesOf(1, 2, 3, 4, 5, 6, 7, 8, 9, 10), nil, nil)

	require.NotNil(t, res.Trend)
	assert.Greater(t, res.Trend.Slope, 0.0)
	assert.InDelta(t, 1.0, res.Trend.RSquared, 1e-9)
}

func TestAnalyze_SortsSeriesBeforeRegression(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	scrambled := risk.HistoricalSeries{
		{Date: start.AddDate(0, 0, 2), Count: 3},
		{Date: start, Count: 1},
		{Date: start.AddDate(0, 0, 1), Count: 2},
	}
	a := NewAnalyzer(logging.NewNopLogger())
	res := a.Analyze(scrambled, nil, nil)

	require.NotNil(t, res.Trend)
	assert.InDelta(t, 1.0, res.Trend.Slope, 1e-9)
}

func TestAnalyze_CorrelationRequiresEqualLengths(t *testing.T) {
	a := NewAnalyzer(logging.NewNopLogger())

	res := a.Analyze(seriesOf(1, 2, 3), seriesOf(1, 2), nil)
	assert.Nil(t, res.Correlation)

	res = a.Analyze(seriesOf(1, 2, 3, 4), seriesOf(2, 4, 6, 8), nil)
	require.NotNil(t, res.Correlation)
	assert.InDelta(t, 1.0, res.Correlation.Coefficient, 1e-9)
}

func TestAnalyze_SeasonalNeedsMoreThanOnePeriod(t *testing.T) {
	a := NewAnalyzer(logging.NewNopLogger())

	res := a.Analyze(seriesOf(1, 2, 3, 4, 5, 6, 7), nil, nil)
	assert.Nil(t, res.Seasonal)

	res = a.Analyze(seriesOf(weeklyPattern(28, 10)...), nil, nil)
	require.NotNil(t, res.Seasonal)
	assert.Equal(t, seasonalPeriod, res.Seasonal.Period)
	assert.Len(t, res.Seasonal.Trend, 28)
}

func TestAnalyze_StationarityOnLongSeries(t *testing.T) {
	a := NewAnalyzer(logging.NewNopLogger())
	res := a.Analyze(seriesOf(oscillating(30)...), nil, nil)

	require.NotNil(t, res.Stationarity)
	assert.NotEmpty(t, res.Stationarity.CriticalValues)
	assert.Less(t, res.Stationarity.PValue, 0.05)
}

func TestAnalyze_ClusteringPreconditions(t *testing.T) {
	a := NewAnalyzer(logging.NewNopLogger())

	oneType := risk.ContingencyTable{
		{IncidentType: "fall", Severity: risk.SeverityMinor}: 5,
	}
	res := a.Analyze(seriesOf(1, 2), nil, oneType)
	assert.Nil(t, res.Clusters)

	empty := risk.ContingencyTable{
		{IncidentType: "fall", Severity: risk.SeverityMinor}:      0,
		{IncidentType: "collision", Severity: risk.SeveritySevere}: 0,
	}
	res = a.Analyze(seriesOf(1, 2), nil, empty)
	assert.Nil(t, res.Clusters)
}

func TestAnalyze_ClustersIncidentTypes(t *testing.T) {
	table := risk.ContingencyTable{
		{IncidentType: "bruise", Severity: risk.SeverityMinor}:      12,
		{IncidentType: "scrape", Severity: risk.SeverityMinor}:      11,
		{IncidentType: "fracture", Severity: risk.SeveritySevere}:   6,
		{IncidentType: "concussion", Severity: risk.SeveritySevere}: 5,
	}
	a := NewAnalyzer(logging.NewNopLogger())
	res := a.Analyze(seriesOf(1, 2), nil, table)

	require.NotNil(t, res.Clusters)
	assert.Len(t, res.Clusters.Labels, 4)
	assert.Len(t, res.Clusters.Centers, 3) // k = min(3, 4 types)
	assert.GreaterOrEqual(t, res.Clusters.Inertia, 0.0)
}

func TestAnalyze_SkipsAreLoggedAsWarnings(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	a := NewAnalyzer(logging.NewLoggerFromCore(core))

	a.Analyze(seriesOf(4), nil, nil)

	entries := logs.All()
	require.NotEmpty(t, entries)
	reasons := make(map[string]bool)
	for _, e := range entries {
		assert.Equal(t, zapcore.WarnLevel, e.Level)
		for _, f := range e.Context {
			if f.Key == "reason" {
				reasons[f.String] = true
			}
		}
	}
	assert.True(t, reasons["insufficient_data"])
}

func TestAnalyze_SubAnalysesFailIndependently(t *testing.T) {
	// Short zero-variance incident series kills trend and stationarity, but
	// a valid contingency table still clusters.
	table := risk.ContingencyTable{
		{IncidentType: "fall", Severity: risk.SeverityMinor}:      4,
		{IncidentType: "collision", Severity: risk.SeverityMinor}: 7,
	}
	a := NewAnalyzer(logging.NewNopLogger())
	res := a.Analyze(seriesOf(2, 2, 2), nil, table)

	assert.Nil(t, res.Trend)
	assert.Nil(t, res.Stationarity)
	require.NotNil(t, res.Clusters)
	assert.Len(t, res.Clusters.Centers, 2)
}

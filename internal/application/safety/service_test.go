package safety

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/activsafe/ActivSafe-Platform/internal/intelligence/trendstat"
	"github.com/activsafe/ActivSafe-Platform/internal/infrastructure/monitoring/logging"
	"github.com/activsafe/ActivSafe-Platform/pkg/errors"
	"github.com/activsafe/ActivSafe-Platform/pkg/types/risk"
)

type fakeHistory struct {
	incidents   risk.HistoricalSeries
	riskCounts  risk.HistoricalSeries
	contingency risk.ContingencyTable
	err         error

	lastLevel risk.RiskLevel
	lastFrom  time.Time
	lastTo    time.Time
}

func (f *fakeHistory) DailyIncidentCounts(_ context.Context, from, to time.Time) (risk.HistoricalSeries, error) {
	f.lastFrom, f.lastTo = from, to
	return f.incidents, f.err
}

func (f *fakeHistory) DailyRiskLevelCounts(_ context.Context, level risk.RiskLevel, _, _ time.Time) (risk.HistoricalSeries, error) {
	f.lastLevel = level
	return f.riskCounts, f.err
}

func (f *fakeHistory) IncidentContingency(_ context.Context, _, _ time.Time) (risk.ContingencyTable, error) {
	return f.contingency, f.err
}

type fakePublisher struct {
	published []*risk.CompositeAssessment
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, a *risk.CompositeAssessment) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, a)
	return nil
}

type passthroughCache struct {
	keys []string
}

func (c *passthroughCache) GetOrCompute(ctx context.Context, key string, compute func(ctx context.Context) (*risk.TrendAnalysisResult, error)) (*risk.TrendAnalysisResult, error) {
	c.keys = append(c.keys, key)
	return compute(ctx)
}

func validRequest() *AssessmentRequest {
	return &AssessmentRequest{
		Activity: risk.ActivityRiskInput{
			Type:            risk.ActivityTeamSports,
			Intensity:       risk.IntensityHigh,
			PhysicalContact: true,
		},
		Students: []risk.StudentRiskInput{
			{StudentID: "s-1", ExperienceLevel: risk.ExperienceIntermediate, Age: 14},
		},
	}
}

func TestGenerateAssessment_ProducesReportAndPublishes(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewService(Deps{Publisher: pub, Logger: logging.NewNopLogger()})

	report, err := svc.GenerateAssessment(context.Background(), validRequest())
	require.NoError(t, err)

	require.NotNil(t, report.Assessment)
	require.NotNil(t, report.Mitigation)
	assert.Equal(t, risk.RiskHigh, report.Assessment.Activity.Level)
	assert.Equal(t, report.Assessment.OverallLevel, report.Mitigation.RiskLevel)
	assert.NotEmpty(t, report.Mitigation.Strategies)

	require.Len(t, pub.published, 1)
	assert.Equal(t, report.Assessment.ID, pub.published[0].ID)
}

func TestGenerateAssessment_PublishFailureIsNotFatal(t *testing.T) {
	pub := &fakePublisher{err: fmt.Errorf("broker down")}
	svc := NewService(Deps{Publisher: pub, Logger: logging.NewNopLogger()})

	report, err := svc.GenerateAssessment(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotNil(t, report.Assessment)
}

func TestGenerateAssessment_NilRequest(t *testing.T) {
	svc := NewService(Deps{})
	_, err := svc.GenerateAssessment(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeBadRequest, errors.GetCode(err))
}

func TestGenerateAssessment_ValidationErrorPropagates(t *testing.T) {
	svc := NewService(Deps{})
	req := validRequest()
	req.Activity.Type = "juggling"

	_, err := svc.GenerateAssessment(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUnknownActivityType, errors.GetCode(err))
}

func TestGenerateAssessment_MitigationIndicatorsMatchFactors(t *testing.T) {
	svc := NewService(Deps{})
	report, err := svc.GenerateAssessment(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, report.Assessment.AllFactors(), report.Mitigation.Monitoring.KeyIndicators)
}

func trendDeps(history *fakeHistory, cache TrendCache) Deps {
	return Deps{
		History:           history,
		Analyzer:          trendstat.NewAnalyzer(logging.NewNopLogger()),
		Cache:             cache,
		Logger:            logging.NewNopLogger(),
		DefaultWindowDays: 30,
	}
}

func incidentSeries(n int) risk.HistoricalSeries {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	out := make(risk.HistoricalSeries, n)
	for i := range out {
		out[i] = risk.SeriesPoint{Date: start.AddDate(0, 0, i), Count: float64(i + 1)}
	}
	return out
}

func TestAnalyzeTrends_ComputesOverHistory(t *testing.T) {
	history := &fakeHistory{
		incidents:  incidentSeries(10),
		riskCounts: incidentSeries(10),
	}
	svc := NewService(trendDeps(history, nil))

	res, err := svc.AnalyzeTrends(context.Background(), &TrendRequest{Scope: "school-12"})
	require.NoError(t, err)

	require.NotNil(t, res.Trend)
	assert.Greater(t, res.Trend.Slope, 0.0)
	require.NotNil(t, res.Correlation)
	assert.InDelta(t, 1.0, res.Correlation.Coefficient, 1e-9)
	assert.Equal(t, risk.RiskHigh, history.lastLevel) // default level

	// 30-day default window.
	assert.Equal(t, 30*24*time.Hour, history.lastTo.Sub(history.lastFrom))
}

func TestAnalyzeTrends_UsesCacheKeyedByScope(t *testing.T) {
	history := &fakeHistory{incidents: incidentSeries(5)}
	cache := &passthroughCache{}
	svc := NewService(trendDeps(history, cache))

	_, err := svc.AnalyzeTrends(context.Background(), &TrendRequest{
		Scope:      "school-12",
		WindowDays: 60,
		RiskLevel:  risk.RiskMedium,
	})
	require.NoError(t, err)

	require.Len(t, cache.keys, 1)
	assert.Equal(t, "school-12:medium:60d", cache.keys[0])
	assert.Equal(t, risk.RiskMedium, history.lastLevel)
}

func TestAnalyzeTrends_MissingScope(t *testing.T) {
	svc := NewService(trendDeps(&fakeHistory{}, nil))
	_, err := svc.AnalyzeTrends(context.Background(), &TrendRequest{})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestAnalyzeTrends_NotConfigured(t *testing.T) {
	svc := NewService(Deps{})
	_, err := svc.AnalyzeTrends(context.Background(), &TrendRequest{Scope: "school-12"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeServiceUnavailable, errors.GetCode(err))
}

func TestAnalyzeTrends_HistoryErrorPropagates(t *testing.T) {
	history := &fakeHistory{err: errors.New(errors.ErrCodeDatabaseError, "store down")}
	svc := NewService(trendDeps(history, nil))

	_, err := svc.AnalyzeTrends(context.Background(), &TrendRequest{Scope: "school-12"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeDatabaseError, errors.GetCode(err))
}

func TestAnalyzeTrends_InvalidLevel(t *testing.T) {
	svc := NewService(trendDeps(&fakeHistory{}, nil))
	_, err := svc.AnalyzeTrends(context.Background(), &TrendRequest{
		Scope:     "school-12",
		RiskLevel: "catastrophic",
	})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

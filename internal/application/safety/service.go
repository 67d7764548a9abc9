// Package safety orchestrates the risk engine for external collaborators:
// it runs composite assessments with mitigation planning, publishes the
// results, and serves cached trend analyses over the incident history.
package safety

import (
	"context"
	"fmt"
	"time"

	"github.com/activsafe/ActivSafe-Platform/internal/domain/assessment"
	"github.com/activsafe/ActivSafe-Platform/internal/domain/mitigation"
	"github.com/activsafe/ActivSafe-Platform/internal/infrastructure/monitoring/logging"
	"github.com/activsafe/ActivSafe-Platform/internal/infrastructure/monitoring/prometheus"
	"github.com/activsafe/ActivSafe-Platform/pkg/errors"
	"github.com/activsafe/ActivSafe-Platform/pkg/types/risk"
)

// HistorySource supplies aggregated incident history for trend analysis.
type HistorySource interface {
	DailyIncidentCounts(ctx context.Context, from, to time.Time) (risk.HistoricalSeries, error)
	DailyRiskLevelCounts(ctx context.Context, level risk.RiskLevel, from, to time.Time) (risk.HistoricalSeries, error)
	IncidentContingency(ctx context.Context, from, to time.Time) (risk.ContingencyTable, error)
}

// TrendAnalyzer computes the statistical bundle over historical data.
type TrendAnalyzer interface {
	Analyze(series, riskSeries risk.HistoricalSeries, contingency risk.ContingencyTable) *risk.TrendAnalysisResult
}

// TrendCache caches computed trend analyses keyed by scope.
type TrendCache interface {
	GetOrCompute(ctx context.Context, key string, compute func(ctx context.Context) (*risk.TrendAnalysisResult, error)) (*risk.TrendAnalysisResult, error)
}

// EventPublisher emits completed assessments to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, assessment *risk.CompositeAssessment) error
}

// AssessmentRequest is one activity session to assess.
type AssessmentRequest struct {
	Activity    risk.ActivityRiskInput       `json:"activity"`
	Students    []risk.StudentRiskInput      `json:"students"`
	Environment *risk.EnvironmentalRiskInput `json:"environment,omitempty"`
	Equipment   *risk.EquipmentRiskInput     `json:"equipment,omitempty"`
}

// AssessmentReport pairs the composite assessment with its mitigation plan.
type AssessmentReport struct {
	Assessment *risk.CompositeAssessment `json:"assessment"`
	Mitigation *risk.MitigationPlan      `json:"mitigation"`
}

// TrendRequest scopes one trend analysis.
type TrendRequest struct {
	// Scope identifies the population analyzed (for example a school ID);
	// it keys the cache.
	Scope string `json:"scope"`

	// WindowDays is the lookback window; zero falls back to the service
	// default.
	WindowDays int `json:"window_days,omitempty"`

	// RiskLevel selects the assessment series correlated against incident
	// counts.  Empty defaults to high.
	RiskLevel risk.RiskLevel `json:"risk_level,omitempty"`
}

// Deps carries the collaborators of the Service.  History, Cache and
// Publisher are optional: a nil history disables trend analysis, a nil cache
// computes every analysis, and a nil publisher skips event emission.
type Deps struct {
	History   HistorySource
	Analyzer  TrendAnalyzer
	Cache     TrendCache
	Publisher EventPublisher
	Logger    logging.Logger
	Metrics   *prometheus.Metrics

	// DefaultWindowDays is the lookback used when a request leaves
	// WindowDays unset.
	DefaultWindowDays int
}

// Service is the application-level entry point of the risk engine.
type Service struct {
	deps Deps
	log  logging.Logger
	now  func() time.Time
}

// NewService constructs a Service.  A nil logger falls back to a no-op.
func NewService(deps Deps) *Service {
	if deps.Logger == nil {
		deps.Logger = logging.NewNopLogger()
	}
	if deps.DefaultWindowDays <= 0 {
		deps.DefaultWindowDays = 90
	}
	return &Service{
		deps: deps,
		log:  deps.Logger.Named("safety"),
		now:  time.Now,
	}
}

// GenerateAssessment runs the full assessment pipeline for one session:
// composite scoring, mitigation resolution, metrics, and best-effort event
// publication.  Publication failures are logged, never surfaced; the
// assessment itself is the product.
func (s *Service) GenerateAssessment(ctx context.Context, req *AssessmentRequest) (*AssessmentReport, error) {
	if req == nil {
		return nil, errors.New(errors.ErrCodeBadRequest, "assessment request is required")
	}

	start := s.now()
	composite, err := assessment.GenerateAssessment(req.Activity, req.Students, req.Environment, req.Equipment)
	if err != nil {
		if s.deps.Metrics != nil {
			s.deps.Metrics.ValidationFailuresTotal.WithLabelValues(string(errors.GetCode(err))).Inc()
		}
		return nil, err
	}

	plan, err := mitigation.Resolve(composite.AllFactors(), composite.OverallLevel)
	if err != nil {
		// Factors come from the scorers, so this indicates a programming
		// error rather than bad caller input.
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "mitigation resolution failed")
	}

	elapsed := s.now().Sub(start)
	if s.deps.Metrics != nil {
		s.deps.Metrics.ObserveAssessment(string(composite.OverallLevel), elapsed)
		s.observeDimensions(composite)
	}
	s.log.Info("assessment generated",
		logging.String("assessment_id", composite.ID),
		logging.String("overall_level", string(composite.OverallLevel)),
		logging.Int("students", len(req.Students)),
		logging.Duration("elapsed", elapsed))

	if s.deps.Publisher != nil {
		if err := s.deps.Publisher.Publish(ctx, composite); err != nil {
			s.log.Warn("assessment event publication failed",
				logging.String("assessment_id", composite.ID),
				logging.Err(err))
		}
	}

	return &AssessmentReport{Assessment: composite, Mitigation: plan}, nil
}

func (s *Service) observeDimensions(a *risk.CompositeAssessment) {
	m := s.deps.Metrics
	m.ObserveDimension(string(risk.CategoryActivity), a.Activity.Score)
	m.ObserveDimension("group", a.Group.Score)
	if a.Environmental != nil {
		m.ObserveDimension(string(risk.CategoryEnvironmental), a.Environmental.Score)
	}
	if a.Equipment != nil {
		m.ObserveDimension(string(risk.CategoryEquipment), a.Equipment.Score)
	}
}

// AnalyzeTrends serves the statistical bundle for the requested scope,
// through the cache when one is configured.
func (s *Service) AnalyzeTrends(ctx context.Context, req *TrendRequest) (*risk.TrendAnalysisResult, error) {
	if req == nil || req.Scope == "" {
		return nil, errors.NewValidationError("scope", "trend analysis scope is required")
	}
	if s.deps.History == nil || s.deps.Analyzer == nil {
		return nil, errors.New(errors.ErrCodeServiceUnavailable, "trend analysis is not configured")
	}

	level := req.RiskLevel
	if level == "" {
		level = risk.RiskHigh
	}
	if !level.Valid() {
		return nil, errors.NewValidationError("risk_level", "risk level outside vocabulary")
	}
	window := req.WindowDays
	if window <= 0 {
		window = s.deps.DefaultWindowDays
	}

	key := fmt.Sprintf("%s:%s:%dd", req.Scope, level, window)
	compute := func(ctx context.Context) (*risk.TrendAnalysisResult, error) {
		return s.computeTrends(ctx, level, window)
	}

	if s.deps.Cache != nil {
		return s.deps.Cache.GetOrCompute(ctx, key, compute)
	}
	return compute(ctx)
}

func (s *Service) computeTrends(ctx context.Context, level risk.RiskLevel, windowDays int) (*risk.TrendAnalysisResult, error) {
	to := s.now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	from := to.AddDate(0, 0, -windowDays)

	start := s.now()
	incidents, err := s.deps.History.DailyIncidentCounts(ctx, from, to)
	if err != nil {
		return nil, err
	}
	riskCounts, err := s.deps.History.DailyRiskLevelCounts(ctx, level, from, to)
	if err != nil {
		return nil, err
	}
	contingency, err := s.deps.History.IncidentContingency(ctx, from, to)
	if err != nil {
		return nil, err
	}

	result := s.deps.Analyzer.Analyze(incidents, riskCounts, contingency)

	elapsed := s.now().Sub(start)
	if s.deps.Metrics != nil {
		s.deps.Metrics.ObserveTrendAnalysis(elapsed)
	}
	s.log.Info("trend analysis computed",
		logging.Int("window_days", windowDays),
		logging.Int("incident_points", len(incidents)),
		logging.Duration("elapsed", elapsed))
	return result, nil
}

package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/activsafe/ActivSafe-Platform/internal/infrastructure/monitoring/logging"
	"github.com/activsafe/ActivSafe-Platform/internal/infrastructure/monitoring/prometheus"
	"github.com/activsafe/ActivSafe-Platform/pkg/errors"
	"github.com/activsafe/ActivSafe-Platform/pkg/types/risk"
)

// Querier is the subset of pgxpool.Pool the history repository needs.
// Tests substitute a fake.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// HistoryRepository aggregates the incident store into the series and tables
// consumed by the trend analyzer.
type HistoryRepository struct {
	db      Querier
	log     logging.Logger
	metrics *prometheus.Metrics
	timeout time.Duration
}

// HistoryOption configures a HistoryRepository.
type HistoryOption func(*HistoryRepository)

// WithMetrics attaches fetch-duration observation.
func WithMetrics(m *prometheus.Metrics) HistoryOption {
	return func(r *HistoryRepository) { r.metrics = m }
}

// WithQueryTimeout bounds each aggregate query.
func WithQueryTimeout(d time.Duration) HistoryOption {
	return func(r *HistoryRepository) { r.timeout = d }
}

// NewHistoryRepository constructs a HistoryRepository over the given querier.
func NewHistoryRepository(db Querier, log logging.Logger, opts ...HistoryOption) *HistoryRepository {
	if log == nil {
		log = logging.NewNopLogger()
	}
	r := &HistoryRepository{
		db:      db,
		log:     log.Named("history"),
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

const dailyIncidentCountsSQL = `
SELECT date_trunc('day', occurred_at)::date AS day, COUNT(*)::float8 AS n
FROM incidents
WHERE occurred_at >= $1 AND occurred_at < $2
GROUP BY day
ORDER BY day`

// DailyIncidentCounts returns one point per day with at least one incident in
// [from, to).
func (r *HistoryRepository) DailyIncidentCounts(ctx context.Context, from, to time.Time) (risk.HistoricalSeries, error) {
	return r.querySeries(ctx, "daily_incidents", dailyIncidentCountsSQL, from, to)
}

const dailyRiskLevelCountsSQL = `
SELECT date_trunc('day', generated_at)::date AS day, COUNT(*)::float8 AS n
FROM assessments
WHERE overall_risk_level = $3 AND generated_at >= $1 AND generated_at < $2
GROUP BY day
ORDER BY day`

// DailyRiskLevelCounts returns one point per day with at least one assessment
// classified at the given level in [from, to).
func (r *HistoryRepository) DailyRiskLevelCounts(ctx context.Context, level risk.RiskLevel, from, to time.Time) (risk.HistoricalSeries, error) {
	if !level.Valid() {
		return nil, errors.NewValidationError("risk_level", "risk level outside vocabulary")
	}
	return r.querySeries(ctx, "daily_risk_levels", dailyRiskLevelCountsSQL, from, to, string(level))
}

func (r *HistoryRepository) querySeries(ctx context.Context, kind, sql string, from, to time.Time, extra ...any) (risk.HistoricalSeries, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	args := append([]any{from, to}, extra...)
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "incident history query failed")
	}
	defer rows.Close()

	var series risk.HistoricalSeries
	for rows.Next() {
		var p risk.SeriesPoint
		if err := rows.Scan(&p.Date, &p.Count); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "incident history scan failed")
		}
		series = append(series, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "incident history iteration failed")
	}

	if r.metrics != nil {
		r.metrics.HistoryFetchDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}
	r.log.Debug("history series fetched",
		logging.String("query", kind),
		logging.Int("points", len(series)))
	return series, nil
}

const contingencySQL = `
SELECT incident_type, severity, COUNT(*)::int AS n
FROM incidents
WHERE occurred_at >= $1 AND occurred_at < $2
GROUP BY incident_type, severity`

// IncidentContingency returns the incident-type × severity count table over
// [from, to).
func (r *HistoryRepository) IncidentContingency(ctx context.Context, from, to time.Time) (risk.ContingencyTable, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	rows, err := r.db.Query(ctx, contingencySQL, from, to)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "contingency query failed")
	}
	defer rows.Close()

	table := make(risk.ContingencyTable)
	for rows.Next() {
		var (
			incidentType string
			severity     string
			n            int
		)
		if err := rows.Scan(&incidentType, &severity, &n); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "contingency scan failed")
		}
		table[risk.TypeSeverity{
			IncidentType: incidentType,
			Severity:     risk.IncidentSeverity(severity),
		}] = n
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "contingency iteration failed")
	}

	if r.metrics != nil {
		r.metrics.HistoryFetchDuration.WithLabelValues("contingency").Observe(time.Since(start).Seconds())
	}
	return table, nil
}

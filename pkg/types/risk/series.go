package risk

import (
	"sort"
	"time"
)

// SeriesPoint is one dated observation in a historical series.
type SeriesPoint struct {
	Date  time.Time `json:"date"`
	Count float64   `json:"count"`
}

// HistoricalSeries is a time-ordered collection of date → count observations
// (incidents or risk-level occurrences).  It is supplied by the external
// persistence/statistics collaborator and treated as a read-only snapshot
// for the duration of one analysis call.
type HistoricalSeries []SeriesPoint

// Values returns the counts in series order.
func (s HistoricalSeries) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Count
	}
	return out
}

// Sorted returns a copy of the series in ascending date order.
func (s HistoricalSeries) Sorted() HistoricalSeries {
	out := make(HistoricalSeries, len(s))
	copy(out, s)
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// IncidentSeverity classifies how serious an incident was.
type IncidentSeverity string

const (
	SeverityMinor    IncidentSeverity = "minor"
	SeverityModerate IncidentSeverity = "moderate"
	SeveritySevere   IncidentSeverity = "severe"
)

// severityOrder fixes the column order of contingency matrices.
var severityOrder = []IncidentSeverity{SeverityMinor, SeverityModerate, SeveritySevere}

// TypeSeverity is one cell coordinate of the incident contingency table.
type TypeSeverity struct {
	IncidentType string           `json:"incident_type"`
	Severity     IncidentSeverity `json:"severity"`
}

// ContingencyTable is an incident-type × severity count table.
type ContingencyTable map[TypeSeverity]int

// Types returns the distinct incident types in deterministic (sorted) order.
func (t ContingencyTable) Types() []string {
	seen := make(map[string]struct{})
	var out []string
	for k := range t {
		if _, ok := seen[k.IncidentType]; ok {
			continue
		}
		seen[k.IncidentType] = struct{}{}
		out = append(out, k.IncidentType)
	}
	sort.Strings(out)
	return out
}

// Total returns the sum of all cell counts.
func (t ContingencyTable) Total() int {
	var n int
	for _, v := range t {
		n += v
	}
	return n
}

// Matrix materializes the table as one row per incident type (sorted) with
// one column per severity in fixed minor/moderate/severe order.  The row
// labels are returned alongside the matrix.
func (t ContingencyTable) Matrix() ([]string, [][]float64) {
	types := t.Types()
	matrix := make([][]float64, len(types))
	for i, typ := range types {
		row := make([]float64, len(severityOrder))
		for j, sev := range severityOrder {
			row[j] = float64(t[TypeSeverity{IncidentType: typ, Severity: sev}])
		}
		matrix[i] = row
	}
	return types, matrix
}

// TrendLine is the ordinary least-squares fit of count against sequential
// index.
type TrendLine struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
}

// Correlation is the Pearson correlation between two equal-length series.
type Correlation struct {
	Coefficient float64 `json:"coefficient"`
	PValue      float64 `json:"p_value"`
}

// Stationarity carries the augmented Dickey-Fuller test statistics.
type Stationarity struct {
	Statistic      float64            `json:"statistic"`
	PValue         float64            `json:"p_value"`
	CriticalValues map[string]float64 `json:"critical_values"`
}

// SeasonalDecomposition is the additive trend/seasonal/residual split of a
// series over a fixed cycle length.
type SeasonalDecomposition struct {
	Period   int       `json:"period"`
	Trend    []float64 `json:"trend"`
	Seasonal []float64 `json:"seasonal"`
	Residual []float64 `json:"residual"`
}

// ClusterAnalysis is the k-means grouping of the standardized incident
// type × severity matrix.
type ClusterAnalysis struct {
	Centers [][]float64 `json:"centers"`
	Labels  []int       `json:"labels"`
	Inertia float64     `json:"inertia"`
}

// TrendAnalysisResult bundles the longitudinal analyses.  Every field is
// optional: a sub-analysis is only computed when its statistical
// preconditions hold, and absence is a valid, expected state rather than an
// error.
type TrendAnalysisResult struct {
	Trend        *TrendLine             `json:"trend,omitempty"`
	Correlation  *Correlation           `json:"correlation,omitempty"`
	Stationarity *Stationarity          `json:"stationarity,omitempty"`
	Seasonal     *SeasonalDecomposition `json:"seasonal,omitempty"`
	Clusters     *ClusterAnalysis       `json:"clusters,omitempty"`
	AnalyzedAt   time.Time              `json:"analyzed_at"`
}

package trendstat

import (
	"fmt"
	"math"
)

// adfMinObservations is the smallest series the Dickey-Fuller regression can
// be fit on with a constant and one lagged difference term.
const adfMinObservations = 8

// Asymptotic MacKinnon critical values for the constant-only test.
var adfCriticalValues = map[string]float64{
	"1%":  -3.43,
	"5%":  -2.86,
	"10%": -2.57,
}

// adfResult carries the augmented Dickey-Fuller outputs.
type adfResult struct {
	statistic      float64
	pValue         float64
	criticalValues map[string]float64
}

// augmentedDickeyFuller tests the series for a unit root using the regression
// Δy_t = α + β·y_{t-1} + γ·Δy_{t-1} + ε and returns the t-statistic on β.
// A strongly negative statistic rejects the unit root (the series is
// stationary).
func augmentedDickeyFuller(y []float64) (*adfResult, error) {
	n := len(y)
	if n < adfMinObservations {
		return nil, fmt.Errorf("series of %d observations is below the minimum of %d", n, adfMinObservations)
	}
	if allEqual(y) {
		return nil, fmt.Errorf("zero-variance series")
	}

	diff := make([]float64, n-1)
	for i := 1; i < n; i++ {
		diff[i-1] = y[i] - y[i-1]
	}

	// One lagged difference term; observations start at t = 2.
	rows := n - 2
	design := make([][]float64, rows)
	target := make([]float64, rows)
	for t := 2; t < n; t++ {
		design[t-2] = []float64{1, y[t-1], diff[t-2]}
		target[t-2] = diff[t-1]
	}

	coef, err := solveLeastSquares(design, target)
	if err != nil {
		return nil, err
	}

	// Residual variance with k = 3 estimated parameters.
	var rss float64
	for r := 0; r < rows; r++ {
		fitted := 0.0
		for c := range coef {
			fitted += design[r][c] * coef[c]
		}
		resid := target[r] - fitted
		rss += resid * resid
	}
	dof := float64(rows - len(coef))
	if dof <= 0 {
		return nil, fmt.Errorf("insufficient degrees of freedom")
	}
	sigma2 := rss / dof

	// SE(β) needs the (β,β) entry of (XᵀX)⁻¹; solve XᵀX·z = e_β for it.
	xtx, _ := normalEquations(design, target)
	unit := make([]float64, len(coef))
	unit[1] = 1
	inv, err := solveLinear(xtx, unit)
	if err != nil {
		return nil, err
	}
	variance := sigma2 * inv[1]
	if variance <= 0 {
		return nil, fmt.Errorf("non-positive coefficient variance")
	}

	stat := coef[1] / math.Sqrt(variance)
	critical := make(map[string]float64, len(adfCriticalValues))
	for k, v := range adfCriticalValues {
		critical[k] = v
	}

	return &adfResult{
		statistic:      stat,
		pValue:         adfPValue(stat),
		criticalValues: critical,
	}, nil
}

// adfPValue approximates the test p-value by interpolating over the critical
// values, clamped to [0.001, 0.99] beyond the tabulated range.
func adfPValue(stat float64) float64 {
	type anchor struct {
		stat float64
		p    float64
	}
	anchors := []anchor{
		{-3.43, 0.01},
		{-2.86, 0.05},
		{-2.57, 0.10},
		{-1.94, 0.30},
		{-0.62, 0.70},
	}

	if stat < anchors[0].stat {
		return 0.001
	}
	last := anchors[len(anchors)-1]
	if stat >= last.stat {
		return 0.99
	}
	for i := 1; i < len(anchors); i++ {
		lo, hi := anchors[i-1], anchors[i]
		if stat <= hi.stat {
			frac := (stat - lo.stat) / (hi.stat - lo.stat)
			return lo.p + frac*(hi.p-lo.p)
		}
	}
	return 0.99
}

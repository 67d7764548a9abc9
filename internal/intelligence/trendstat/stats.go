// Package trendstat implements the longitudinal statistics of the risk
// engine: trend regression, correlation, stationarity testing, seasonal
// decomposition and incident clustering.  Every routine is pure and CPU
// bound; callers own any timeout around an analysis of a very large history.
package trendstat

import (
	"fmt"
	"math"
)

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// allEqual reports whether the series has zero variance.
func allEqual(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}

// olsFit regresses y against its sequential index 0..n-1 and returns slope,
// intercept and R².  The caller guarantees n >= 2 and nonzero variance.
func olsFit(y []float64) (slope, intercept, rsquared float64) {
	n := float64(len(y))
	meanX := (n - 1) / 2
	meanY := mean(y)

	var sxx, sxy, syy float64
	for i, v := range y {
		dx := float64(i) - meanX
		dy := v - meanY
		sxx += dx * dx
		sxy += dx * dy
		syy += dy * dy
	}

	slope = sxy / sxx
	intercept = meanY - slope*meanX
	if syy == 0 {
		return slope, intercept, 1
	}
	rsquared = (sxy * sxy) / (sxx * syy)
	return slope, intercept, rsquared
}

// pearson returns the Pearson correlation coefficient of two equal-length
// series, or an error when either side has zero variance.
func pearson(x, y []float64) (float64, error) {
	meanX, meanY := mean(x), mean(y)
	var sxx, syy, sxy float64
	for i := range x {
		dx := x[i] - meanX
		dy := y[i] - meanY
		sxx += dx * dx
		syy += dy * dy
		sxy += dx * dy
	}
	if sxx == 0 || syy == 0 {
		return 0, fmt.Errorf("zero variance in correlation input")
	}
	return sxy / math.Sqrt(sxx*syy), nil
}

// pearsonPValue computes the two-sided p-value of a Pearson coefficient via
// the exact Student-t distribution with n-2 degrees of freedom.
func pearsonPValue(r float64, n int) float64 {
	df := float64(n - 2)
	if df <= 0 {
		return 1
	}
	denom := 1 - r*r
	if denom <= 0 {
		return 0
	}
	t := r * math.Sqrt(df/denom)
	return studentTTwoSided(t, df)
}

// studentTTwoSided returns P(|T| >= |t|) for a Student-t variable with df
// degrees of freedom, via the regularized incomplete beta function.
func studentTTwoSided(t, df float64) float64 {
	x := df / (df + t*t)
	return regularizedIncompleteBeta(df/2, 0.5, x)
}

// regularizedIncompleteBeta evaluates I_x(a, b) with the continued-fraction
// expansion from Numerical Recipes.
func regularizedIncompleteBeta(a, b, x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	lbeta := lgamma(a+b) - lgamma(a) - lgamma(b)
	front := math.Exp(lbeta + a*math.Log(x) + b*math.Log(1-x))
	if x < (a+1)/(a+b+2) {
		return front * betaContinuedFraction(a, b, x) / a
	}
	return 1 - front*betaContinuedFraction(b, a, 1-x)/b
}

func lgamma(x float64) float64 {
	v, _ := math.Lgamma(x)
	return v
}

func betaContinuedFraction(a, b, x float64) float64 {
	const (
		maxIterations = 200
		epsilon       = 3e-14
		tiny          = 1e-30
	)

	qab := a + b
	qap := a + 1
	qam := a - 1
	c := 1.0
	d := 1 - qab*x/qap
	if math.Abs(d) < tiny {
		d = tiny
	}
	d = 1 / d
	h := d

	for m := 1; m <= maxIterations; m++ {
		fm := float64(m)
		m2 := 2 * fm

		num := fm * (b - fm) * x / ((qam + m2) * (a + m2))
		d = 1 + num*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = 1 + num/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		h *= d * c

		num = -(a + fm) * (qab + fm) * x / ((a + m2) * (qap + m2))
		d = 1 + num*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = 1 + num/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		del := d * c
		h *= del
		if math.Abs(del-1) < epsilon {
			break
		}
	}
	return h
}

// normalEquations computes XᵀX and Xᵀy for a design matrix X.
func normalEquations(x [][]float64, y []float64) ([][]float64, []float64) {
	rows := len(x)
	cols := len(x[0])

	xtx := make([][]float64, cols)
	xty := make([]float64, cols)
	for i := 0; i < cols; i++ {
		xtx[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			var sum float64
			for r := 0; r < rows; r++ {
				sum += x[r][i] * x[r][j]
			}
			xtx[i][j] = sum
		}
		var sum float64
		for r := 0; r < rows; r++ {
			sum += x[r][i] * y[r]
		}
		xty[i] = sum
	}
	return xtx, xty
}

// solveLinear solves a·x = b with Gaussian elimination and partial pivoting.
// The inputs are left untouched.  Returns an error when a is singular.
func solveLinear(a [][]float64, b []float64) ([]float64, error) {
	n := len(b)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		copy(m[i], a[i])
	}
	rhs := make([]float64, n)
	copy(rhs, b)

	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(m[pivot][col]) < 1e-12 {
			return nil, fmt.Errorf("singular matrix")
		}
		m[col], m[pivot] = m[pivot], m[col]
		rhs[col], rhs[pivot] = rhs[pivot], rhs[col]

		for r := col + 1; r < n; r++ {
			factor := m[r][col] / m[col][col]
			for c := col; c < n; c++ {
				m[r][c] -= factor * m[col][c]
			}
			rhs[r] -= factor * rhs[col]
		}
	}

	out := make([]float64, n)
	for col := n - 1; col >= 0; col-- {
		sum := rhs[col]
		for c := col + 1; c < n; c++ {
			sum -= m[col][c] * out[c]
		}
		out[col] = sum / m[col][col]
	}
	return out, nil
}

// solveLeastSquares solves min ||Xb - y||² via the normal equations.
// Returns an error when the regressors are collinear.
func solveLeastSquares(x [][]float64, y []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("empty design matrix")
	}
	xtx, xty := normalEquations(x, y)
	return solveLinear(xtx, xty)
}

package trendstat

import "fmt"

// seasonalPeriod is the weekly cycle length used for incident series.
const seasonalPeriod = 7

// decomposeAdditive splits the series into trend, seasonal and residual
// components: y = trend + seasonal + residual.  The trend is a centered
// moving average over one period; its undefined edges are extended with the
// nearest computed value so every component has the series length.
func decomposeAdditive(y []float64, period int) (trend, seasonal, residual []float64, err error) {
	n := len(y)
	if n <= period {
		return nil, nil, nil, fmt.Errorf("series of %d observations requires more than %d", n, period)
	}

	trend = centeredMovingAverage(y, period)

	// Average detrended value per phase, then center the profile so the
	// seasonal component sums to zero over one cycle.
	phaseSum := make([]float64, period)
	phaseCount := make([]int, period)
	for i := range y {
		phaseSum[i%period] += y[i] - trend[i]
		phaseCount[i%period]++
	}
	profile := make([]float64, period)
	for p := range profile {
		profile[p] = phaseSum[p] / float64(phaseCount[p])
	}
	profileMean := mean(profile)
	for p := range profile {
		profile[p] -= profileMean
	}

	seasonal = make([]float64, n)
	residual = make([]float64, n)
	for i := range y {
		seasonal[i] = profile[i%period]
		residual[i] = y[i] - trend[i] - seasonal[i]
	}
	return trend, seasonal, residual, nil
}

// centeredMovingAverage smooths the series with a window of one period.
// Even periods use the standard 2×MA; edges carry the nearest interior value.
func centeredMovingAverage(y []float64, period int) []float64 {
	n := len(y)
	out := make([]float64, n)

	half := period / 2
	first, last := half, n-1-half

	for i := first; i <= last; i++ {
		if period%2 == 1 {
			sum := 0.0
			for j := i - half; j <= i+half; j++ {
				sum += y[j]
			}
			out[i] = sum / float64(period)
		} else {
			// 2×MA: half weight on the two outermost observations.
			sum := y[i-half]/2 + y[i+half]/2
			for j := i - half + 1; j < i+half; j++ {
				sum += y[j]
			}
			out[i] = sum / float64(period)
		}
	}
	for i := 0; i < first; i++ {
		out[i] = out[first]
	}
	for i := last + 1; i < n; i++ {
		out[i] = out[last]
	}
	return out
}

package trendstat

import (
	"fmt"
	"math"
)

const kmeansMaxIterations = 100

// kmeansResult carries the clustering outputs over a standardized matrix.
type kmeansResult struct {
	centers [][]float64
	labels  []int
	inertia float64
}

// standardizeColumns z-scores each column in place over a copy of the matrix.
// Zero-variance columns become all zeros.
func standardizeColumns(matrix [][]float64) [][]float64 {
	rows := len(matrix)
	cols := len(matrix[0])
	out := make([][]float64, rows)
	for i := range out {
		out[i] = make([]float64, cols)
		copy(out[i], matrix[i])
	}

	for c := 0; c < cols; c++ {
		col := make([]float64, rows)
		for r := 0; r < rows; r++ {
			col[r] = out[r][c]
		}
		m := mean(col)
		var variance float64
		for _, v := range col {
			variance += (v - m) * (v - m)
		}
		std := math.Sqrt(variance / float64(rows))
		for r := 0; r < rows; r++ {
			if std == 0 {
				out[r][c] = 0
			} else {
				out[r][c] = (out[r][c] - m) / std
			}
		}
	}
	return out
}

// kmeans runs Lloyd iterations over the rows of the matrix.  Seeding is
// deterministic (evenly spaced rows in input order), so repeated analyses of
// the same table produce identical labels.
func kmeans(matrix [][]float64, k int) (*kmeansResult, error) {
	rows := len(matrix)
	if k < 1 || k > rows {
		return nil, fmt.Errorf("k=%d is out of range for %d rows", k, rows)
	}

	centers := make([][]float64, k)
	for i := 0; i < k; i++ {
		src := matrix[0]
		if k > 1 {
			src = matrix[i*(rows-1)/(k-1)]
		}
		centers[i] = make([]float64, len(src))
		copy(centers[i], src)
	}

	labels := make([]int, rows)
	for iter := 0; iter < kmeansMaxIterations; iter++ {
		changed := false
		for r, row := range matrix {
			best, bestDist := 0, math.Inf(1)
			for c, center := range centers {
				if d := squaredDistance(row, center); d < bestDist {
					best, bestDist = c, d
				}
			}
			if labels[r] != best {
				labels[r] = best
				changed = true
			}
		}

		// Recompute centers; an emptied cluster keeps its previous center.
		counts := make([]int, k)
		sums := make([][]float64, k)
		for i := range sums {
			sums[i] = make([]float64, len(matrix[0]))
		}
		for r, row := range matrix {
			counts[labels[r]]++
			for c, v := range row {
				sums[labels[r]][c] += v
			}
		}
		for i := 0; i < k; i++ {
			if counts[i] == 0 {
				continue
			}
			for c := range sums[i] {
				centers[i][c] = sums[i][c] / float64(counts[i])
			}
		}

		if !changed {
			break
		}
	}

	var inertia float64
	for r, row := range matrix {
		inertia += squaredDistance(row, centers[labels[r]])
	}
	return &kmeansResult{centers: centers, labels: labels, inertia: inertia}, nil
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

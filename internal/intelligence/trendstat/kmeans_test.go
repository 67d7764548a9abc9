package trendstat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardizeColumns(t *testing.T) {
	matrix := [][]float64{
		{1, 10, 5},
		{2, 20, 5},
		{3, 30, 5},
	}
	out := standardizeColumns(matrix)

	// Column means become zero.
	for c := 0; c < 3; c++ {
		var sum float64
		for r := 0; r < 3; r++ {
			sum += out[r][c]
		}
		assert.InDelta(t, 0, sum, 1e-9)
	}
	// Zero-variance column becomes all zeros.
	for r := 0; r < 3; r++ {
		assert.Equal(t, 0.0, out[r][2])
	}
	// Input untouched.
	assert.Equal(t, 1.0, matrix[0][0])
}

func TestKMeans_SeparatesObviousClusters(t *testing.T) {
	matrix := [][]float64{
		{0, 0},
		{0.1, 0.1},
		{10, 10},
		{10.1, 9.9},
	}
	res, err := kmeans(matrix, 2)
	require.NoError(t, err)

	require.Len(t, res.labels, 4)
	assert.Equal(t, res.labels[0], res.labels[1])
	assert.Equal(t, res.labels[2], res.labels[3])
	assert.NotEqual(t, res.labels[0], res.labels[2])
	assert.Less(t, res.inertia, 0.1)
}

func TestKMeans_Deterministic(t *testing.T) {
	matrix := [][]float64{
		{1, 2, 0}, {2, 1, 1}, {8, 9, 4}, {9, 8, 5}, {4, 5, 2},
	}
	a, err := kmeans(matrix, 3)
	require.NoError(t, err)
	b, err := kmeans(matrix, 3)
	require.NoError(t, err)

	assert.Equal(t, a.labels, b.labels)
	assert.Equal(t, a.centers, b.centers)
	assert.Equal(t, a.inertia, b.inertia)
}

func TestKMeans_SingleCluster(t *testing.T) {
	matrix := [][]float64{{1, 1}, {2, 2}, {3, 3}}
	res, err := kmeans(matrix, 1)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 0, 0}, res.labels)
	assert.InDelta(t, 2.0, res.centers[0][0], 1e-9)
}

func TestKMeans_KOutOfRange(t *testing.T) {
	matrix := [][]float64{{1, 1}, {2, 2}}
	_, err := kmeans(matrix, 3)
	assert.Error(t, err)
	_, err = kmeans(matrix, 0)
	assert.Error(t, err)
}

package cluster

import (
	"fmt"
	"math"
)

// checkSamples validates a row-major sample matrix and returns its dimension
func checkSamples(x [][]float64) (int, error) {
	if len(x) == 0 {
		return 0, ErrNoSamples
	}
	d := len(x[0])
	if d == 0 {
		return 0, fmt.Errorf("%w: zero features", ErrDimensionMismatch)
	}
	for i, row := range x {
		if len(row) != d {
			return 0, fmt.Errorf("%w: row %d has %d features, want %d", ErrDimensionMismatch, i, len(row), d)
		}
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return 0, fmt.Errorf("%w: row %d", ErrNonFinite, i)
			}
		}
	}
	return d, nil
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}

func cloneRows(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

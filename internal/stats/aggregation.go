// Package stats holds the matrix helpers the clustering code needs on top of
// gonum/stat.
package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Column extracts column j of a row-major matrix
func Column(rows [][]float64, j int) []float64 {
	col := make([]float64, len(rows))
	for i, row := range rows {
		col[i] = row[j]
	}
	return col
}

// ColumnMeans returns the mean of every column of a row-major matrix
func ColumnMeans(rows [][]float64) []float64 {
	if len(rows) == 0 {
		return nil
	}
	means := make([]float64, len(rows[0]))
	for j := range means {
		means[j] = stat.Mean(Column(rows, j), nil)
	}
	return means
}

// RoundTo rounds v to the given number of decimal places
func RoundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

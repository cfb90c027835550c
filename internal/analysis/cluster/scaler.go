package cluster

import (
	"gonum.org/v1/gonum/stat"

	"github.com/jengzang/carbon-footprint-backend/internal/stats"
)

// StandardScaler rescales each feature column to zero mean and unit variance.
// Variance is the population variance; constant columns keep a scale of 1.
type StandardScaler struct {
	Mean  []float64
	Scale []float64
}

// Fit computes per-column mean and standard deviation
func (s *StandardScaler) Fit(x [][]float64) error {
	d, err := checkSamples(x)
	if err != nil {
		return err
	}

	s.Mean = make([]float64, d)
	s.Scale = make([]float64, d)
	for j := 0; j < d; j++ {
		col := stats.Column(x, j)
		s.Mean[j], s.Scale[j] = stat.PopMeanStdDev(col, nil)
		if s.Scale[j] == 0 {
			s.Scale[j] = 1
		}
	}
	return nil
}

// Transform standardizes x with the fitted parameters, returning a new matrix
func (s *StandardScaler) Transform(x [][]float64) ([][]float64, error) {
	if s.Mean == nil {
		return nil, ErrNotFitted
	}
	d, err := checkSamples(x)
	if err != nil {
		return nil, err
	}
	if d != len(s.Mean) {
		return nil, ErrDimensionMismatch
	}

	out := cloneRows(x)
	for _, row := range out {
		for j := range row {
			row[j] = (row[j] - s.Mean[j]) / s.Scale[j]
		}
	}
	return out, nil
}

// FitTransform fits the scaler on x and returns x standardized
func (s *StandardScaler) FitTransform(x [][]float64) ([][]float64, error) {
	if err := s.Fit(x); err != nil {
		return nil, err
	}
	return s.Transform(x)
}

package cluster

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/jengzang/carbon-footprint-backend/internal/stats"
)

// Projection is a fitted 2-D principal component projection
type Projection struct {
	Points            []r2.Point  // projected sample per input row
	Components        [][]float64 // two unit loading vectors in feature space
	ExplainedVariance []float64   // variance along each component
}

// Project2D projects x onto its two directions of maximum variance.
//
// Each component's sign is fixed so that its largest absolute loading is
// positive, which keeps coordinates identical across runs on the same data.
// With a single feature the second coordinate is zero.
func Project2D(x [][]float64) (*Projection, error) {
	d, err := checkSamples(x)
	if err != nil {
		return nil, err
	}
	n := len(x)
	if n < 2 {
		return nil, fmt.Errorf("%w: projection needs at least 2 samples, got %d", ErrTooFewSamples, n)
	}

	means := stats.ColumnMeans(x)
	centered := mat.NewDense(n, d, nil)
	for i, row := range x {
		for j, v := range row {
			centered.Set(i, j, v-means[j])
		}
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(centered, nil); !ok {
		return nil, ErrProjection
	}

	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	vars := pc.VarsTo(nil)

	_, available := vecs.Dims()
	ncomp := 2
	if available < ncomp {
		ncomp = available
	}

	components := make([][]float64, 2)
	explained := make([]float64, 2)
	for c := 0; c < 2; c++ {
		components[c] = make([]float64, d)
		if c >= ncomp {
			continue
		}
		for j := 0; j < d; j++ {
			components[c][j] = vecs.At(j, c)
		}
		flipSign(components[c])
		if c < len(vars) {
			explained[c] = vars[c]
		}
	}

	points := make([]r2.Point, n)
	for i := 0; i < n; i++ {
		var px, py float64
		for j := 0; j < d; j++ {
			v := centered.At(i, j)
			px += v * components[0][j]
			py += v * components[1][j]
		}
		points[i] = r2.Point{X: px, Y: py}
	}

	return &Projection{
		Points:            points,
		Components:        components,
		ExplainedVariance: explained,
	}, nil
}

func flipSign(v []float64) {
	maxIdx := 0
	for j := range v {
		if math.Abs(v[j]) > math.Abs(v[maxIdx]) {
			maxIdx = j
		}
	}
	if v[maxIdx] < 0 {
		for j := range v {
			v[j] = -v[j]
		}
	}
}

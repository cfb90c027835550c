package cluster

import (
	"fmt"
	"math"
	"math/rand"
)

// KMeans defaults
const (
	DefaultSeed    int64 = 42
	DefaultMaxIter       = 300
	DefaultNInit         = 10
)

// KMeans partitions samples into K clusters by iterative centroid refinement.
//
// Initial centroids are chosen with k-means++ from a generator seeded with
// Seed, so repeated fits on the same samples give the same result. Each of the
// NInit restarts runs Lloyd iterations until no assignment changes or MaxIter
// is reached; the restart with the lowest inertia wins.
type KMeans struct {
	K       int
	Seed    int64
	MaxIter int
	NInit   int
}

// KMeansResult is a fitted partition
type KMeansResult struct {
	Labels     []int       // cluster id per sample, in input order
	Centroids  [][]float64 // K centroids in feature space
	Sizes      []int       // samples per cluster
	Inertia    float64     // sum of squared distances to the assigned centroid
	Iterations int         // Lloyd iterations of the winning restart
	Converged  bool        // false when the winning restart hit MaxIter
}

// NewKMeans returns a KMeans with default seed, iteration cap and restarts
func NewKMeans(k int) KMeans {
	return KMeans{K: k, Seed: DefaultSeed, MaxIter: DefaultMaxIter, NInit: DefaultNInit}
}

// Fit partitions x
func (km KMeans) Fit(x [][]float64) (*KMeansResult, error) {
	if km.K < 1 {
		return nil, ErrInvalidK
	}
	if _, err := checkSamples(x); err != nil {
		return nil, err
	}
	if len(x) < km.K {
		return nil, fmt.Errorf("%w: %d samples, %d clusters", ErrTooFewSamples, len(x), km.K)
	}

	maxIter := km.MaxIter
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	nInit := km.NInit
	if nInit <= 0 {
		nInit = 1
	}

	rng := rand.New(rand.NewSource(km.Seed))

	var best *KMeansResult
	for run := 0; run < nInit; run++ {
		centroids := initPlusPlus(x, km.K, rng)
		result := lloyd(x, centroids, maxIter)
		if best == nil || result.Inertia < best.Inertia {
			best = result
		}
	}
	return best, nil
}

// initPlusPlus picks k initial centroids, each new one drawn with probability
// proportional to its squared distance from the nearest centroid chosen so far
func initPlusPlus(x [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(x)
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, append([]float64(nil), x[rng.Intn(n)]...))

	closest := make([]float64, n)
	for i := range x {
		closest[i] = squaredDistance(x[i], centroids[0])
	}

	for len(centroids) < k {
		var total float64
		for _, d := range closest {
			total += d
		}

		next := -1
		if total > 0 {
			target := rng.Float64() * total
			var cumulative float64
			for i, d := range closest {
				if d == 0 {
					continue
				}
				cumulative += d
				next = i
				if cumulative > target {
					break
				}
			}
		}
		if next < 0 {
			// every sample coincides with a chosen centroid
			next = rng.Intn(n)
		}

		c := append([]float64(nil), x[next]...)
		centroids = append(centroids, c)
		for i := range x {
			if d := squaredDistance(x[i], c); d < closest[i] {
				closest[i] = d
			}
		}
	}
	return centroids
}

func lloyd(x [][]float64, centroids [][]float64, maxIter int) *KMeansResult {
	labels := make([]int, len(x))
	for i := range labels {
		labels[i] = -1
	}

	iterations := 0
	converged := false
	for iterations < maxIter {
		iterations++
		if !assign(x, centroids, labels) {
			converged = true
			break
		}
		updateCentroids(x, labels, centroids)
	}
	if !converged {
		// centroids moved after the last assignment
		assign(x, centroids, labels)
	}

	sizes := make([]int, len(centroids))
	var inertia float64
	for i, c := range labels {
		sizes[c]++
		inertia += squaredDistance(x[i], centroids[c])
	}

	return &KMeansResult{
		Labels:     labels,
		Centroids:  centroids,
		Sizes:      sizes,
		Inertia:    inertia,
		Iterations: iterations,
		Converged:  converged,
	}
}

// assign moves every sample to its nearest centroid (lowest id on ties)
// and reports whether any assignment changed
func assign(x [][]float64, centroids [][]float64, labels []int) bool {
	changed := false
	for i, row := range x {
		best := 0
		bestDist := math.Inf(1)
		for c, centroid := range centroids {
			if d := squaredDistance(row, centroid); d < bestDist {
				best = c
				bestDist = d
			}
		}
		if labels[i] != best {
			labels[i] = best
			changed = true
		}
	}
	return changed
}

// updateCentroids recomputes each centroid as the mean of its samples.
// An empty cluster takes over the sample farthest from its own centroid.
func updateCentroids(x [][]float64, labels []int, centroids [][]float64) {
	k := len(centroids)
	d := len(x[0])

	sums := make([][]float64, k)
	for c := range sums {
		sums[c] = make([]float64, d)
	}
	counts := make([]int, k)
	for i, c := range labels {
		counts[c]++
		for j, v := range x[i] {
			sums[c][j] += v
		}
	}

	for c := 0; c < k; c++ {
		if counts[c] == 0 {
			continue
		}
		for j := range sums[c] {
			centroids[c][j] = sums[c][j] / float64(counts[c])
		}
	}

	for c := 0; c < k; c++ {
		if counts[c] > 0 {
			continue
		}
		far := -1
		farDist := -1.0
		for i, owner := range labels {
			if counts[owner] < 2 {
				continue
			}
			if dist := squaredDistance(x[i], centroids[owner]); dist > farDist {
				far = i
				farDist = dist
			}
		}
		if far < 0 {
			continue
		}
		counts[labels[far]]--
		labels[far] = c
		counts[c] = 1
		copy(centroids[c], x[far])
	}
}

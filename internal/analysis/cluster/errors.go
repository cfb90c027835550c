// Package cluster implements the numeric steps of the clustering pipeline:
// feature standardization, k-means partitioning and 2-D principal component projection.
package cluster

import "errors"

// Numeric processing errors. These are fatal to a pipeline run.
var (
	ErrNoSamples         = errors.New("no samples to process")
	ErrTooFewSamples     = errors.New("fewer samples than clusters")
	ErrInvalidK          = errors.New("cluster count must be positive")
	ErrDimensionMismatch = errors.New("samples have inconsistent dimensions")
	ErrNonFinite         = errors.New("samples contain NaN or infinite values")
	ErrNotFitted         = errors.New("scaler has not been fitted")
	ErrProjection        = errors.New("principal component decomposition failed")
)

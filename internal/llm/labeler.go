package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jengzang/carbon-footprint-backend/internal/models"
)

// Labeler names clusters and projection axes from per-cluster means
type Labeler struct {
	gen Generator
}

// NewLabeler creates a Labeler backed by gen
func NewLabeler(gen Generator) *Labeler {
	return &Labeler{gen: gen}
}

type labelPayload struct {
	ClusterLabels map[string]string `json:"cluster_labels"`
	XAxis         string            `json:"x_axis"`
	YAxis         string            `json:"y_axis"`
}

// Label asks the generator for names. The caller substitutes fallback labels on error.
func (l *Labeler) Label(ctx context.Context, summaries []models.ClusterSummary, k int) (models.ClusterLabels, error) {
	text, err := l.gen.Generate(ctx, buildLabelPrompt(summaries, k))
	if err != nil {
		return models.ClusterLabels{}, err
	}
	return ParseLabels(text, k)
}

// ParseLabels decodes a label response strictly: one object with exactly the ids
// 0..k-1, every name non-empty, and both axis names present.
func ParseLabels(text string, k int) (models.ClusterLabels, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(stripCodeFences(text))))
	dec.DisallowUnknownFields()

	var payload labelPayload
	if err := dec.Decode(&payload); err != nil {
		return models.ClusterLabels{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return models.ClusterLabels{}, fmt.Errorf("%w: trailing data after label object", ErrMalformedResponse)
	}

	if len(payload.ClusterLabels) != k {
		return models.ClusterLabels{}, fmt.Errorf("%w: expected %d cluster labels, got %d", ErrMalformedResponse, k, len(payload.ClusterLabels))
	}

	labels := models.ClusterLabels{
		Clusters: make(map[int]string, k),
		XAxis:    strings.TrimSpace(payload.XAxis),
		YAxis:    strings.TrimSpace(payload.YAxis),
	}
	for i := 0; i < k; i++ {
		name := strings.TrimSpace(payload.ClusterLabels[strconv.Itoa(i)])
		if name == "" {
			return models.ClusterLabels{}, fmt.Errorf("%w: missing label for cluster %d", ErrMalformedResponse, i)
		}
		labels.Clusters[i] = name
	}
	if labels.XAxis == "" || labels.YAxis == "" {
		return models.ClusterLabels{}, fmt.Errorf("%w: missing axis label", ErrMalformedResponse)
	}

	return labels, nil
}

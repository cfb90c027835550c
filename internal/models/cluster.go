package models

import (
	"fmt"
	"strconv"

	"github.com/golang/geo/r2"
)

// DefaultClusterCount is the fixed number of behavioral segments
const DefaultClusterCount = 3

// AugmentedRow is a retained dataset row with its cluster assignment and 2-D projection
type AugmentedRow struct {
	DatasetRow
	Cluster int     `json:"cluster"`
	PCA1    float64 `json:"pca1"`
	PCA2    float64 `json:"pca2"`
}

// Point returns the projection coordinate of the row
func (r AugmentedRow) Point() r2.Point {
	return r2.Point{X: r.PCA1, Y: r.PCA2}
}

// ClusterLabels names each cluster id and both projection axes
type ClusterLabels struct {
	Clusters map[int]string `json:"clusters"`
	XAxis    string         `json:"x_axis"`
	YAxis    string         `json:"y_axis"`
	Fallback bool           `json:"fallback"` // true when generic names were substituted
}

// FallbackClusterLabels returns the generic names used when no collaborator label is available
func FallbackClusterLabels(k int) ClusterLabels {
	labels := ClusterLabels{
		Clusters: make(map[int]string, k),
		XAxis:    "PCA 1",
		YAxis:    "PCA 2",
		Fallback: true,
	}
	for i := 0; i < k; i++ {
		labels.Clusters[i] = fallbackClusterName(i)
	}
	return labels
}

// Name returns the label of cluster id, falling back to the generic name
func (l ClusterLabels) Name(id int) string {
	if name, ok := l.Clusters[id]; ok && name != "" {
		return name
	}
	return fallbackClusterName(id)
}

// StringKeys returns the cluster names keyed by the decimal id, the shape used on the wire
func (l ClusterLabels) StringKeys() map[string]string {
	out := make(map[string]string, len(l.Clusters))
	for id, name := range l.Clusters {
		out[strconv.Itoa(id)] = name
	}
	return out
}

func fallbackClusterName(id int) string {
	return fmt.Sprintf("Cluster %d", id)
}

// ClusterSummary is the per-cluster aggregate passed to the labeling collaborator
type ClusterSummary struct {
	ID    int            `json:"id"`
	Label string         `json:"label"`
	Size  int            `json:"size"`
	Means EmissionRecord `json:"means"` // mean raw emissions, rounded to 2 decimals
}

// AugmentedDataset is the result of one clustering pipeline run
type AugmentedDataset struct {
	Rows       []AugmentedRow   `json:"rows"`
	K          int              `json:"k"`
	Labels     ClusterLabels    `json:"labels"`
	Summaries  []ClusterSummary `json:"summaries"`
	Stats      LoadStats        `json:"stats"`
	Inertia    float64          `json:"inertia"`
	Iterations int              `json:"iterations"`
	PlotPath   string           `json:"plot_path,omitempty"`
}

// Last returns the newest retained row, the one belonging to the latest submission
func (d *AugmentedDataset) Last() (AugmentedRow, bool) {
	if d == nil || len(d.Rows) == 0 {
		return AugmentedRow{}, false
	}
	return d.Rows[len(d.Rows)-1], true
}

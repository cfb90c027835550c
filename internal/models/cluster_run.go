package models

import "time"

// ClusterRun records one full recompute of the clustering pipeline
type ClusterRun struct {
	ID string `json:"id" db:"id"`

	// Input
	DatasetPath string `json:"dataset_path" db:"dataset_path"`
	K           int    `json:"k" db:"k"`
	Seed        int64  `json:"seed" db:"seed"`

	// Row accounting
	RawRows      int `json:"raw_rows" db:"raw_rows"`
	RetainedRows int `json:"retained_rows" db:"retained_rows"`
	SkippedRows  int `json:"skipped_rows" db:"skipped_rows"`
	DroppedRows  int `json:"dropped_rows" db:"dropped_rows"`

	// Results
	Inertia        float64          `json:"inertia" db:"inertia"`
	Iterations     int              `json:"iterations" db:"iterations"`
	Labels         ClusterLabels    `json:"labels" db:"labels_json"`
	Summaries      []ClusterSummary `json:"summaries" db:"summaries_json"`
	FallbackLabels bool             `json:"fallback_labels" db:"fallback_labels"`
	PlotPath       string           `json:"plot_path,omitempty" db:"plot_path"`
	DurationMs     int64            `json:"duration_ms" db:"duration_ms"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Package analysis runs the clustering pipeline over the persisted dataset.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jengzang/carbon-footprint-backend/internal/analysis/cluster"
	"github.com/jengzang/carbon-footprint-backend/internal/config"
	"github.com/jengzang/carbon-footprint-backend/internal/dataset"
	"github.com/jengzang/carbon-footprint-backend/internal/models"
	"github.com/jengzang/carbon-footprint-backend/internal/stats"
)

// ErrNoData is returned when there is no dataset to cluster
var ErrNoData = errors.New("no data found, submit a calculation first")

// Labeler names clusters and projection axes
type Labeler interface {
	Label(ctx context.Context, summaries []models.ClusterSummary, k int) (models.ClusterLabels, error)
}

// Renderer draws the projected rows and returns the written file path
type Renderer interface {
	Render(rows []models.AugmentedRow, labels models.ClusterLabels, k int) (string, error)
}

// RunRecorder persists run history
type RunRecorder interface {
	Create(ctx context.Context, run *models.ClusterRun) error
}

// Pipeline recomputes clusters, projection, labels and the plot from the full dataset
type Pipeline struct {
	cfg      config.ClusterConfig
	labeler  Labeler
	renderer Renderer
	recorder RunRecorder
	tracer   trace.Tracer
}

// NewPipeline creates a pipeline. labeler and recorder may be nil.
func NewPipeline(cfg config.ClusterConfig, labeler Labeler, renderer Renderer, recorder RunRecorder) *Pipeline {
	if cfg.K <= 0 {
		cfg.K = models.DefaultClusterCount
	}
	return &Pipeline{
		cfg:      cfg,
		labeler:  labeler,
		renderer: renderer,
		recorder: recorder,
		tracer:   otel.Tracer("analysis"),
	}
}

// K returns the configured cluster count
func (p *Pipeline) K() int {
	return p.cfg.K
}

// Recompute clusters every retained row of the dataset at datasetPath.
//
// Rows come back in file order, so the last row belongs to the newest
// submission. Labeling failures degrade to generic names; every other
// failure is returned.
func (p *Pipeline) Recompute(ctx context.Context, datasetPath string) (*models.AugmentedDataset, error) {
	start := time.Now()
	ctx, span := p.tracer.Start(ctx, "pipeline.recompute")
	defer span.End()

	rows, loadStats, err := dataset.NewStore(datasetPath).Load()
	if errors.Is(err, dataset.ErrNotFound) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoData
	}
	span.SetAttributes(
		attribute.Int("dataset.retained", loadStats.Retained),
		attribute.Int("dataset.skipped", loadStats.Skipped),
		attribute.Int("dataset.dropped", loadStats.Dropped),
	)

	raw := make([][]float64, len(rows))
	for i, r := range rows {
		raw[i] = r.Emissions.Features()
	}

	partition, projection, err := p.fit(ctx, raw)
	if err != nil {
		return nil, err
	}

	result := &models.AugmentedDataset{
		Rows:       make([]models.AugmentedRow, len(rows)),
		K:          p.cfg.K,
		Stats:      loadStats,
		Inertia:    partition.Inertia,
		Iterations: partition.Iterations,
	}
	for i, r := range rows {
		pt := projection.Points[i]
		result.Rows[i] = models.AugmentedRow{
			DatasetRow: r,
			Cluster:    partition.Labels[i],
			PCA1:       pt.X,
			PCA2:       pt.Y,
		}
	}

	result.Summaries = summarize(raw, partition.Labels, p.cfg.K)
	result.Labels = p.label(ctx, result.Summaries)
	for i := range result.Summaries {
		result.Summaries[i].Label = result.Labels.Name(result.Summaries[i].ID)
	}

	_, renderSpan := p.tracer.Start(ctx, "pipeline.render")
	plotPath, err := p.renderer.Render(result.Rows, result.Labels, p.cfg.K)
	renderSpan.End()
	if err != nil {
		return nil, fmt.Errorf("failed to render cluster plot: %w", err)
	}
	result.PlotPath = plotPath

	elapsed := time.Since(start)
	log.Info().
		Int("rows", loadStats.Retained).
		Int("skipped", loadStats.Skipped).
		Int("dropped", loadStats.Dropped).
		Float64("inertia", partition.Inertia).
		Bool("fallback_labels", result.Labels.Fallback).
		Dur("elapsed", elapsed).
		Msg("clustering pipeline completed")

	p.record(ctx, datasetPath, result, elapsed)
	return result, nil
}

// fit standardizes, partitions and projects the feature matrix
func (p *Pipeline) fit(ctx context.Context, raw [][]float64) (*cluster.KMeansResult, *cluster.Projection, error) {
	_, span := p.tracer.Start(ctx, "pipeline.fit")
	defer span.End()

	var scaler cluster.StandardScaler
	scaled, err := scaler.FitTransform(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to standardize features: %w", err)
	}

	km := cluster.KMeans{
		K:       p.cfg.K,
		Seed:    p.cfg.Seed,
		MaxIter: p.cfg.MaxIter,
		NInit:   p.cfg.NInit,
	}
	partition, err := km.Fit(scaled)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to partition rows: %w", err)
	}

	projection, err := cluster.Project2D(scaled)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to project rows: %w", err)
	}

	span.SetAttributes(attribute.Int("kmeans.iterations", partition.Iterations))
	return partition, projection, nil
}

// label asks the labeler for names, substituting generic ones on any failure
func (p *Pipeline) label(ctx context.Context, summaries []models.ClusterSummary) models.ClusterLabels {
	if p.labeler == nil {
		return models.FallbackClusterLabels(p.cfg.K)
	}

	ctx, span := p.tracer.Start(ctx, "pipeline.label")
	defer span.End()

	labels, err := p.labeler.Label(ctx, summaries, p.cfg.K)
	if err != nil {
		log.Warn().Err(err).Msg("cluster labeling failed, using generic labels")
		span.RecordError(err)
		return models.FallbackClusterLabels(p.cfg.K)
	}
	return labels
}

func (p *Pipeline) record(ctx context.Context, datasetPath string, result *models.AugmentedDataset, elapsed time.Duration) {
	if p.recorder == nil {
		return
	}

	run := &models.ClusterRun{
		ID:             uuid.NewString(),
		DatasetPath:    datasetPath,
		K:              result.K,
		Seed:           p.cfg.Seed,
		RawRows:        result.Stats.RawRows,
		RetainedRows:   result.Stats.Retained,
		SkippedRows:    result.Stats.Skipped,
		DroppedRows:    result.Stats.Dropped,
		Inertia:        result.Inertia,
		Iterations:     result.Iterations,
		Labels:         result.Labels,
		Summaries:      result.Summaries,
		FallbackLabels: result.Labels.Fallback,
		PlotPath:       result.PlotPath,
		DurationMs:     elapsed.Milliseconds(),
		CreatedAt:      time.Now().UTC(),
	}
	if err := p.recorder.Create(ctx, run); err != nil {
		log.Error().Err(err).Str("run_id", run.ID).Msg("failed to record cluster run")
	}
}

// summarize computes per-cluster size and mean raw emissions rounded to two decimals
func summarize(raw [][]float64, labels []int, k int) []models.ClusterSummary {
	members := make([][][]float64, k)
	for i, c := range labels {
		members[c] = append(members[c], raw[i])
	}

	summaries := make([]models.ClusterSummary, k)
	for id := 0; id < k; id++ {
		means := make([]float64, len(models.Categories))
		if len(members[id]) > 0 {
			means = stats.ColumnMeans(members[id])
		}
		for j := range means {
			means[j] = stats.RoundTo(means[j], 2)
		}
		summaries[id] = models.ClusterSummary{
			ID:    id,
			Size:  len(members[id]),
			Means: models.EmissionRecordFromFeatures(means),
		}
	}
	return summaries
}

package service

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jengzang/carbon-footprint-backend/internal/models"
	"github.com/jengzang/carbon-footprint-backend/internal/repository"
)

// ErrPlotNotFound is returned when no cluster plot has been rendered yet
var ErrPlotNotFound = errors.New("cluster plot does not exist")

// ErrNoRuns is returned when no cluster run has been recorded yet
var ErrNoRuns = errors.New("no cluster runs recorded")

// RunStore reads cluster run history
type RunStore interface {
	Latest(ctx context.Context) (*models.ClusterRun, error)
	List(ctx context.Context, limit int) ([]*models.ClusterRun, error)
}

// ClusterService exposes the clustering results
type ClusterService struct {
	pipeline    Recomputer
	runs        RunStore
	datasetPath string
	plotPath    string
}

// NewClusterService creates a new cluster service
func NewClusterService(pipeline Recomputer, runs RunStore, datasetPath, plotPath string) *ClusterService {
	return &ClusterService{
		pipeline:    pipeline,
		runs:        runs,
		datasetPath: datasetPath,
		plotPath:    plotPath,
	}
}

// PlotPath returns the path of the latest rendered plot
func (s *ClusterService) PlotPath() (string, error) {
	info, err := os.Stat(s.plotPath)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrPlotNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat cluster plot: %w", err)
	}
	if info.IsDir() {
		return "", ErrPlotNotFound
	}
	return s.plotPath, nil
}

// Latest returns the most recent recorded run
func (s *ClusterService) Latest(ctx context.Context) (*models.ClusterRun, error) {
	run, err := s.runs.Latest(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest cluster run: %w", err)
	}
	return run, nil
}

// Runs lists recorded runs, newest first
func (s *ClusterService) Runs(ctx context.Context, limit int) ([]*models.ClusterRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	runs, err := s.runs.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list cluster runs: %w", err)
	}
	return runs, nil
}

// Recompute reruns the pipeline over the configured dataset
func (s *ClusterService) Recompute(ctx context.Context) (*models.AugmentedDataset, error) {
	return s.pipeline.Recompute(ctx, s.datasetPath)
}

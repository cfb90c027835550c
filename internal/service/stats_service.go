package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jengzang/carbon-footprint-backend/internal/models"
)

// SubmissionCounter aggregates the submission audit table
type SubmissionCounter interface {
	CountByCategory(ctx context.Context) (map[models.Category]int, error)
}

// RunCounter counts recorded cluster runs
type RunCounter interface {
	Count(ctx context.Context) (int, error)
}

// SubmissionStatistics summarizes what has been submitted so far
type SubmissionStatistics struct {
	Submissions int                     `json:"submissions"`
	ByCategory  map[models.Category]int `json:"by_dominant_category"`
	ClusterRuns int                     `json:"cluster_runs"`
	GeneratedAt string                  `json:"generated_at"`
}

// StatsService handles business logic for statistics
type StatsService struct {
	submissions SubmissionCounter
	runs        RunCounter
}

// NewStatsService creates a new stats service
func NewStatsService(submissions SubmissionCounter, runs RunCounter) *StatsService {
	return &StatsService{
		submissions: submissions,
		runs:        runs,
	}
}

// GetSubmissionStatistics counts submissions per dominant category and recorded runs
func (s *StatsService) GetSubmissionStatistics(ctx context.Context) (*SubmissionStatistics, error) {
	counts, err := s.submissions.CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission statistics: %w", err)
	}

	runs, err := s.runs.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission statistics: %w", err)
	}

	stats := &SubmissionStatistics{
		ByCategory:  make(map[models.Category]int, len(models.Categories)),
		ClusterRuns: runs,
		GeneratedAt: time.Now().Format(time.RFC3339),
	}
	// Every category is reported, including those nobody is dominated by
	for _, c := range models.Categories {
		stats.ByCategory[c] = counts[c]
		stats.Submissions += counts[c]
	}
	return stats, nil
}

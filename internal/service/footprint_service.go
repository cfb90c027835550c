package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jengzang/carbon-footprint-backend/internal/analysis"
	"github.com/jengzang/carbon-footprint-backend/internal/dataset"
	"github.com/jengzang/carbon-footprint-backend/internal/emissions"
	"github.com/jengzang/carbon-footprint-backend/internal/models"
)

// Recomputer reruns the clustering pipeline over a dataset file
type Recomputer interface {
	Recompute(ctx context.Context, datasetPath string) (*models.AugmentedDataset, error)
}

// Advisor generates free-text guidance; implementations substitute fallback text on failure
type Advisor interface {
	Suggest(ctx context.Context, rec models.EmissionRecord) string
	ClusterSummary(ctx context.Context, cluster int, labels models.ClusterLabels, k int, rec models.EmissionRecord) string
}

// SubmissionRecorder stores the submission audit log
type SubmissionRecorder interface {
	Create(ctx context.Context, rec *models.SubmissionRecord) error
}

// SubmissionResult is returned to the user after a calculation
type SubmissionResult struct {
	SubmissionID       string                 `json:"submission_id"`
	Emissions          models.EmissionSummary `json:"emissions"`
	HighestContributor models.Category        `json:"highest_contributor"`
	SuggestedAction    string                 `json:"suggested_action"`
	Cluster            *int                   `json:"cluster,omitempty"`
	ClusterLabel       string                 `json:"cluster_label,omitempty"`
	ClusterSummary     string                 `json:"cluster_summary,omitempty"`
}

// EstimateResult is the emissions-only response
type EstimateResult struct {
	Emissions          models.EmissionSummary `json:"emissions"`
	HighestContributor models.Category        `json:"highest_contributor"`
	ActionTip          string                 `json:"action_tip"`
}

// FootprintService handles business logic for carbon footprint submissions
type FootprintService struct {
	store       *dataset.Store
	pipeline    Recomputer
	advisor     Advisor
	submissions SubmissionRecorder
}

// NewFootprintService creates a new footprint service. submissions may be nil.
func NewFootprintService(store *dataset.Store, pipeline Recomputer, advisor Advisor, submissions SubmissionRecorder) *FootprintService {
	return &FootprintService{
		store:       store,
		pipeline:    pipeline,
		advisor:     advisor,
		submissions: submissions,
	}
}

// Estimate computes emissions without persisting anything
func (s *FootprintService) Estimate(sub models.Submission) (*EstimateResult, error) {
	if err := emissions.Validate(sub); err != nil {
		return nil, err
	}

	rec := emissions.Estimate(sub)
	return &EstimateResult{
		Emissions:          rec.Summary(),
		HighestContributor: rec.Dominant(),
		ActionTip:          emissions.ActionTip(rec.Dominant()),
	}, nil
}

// Submit estimates, persists and clusters a submission, then attaches guidance.
//
// The dataset append happens before clustering so the new row is always the
// last retained row of the recompute.
func (s *FootprintService) Submit(ctx context.Context, sub models.Submission) (*SubmissionResult, error) {
	if err := emissions.Validate(sub); err != nil {
		return nil, err
	}

	row := emissions.Row(sub)
	if err := s.store.Append(row); err != nil {
		return nil, fmt.Errorf("failed to save submission: %w", err)
	}

	rec := row.Emissions
	result := &SubmissionResult{
		SubmissionID:       uuid.NewString(),
		Emissions:          rec.Summary(),
		HighestContributor: rec.Dominant(),
	}

	clustered, err := s.pipeline.Recompute(ctx, s.store.Path())
	switch {
	case errors.Is(err, analysis.ErrNoData):
		log.Warn().Str("dataset", s.store.Path()).Msg("no dataset after append, skipping clustering")
	case err != nil:
		return nil, fmt.Errorf("failed to cluster submissions: %w", err)
	default:
		if last, ok := clustered.Last(); ok {
			cluster := last.Cluster
			result.Cluster = &cluster
			result.ClusterLabel = clustered.Labels.Name(cluster)
		}
	}

	result.SuggestedAction = s.advisor.Suggest(ctx, rec)
	if result.Cluster != nil {
		result.ClusterSummary = s.advisor.ClusterSummary(ctx, *result.Cluster, clustered.Labels, clustered.K, rec)
	}

	s.record(ctx, sub, result)
	return result, nil
}

func (s *FootprintService) record(ctx context.Context, sub models.Submission, result *SubmissionResult) {
	if s.submissions == nil {
		return
	}

	entry := &models.SubmissionRecord{
		ID:        result.SubmissionID,
		Input:     sub,
		Total:     result.Emissions.Total,
		Dominant:  result.HighestContributor,
		Cluster:   result.Cluster,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.submissions.Create(ctx, entry); err != nil {
		log.Error().Err(err).Str("submission_id", entry.ID).Msg("failed to record submission")
	}
}

package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jengzang/carbon-footprint-backend/internal/models"
)

// ClusterRunRepository handles database operations for cluster run history
type ClusterRunRepository struct {
	db *sql.DB
}

// NewClusterRunRepository creates a new cluster run repository
func NewClusterRunRepository(db *sql.DB) *ClusterRunRepository {
	return &ClusterRunRepository{db: db}
}

const clusterRunColumns = `
	id, dataset_path, k, seed, raw_rows, retained_rows, skipped_rows,
	dropped_rows, inertia, iterations, labels_json, summaries_json,
	fallback_labels, plot_path, duration_ms, created_at
`

// Create inserts a cluster run
func (r *ClusterRunRepository) Create(ctx context.Context, run *models.ClusterRun) error {
	labelsJSON, err := json.Marshal(run.Labels)
	if err != nil {
		return fmt.Errorf("failed to encode labels: %w", err)
	}
	summariesJSON, err := json.Marshal(run.Summaries)
	if err != nil {
		return fmt.Errorf("failed to encode summaries: %w", err)
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO cluster_runs (` + clusterRunColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		run.ID,
		run.DatasetPath,
		run.K,
		run.Seed,
		run.RawRows,
		run.RetainedRows,
		run.SkippedRows,
		run.DroppedRows,
		run.Inertia,
		run.Iterations,
		string(labelsJSON),
		string(summariesJSON),
		run.FallbackLabels,
		run.PlotPath,
		run.DurationMs,
		run.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to create cluster run: %w", err)
	}
	return nil
}

// GetByID retrieves a cluster run by ID
func (r *ClusterRunRepository) GetByID(ctx context.Context, id string) (*models.ClusterRun, error) {
	query := `SELECT ` + clusterRunColumns + ` FROM cluster_runs WHERE id = ?`
	run, err := scanClusterRun(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return run, nil
}

// Latest retrieves the most recent cluster run
func (r *ClusterRunRepository) Latest(ctx context.Context) (*models.ClusterRun, error) {
	query := `SELECT ` + clusterRunColumns + ` FROM cluster_runs ORDER BY created_at DESC, rowid DESC LIMIT 1`
	return scanClusterRun(r.db.QueryRowContext(ctx, query))
}

// List retrieves the most recent cluster runs, newest first
func (r *ClusterRunRepository) List(ctx context.Context, limit int) ([]*models.ClusterRun, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + clusterRunColumns + ` FROM cluster_runs ORDER BY created_at DESC, rowid DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query cluster runs: %w", err)
	}
	defer rows.Close()

	runs := make([]*models.ClusterRun, 0)
	for rows.Next() {
		run, err := scanClusterRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cluster runs: %w", err)
	}
	return runs, nil
}

// Count returns the number of recorded runs
func (r *ClusterRunRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cluster_runs").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cluster runs: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanClusterRun(row rowScanner) (*models.ClusterRun, error) {
	var (
		run           models.ClusterRun
		labelsJSON    string
		summariesJSON string
		plotPath      sql.NullString
		createdAt     string
	)

	err := row.Scan(
		&run.ID,
		&run.DatasetPath,
		&run.K,
		&run.Seed,
		&run.RawRows,
		&run.RetainedRows,
		&run.SkippedRows,
		&run.DroppedRows,
		&run.Inertia,
		&run.Iterations,
		&labelsJSON,
		&summariesJSON,
		&run.FallbackLabels,
		&plotPath,
		&run.DurationMs,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan cluster run: %w", err)
	}

	if err := json.Unmarshal([]byte(labelsJSON), &run.Labels); err != nil {
		return nil, fmt.Errorf("failed to decode labels of run %s: %w", run.ID, err)
	}
	if err := json.Unmarshal([]byte(summariesJSON), &run.Summaries); err != nil {
		return nil, fmt.Errorf("failed to decode summaries of run %s: %w", run.ID, err)
	}
	run.PlotPath = plotPath.String
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		run.CreatedAt = t
	}

	return &run, nil
}

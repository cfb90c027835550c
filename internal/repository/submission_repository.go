package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jengzang/carbon-footprint-backend/internal/models"
)

// SubmissionRepository stores the audit log of accepted submissions
type SubmissionRepository struct {
	db *sql.DB
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(db *sql.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Create inserts a submission record
func (r *SubmissionRepository) Create(ctx context.Context, rec *models.SubmissionRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	var cluster sql.NullInt64
	if rec.Cluster != nil {
		cluster = sql.NullInt64{Int64: int64(*rec.Cluster), Valid: true}
	}

	query := `
		INSERT INTO submissions (
			id, distance_km, electricity_kwh, meat_meals_per_week, spend_amount,
			total_emission, dominant_category, cluster, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.Input.DistanceKm,
		rec.Input.ElectricityKWh,
		rec.Input.MeatMealsPerWeek,
		rec.Input.SpendAmount,
		rec.Total,
		string(rec.Dominant),
		cluster,
		rec.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

// CountByCategory returns how many submissions each dominant category has
func (r *SubmissionRepository) CountByCategory(ctx context.Context) (map[models.Category]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT dominant_category, COUNT(*)
		FROM submissions
		GROUP BY dominant_category
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count submissions: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Category]int)
	for rows.Next() {
		var (
			category string
			n        int
		)
		if err := rows.Scan(&category, &n); err != nil {
			return nil, fmt.Errorf("failed to scan submission count: %w", err)
		}
		counts[models.Category(category)] = n
	}
	return counts, rows.Err()
}

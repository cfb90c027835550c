package models

import "time"

// Submission is one household's monthly lifestyle input
type Submission struct {
	DistanceKm       float64 `json:"km" yaml:"km"`                 // km travelled by car this month
	ElectricityKWh   float64 `json:"kwh" yaml:"kwh"`               // electricity used this month
	MeatMealsPerWeek int     `json:"meat_meals" yaml:"meat_meals"` // meat-based meals per week
	SpendAmount      float64 `json:"inr" yaml:"inr"`               // currency spent on clothes/shopping
}

// DatasetRow is one persisted dataset line: the raw inputs plus the emissions derived from them
type DatasetRow struct {
	Submission
	Emissions EmissionRecord `json:"emissions"`

	// InputsValid is false when the raw input columns of a persisted line could
	// not be parsed. Such rows are still clustered since only emissions are features.
	InputsValid bool `json:"inputs_valid"`
}

// LoadStats describes how many dataset lines survived cleaning
type LoadStats struct {
	RawRows  int `json:"raw_rows"` // data lines read, header excluded
	Skipped  int `json:"skipped"`  // malformed line shape
	Dropped  int `json:"dropped"`  // missing or unparseable emission fields
	Retained int `json:"retained"`
}

// SubmissionRecord is the audit entry stored for each accepted submission
type SubmissionRecord struct {
	ID       string     `json:"id" db:"id"`
	Input    Submission `json:"input"`
	Total    float64    `json:"total" db:"total_emission"`
	Dominant Category   `json:"dominant" db:"dominant_category"`
	Cluster  *int       `json:"cluster,omitempty" db:"cluster"` // nil when clustering was unavailable

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

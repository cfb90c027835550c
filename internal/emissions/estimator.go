// Package emissions estimates monthly household carbon emissions from four
// lifestyle inputs using fixed linear emission factors.
package emissions

import (
	"fmt"
	"math"

	"github.com/jengzang/carbon-footprint-backend/internal/models"
)

// Estimate maps a submission to its per-category monthly emissions.
//
// It does not validate its input; callers reject negative or non-finite
// values with Validate first. Identical input always yields identical output.
func Estimate(s models.Submission) models.EmissionRecord {
	return models.EmissionRecord{
		Transport:   s.DistanceKm * TransportFactor,
		Electricity: s.ElectricityKWh * ElectricityFactor,
		Food:        float64(s.MeatMealsPerWeek) * WeeksPerMonth * MeatMealFactor,
		Shopping:    s.SpendAmount * ShoppingFactor,
	}
}

// Validate checks that every input is finite and non-negative.
// The returned error wraps ErrNegativeInput or ErrNonFiniteInput and names the field.
func Validate(s models.Submission) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"km", s.DistanceKm},
		{"kwh", s.ElectricityKWh},
		{"meat_meals", float64(s.MeatMealsPerWeek)},
		{"inr", s.SpendAmount},
	}

	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%s: %w", f.name, ErrNonFiniteInput)
		}
		if f.value < 0 {
			return fmt.Errorf("%s: %w", f.name, ErrNegativeInput)
		}
	}
	return nil
}

// Row builds the dataset row persisted for a submission
func Row(s models.Submission) models.DatasetRow {
	return models.DatasetRow{
		Submission:  s,
		Emissions:   Estimate(s),
		InputsValid: true,
	}
}

package emissions

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/carbon-footprint-backend/internal/models"
)

func TestEstimate(t *testing.T) {
	tests := []struct {
		name         string
		input        models.Submission
		want         models.EmissionRecord
		wantTotal    float64
		wantDominant models.Category
	}{
		{
			name:         "reference household",
			input:        models.Submission{DistanceKm: 100, ElectricityKWh: 200, MeatMealsPerWeek: 5, SpendAmount: 1000},
			want:         models.EmissionRecord{Transport: 21, Electricity: 170, Food: 50, Shopping: 20},
			wantTotal:    261,
			wantDominant: models.CategoryElectricity,
		},
		{
			name:         "all zero resolves to first category",
			input:        models.Submission{},
			want:         models.EmissionRecord{},
			wantTotal:    0,
			wantDominant: models.CategoryTransport,
		},
		{
			name:         "heavy driver",
			input:        models.Submission{DistanceKm: 2000, ElectricityKWh: 10, MeatMealsPerWeek: 1, SpendAmount: 50},
			want:         models.EmissionRecord{Transport: 420, Electricity: 8.5, Food: 10, Shopping: 1},
			wantTotal:    439.5,
			wantDominant: models.CategoryTransport,
		},
		{
			name:         "shopping only",
			input:        models.Submission{SpendAmount: 500},
			want:         models.EmissionRecord{Shopping: 10},
			wantTotal:    10,
			wantDominant: models.CategoryShopping,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Estimate(tt.input)

			assert.InDelta(t, tt.want.Transport, got.Transport, 1e-9)
			assert.InDelta(t, tt.want.Electricity, got.Electricity, 1e-9)
			assert.InDelta(t, tt.want.Food, got.Food, 1e-9)
			assert.InDelta(t, tt.want.Shopping, got.Shopping, 1e-9)
			assert.InDelta(t, tt.wantTotal, got.Total(), 1e-9)
			assert.Equal(t, tt.wantDominant, got.Dominant())
		})
	}
}

func TestEstimate_TotalIsSumOfCategories(t *testing.T) {
	inputs := []models.Submission{
		{DistanceKm: 12.5, ElectricityKWh: 310.2, MeatMealsPerWeek: 7, SpendAmount: 4300},
		{DistanceKm: 0.1, ElectricityKWh: 0.3, MeatMealsPerWeek: 0, SpendAmount: 0.7},
		{DistanceKm: 1e6, ElectricityKWh: 1e5, MeatMealsPerWeek: 21, SpendAmount: 1e7},
	}

	for _, in := range inputs {
		got := Estimate(in)
		sum := got.Transport + got.Electricity + got.Food + got.Shopping
		assert.InDelta(t, sum, got.Total(), 1e-9)
		assert.InDelta(t, got.Total(), got.Summary().Total, 1e-9)
	}
}

func TestEstimate_Deterministic(t *testing.T) {
	in := models.Submission{DistanceKm: 33.3, ElectricityKWh: 123.4, MeatMealsPerWeek: 3, SpendAmount: 999.9}
	assert.Equal(t, Estimate(in), Estimate(in))
}

func TestDominant_TieBreaksByDeclaredOrder(t *testing.T) {
	tests := []struct {
		name   string
		record models.EmissionRecord
		want   models.Category
	}{
		{"transport ties electricity", models.EmissionRecord{Transport: 50, Electricity: 50, Food: 10}, models.CategoryTransport},
		{"electricity ties food", models.EmissionRecord{Electricity: 50, Food: 50}, models.CategoryElectricity},
		{"food ties shopping", models.EmissionRecord{Food: 7, Shopping: 7, Transport: 1}, models.CategoryFood},
		{"strict max wins", models.EmissionRecord{Transport: 1, Electricity: 2, Food: 3, Shopping: 4}, models.CategoryShopping},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.record.Dominant()
			assert.Equal(t, tt.want, got)
			assert.Contains(t, models.Categories, got)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   models.Submission
		wantErr error
	}{
		{"valid", models.Submission{DistanceKm: 1, ElectricityKWh: 2, MeatMealsPerWeek: 3, SpendAmount: 4}, nil},
		{"zero is valid", models.Submission{}, nil},
		{"negative km", models.Submission{DistanceKm: -1}, ErrNegativeInput},
		{"negative meals", models.Submission{MeatMealsPerWeek: -2}, ErrNegativeInput},
		{"nan kwh", models.Submission{ElectricityKWh: math.NaN()}, ErrNonFiniteInput},
		{"infinite spend", models.Submission{SpendAmount: math.Inf(1)}, ErrNonFiniteInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.input)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestActionTip(t *testing.T) {
	for _, c := range models.Categories {
		assert.NotEmpty(t, ActionTip(c))
	}
	assert.Contains(t, ActionTip(models.CategoryFood), "plant-based")
}

package models

// Category is an emission category
type Category string

// Emission categories in declared order. The order is the tie-break for the dominant category.
const (
	CategoryTransport   Category = "Transport"
	CategoryElectricity Category = "Electricity"
	CategoryFood        Category = "Food"
	CategoryShopping    Category = "Shopping"
)

// Categories lists every real emission category in declared order
var Categories = []Category{
	CategoryTransport,
	CategoryElectricity,
	CategoryFood,
	CategoryShopping,
}

// EmissionRecord holds monthly kg CO2 per category
type EmissionRecord struct {
	Transport   float64 `json:"Transport"`
	Electricity float64 `json:"Electricity"`
	Food        float64 `json:"Food"`
	Shopping    float64 `json:"Shopping"`
}

// EmissionSummary is an EmissionRecord with its total, as returned to clients
type EmissionSummary struct {
	EmissionRecord
	Total float64 `json:"Total"`
}

// Total returns the sum of the four categories
func (e EmissionRecord) Total() float64 {
	return e.Transport + e.Electricity + e.Food + e.Shopping
}

// Value returns the emission of a single category
func (e EmissionRecord) Value(c Category) float64 {
	switch c {
	case CategoryTransport:
		return e.Transport
	case CategoryElectricity:
		return e.Electricity
	case CategoryFood:
		return e.Food
	case CategoryShopping:
		return e.Shopping
	}
	return 0
}

// Features returns the clustering feature vector in declared category order
func (e EmissionRecord) Features() []float64 {
	return []float64{e.Transport, e.Electricity, e.Food, e.Shopping}
}

// Dominant returns the category with the highest emission.
// Ties resolve to the first category in declared order; the total is never a candidate.
func (e EmissionRecord) Dominant() Category {
	best := CategoryTransport
	bestValue := -1.0
	for _, c := range Categories {
		if v := e.Value(c); v > bestValue {
			best = c
			bestValue = v
		}
	}
	return best
}

// Summary returns the record together with its total
func (e EmissionRecord) Summary() EmissionSummary {
	return EmissionSummary{EmissionRecord: e, Total: e.Total()}
}

// EmissionRecordFromFeatures is the inverse of Features
func EmissionRecordFromFeatures(f []float64) EmissionRecord {
	var e EmissionRecord
	if len(f) >= 4 {
		e = EmissionRecord{Transport: f[0], Electricity: f[1], Food: f[2], Shopping: f[3]}
	}
	return e
}

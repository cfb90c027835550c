package emissions

import "github.com/jengzang/carbon-footprint-backend/internal/models"

var actionTips = map[models.Category]string{
	models.CategoryTransport:   "Try carpooling, cycling, or public transport more often.",
	models.CategoryElectricity: "Switch to energy-efficient appliances and turn off unused devices.",
	models.CategoryFood:        "Reduce meat consumption; try plant-based meals once a day.",
	models.CategoryShopping:    "Buy less, choose eco-friendly brands, or thrift.",
}

// ActionTip returns a short static action plan for the given category.
// Used when no generated suggestion is available.
func ActionTip(c models.Category) string {
	if tip, ok := actionTips[c]; ok {
		return tip
	}
	return "Review your highest-impact habits and cut back where you can."
}

package emissions

// Emission factors in kg CO2 per unit of monthly activity.
const (
	// TransportFactor is kg CO2 per km driven.
	TransportFactor = 0.21

	// ElectricityFactor is kg CO2 per kWh consumed.
	ElectricityFactor = 0.85

	// MeatMealFactor is kg CO2 per meat-based meal.
	MeatMealFactor = 2.5

	// WeeksPerMonth converts weekly meal counts to a monthly figure.
	WeeksPerMonth = 4

	// ShoppingFactor is kg CO2 per currency unit spent on clothes and shopping.
	ShoppingFactor = 0.02
)

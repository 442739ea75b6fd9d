// internal/matching/budget.go
package matching

import (
	"math"

	"vendor-matching-workers/internal/models"
)

// baseAllocation is each category's share of the total budget, in percent.
var baseAllocation = map[models.Category]float64{
	models.CategoryVenue:        30,
	models.CategoryCaterer:      25,
	models.CategoryPhotographer: 10,
	models.CategoryVideographer: 8,
	models.CategoryMusic:        5,
	models.CategoryDecorator:    8,
	models.CategoryFlorist:      5,
	models.CategoryMakeup:       3,
	models.CategoryTransport:    3,
	models.CategoryClothing:     3,
}

const defaultAllocation = 5.0

// ComputeCategoryBudget returns the spending ceiling for one category:
// total × base share × priority multiplier, rounded to the nearest unit.
func ComputeCategoryBudget(totalBudget float64, category models.Category, priorities map[models.Category]models.Priority) float64 {
	if totalBudget <= 0 || math.IsNaN(totalBudget) || math.IsInf(totalBudget, 0) {
		return 0
	}

	share, ok := baseAllocation[category]
	if !ok {
		share = defaultAllocation
	}

	priority := models.PriorityMedium
	if p, ok := priorities[category]; ok {
		priority = p
	}

	return math.Round(totalBudget * share / 100 * priority.Multiplier())
}

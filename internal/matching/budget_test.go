package matching

import (
	"math"
	"testing"

	"vendor-matching-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestComputeCategoryBudget(t *testing.T) {
	tests := []struct {
		name       string
		total      float64
		category   models.Category
		priorities map[models.Category]models.Priority
		want       float64
	}{
		{"high priority venue", 100_000_000, models.CategoryVenue, map[models.Category]models.Priority{models.CategoryVenue: models.PriorityHigh}, 45_000_000},
		{"caterer defaults to medium", 1_000_000, models.CategoryCaterer, nil, 250_000},
		{"low priority photographer", 1_000_000, models.CategoryPhotographer, map[models.Category]models.Priority{models.CategoryPhotographer: models.PriorityLow}, 70_000},
		{"category without allocation uses default share", 1_000_000, models.CategoryOther, nil, 50_000},
		{"priority of another category is ignored", 1_000_000, models.CategoryMusic, map[models.Category]models.Priority{models.CategoryVenue: models.PriorityHigh}, 50_000},
		{"unknown priority counts as medium", 1_000_000, models.CategoryMakeup, map[models.Category]models.Priority{models.CategoryMakeup: "urgent"}, 30_000},
		{"rounded to nearest unit", 333, models.CategoryVideographer, nil, 27},
		{"zero total", 0, models.CategoryVenue, nil, 0},
		{"negative total", -500, models.CategoryVenue, nil, 0},
		{"NaN total", math.NaN(), models.CategoryVenue, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeCategoryBudget(tt.total, tt.category, tt.priorities))
		})
	}
}

func TestComputeCategoryBudgetMonotonicInPriority(t *testing.T) {
	for _, c := range models.AllCategories {
		low := ComputeCategoryBudget(1_000_000, c, map[models.Category]models.Priority{c: models.PriorityLow})
		medium := ComputeCategoryBudget(1_000_000, c, nil)
		high := ComputeCategoryBudget(1_000_000, c, map[models.Category]models.Priority{c: models.PriorityHigh})

		assert.Less(t, low, medium, c)
		assert.Less(t, medium, high, c)
	}
}

// internal/workers/matching/compute-category-budget/models.go
package computecategorybudget

import "vendor-matching-workers/internal/models"

type Input struct {
	TotalBudget float64                             `json:"totalBudget"`
	Category    string                              `json:"category"`
	Priorities  map[models.Category]models.Priority `json:"priorities,omitempty"`
}

type Output struct {
	Category       models.Category `json:"category"`
	Priority       models.Priority `json:"priority"`
	CategoryBudget float64         `json:"categoryBudget"`
}

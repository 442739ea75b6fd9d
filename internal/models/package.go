// internal/models/package.go
package models

// OptimizationMode selects how the package optimizer orders candidates.
type OptimizationMode string

const (
	OptimizeCost     OptimizationMode = "cost"
	OptimizeBalanced OptimizationMode = "balanced"
	OptimizeQuality  OptimizationMode = "quality"
)

func (m OptimizationMode) Valid() bool {
	switch m {
	case OptimizeCost, OptimizeBalanced, OptimizeQuality:
		return true
	}
	return false
}

type PackageConfig struct {
	RequiredCategories []Category       `json:"requiredCategories"`
	OptionalCategories []Category       `json:"optionalCategories,omitempty"`
	MaxBudget          float64          `json:"maxBudget"`
	MinMatchScore      int              `json:"minMatchScore,omitempty"`
	OptimizationMode   OptimizationMode `json:"optimizationMode,omitempty"`
	Requirements       WeddingRequest   `json:"requirements"`
}

type PackageItem struct {
	Category       Category `json:"category"`
	VendorID       string   `json:"vendorId"`
	VendorName     string   `json:"vendorName,omitempty"`
	PackageName    string   `json:"packageName,omitempty"`
	EstimatedPrice float64  `json:"estimatedPrice"`
	MatchScore     int      `json:"matchScore"`
	Optional       bool     `json:"optional"`
	PriceUnknown   bool     `json:"priceUnknown,omitempty"`
}

type PackageResult struct {
	ID                string        `json:"id"`
	Success           bool          `json:"success"`
	Items             []PackageItem `json:"items"`
	TotalPrice        float64       `json:"totalPrice"`
	AverageMatchScore float64       `json:"averageMatchScore"`
	BudgetUsedPercent float64       `json:"budgetUsedPercent"`
	Warnings          []string      `json:"warnings"`
	Suggestions       []string      `json:"suggestions"`
}

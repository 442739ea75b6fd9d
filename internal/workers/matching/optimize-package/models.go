// internal/workers/matching/optimize-package/models.go
package optimizepackage

import "vendor-matching-workers/internal/models"

type Input struct {
	RequiredCategories []string              `json:"requiredCategories"`
	OptionalCategories []string              `json:"optionalCategories,omitempty"`
	MaxBudget          float64               `json:"maxBudget"`
	MinMatchScore      int                   `json:"minMatchScore,omitempty"`
	OptimizationMode   string                `json:"optimizationMode,omitempty"`
	Requirements       models.WeddingRequest `json:"requirements"`
}

// Output exposes the package plus a flat completion flag for gateways.
type Output struct {
	Package         *models.PackageResult `json:"package"`
	PackageComplete bool                  `json:"packageComplete"`
}

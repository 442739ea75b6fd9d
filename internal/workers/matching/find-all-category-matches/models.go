// internal/workers/matching/find-all-category-matches/models.go
package findallcategorymatches

import "vendor-matching-workers/internal/models"

type Input struct {
	WeddingRequestID string `json:"weddingRequestId"`
}

type Output struct {
	WeddingRequestID string                                         `json:"weddingRequestId"`
	Matches          map[models.Category][]models.VendorMatchResult `json:"matches"`
	Categories       []models.Category                              `json:"categories"`
	TotalMatches     int                                            `json:"totalMatches"`
	EmptyCategories  []models.Category                              `json:"emptyCategories"`
}

// internal/workers/matching/get-cached-recommendations/models.go
package getcachedrecommendations

import "vendor-matching-workers/internal/models"

// Input reads one category, or every category when Category is empty.
type Input struct {
	WeddingRequestID string `json:"weddingRequestId"`
	Category         string `json:"category,omitempty"`
}

type Output struct {
	WeddingRequestID string                     `json:"weddingRequestId"`
	Category         *models.Category           `json:"category,omitempty"`
	Recommendations  []models.VendorMatchResult `json:"recommendations"`
	Count            int                        `json:"count"`
	CacheHit         bool                       `json:"cacheHit"`
}

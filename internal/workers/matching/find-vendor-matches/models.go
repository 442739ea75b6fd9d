// internal/workers/matching/find-vendor-matches/models.go
package findvendormatches

import "vendor-matching-workers/internal/models"

// Input carries either an inline wedding request or the id of a stored one.
// When both are given the inline request is used and results are cached
// under the id.
type Input struct {
	WeddingRequestID  string                 `json:"weddingRequestId,omitempty"`
	WeddingRequest    *models.WeddingRequest `json:"weddingRequest,omitempty"`
	Category          string                 `json:"category"`
	Preferences       *models.Preferences    `json:"preferences,omitempty"`
	VendorIDs         []string               `json:"vendorIds,omitempty"`
	Limit             int                    `json:"limit,omitempty"`
	MinScore          *int                   `json:"minScore,omitempty"`
	BudgetFlexibility *float64               `json:"budgetFlexibility,omitempty"`
	IncludeExcluded   bool                   `json:"includeExcluded,omitempty"`
	SkipCache         bool                   `json:"skipCache,omitempty"`
}

type Output struct {
	Category   models.Category            `json:"category"`
	Matches    []models.VendorMatchResult `json:"matches"`
	MatchCount int                        `json:"matchCount"`
	TopMatch   *models.VendorMatchResult  `json:"topMatch,omitempty"`
}

// internal/models/match.go
package models

import "time"

// ExclusionTag names the hard constraint that removed a vendor.
type ExclusionTag string

const (
	ExclusionUnavailable      ExclusionTag = "unavailable"
	ExclusionCapacityExceeded ExclusionTag = "capacity_exceeded"
	ExclusionMinGuestsNotMet  ExclusionTag = "min_guests_not_met"
	ExclusionBudgetExceeded   ExclusionTag = "budget_exceeded"
	ExclusionLocationMismatch ExclusionTag = "location_mismatch"
)

type ExclusionReason struct {
	Tag           ExclusionTag `json:"tag"`
	Description   string       `json:"description"`
	VendorValue   interface{}  `json:"vendorValue,omitempty"`
	RequiredValue interface{}  `json:"requiredValue,omitempty"`
}

// ReasonCategory groups match reasons for display.
type ReasonCategory string

const (
	ReasonStyle        ReasonCategory = "style"
	ReasonRating       ReasonCategory = "rating"
	ReasonBudget       ReasonCategory = "budget"
	ReasonLocation     ReasonCategory = "location"
	ReasonFeature      ReasonCategory = "feature"
	ReasonVerification ReasonCategory = "verification"
)

type MatchReason struct {
	Category    ReasonCategory `json:"category"`
	Score       int            `json:"score"`
	Description string         `json:"description"`
}

type ScoreBreakdown struct {
	Base             int `json:"base"`
	Style            int `json:"style"`
	Rating           int `json:"rating"`
	Budget           int `json:"budget"`
	Location         int `json:"location"`
	Verification     int `json:"verification"`
	Experience       int `json:"experience"`
	Packages         int `json:"packages"`
	Terms            int `json:"terms"`
	CategorySpecific int `json:"categorySpecific"`
}

// Total is the unclamped sum of every sub-score.
func (b ScoreBreakdown) Total() int {
	return b.Base + b.Style + b.Rating + b.Budget + b.Location +
		b.Verification + b.Experience + b.Packages + b.Terms + b.CategorySpecific
}

type VendorMatchResult struct {
	VendorID        string           `json:"vendorId"`
	VendorName      string           `json:"vendorName,omitempty"`
	Category        Category         `json:"category"`
	MatchScore      int              `json:"matchScore"`
	Reasons         []MatchReason    `json:"reasons"`
	EstimatedPrice  float64          `json:"estimatedPrice"`
	Available       bool             `json:"available"`
	Excluded        bool             `json:"excluded"`
	ExclusionReason *ExclusionReason `json:"exclusionReason,omitempty"`
	Breakdown       *ScoreBreakdown  `json:"breakdown,omitempty"`
}

// CachedRecommendations is one cache entry per (wedding, category).
type CachedRecommendations struct {
	WeddingRequestID string              `json:"weddingRequestId"`
	Category         Category            `json:"category"`
	Results          []VendorMatchResult `json:"results"`
	CreatedAt        time.Time           `json:"createdAt"`
	ExpiresAt        time.Time           `json:"expiresAt"`
}

// Expired reports whether the entry is no longer valid at now.
func (c *CachedRecommendations) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

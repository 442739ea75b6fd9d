// internal/matching/store.go
package matching

import (
	"context"
	"time"

	"vendor-matching-workers/internal/models"
)

// Catalog reads vendor records.
type Catalog interface {
	VendorsByCategory(ctx context.Context, category models.Category) ([]models.Vendor, error)
	VendorsByIDs(ctx context.Context, ids []string) ([]models.Vendor, error)
}

// AvailabilityStore returns the subset of vendorIDs marked unavailable on date.
type AvailabilityStore interface {
	UnavailableVendors(ctx context.Context, vendorIDs []string, date time.Time) (map[string]bool, error)
}

// WeddingStore loads persisted wedding requests. A missing request is
// reported as ErrWeddingNotFound.
type WeddingStore interface {
	GetWeddingRequest(ctx context.Context, id string) (*models.WeddingRequest, error)
}

// RecommendationCache persists ranked results per (wedding, category).
// Put replaces any existing entry atomically. Get skips absent entries.
type RecommendationCache interface {
	Put(ctx context.Context, entry models.CachedRecommendations) error
	Get(ctx context.Context, weddingID string, categories []models.Category) ([]models.CachedRecommendations, error)
}

// internal/matching/availability.go
package matching

import (
	"context"
	"time"
)

// AvailabilityResolver flags vendors booked on the wedding date with a single
// batched lookup per request.
type AvailabilityResolver struct {
	store AvailabilityStore
}

func NewAvailabilityResolver(store AvailabilityStore) *AvailabilityResolver {
	return &AvailabilityResolver{store: store}
}

// Resolve maps every vendor id to its availability. Without a date every
// vendor is available and storage is not touched. Storage errors are returned
// unchanged; availability is never assumed on failure.
func (r *AvailabilityResolver) Resolve(ctx context.Context, vendorIDs []string, date *time.Time) (map[string]bool, error) {
	available := make(map[string]bool, len(vendorIDs))
	for _, id := range vendorIDs {
		available[id] = true
	}

	if date == nil || len(vendorIDs) == 0 {
		return available, nil
	}

	unavailable, err := r.store.UnavailableVendors(ctx, vendorIDs, *date)
	if err != nil {
		return nil, err
	}

	for id := range unavailable {
		if _, ok := available[id]; ok {
			available[id] = false
		}
	}
	return available, nil
}

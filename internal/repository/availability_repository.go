// internal/repository/availability_repository.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"vendor-matching-workers/internal/matching"

	"github.com/lib/pq"
)

var _ matching.AvailabilityStore = (*AvailabilityRepository)(nil)

// AvailabilityRepository reads the vendor_availability calendar. A vendor is
// unavailable when it has an is_available = false row for the date.
type AvailabilityRepository struct {
	db *sql.DB
}

func NewAvailabilityRepository(db *sql.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// UnavailableVendors resolves the whole id set with one query.
func (r *AvailabilityRepository) UnavailableVendors(ctx context.Context, vendorIDs []string, date time.Time) (map[string]bool, error) {
	unavailable := make(map[string]bool)
	if len(vendorIDs) == 0 {
		return unavailable, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT vendor_id
		FROM vendor_availability
		WHERE vendor_id = ANY($1) AND available_date = $2 AND is_available = false`,
		pq.Array(vendorIDs), date.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("query availability: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrScanFailed, err)
		}
		unavailable[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate availability: %w", err)
	}

	return unavailable, nil
}

// internal/repository/vendor_repository.go
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"vendor-matching-workers/internal/matching"
	"vendor-matching-workers/internal/models"

	"github.com/lib/pq"
)

var (
	ErrScanFailed   = errors.New("scan failed")
	ErrDecodeFailed = errors.New("decode failed")
)

const vendorColumns = `id, name, category, starting_price, min_guests, max_guests,
	location, service_areas, styles, rating, review_count, verified, experience_years,
	packages, bonuses, additional_services, deposit_percent, has_cancellation_policy,
	delivery_days, attributes`

var _ matching.Catalog = (*VendorRepository)(nil)

// VendorRepository reads the vendor catalog from Postgres. Rows come back in
// id order so ties in the ranking are stable across runs.
type VendorRepository struct {
	db *sql.DB
}

func NewVendorRepository(db *sql.DB) *VendorRepository {
	return &VendorRepository{db: db}
}

func (r *VendorRepository) VendorsByCategory(ctx context.Context, category models.Category) ([]models.Vendor, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+vendorColumns+`
		FROM vendors
		WHERE category = $1 AND is_active = true
		ORDER BY id`, string(category))
	if err != nil {
		return nil, fmt.Errorf("query vendors by category %s: %w", category, err)
	}
	defer rows.Close()

	return scanVendors(rows)
}

func (r *VendorRepository) VendorsByIDs(ctx context.Context, ids []string) ([]models.Vendor, error) {
	if len(ids) == 0 {
		return []models.Vendor{}, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+vendorColumns+`
		FROM vendors
		WHERE id = ANY($1) AND is_active = true
		ORDER BY id`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("query vendors by ids: %w", err)
	}
	defer rows.Close()

	return scanVendors(rows)
}

func scanVendors(rows *sql.Rows) ([]models.Vendor, error) {
	vendors := []models.Vendor{}
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		vendors = append(vendors, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vendors: %w", err)
	}
	return vendors, nil
}

func scanVendor(rows *sql.Rows) (models.Vendor, error) {
	var (
		v                                  models.Vendor
		category                           string
		startingPrice, rating, deposit     sql.NullFloat64
		minGuests, maxGuests, deliveryDays sql.NullInt64
		location                           sql.NullString
		serviceAreas, styles               []string
		bonuses, additionalServices        []string
		packagesJSON, attributesJSON       []byte
	)

	err := rows.Scan(
		&v.ID, &v.Name, &category, &startingPrice, &minGuests, &maxGuests,
		&location, pq.Array(&serviceAreas), pq.Array(&styles), &rating, &v.ReviewCount,
		&v.Verified, &v.ExperienceYears,
		&packagesJSON, pq.Array(&bonuses), pq.Array(&additionalServices), &deposit,
		&v.HasCancellationPolicy, &deliveryDays, &attributesJSON,
	)
	if err != nil {
		return v, fmt.Errorf("%w: %v", ErrScanFailed, err)
	}

	v.Category = models.Category(category)
	v.StartingPrice = nullFloat(startingPrice)
	v.Rating = nullFloat(rating)
	v.DepositPercent = nullFloat(deposit)
	v.MinGuests = nullInt(minGuests)
	v.MaxGuests = nullInt(maxGuests)
	v.DeliveryDays = nullInt(deliveryDays)
	v.Location = location.String
	v.ServiceAreas = serviceAreas
	v.Styles = styles
	v.Bonuses = bonuses
	v.AdditionalServices = additionalServices

	if len(packagesJSON) > 0 {
		if err := json.Unmarshal(packagesJSON, &v.Packages); err != nil {
			return v, fmt.Errorf("%w: packages of vendor %s: %v", ErrDecodeFailed, v.ID, err)
		}
	}

	attrs, err := models.DecodeAttributes(v.Category, attributesJSON)
	if err != nil {
		return v, fmt.Errorf("%w: attributes of vendor %s: %v", ErrDecodeFailed, v.ID, err)
	}
	v.Attributes = attrs

	return v, nil
}

func nullFloat(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	f := n.Float64
	return &f
}

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	i := int(n.Int64)
	return &i
}

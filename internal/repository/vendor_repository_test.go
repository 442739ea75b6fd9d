package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"vendor-matching-workers/internal/matching"
	"vendor-matching-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var vendorColumnNames = []string{
	"id", "name", "category", "starting_price", "min_guests", "max_guests",
	"location", "service_areas", "styles", "rating", "review_count", "verified", "experience_years",
	"packages", "bonuses", "additional_services", "deposit_percent", "has_cancellation_policy",
	"delivery_days", "attributes",
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	}
}

// ==========================
// VendorRepository
// ==========================

func TestVendorRepository_VendorsByCategory(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()

	rows := sqlmock.NewRows(vendorColumnNames).
		AddRow(
			"venue-1", "Lake Palace", "venue", 450000.0, 100, 600,
			"Udaipur", "{Udaipur,Jaipur}", "{royal,heritage}", 4.8, 212, true, 12,
			[]byte(`[{"name":"Royal","price":450000,"includes":["lawn","rooms"]}]`),
			"{drinks,fireworks}", "{decor}", 30.0, true,
			nil, []byte(`{"capacityMax":600,"venueType":"palace","hasParking":true}`),
		).
		AddRow(
			"venue-2", "City Hall", "venue", nil, nil, nil,
			nil, "{}", "{}", nil, 0, false, 0,
			nil, "{}", "{}", nil, false,
			nil, nil,
		)
	mock.ExpectQuery(`SELECT (.+) FROM vendors WHERE category = \$1 AND is_active = true ORDER BY id`).
		WithArgs("venue").
		WillReturnRows(rows)

	vendors, err := NewVendorRepository(db).VendorsByCategory(context.Background(), models.CategoryVenue)

	require.NoError(t, err)
	require.Len(t, vendors, 2)

	v := vendors[0]
	assert.Equal(t, "venue-1", v.ID)
	assert.Equal(t, models.CategoryVenue, v.Category)
	require.NotNil(t, v.StartingPrice)
	assert.Equal(t, 450000.0, *v.StartingPrice)
	require.NotNil(t, v.MaxGuests)
	assert.Equal(t, 600, *v.MaxGuests)
	assert.Equal(t, []string{"Udaipur", "Jaipur"}, v.ServiceAreas)
	assert.Equal(t, []string{"royal", "heritage"}, v.Styles)
	assert.Equal(t, 212, v.ReviewCount)
	assert.True(t, v.Verified)
	require.Len(t, v.Packages, 1)
	assert.Equal(t, "Royal", v.Packages[0].Name)
	assert.Nil(t, v.DeliveryDays)

	attrs, ok := v.Attributes.(*models.VenueAttributes)
	require.True(t, ok)
	assert.Equal(t, "palace", attrs.VenueType)
	assert.True(t, attrs.HasParking)

	empty := vendors[1]
	assert.Nil(t, empty.StartingPrice)
	assert.Nil(t, empty.Rating)
	assert.Nil(t, empty.MaxGuests)
	assert.Empty(t, empty.Location)
	assert.Nil(t, empty.Attributes)
	assert.Zero(t, empty.EstimatedPrice())
}

func TestVendorRepository_VendorsByIDs(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()

	ids := []string{"photo-1", "photo-2"}
	rows := sqlmock.NewRows(vendorColumnNames).AddRow(
		"photo-1", "Candid Co", "photographer", 80000.0, nil, nil,
		"Mumbai", "{}", "{candid}", 4.5, 30, false, 4,
		nil, "{}", "{}", nil, false,
		7, []byte(`{"style":"candid","drone":true}`),
	)
	mock.ExpectQuery(`SELECT (.+) FROM vendors WHERE id = ANY\(\$1\)`).
		WithArgs(pq.Array(ids)).
		WillReturnRows(rows)

	vendors, err := NewVendorRepository(db).VendorsByIDs(context.Background(), ids)

	require.NoError(t, err)
	require.Len(t, vendors, 1)
	require.NotNil(t, vendors[0].DeliveryDays)
	assert.Equal(t, 7, *vendors[0].DeliveryDays)
	media, ok := vendors[0].Attributes.(*models.MediaAttributes)
	require.True(t, ok)
	assert.True(t, media.Drone)
}

func TestVendorRepository_VendorsByIDsEmpty(t *testing.T) {
	db, _, done := newMockDB(t)
	defer done()

	vendors, err := NewVendorRepository(db).VendorsByIDs(context.Background(), nil)

	require.NoError(t, err)
	assert.NotNil(t, vendors)
	assert.Empty(t, vendors)
}

func TestVendorRepository_Errors(t *testing.T) {
	t.Run("query failure", func(t *testing.T) {
		db, mock, done := newMockDB(t)
		defer done()

		mock.ExpectQuery(`SELECT (.+) FROM vendors`).
			WithArgs("caterer").
			WillReturnError(errors.New("connection refused"))

		_, err := NewVendorRepository(db).VendorsByCategory(context.Background(), models.CategoryCaterer)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("corrupt packages", func(t *testing.T) {
		db, mock, done := newMockDB(t)
		defer done()

		rows := sqlmock.NewRows(vendorColumnNames).AddRow(
			"c-1", "Feast", "caterer", nil, nil, nil,
			nil, "{}", "{}", nil, 0, false, 0,
			[]byte(`{not json`), "{}", "{}", nil, false,
			nil, nil,
		)
		mock.ExpectQuery(`SELECT (.+) FROM vendors`).WithArgs("caterer").WillReturnRows(rows)

		_, err := NewVendorRepository(db).VendorsByCategory(context.Background(), models.CategoryCaterer)

		assert.ErrorIs(t, err, ErrDecodeFailed)
	})
}

// ==========================
// AvailabilityRepository
// ==========================

func TestAvailabilityRepository_UnavailableVendors(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()

	ids := []string{"a", "b", "c"}
	date := time.Date(2026, 12, 5, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT DISTINCT vendor_id FROM vendor_availability WHERE vendor_id = ANY\(\$1\) AND available_date = \$2 AND is_available = false`).
		WithArgs(pq.Array(ids), "2026-12-05").
		WillReturnRows(sqlmock.NewRows([]string{"vendor_id"}).AddRow("b"))

	unavailable, err := NewAvailabilityRepository(db).UnavailableVendors(context.Background(), ids, date)

	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"b": true}, unavailable)
}

func TestAvailabilityRepository_NoIDsSkipsQuery(t *testing.T) {
	db, _, done := newMockDB(t)
	defer done()

	unavailable, err := NewAvailabilityRepository(db).UnavailableVendors(context.Background(), nil, time.Now())

	require.NoError(t, err)
	assert.Empty(t, unavailable)
}

func TestAvailabilityRepository_QueryFailure(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()

	mock.ExpectQuery(`SELECT DISTINCT vendor_id`).WillReturnError(errors.New("deadlock detected"))

	_, err := NewAvailabilityRepository(db).UnavailableVendors(context.Background(), []string{"a"}, time.Now())

	require.Error(t, err)
}

// ==========================
// WeddingRepository
// ==========================

func TestWeddingRepository_GetWeddingRequest(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()

	date := time.Date(2027, 2, 14, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "total_budget", "guest_count", "wedding_date", "styles", "location",
		"priorities", "preferences", "categories",
	}).AddRow(
		"wedding-1", 2500000.0, 300, date, "{boho,rustic}", "Goa",
		[]byte(`{"venue":"high","music":"low"}`),
		[]byte(`{"cuisines":["goan"],"needsOutdoor":true}`),
		"{venue,caterer,Music}",
	)
	mock.ExpectQuery(`SELECT (.+) FROM wedding_requests WHERE id = \$1`).
		WithArgs("wedding-1").
		WillReturnRows(rows)

	req, err := NewWeddingRepository(db).GetWeddingRequest(context.Background(), "wedding-1")

	require.NoError(t, err)
	assert.Equal(t, "wedding-1", req.ID)
	assert.Equal(t, 2500000.0, req.TotalBudget)
	assert.Equal(t, 300, req.GuestCount)
	require.NotNil(t, req.WeddingDate)
	assert.True(t, date.Equal(*req.WeddingDate))
	assert.Equal(t, []string{"boho", "rustic"}, req.Styles)
	assert.Equal(t, models.PriorityHigh, req.PriorityFor(models.CategoryVenue))
	assert.Equal(t, models.PriorityLow, req.PriorityFor(models.CategoryMusic))
	assert.Equal(t, models.PriorityMedium, req.PriorityFor(models.CategoryCaterer))
	assert.Equal(t, []string{"goan"}, req.Preferences.Cuisines)
	assert.True(t, req.Preferences.NeedsOutdoor)
	assert.Equal(t, []models.Category{models.CategoryVenue, models.CategoryCaterer, models.CategoryMusic}, req.Categories)
}

func TestWeddingRepository_NotFound(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()

	mock.ExpectQuery(`SELECT (.+) FROM wedding_requests`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewWeddingRepository(db).GetWeddingRequest(context.Background(), "missing")

	assert.ErrorIs(t, err, matching.ErrWeddingNotFound)
}

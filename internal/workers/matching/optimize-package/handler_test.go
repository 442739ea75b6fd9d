// internal/workers/matching/optimize-package/handler_test.go
package optimizepackage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	apperrors "vendor-matching-workers/internal/common/errors"
	"vendor-matching-workers/internal/common/logger"
	"vendor-matching-workers/internal/matching"
	"vendor-matching-workers/internal/models"
	"vendor-matching-workers/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// ==========================
// Test Helper Functions
// ==========================

var vendorColumns = []string{
	"id", "name", "category", "starting_price", "min_guests", "max_guests",
	"location", "service_areas", "styles", "rating", "review_count", "verified", "experience_years",
	"packages", "bonuses", "additional_services", "deposit_percent", "has_cancellation_policy",
	"delivery_days", "attributes",
}

func createTestConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.MatchExpectationsInOrder(false)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func newTestHandler(t *testing.T, db *sql.DB) *Handler {
	log := logger.NewZapAdapter(zaptest.NewLogger(t))
	engine := matching.NewEngine(
		repository.NewVendorRepository(db),
		repository.NewAvailabilityRepository(db),
		nil,
		nil,
		matching.DefaultOptions(),
		log,
	)
	return NewHandler(createTestConfig(), engine, log)
}

func expectCategory(mock sqlmock.Sqlmock, category string, rows *sqlmock.Rows) {
	mock.ExpectQuery(`SELECT (.+) FROM vendors WHERE category = \$1`).
		WithArgs(category).
		WillReturnRows(rows)
}

func vendorRows(category string, prices map[string]float64, order ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows(vendorColumns)
	for _, id := range order {
		rows.AddRow(
			id, id, category, prices[id], nil, nil,
			"Pune", "{}", "{}", 4.0, 12, false, 5,
			nil, "{}", "{}", nil, false,
			nil, nil,
		)
	}
	return rows
}

func baseInput() *Input {
	return &Input{
		RequiredCategories: []string{"venue", "caterer"},
		MaxBudget:          1000000,
		Requirements: models.WeddingRequest{
			GuestCount: 150,
			Location:   "Pune",
		},
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute(t *testing.T) {
	db, mock := setupMockDB(t)
	expectCategory(mock, "venue", vendorRows("venue", map[string]float64{"venue-1": 250000}, "venue-1"))
	expectCategory(mock, "caterer", vendorRows("caterer", map[string]float64{"cat-1": 200000}, "cat-1"))

	output, err := newTestHandler(t, db).Execute(context.Background(), baseInput())

	require.NoError(t, err)
	assert.True(t, output.PackageComplete)

	pkg := output.Package
	require.NotNil(t, pkg)
	_, err = uuid.Parse(pkg.ID)
	assert.NoError(t, err)
	require.Len(t, pkg.Items, 2)
	assert.Equal(t, "venue-1", pkg.Items[0].VendorID)
	assert.Equal(t, "cat-1", pkg.Items[1].VendorID)
	assert.Equal(t, 450000.0, pkg.TotalPrice)
	assert.Equal(t, 45.0, pkg.BudgetUsedPercent)
	assert.Empty(t, pkg.Warnings)
}

func TestHandler_Execute_MissingRequiredCategory(t *testing.T) {
	db, mock := setupMockDB(t)
	expectCategory(mock, "venue", vendorRows("venue", map[string]float64{"venue-1": 250000}, "venue-1"))
	expectCategory(mock, "caterer", vendorRows("caterer", map[string]float64{"cat-1": 200000}, "cat-1"))
	expectCategory(mock, "florist", sqlmock.NewRows(vendorColumns))

	input := baseInput()
	input.RequiredCategories = append(input.RequiredCategories, "Florist")

	output, err := newTestHandler(t, db).Execute(context.Background(), input)

	require.NoError(t, err)
	assert.False(t, output.PackageComplete)
	assert.Len(t, output.Package.Items, 2)
	assert.Contains(t, output.Package.Warnings, "no eligible florist found")
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
		code   apperrors.ErrorCode
	}{
		{"unknown required category", func(in *Input) { in.RequiredCategories = []string{"astrologer"} }, apperrors.ErrCodeInvalidCategory},
		{"unknown optional category", func(in *Input) { in.OptionalCategories = []string{"fireworks"} }, apperrors.ErrCodeInvalidCategory},
		{"zero budget", func(in *Input) { in.MaxBudget = 0 }, apperrors.ErrCodeValidationFailed},
		{"unknown mode", func(in *Input) { in.OptimizationMode = "cheapest" }, apperrors.ErrCodeValidationFailed},
		{"no guests", func(in *Input) { in.Requirements.GuestCount = 0 }, apperrors.ErrCodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _ := setupMockDB(t)
			input := baseInput()
			tt.mutate(input)

			_, err := newTestHandler(t, db).Execute(context.Background(), input)

			assert.True(t, apperrors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestParseInput(t *testing.T) {
	input, err := ParseInput(`{
		"requiredCategories": ["venue"],
		"optionalCategories": ["makeup"],
		"maxBudget": 800000,
		"optimizationMode": "quality",
		"requirements": {"guestCount": 120, "styles": ["royal"]}
	}`)
	require.NoError(t, err)
	assert.Equal(t, "quality", input.OptimizationMode)
	assert.Equal(t, 120, input.Requirements.GuestCount)

	for _, variables := range []string{
		`{"requiredCategories": [], "maxBudget": 1, "requirements": {"guestCount": 1}}`,
		`{"requiredCategories": ["venue"], "maxBudget": 1}`,
		`{"requiredCategories": ["venue"], "maxBudget": 1, "requirements": {"guestCount": 1}, "optimizationMode": "cheapest"}`,
	} {
		_, err := ParseInput(variables)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidationFailed), variables)
	}
}

package matching

import (
	"context"
	"testing"

	apperrors "vendor-matching-workers/internal/common/errors"
	"vendor-matching-workers/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func packageConfig(required []models.Category, maxBudget float64) models.PackageConfig {
	return models.PackageConfig{
		RequiredCategories: required,
		MaxBudget:          maxBudget,
		Requirements:       models.WeddingRequest{GuestCount: 150},
	}
}

func itemsByCategory(items []models.PackageItem) map[models.Category]models.PackageItem {
	out := make(map[models.Category]models.PackageItem, len(items))
	for _, it := range items {
		out[it.Category] = it
	}
	return out
}

func TestOptimizePackageWithEmptyRequiredCategory(t *testing.T) {
	catalog := &fakeCatalog{vendors: []models.Vendor{
		vendor("v1", models.CategoryVenue, withPrice(250_000)),
		vendor("c1", models.CategoryCaterer, withPrice(200_000)),
	}}
	engine := newTestEngine(catalog, &fakeAvailability{}, nil, nil)

	cfg := packageConfig([]models.Category{models.CategoryVenue, models.CategoryFlorist, models.CategoryCaterer}, 1_000_000)
	result, err := engine.OptimizePackage(context.Background(), cfg)

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Warnings, "no eligible florist found")

	items := itemsByCategory(result.Items)
	require.Len(t, items, 2)
	assert.Equal(t, "v1", items[models.CategoryVenue].VendorID)
	assert.Equal(t, "c1", items[models.CategoryCaterer].VendorID)
	assert.Equal(t, 450_000.0, result.TotalPrice)
	assert.Equal(t, 45.0, result.BudgetUsedPercent)

	_, err = uuid.Parse(result.ID)
	assert.NoError(t, err)
}

func TestOptimizePackageReservesRoomForLaterCategories(t *testing.T) {
	catalog := &fakeCatalog{vendors: []models.Vendor{
		vendor("palace", models.CategoryVenue, withRating(5, 80), withPackages(models.Package{Name: "royal", Price: 115_000})),
		vendor("garden", models.CategoryVenue, withPackages(models.Package{Name: "lawn", Price: 15_000})),
		vendor("kitchen", models.CategoryCaterer, withPackages(
			models.Package{Name: "premium", Price: 30_000},
			models.Package{Name: "basic", Price: 10_000},
		)),
	}}
	engine := newTestEngine(catalog, &fakeAvailability{}, nil, nil)

	cfg := packageConfig([]models.Category{models.CategoryCaterer, models.CategoryVenue}, 100_000)
	cfg.Requirements.Priorities = map[models.Category]models.Priority{models.CategoryVenue: models.PriorityHigh}

	result, err := engine.OptimizePackage(context.Background(), cfg)

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, result.Warnings)
	require.Len(t, result.Items, 2)

	assert.Equal(t, models.CategoryVenue, result.Items[0].Category)
	assert.Equal(t, "garden", result.Items[0].VendorID)
	assert.Equal(t, "lawn", result.Items[0].PackageName)

	assert.Equal(t, "kitchen", result.Items[1].VendorID)
	assert.Equal(t, "basic", result.Items[1].PackageName)
	assert.Equal(t, 10_000.0, result.Items[1].EstimatedPrice)

	assert.Equal(t, 25_000.0, result.TotalPrice)
	assert.Equal(t, 25.0, result.BudgetUsedPercent)
	assert.Equal(t, 8.0, result.AverageMatchScore)
}

func TestOptimizePackageModes(t *testing.T) {
	catalog := &fakeCatalog{vendors: []models.Vendor{
		vendor("star", models.CategoryCaterer, withPrice(240_000), withRating(5, 60)),
		vendor("budget", models.CategoryCaterer, withPrice(150_000)),
	}}
	engine := newTestEngine(catalog, &fakeAvailability{}, nil, nil)

	tests := []struct {
		mode models.OptimizationMode
		want string
	}{
		{"", "star"},
		{models.OptimizeBalanced, "star"},
		{models.OptimizeQuality, "star"},
		{models.OptimizeCost, "budget"},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			cfg := packageConfig([]models.Category{models.CategoryCaterer}, 1_000_000)
			cfg.OptimizationMode = tt.mode

			result, err := engine.OptimizePackage(context.Background(), cfg)

			require.NoError(t, err)
			require.Len(t, result.Items, 1)
			assert.Equal(t, tt.want, result.Items[0].VendorID)
		})
	}
}

func TestOptimizePackageMinMatchScore(t *testing.T) {
	catalog := &fakeCatalog{vendors: []models.Vendor{
		vendor("weak", models.CategoryMakeup, withPrice(10_000)),
	}}
	engine := newTestEngine(catalog, &fakeAvailability{}, nil, nil)

	cfg := packageConfig([]models.Category{models.CategoryMakeup}, 1_000_000)
	cfg.MinMatchScore = 50

	result, err := engine.OptimizePackage(context.Background(), cfg)

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Empty(t, result.Items)
	assert.Equal(t, []string{"no eligible makeup found"}, result.Warnings)
}

func TestOptimizePackageCannotFit(t *testing.T) {
	catalog := &fakeCatalog{vendors: []models.Vendor{
		vendor("v1", models.CategoryVenue, withPackages(models.Package{Name: "hall", Price: 90_000})),
		vendor("c1", models.CategoryCaterer, withPackages(models.Package{Name: "buffet", Price: 50_000})),
	}}
	engine := newTestEngine(catalog, &fakeAvailability{}, nil, nil)

	result, err := engine.OptimizePackage(context.Background(),
		packageConfig([]models.Category{models.CategoryVenue, models.CategoryCaterer}, 100_000))

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, []string{"could not fit venue within the remaining budget"}, result.Warnings)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "c1", result.Items[0].VendorID)
}

func TestOptimizePackageOptionalCategories(t *testing.T) {
	catalog := &fakeCatalog{vendors: []models.Vendor{
		vendor("v1", models.CategoryVenue, withPackages(models.Package{Name: "hall", Price: 80_000})),
		vendor("f1", models.CategoryFlorist, withPackages(models.Package{Name: "roses", Price: 20_000})),
		vendor("m1", models.CategoryMusic, withPackages(models.Package{Name: "dj", Price: 50_000})),
	}}
	engine := newTestEngine(catalog, &fakeAvailability{}, nil, nil)

	cfg := packageConfig([]models.Category{models.CategoryVenue}, 100_000)
	cfg.OptionalCategories = []models.Category{models.CategoryFlorist, models.CategoryMusic, models.CategoryVenue, models.CategoryMakeup}

	result, err := engine.OptimizePackage(context.Background(), cfg)

	require.NoError(t, err)
	assert.True(t, result.Success)

	require.Len(t, result.Items, 2)
	assert.False(t, result.Items[0].Optional)
	assert.Equal(t, "f1", result.Items[1].VendorID)
	assert.True(t, result.Items[1].Optional)

	assert.Equal(t, []string{
		"could not fit optional music within the remaining budget",
		"no eligible makeup found",
	}, result.Warnings)
}

func TestOptimizePackageSuggestions(t *testing.T) {
	catalog := &fakeCatalog{vendors: []models.Vendor{
		vendor("ok", models.CategoryCaterer, withPrice(200_000)),
		vendor("near", models.CategoryCaterer, withPrice(310_000)),
		vendor("nearer", models.CategoryCaterer, withPrice(305_500)),
		vendor("far", models.CategoryCaterer, withPrice(400_000)),
	}}
	engine := newTestEngine(catalog, &fakeAvailability{}, nil, nil)

	result, err := engine.OptimizePackage(context.Background(),
		packageConfig([]models.Category{models.CategoryCaterer}, 1_000_000))

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, []string{"increase budget for caterer by 5500 to unlock 2 more vendors"}, result.Suggestions)
}

func TestOptimizePackageUnpricedVendorFillsCategory(t *testing.T) {
	catalog := &fakeCatalog{vendors: []models.Vendor{
		vendor("v1", models.CategoryVenue, withPrice(250_000)),
		vendor("mua", models.CategoryMakeup, withRating(5, 40), withVerified()),
	}}
	engine := newTestEngine(catalog, &fakeAvailability{}, nil, nil)

	result, err := engine.OptimizePackage(context.Background(),
		packageConfig([]models.Category{models.CategoryVenue, models.CategoryMakeup}, 1_000_000))

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, []string{"price unknown for makeup mua, not included in the total"}, result.Warnings)

	items := itemsByCategory(result.Items)
	require.Len(t, items, 2)
	assert.Equal(t, "mua", items[models.CategoryMakeup].VendorID)
	assert.True(t, items[models.CategoryMakeup].PriceUnknown)
	assert.Zero(t, items[models.CategoryMakeup].EstimatedPrice)
	assert.False(t, items[models.CategoryVenue].PriceUnknown)
	assert.Equal(t, 250_000.0, result.TotalPrice)
}

func TestOptimizePackagePrefersPricedVendors(t *testing.T) {
	catalog := &fakeCatalog{vendors: []models.Vendor{
		vendor("mua", models.CategoryMakeup, withRating(5, 40), withVerified()),
		vendor("salon", models.CategoryMakeup, withPrice(20_000)),
	}}
	engine := newTestEngine(catalog, &fakeAvailability{}, nil, nil)

	result, err := engine.OptimizePackage(context.Background(),
		packageConfig([]models.Category{models.CategoryMakeup}, 1_000_000))

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, result.Warnings)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "salon", result.Items[0].VendorID)
	assert.Equal(t, 20_000.0, result.Items[0].EstimatedPrice)
}

func TestOptimizePackageValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.PackageConfig)
		code   apperrors.ErrorCode
	}{
		{"no required categories", func(c *models.PackageConfig) { c.RequiredCategories = nil }, apperrors.ErrCodeValidationFailed},
		{"zero budget", func(c *models.PackageConfig) { c.MaxBudget = 0 }, apperrors.ErrCodeValidationFailed},
		{"unknown mode", func(c *models.PackageConfig) { c.OptimizationMode = "cheapest" }, apperrors.ErrCodeValidationFailed},
		{"min score out of range", func(c *models.PackageConfig) { c.MinMatchScore = 101 }, apperrors.ErrCodeValidationFailed},
		{"unknown category", func(c *models.PackageConfig) {
			c.OptionalCategories = []models.Category{"astrologer"}
		}, apperrors.ErrCodeInvalidCategory},
		{"missing guest count", func(c *models.PackageConfig) { c.Requirements.GuestCount = 0 }, apperrors.ErrCodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := &fakeCatalog{}
			engine := newTestEngine(catalog, &fakeAvailability{}, nil, nil)
			cfg := packageConfig([]models.Category{models.CategoryVenue}, 100_000)
			tt.mutate(&cfg)

			_, err := engine.OptimizePackage(context.Background(), cfg)

			assert.True(t, apperrors.HasCode(err, tt.code), "got %v", err)
			assert.Zero(t, catalog.calls)
		})
	}
}

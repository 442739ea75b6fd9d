package matching

import (
	"context"
	"sync"
	"time"

	"vendor-matching-workers/internal/common/logger"
	"vendor-matching-workers/internal/models"
)

// ==========================
// In-memory collaborators
// ==========================

type fakeCatalog struct {
	vendors []models.Vendor
	err     error

	mu    sync.Mutex
	calls int
}

func (f *fakeCatalog) VendorsByCategory(_ context.Context, category models.Category) ([]models.Vendor, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Vendor
	for _, v := range f.vendors {
		if v.Category == category {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeCatalog) VendorsByIDs(_ context.Context, ids []string) ([]models.Vendor, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []models.Vendor
	for _, v := range f.vendors {
		if want[v.ID] {
			out = append(out, v)
		}
	}
	return out, nil
}

type fakeAvailability struct {
	unavailable map[string]bool
	err         error

	mu    sync.Mutex
	calls int
}

func (f *fakeAvailability) UnavailableVendors(_ context.Context, ids []string, _ time.Time) (map[string]bool, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]bool)
	for _, id := range ids {
		if f.unavailable[id] {
			out[id] = true
		}
	}
	return out, nil
}

type fakeWeddings struct {
	requests map[string]*models.WeddingRequest
	err      error
}

func (f *fakeWeddings) GetWeddingRequest(_ context.Context, id string) (*models.WeddingRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	req, ok := f.requests[id]
	if !ok {
		return nil, ErrWeddingNotFound
	}
	cp := *req
	return &cp, nil
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]models.CachedRecommendations
	putErr  error
	getErr  error
	puts    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]models.CachedRecommendations)}
}

func (f *fakeCache) Put(_ context.Context, entry models.CachedRecommendations) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if f.putErr != nil {
		return f.putErr
	}
	f.entries[entry.WeddingRequestID+":"+string(entry.Category)] = entry
	return nil
}

func (f *fakeCache) Get(_ context.Context, weddingID string, categories []models.Category) ([]models.CachedRecommendations, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	var out []models.CachedRecommendations
	for _, c := range categories {
		if e, ok := f.entries[weddingID+":"+string(c)]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// ==========================
// Builders
// ==========================

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func vendor(id string, category models.Category, opts ...func(*models.Vendor)) models.Vendor {
	v := models.Vendor{ID: id, Name: "Vendor " + id, Category: category}
	for _, o := range opts {
		o(&v)
	}
	return v
}

func withPrice(p float64) func(*models.Vendor) {
	return func(v *models.Vendor) { v.StartingPrice = floatPtr(p) }
}

func withMaxGuests(n int) func(*models.Vendor) {
	return func(v *models.Vendor) { v.MaxGuests = intPtr(n) }
}

func withLocation(loc string) func(*models.Vendor) {
	return func(v *models.Vendor) { v.Location = loc }
}

func withRating(r float64, reviews int) func(*models.Vendor) {
	return func(v *models.Vendor) {
		v.Rating = floatPtr(r)
		v.ReviewCount = reviews
	}
}

func withVerified() func(*models.Vendor) {
	return func(v *models.Vendor) { v.Verified = true }
}

func withPackages(pkgs ...models.Package) func(*models.Vendor) {
	return func(v *models.Vendor) { v.Packages = pkgs }
}

func newTestEngine(catalog Catalog, avail AvailabilityStore, weddings WeddingStore, cache RecommendationCache) *Engine {
	return NewEngine(catalog, avail, weddings, cache, DefaultOptions(), logger.NewNoOpLogger())
}

// Package matching implements the vendor matching engine: budget allocation,
// availability resolution, hard filtering, soft scoring, ranking and package
// optimisation.
package matching

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"vendor-matching-workers/internal/common/config"
	apperrors "vendor-matching-workers/internal/common/errors"
	"vendor-matching-workers/internal/common/logger"
	"vendor-matching-workers/internal/common/metrics"
	"vendor-matching-workers/internal/models"

	"golang.org/x/sync/errgroup"
)

var ErrWeddingNotFound = errors.New("wedding request not found")

// Options tune the engine. Use DefaultOptions or OptionsFromConfig.
type Options struct {
	BudgetFlexibility      float64
	ScoreBudgetFlexibility float64
	MinScore               int
	ResultLimit            int
	CacheSize              int
	CacheTTL               time.Duration
	ScoringWorkers         int
	SuggestionMargin       float64
	DefaultCategories      []models.Category
}

func DefaultOptions() Options {
	cats := make([]models.Category, 0, len(config.DefaultCategories))
	for _, c := range config.DefaultCategories {
		cats = append(cats, models.Category(c))
	}
	return Options{
		BudgetFlexibility:      0.2,
		ScoreBudgetFlexibility: 0.2,
		MinScore:               20,
		ResultLimit:            20,
		CacheSize:              10,
		CacheTTL:               24 * time.Hour,
		ScoringWorkers:         8,
		SuggestionMargin:       0.15,
		DefaultCategories:      cats,
	}
}

// OptionsFromConfig converts the loaded matching section.
func OptionsFromConfig(cfg config.MatchingConfig) (Options, error) {
	cats := make([]models.Category, 0, len(cfg.DefaultCategories))
	for _, name := range cfg.DefaultCategories {
		c, err := models.ParseCategory(name)
		if err != nil {
			return Options{}, fmt.Errorf("matching.default_categories: %w", err)
		}
		cats = append(cats, c)
	}
	return Options{
		BudgetFlexibility:      cfg.BudgetFlexibility,
		ScoreBudgetFlexibility: cfg.ScoreBudgetFlexibility,
		MinScore:               cfg.MinScore,
		ResultLimit:            cfg.ResultLimit,
		CacheSize:              cfg.CacheSize,
		CacheTTL:               cfg.CacheTTL(),
		ScoringWorkers:         cfg.ScoringWorkers,
		SuggestionMargin:       cfg.SuggestionMargin,
		DefaultCategories:      cats,
	}, nil
}

// Engine is the matching façade used by the job workers.
type Engine struct {
	catalog      Catalog
	availability *AvailabilityResolver
	weddings     WeddingStore
	cache        RecommendationCache
	filter       *HardFilter
	scorer       *Scorer
	opts         Options
	logger       logger.Logger
	now          func() time.Time
}

// NewEngine wires the engine. weddings and cache may be nil; without a cache
// nothing is persisted and cached reads come back empty.
func NewEngine(catalog Catalog, availability AvailabilityStore, weddings WeddingStore, cache RecommendationCache, opts Options, log logger.Logger) *Engine {
	if opts.ScoringWorkers <= 0 {
		opts.ScoringWorkers = 1
	}
	return &Engine{
		catalog:      catalog,
		availability: NewAvailabilityResolver(availability),
		weddings:     weddings,
		cache:        cache,
		filter:       NewHardFilter(opts.BudgetFlexibility),
		scorer:       NewScorer(opts.ScoreBudgetFlexibility),
		opts:         opts,
		logger:       log,
		now:          time.Now,
	}
}

// WithClock replaces the time source used for cache expiry.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// ComputeCategoryBudget is the engine-bound form of the package function.
func (e *Engine) ComputeCategoryBudget(total float64, category models.Category, priorities map[models.Category]models.Priority) float64 {
	return ComputeCategoryBudget(total, category, priorities)
}

// FindMatches ranks the vendors of one category for a wedding request. With a
// request id the top eligible results are cached for later reads.
func (e *Engine) FindMatches(ctx context.Context, req *models.WeddingRequest, filters models.CategoryFilters, opts models.MatchOptions) ([]models.VendorMatchResult, error) {
	start := time.Now()
	defer func() {
		metrics.MatchingDuration.WithLabelValues("find_matches").Observe(time.Since(start).Seconds())
	}()

	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if !filters.Category.Valid() {
		return nil, apperrors.NewInvalidCategoryError(string(filters.Category))
	}

	flexibility := e.opts.BudgetFlexibility
	if opts.BudgetFlexibility != nil {
		if *opts.BudgetFlexibility < 0 {
			return nil, apperrors.NewValidationFailedError(fmt.Sprintf("budgetFlexibility must not be negative, got %.2f", *opts.BudgetFlexibility))
		}
		flexibility = *opts.BudgetFlexibility
	}

	ev, err := e.evaluate(ctx, req, filters, flexibility)
	if err != nil {
		return nil, err
	}

	minScore := e.opts.MinScore
	if opts.MinScore != nil {
		minScore = *opts.MinScore
	}
	limit := e.opts.ResultLimit
	if opts.Limit > 0 {
		limit = opts.Limit
	}

	results := selectResults(ev.ranked, minScore, limit, opts.IncludeExcluded)

	if req.ID != "" && !opts.SkipCache {
		e.cacheResults(ctx, req.ID, filters.Category, ev.ranked)
	}

	e.logger.Debug("vendor matches ranked", map[string]interface{}{
		"weddingId": req.ID,
		"category":  filters.Category,
		"evaluated": len(ev.ranked),
		"returned":  len(results),
		"ceiling":   ev.ceiling,
	})

	return results, nil
}

// FindAllCategoryMatches loads a stored wedding request and matches every
// category it still needs, or the default categories when it lists none.
func (e *Engine) FindAllCategoryMatches(ctx context.Context, weddingRequestID string) (map[models.Category][]models.VendorMatchResult, error) {
	if weddingRequestID == "" {
		return nil, apperrors.NewValidationFailedError("weddingRequestId is required")
	}

	req, err := e.loadWedding(ctx, weddingRequestID)
	if err != nil {
		return nil, err
	}

	categories := dedupeCategories(req.Categories)
	if len(categories) == 0 {
		categories = e.opts.DefaultCategories
	}
	for _, c := range categories {
		if !c.Valid() {
			return nil, apperrors.NewInvalidCategoryError(string(c))
		}
	}

	var (
		mu  sync.Mutex
		out = make(map[models.Category][]models.VendorMatchResult, len(categories))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(len(categories))
	for _, c := range categories {
		c := c
		g.Go(func() error {
			results, err := e.FindMatches(gctx, req, models.CategoryFilters{Category: c}, models.MatchOptions{})
			if err != nil {
				return err
			}
			mu.Lock()
			out[c] = results
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// WeddingRequest loads and validates a stored wedding request.
func (e *Engine) WeddingRequest(ctx context.Context, weddingRequestID string) (*models.WeddingRequest, error) {
	if weddingRequestID == "" {
		return nil, apperrors.NewValidationFailedError("weddingRequestId is required")
	}
	return e.loadWedding(ctx, weddingRequestID)
}

// GetCachedRecommendations returns unexpired cached results for one category,
// or for every category in declaration order when category is nil.
func (e *Engine) GetCachedRecommendations(ctx context.Context, weddingRequestID string, category *models.Category) ([]models.VendorMatchResult, error) {
	if weddingRequestID == "" {
		return nil, apperrors.NewValidationFailedError("weddingRequestId is required")
	}

	categories := models.AllCategories
	if category != nil {
		if !category.Valid() {
			return nil, apperrors.NewInvalidCategoryError(string(*category))
		}
		categories = []models.Category{*category}
	}

	results := []models.VendorMatchResult{}
	if e.cache == nil {
		return results, nil
	}

	if err := checkContext(ctx, "cache read"); err != nil {
		return nil, err
	}
	entries, err := e.cache.Get(ctx, weddingRequestID, categories)
	if err != nil {
		return nil, storageError(ctx, "cache read", err, apperrors.NewCacheReadFailedError)
	}

	now := e.now()
	for i := range entries {
		if entries[i].Expired(now) {
			continue
		}
		results = append(results, entries[i].Results...)
	}
	return results, nil
}

// evaluation is the full ranked outcome of one category, before thresholds.
type evaluation struct {
	ranked  []models.VendorMatchResult
	vendors map[string]*models.Vendor
	ceiling float64
}

// evaluate filters, scores and ranks one category. flexibility is the hard
// filter's budget overage tolerance for this call.
func (e *Engine) evaluate(ctx context.Context, req *models.WeddingRequest, filters models.CategoryFilters, flexibility float64) (*evaluation, error) {
	category := filters.Category

	vendors, err := e.loadVendors(ctx, filters)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(vendors))
	for i := range vendors {
		ids[i] = vendors[i].ID
	}

	if err := checkContext(ctx, "availability"); err != nil {
		return nil, err
	}
	available, err := e.availability.Resolve(ctx, ids, req.WeddingDate)
	if err != nil {
		return nil, storageError(ctx, "availability", err, apperrors.NewAvailabilityQueryFailedError)
	}

	ceiling := ComputeCategoryBudget(req.TotalBudget, category, req.Priorities)
	prefs := req.Preferences
	if filters.Preferences != nil {
		prefs = prefs.Merge(*filters.Preferences)
	}

	results := make([]models.VendorMatchResult, len(vendors))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.ScoringWorkers)
	for i := range vendors {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.evaluateVendor(&vendors[i], req, prefs, ceiling, available[vendors[i].ID], flexibility)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, storageError(ctx, "scoring", err, apperrors.NewInternalError)
	}

	metrics.VendorsEvaluated.WithLabelValues(string(category)).Add(float64(len(results)))
	for i := range results {
		if results[i].ExclusionReason != nil {
			metrics.VendorsExcluded.WithLabelValues(string(category), string(results[i].ExclusionReason.Tag)).Inc()
		}
	}

	rank(results)

	byID := make(map[string]*models.Vendor, len(vendors))
	for i := range vendors {
		byID[vendors[i].ID] = &vendors[i]
	}

	return &evaluation{ranked: results, vendors: byID, ceiling: ceiling}, nil
}

func (e *Engine) evaluateVendor(v *models.Vendor, req *models.WeddingRequest, prefs models.Preferences, ceiling float64, available bool, flexibility float64) models.VendorMatchResult {
	res := models.VendorMatchResult{
		VendorID:       v.ID,
		VendorName:     v.Name,
		Category:       v.Category,
		EstimatedPrice: v.EstimatedPrice(),
		Available:      available,
		Reasons:        []models.MatchReason{},
	}

	if reason := e.filter.EvaluateWithFlexibility(v, req, ceiling, available, flexibility); reason != nil {
		res.Excluded = true
		res.ExclusionReason = reason
		return res
	}

	scored := e.scorer.Score(v, req, prefs, ceiling)
	res.MatchScore = scored.Score
	res.Reasons = scored.Reasons
	res.Breakdown = &scored.Breakdown
	return res
}

// loadVendors reads the category, or the shortlisted ids restricted to the
// category when a shortlist is given.
func (e *Engine) loadVendors(ctx context.Context, filters models.CategoryFilters) ([]models.Vendor, error) {
	if err := checkContext(ctx, "catalog"); err != nil {
		return nil, err
	}

	wrap := func(err error) *apperrors.StandardError {
		return apperrors.NewCatalogQueryFailedError(string(filters.Category), err)
	}

	if len(filters.VendorIDs) == 0 {
		vendors, err := e.catalog.VendorsByCategory(ctx, filters.Category)
		if err != nil {
			return nil, storageError(ctx, "catalog", err, wrap)
		}
		return vendors, nil
	}

	all, err := e.catalog.VendorsByIDs(ctx, filters.VendorIDs)
	if err != nil {
		return nil, storageError(ctx, "catalog", err, wrap)
	}
	vendors := make([]models.Vendor, 0, len(all))
	for _, v := range all {
		if v.Category == filters.Category {
			vendors = append(vendors, v)
		}
	}
	return vendors, nil
}

func (e *Engine) loadWedding(ctx context.Context, id string) (*models.WeddingRequest, error) {
	if e.weddings == nil {
		return nil, apperrors.NewWeddingNotFoundError(id)
	}
	if err := checkContext(ctx, "wedding lookup"); err != nil {
		return nil, err
	}

	req, err := e.weddings.GetWeddingRequest(ctx, id)
	if errors.Is(err, ErrWeddingNotFound) {
		return nil, apperrors.NewWeddingNotFoundError(id)
	}
	if err != nil {
		return nil, storageError(ctx, "wedding lookup", err, func(err error) *apperrors.StandardError {
			return apperrors.NewWeddingQueryFailedError(id, err)
		})
	}

	req.ID = id
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return req, nil
}

// cacheResults is best effort: failures are logged and counted only.
func (e *Engine) cacheResults(ctx context.Context, weddingID string, category models.Category, ranked []models.VendorMatchResult) {
	if e.cache == nil || ctx.Err() != nil {
		return
	}

	now := e.now().UTC()
	entry := models.CachedRecommendations{
		WeddingRequestID: weddingID,
		Category:         category,
		Results:          topEligible(ranked, e.opts.CacheSize),
		CreatedAt:        now,
		ExpiresAt:        now.Add(e.opts.CacheTTL),
	}

	if err := e.cache.Put(ctx, entry); err != nil {
		metrics.CacheWriteFailures.Inc()
		stdErr := apperrors.NewCacheWriteFailedError(err)
		e.logger.Warn("recommendation cache write failed", map[string]interface{}{
			"weddingId": weddingID,
			"category":  category,
			"errorCode": stdErr.Code,
			"error":     stdErr.Details,
		})
	}
}

func validateRequest(req *models.WeddingRequest) error {
	switch {
	case req == nil:
		return apperrors.NewValidationFailedError("weddingRequest is required")
	case req.GuestCount <= 0:
		return apperrors.NewValidationFailedError(fmt.Sprintf("guestCount must be greater than 0, got %d", req.GuestCount))
	case req.TotalBudget < 0:
		return apperrors.NewValidationFailedError(fmt.Sprintf("totalBudget must not be negative, got %.2f", req.TotalBudget))
	}
	return nil
}

func checkContext(ctx context.Context, operation string) error {
	if err := ctx.Err(); err != nil {
		return storageError(ctx, operation, err, apperrors.NewInternalError)
	}
	return nil
}

// storageError maps context failures to timeout/cancel codes, passes
// StandardErrors through and wraps everything else.
func storageError(ctx context.Context, operation string, err error, wrap func(error) *apperrors.StandardError) error {
	if _, ok := apperrors.AsStandardError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return apperrors.NewQueryTimeoutError(operation, err)
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return apperrors.NewRequestCancelledError(operation, err)
	}
	return wrap(err)
}

func dedupeCategories(in []models.Category) []models.Category {
	seen := make(map[models.Category]struct{}, len(in))
	out := make([]models.Category, 0, len(in))
	for _, c := range in {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

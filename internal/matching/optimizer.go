// internal/matching/optimizer.go
package matching

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	apperrors "vendor-matching-workers/internal/common/errors"
	"vendor-matching-workers/internal/common/metrics"
	"vendor-matching-workers/internal/models"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// costShortlist is how many top-ranked vendors cost mode re-sorts by price.
const costShortlist = 5

type candidate struct {
	result      models.VendorMatchResult
	packageName string
	price       float64
	unpriced    bool
}

// categoryPlan is the optimizer's view of one category.
type categoryPlan struct {
	category   models.Category
	priority   models.Priority
	order      int
	optional   bool
	eligible   int
	candidates []candidate
	limit      float64
	nearMiss   []float64
}

// cheapest is the lowest known price among the candidates. A category with
// only unpriced candidates reserves nothing.
func (p *categoryPlan) cheapest() (float64, bool) {
	if len(p.candidates) == 0 {
		return 0, false
	}
	min, found := 0.0, false
	for _, c := range p.candidates {
		if c.unpriced {
			continue
		}
		if !found || c.price < min {
			min, found = c.price, true
		}
	}
	return min, true
}

// OptimizePackage assembles one vendor per required category, plus the
// optional categories that still fit, under a single overall budget.
func (e *Engine) OptimizePackage(ctx context.Context, cfg models.PackageConfig) (*models.PackageResult, error) {
	start := time.Now()
	defer func() {
		metrics.MatchingDuration.WithLabelValues("optimize_package").Observe(time.Since(start).Seconds())
	}()

	if err := validatePackageConfig(&cfg); err != nil {
		return nil, err
	}

	req := cfg.Requirements
	req.ID = ""
	req.TotalBudget = cfg.MaxBudget
	if err := validateRequest(&req); err != nil {
		return nil, err
	}

	required := dedupeCategories(cfg.RequiredCategories)
	inRequired := make(map[models.Category]bool, len(required))
	for _, c := range required {
		inRequired[c] = true
	}
	var optional []models.Category
	for _, c := range dedupeCategories(cfg.OptionalCategories) {
		if !inRequired[c] {
			optional = append(optional, c)
		}
	}

	plans := make([]*categoryPlan, 0, len(required)+len(optional))
	for i, c := range required {
		plans = append(plans, &categoryPlan{category: c, priority: req.PriorityFor(c), order: i})
	}
	for i, c := range optional {
		plans = append(plans, &categoryPlan{category: c, priority: req.PriorityFor(c), order: i, optional: true})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(len(plans))
	for _, plan := range plans {
		plan := plan
		g.Go(func() error {
			ev, err := e.evaluate(gctx, &req, models.CategoryFilters{Category: plan.category}, e.opts.BudgetFlexibility)
			if err != nil {
				return err
			}
			e.fillPlan(plan, ev, cfg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := e.selectPackage(plans, cfg.MaxBudget)
	result.ID = uuid.NewString()

	e.logger.Info("package optimised", map[string]interface{}{
		"packageId":  result.ID,
		"mode":       cfg.OptimizationMode,
		"success":    result.Success,
		"items":      len(result.Items),
		"totalPrice": result.TotalPrice,
		"warnings":   len(result.Warnings),
	})

	return result, nil
}

func validatePackageConfig(cfg *models.PackageConfig) error {
	if len(cfg.RequiredCategories) == 0 {
		return apperrors.NewValidationFailedError("at least one required category is needed")
	}
	if cfg.MaxBudget <= 0 || math.IsNaN(cfg.MaxBudget) || math.IsInf(cfg.MaxBudget, 0) {
		return apperrors.NewValidationFailedError(fmt.Sprintf("maxBudget must be greater than 0, got %v", cfg.MaxBudget))
	}
	if cfg.MinMatchScore < 0 || cfg.MinMatchScore > MaxScore {
		return apperrors.NewValidationFailedError(fmt.Sprintf("minMatchScore must be between 0 and %d", MaxScore))
	}
	if cfg.OptimizationMode == "" {
		cfg.OptimizationMode = models.OptimizeBalanced
	}
	if !cfg.OptimizationMode.Valid() {
		return apperrors.NewValidationFailedError(fmt.Sprintf("unknown optimizationMode %q", cfg.OptimizationMode))
	}
	for _, c := range append(append([]models.Category{}, cfg.RequiredCategories...), cfg.OptionalCategories...) {
		if !c.Valid() {
			return apperrors.NewInvalidCategoryError(string(c))
		}
	}
	return nil
}

// fillPlan turns a ranked category into mode-ordered candidates and collects
// the budget near misses used for suggestions.
func (e *Engine) fillPlan(plan *categoryPlan, ev *evaluation, cfg models.PackageConfig) {
	plan.limit = ev.ceiling * (1 + e.opts.BudgetFlexibility)
	suggestionCap := plan.limit * (1 + e.opts.SuggestionMargin)

	var eligible []models.VendorMatchResult
	for _, r := range ev.ranked {
		if !r.Excluded {
			if r.MatchScore >= cfg.MinMatchScore {
				eligible = append(eligible, r)
			}
			continue
		}
		if r.ExclusionReason != nil && r.ExclusionReason.Tag == models.ExclusionBudgetExceeded &&
			r.EstimatedPrice <= suggestionCap {
			plan.nearMiss = append(plan.nearMiss, r.EstimatedPrice)
		}
	}
	plan.eligible = len(eligible)

	perVendor := make([][]candidate, len(eligible))
	for i, r := range eligible {
		perVendor[i] = vendorCandidates(r, ev.vendors[r.VendorID])
	}
	plan.candidates = orderCandidates(perVendor, cfg.OptimizationMode)
}

// vendorCandidates prices every package of a vendor, cheapest first, or the
// starting price when it has none. An unpriced vendor yields one candidate at
// price 0 flagged as unpriced.
func vendorCandidates(r models.VendorMatchResult, v *models.Vendor) []candidate {
	var out []candidate
	if v != nil {
		for _, p := range v.Packages {
			if p.Price > 0 {
				out = append(out, candidate{result: r, packageName: p.Name, price: p.Price})
			}
		}
	}
	if len(out) == 0 {
		if r.EstimatedPrice > 0 {
			out = append(out, candidate{result: r, price: r.EstimatedPrice})
		} else {
			out = append(out, candidate{result: r, unpriced: true})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].price < out[j].price })
	return out
}

func orderCandidates(perVendor [][]candidate, mode models.OptimizationMode) []candidate {
	var out []candidate
	switch mode {
	case models.OptimizeQuality:
		for _, cs := range perVendor {
			out = append(out, cs...)
		}
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].result.MatchScore != out[j].result.MatchScore {
				return out[i].result.MatchScore > out[j].result.MatchScore
			}
			return out[i].price < out[j].price
		})
	case models.OptimizeCost:
		n := minInt(costShortlist, len(perVendor))
		for _, cs := range perVendor[:n] {
			out = append(out, cs...)
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].price < out[j].price })
		for _, cs := range perVendor[n:] {
			out = append(out, cs...)
		}
	default:
		for _, cs := range perVendor {
			out = append(out, cs...)
		}
	}
	// Unpriced vendors are a fallback behind every priced candidate.
	sort.SliceStable(out, func(i, j int) bool { return !out[i].unpriced && out[j].unpriced })
	return out
}

// selectPackage runs the greedy pass. Each required pick must leave room for
// the cheapest candidate of every required category still to be filled.
func (e *Engine) selectPackage(plans []*categoryPlan, maxBudget float64) *models.PackageResult {
	var required, optional []*categoryPlan
	for _, p := range plans {
		if p.optional {
			optional = append(optional, p)
		} else {
			required = append(required, p)
		}
	}
	sort.SliceStable(required, func(i, j int) bool {
		if required[i].priority.Rank() != required[j].priority.Rank() {
			return required[i].priority.Rank() < required[j].priority.Rank()
		}
		return required[i].order < required[j].order
	})

	result := &models.PackageResult{
		Success:     true,
		Items:       []models.PackageItem{},
		Warnings:    []string{},
		Suggestions: []string{},
	}
	budgetCap := maxBudget * (1 + e.opts.BudgetFlexibility)
	spent := 0.0

	for i, plan := range required {
		if plan.eligible == 0 {
			result.Success = false
			result.Warnings = append(result.Warnings, fmt.Sprintf("no eligible %s found", plan.category))
			continue
		}

		reserve := 0.0
		for _, later := range required[i+1:] {
			if min, ok := later.cheapest(); ok {
				reserve += min
			}
		}

		picked := false
		for _, c := range plan.candidates {
			if spent+c.price+reserve <= budgetCap {
				result.Items = append(result.Items, packageItem(c, false))
				result.Warnings = appendPriceWarning(result.Warnings, c)
				spent += c.price
				picked = true
				break
			}
		}
		if !picked {
			result.Success = false
			result.Warnings = append(result.Warnings, fmt.Sprintf("could not fit %s within the remaining budget", plan.category))
		}
	}

	for _, plan := range optional {
		if plan.eligible == 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("no eligible %s found", plan.category))
			continue
		}
		picked := false
		for _, c := range plan.candidates {
			if spent+c.price <= budgetCap {
				result.Items = append(result.Items, packageItem(c, true))
				result.Warnings = appendPriceWarning(result.Warnings, c)
				spent += c.price
				picked = true
				break
			}
		}
		if !picked {
			result.Warnings = append(result.Warnings, fmt.Sprintf("could not fit optional %s within the remaining budget", plan.category))
		}
	}

	for _, plan := range plans {
		if s, ok := suggestion(plan); ok {
			result.Suggestions = append(result.Suggestions, s)
		}
	}

	scoreSum := 0
	for _, item := range result.Items {
		result.TotalPrice += item.EstimatedPrice
		scoreSum += item.MatchScore
	}
	if len(result.Items) > 0 {
		result.AverageMatchScore = round1(float64(scoreSum) / float64(len(result.Items)))
	}
	result.BudgetUsedPercent = round1(result.TotalPrice / maxBudget * 100)

	return result
}

func packageItem(c candidate, optional bool) models.PackageItem {
	return models.PackageItem{
		Category:       c.result.Category,
		VendorID:       c.result.VendorID,
		VendorName:     c.result.VendorName,
		PackageName:    c.packageName,
		EstimatedPrice: c.price,
		MatchScore:     c.result.MatchScore,
		Optional:       optional,
		PriceUnknown:   c.unpriced,
	}
}

func appendPriceWarning(warnings []string, c candidate) []string {
	if !c.unpriced {
		return warnings
	}
	return append(warnings, fmt.Sprintf("price unknown for %s %s, not included in the total", c.result.Category, c.result.VendorID))
}

func suggestion(plan *categoryPlan) (string, bool) {
	if len(plan.nearMiss) == 0 {
		return "", false
	}
	nearest := plan.nearMiss[0]
	for _, p := range plan.nearMiss[1:] {
		if p < nearest {
			nearest = p
		}
	}
	delta := math.Ceil(nearest - plan.limit)
	return fmt.Sprintf("increase budget for %s by %.0f to unlock %d more vendors", plan.category, delta, len(plan.nearMiss)), true
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

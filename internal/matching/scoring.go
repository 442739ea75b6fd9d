// internal/matching/scoring.go
package matching

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"vendor-matching-workers/internal/models"
)

const (
	MaxScore   = 100
	MaxReasons = 6

	baseScore = 5
)

// ScoreResult is the soft score of one eligible vendor.
type ScoreResult struct {
	Score     int
	Reasons   []models.MatchReason
	Breakdown models.ScoreBreakdown
}

// Scorer computes the multi-factor compatibility score.
type Scorer struct {
	scoreBudgetFlexibility float64
}

func NewScorer(scoreBudgetFlexibility float64) *Scorer {
	return &Scorer{scoreBudgetFlexibility: scoreBudgetFlexibility}
}

// reasonSet collects reasons in declaration order; zero contributions are dropped.
type reasonSet []models.MatchReason

func (r *reasonSet) add(category models.ReasonCategory, score int, format string, args ...interface{}) {
	if score <= 0 {
		return
	}
	*r = append(*r, models.MatchReason{
		Category:    category,
		Score:       score,
		Description: fmt.Sprintf(format, args...),
	})
}

// top keeps the highest-value reasons; the stable sort preserves declaration
// order between equal scores.
func (r reasonSet) top(n int) []models.MatchReason {
	out := append([]models.MatchReason(nil), r...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > n {
		out = out[:n]
	}
	if out == nil {
		out = []models.MatchReason{}
	}
	return out
}

// Score sums every sub-score and clamps the total to [0, 100].
func (s *Scorer) Score(v *models.Vendor, req *models.WeddingRequest, prefs models.Preferences, ceiling float64) ScoreResult {
	var (
		b       models.ScoreBreakdown
		reasons reasonSet
	)

	b.Base = baseScore

	var matched []string
	b.Style, matched = styleScore(v.Styles, req.Styles)
	if len(matched) > 0 {
		reasons.add(models.ReasonStyle, b.Style, "matches your %s style", strings.Join(matched, ", "))
	} else {
		reasons.add(models.ReasonStyle, b.Style, "has a declared style")
	}

	b.Rating = ratingScore(v.Rating, v.ReviewCount)
	if b.Rating > 0 {
		reasons.add(models.ReasonRating, b.Rating, "rated %.1f from %d reviews", *v.Rating, v.ReviewCount)
	}

	var fit float64
	b.Budget, fit = s.budgetScore(v.StartingPrice, ceiling)
	reasons.add(models.ReasonBudget, b.Budget, "priced at %.0f%% of your category budget", fit*100)

	b.Location = locationScore(v, req.Location)
	reasons.add(models.ReasonLocation, b.Location, "serves %s", req.Location)

	if v.Verified {
		b.Verification = 5
	}
	reasons.add(models.ReasonVerification, b.Verification, "verified vendor")

	b.Experience = experienceScore(v.ExperienceYears)
	reasons.add(models.ReasonFeature, b.Experience, "%d years of experience", v.ExperienceYears)

	b.Packages = packagesScore(v)
	reasons.add(models.ReasonFeature, b.Packages, "offers packages and extras")

	b.Terms = termsScore(v)
	reasons.add(models.ReasonFeature, b.Terms, "flexible booking terms")

	var categoryReasons reasonSet
	b.CategorySpecific = categorySpecificScore(v, req, prefs, &categoryReasons)
	reasons = append(reasons, categoryReasons...)

	return ScoreResult{
		Score:     clampScore(b.Total()),
		Reasons:   reasons.top(MaxReasons),
		Breakdown: b,
	}
}

func clampScore(total int) int {
	if total < 0 {
		return 0
	}
	if total > MaxScore {
		return MaxScore
	}
	return total
}

func styleScore(vendorStyles, requested []string) (int, []string) {
	matched := intersectFold(requested, vendorStyles)
	if len(requested) > 0 && len(matched) > 0 {
		return minInt(25, 15+5*len(matched)), matched
	}
	if len(vendorStyles) > 0 {
		return 5, nil
	}
	return 0, nil
}

func ratingScore(rating *float64, reviews int) int {
	if rating == nil || math.IsNaN(*rating) || math.IsInf(*rating, 0) {
		return 0
	}
	r := math.Max(0, math.Min(5, *rating))
	score := int(math.Round(r / 5 * 15))

	switch {
	case reviews >= 50:
		score += 10
	case reviews >= 21:
		score += 7
	case reviews >= 6:
		score += 5
	case reviews >= 1:
		score += 2
	}
	return score
}

// budgetScore returns the sub-score and the price-to-ceiling ratio.
func (s *Scorer) budgetScore(price *float64, ceiling float64) (int, float64) {
	if price == nil || ceiling <= 0 {
		return 0, 0
	}
	fit := *price / ceiling
	switch {
	case fit <= 0.8:
		return 15, fit
	case fit <= 1.0:
		return 20, fit
	case fit <= 1+s.scoreBudgetFlexibility:
		return 10, fit
	default:
		return 0, fit
	}
}

// locationScore uses exact, case-insensitive equality against the declared
// service areas and the vendor location.
func locationScore(v *models.Vendor, requested string) int {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return 0
	}
	for _, area := range declaredAreas(v) {
		if strings.EqualFold(area, requested) {
			return 10
		}
	}
	return 0
}

func experienceScore(years int) int {
	switch {
	case years >= 10:
		return 10
	case years >= 6:
		return 8
	case years >= 3:
		return 5
	case years >= 1:
		return 3
	default:
		return 0
	}
}

func packagesScore(v *models.Vendor) int {
	score := 0
	if len(v.Packages) > 0 {
		score += 3
	}
	score += minInt(len(v.Bonuses), 4)
	score += minInt(len(v.AdditionalServices), 3)
	return minInt(score, 10)
}

func termsScore(v *models.Vendor) int {
	score := 0
	if v.DepositPercent != nil && *v.DepositPercent < 50 {
		score += 2
	}
	if v.HasCancellationPolicy {
		score++
	}
	if v.DeliveryDays != nil && *v.DeliveryDays <= 14 {
		score += 2
	}
	return minInt(score, 5)
}

// intersectFold returns the entries of want found in have, case-insensitively,
// in want's order and without duplicates.
func intersectFold(want, have []string) []string {
	if len(want) == 0 || len(have) == 0 {
		return nil
	}
	index := make(map[string]struct{}, len(have))
	for _, h := range have {
		index[strings.ToLower(strings.TrimSpace(h))] = struct{}{}
	}

	var out []string
	seen := make(map[string]struct{}, len(want))
	for _, w := range want {
		key := strings.ToLower(strings.TrimSpace(w))
		if _, dup := seen[key]; dup {
			continue
		}
		if _, ok := index[key]; ok {
			out = append(out, w)
			seen[key] = struct{}{}
		}
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

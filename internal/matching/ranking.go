// internal/matching/ranking.go
package matching

import (
	"sort"

	"vendor-matching-workers/internal/models"
)

// rank orders results in place: eligible before excluded, then by descending
// score. Equal entries keep catalog order.
func rank(results []models.VendorMatchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Excluded != results[j].Excluded {
			return !results[i].Excluded
		}
		return results[i].MatchScore > results[j].MatchScore
	})
}

// selectResults applies the min-score threshold and the limit to ranked
// results. With includeExcluded every result is kept before the limit.
func selectResults(ranked []models.VendorMatchResult, minScore, limit int, includeExcluded bool) []models.VendorMatchResult {
	out := make([]models.VendorMatchResult, 0, len(ranked))
	for _, r := range ranked {
		if !includeExcluded && (r.Excluded || r.MatchScore < minScore) {
			continue
		}
		out = append(out, r)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// topEligible returns up to n non-excluded results from a ranked list.
func topEligible(ranked []models.VendorMatchResult, n int) []models.VendorMatchResult {
	out := make([]models.VendorMatchResult, 0, n)
	for _, r := range ranked {
		if len(out) == n {
			break
		}
		if !r.Excluded {
			out = append(out, r)
		}
	}
	return out
}

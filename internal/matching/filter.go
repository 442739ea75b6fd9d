// internal/matching/filter.go
package matching

import (
	"fmt"
	"strings"

	"vendor-matching-workers/internal/models"
)

// filterInput is everything a hard constraint may look at.
type filterInput struct {
	vendor      *models.Vendor
	request     *models.WeddingRequest
	ceiling     float64
	available   bool
	flexibility float64 // tolerated overage above ceiling, as a fraction
}

type check func(in filterInput) *models.ExclusionReason

// HardFilter evaluates the hard constraints in priority order. The first
// failing constraint is the only one reported.
type HardFilter struct {
	budgetFlexibility float64
	checks            []check
}

func NewHardFilter(budgetFlexibility float64) *HardFilter {
	return &HardFilter{
		budgetFlexibility: budgetFlexibility,
		checks: []check{
			checkAvailability,
			checkMaxCapacity,
			checkMinGuests,
			checkBudget,
			checkLocation,
		},
	}
}

// Evaluate returns nil when the vendor passes every constraint.
func (f *HardFilter) Evaluate(vendor *models.Vendor, request *models.WeddingRequest, ceiling float64, available bool) *models.ExclusionReason {
	return f.EvaluateWithFlexibility(vendor, request, ceiling, available, f.budgetFlexibility)
}

// EvaluateWithFlexibility is Evaluate with a caller-supplied budget overage
// tolerance in place of the filter's own.
func (f *HardFilter) EvaluateWithFlexibility(vendor *models.Vendor, request *models.WeddingRequest, ceiling float64, available bool, flexibility float64) *models.ExclusionReason {
	in := filterInput{vendor: vendor, request: request, ceiling: ceiling, available: available, flexibility: flexibility}
	for _, c := range f.checks {
		if reason := c(in); reason != nil {
			return reason
		}
	}
	return nil
}

func checkAvailability(in filterInput) *models.ExclusionReason {
	if in.available {
		return nil
	}
	date := ""
	if in.request.WeddingDate != nil {
		date = in.request.WeddingDate.Format("2006-01-02")
	}
	return &models.ExclusionReason{
		Tag:           models.ExclusionUnavailable,
		Description:   fmt.Sprintf("%s is not available on %s", in.vendor.Name, date),
		VendorValue:   false,
		RequiredValue: date,
	}
}

func checkMaxCapacity(in filterInput) *models.ExclusionReason {
	max, ok := in.vendor.MaxCapacity()
	if !ok || in.request.GuestCount <= max {
		return nil
	}
	return &models.ExclusionReason{
		Tag:           models.ExclusionCapacityExceeded,
		Description:   fmt.Sprintf("serves at most %d guests, %d requested", max, in.request.GuestCount),
		VendorValue:   max,
		RequiredValue: in.request.GuestCount,
	}
}

func checkMinGuests(in filterInput) *models.ExclusionReason {
	min, ok := in.vendor.MinCapacity()
	if !ok || in.request.GuestCount >= min {
		return nil
	}
	return &models.ExclusionReason{
		Tag:           models.ExclusionMinGuestsNotMet,
		Description:   fmt.Sprintf("requires at least %d guests, %d requested", min, in.request.GuestCount),
		VendorValue:   min,
		RequiredValue: in.request.GuestCount,
	}
}

func checkBudget(in filterInput) *models.ExclusionReason {
	if in.vendor.StartingPrice == nil || in.ceiling <= 0 {
		return nil
	}
	limit := in.ceiling * (1 + in.flexibility)
	price := *in.vendor.StartingPrice
	if price <= limit {
		return nil
	}
	return &models.ExclusionReason{
		Tag:           models.ExclusionBudgetExceeded,
		Description:   fmt.Sprintf("starting price %.0f exceeds category budget %.0f", price, limit),
		VendorValue:   price,
		RequiredValue: limit,
	}
}

// checkLocation is lenient: a vendor passes when any declared
// area contains the requested location or is contained by it.
func checkLocation(in filterInput) *models.ExclusionReason {
	requested := strings.ToLower(strings.TrimSpace(in.request.Location))
	if requested == "" {
		return nil
	}

	areas := declaredAreas(in.vendor)
	if len(areas) == 0 {
		return nil
	}

	for _, area := range areas {
		a := strings.ToLower(area)
		if strings.Contains(a, requested) || strings.Contains(requested, a) {
			return nil
		}
	}

	return &models.ExclusionReason{
		Tag:           models.ExclusionLocationMismatch,
		Description:   fmt.Sprintf("does not serve %s", in.request.Location),
		VendorValue:   areas,
		RequiredValue: in.request.Location,
	}
}

func declaredAreas(v *models.Vendor) []string {
	areas := make([]string, 0, len(v.ServiceAreas)+1)
	for _, a := range v.ServiceAreas {
		if a = strings.TrimSpace(a); a != "" {
			areas = append(areas, a)
		}
	}
	if loc := strings.TrimSpace(v.Location); loc != "" {
		areas = append(areas, loc)
	}
	return areas
}

// internal/models/wedding.go
package models

import "time"

// WeddingRequest holds a couple's parameters for matching.
type WeddingRequest struct {
	ID          string                `json:"id,omitempty"`
	TotalBudget float64               `json:"totalBudget"`
	GuestCount  int                   `json:"guestCount"`
	WeddingDate *time.Time            `json:"weddingDate,omitempty"`
	Styles      []string              `json:"styles,omitempty"`
	Location    string                `json:"location,omitempty"`
	Priorities  map[Category]Priority `json:"priorities,omitempty"`
	Preferences Preferences           `json:"preferences"`
	Categories  []Category            `json:"categories,omitempty"`
}

// PriorityFor returns the priority of a category, medium when unset.
func (r *WeddingRequest) PriorityFor(c Category) Priority {
	if p, ok := r.Priorities[c]; ok && p != "" {
		return p
	}
	return PriorityMedium
}

// Preferences are the category-specific wishes used by the category scorers.
type Preferences struct {
	Cuisines         []string `json:"cuisines,omitempty"`
	DietaryNeeds     []string `json:"dietaryNeeds,omitempty"`
	MusicGenres      []string `json:"musicGenres,omitempty"`
	MusicianType     string   `json:"musicianType,omitempty"`
	PhotoStyle       string   `json:"photoStyle,omitempty"`
	NeedsDrone       bool     `json:"needsDrone,omitempty"`
	NeedsSameDayEdit bool     `json:"needsSameDayEdit,omitempty"`
	VenueType        string   `json:"venueType,omitempty"`
	NeedsOutdoor     bool     `json:"needsOutdoor,omitempty"`
	NeedsParking     bool     `json:"needsParking,omitempty"`
}

// Merge overlays the non-zero fields of o onto p.
func (p Preferences) Merge(o Preferences) Preferences {
	out := p
	if len(o.Cuisines) > 0 {
		out.Cuisines = o.Cuisines
	}
	if len(o.DietaryNeeds) > 0 {
		out.DietaryNeeds = o.DietaryNeeds
	}
	if len(o.MusicGenres) > 0 {
		out.MusicGenres = o.MusicGenres
	}
	if o.MusicianType != "" {
		out.MusicianType = o.MusicianType
	}
	if o.PhotoStyle != "" {
		out.PhotoStyle = o.PhotoStyle
	}
	if o.VenueType != "" {
		out.VenueType = o.VenueType
	}
	out.NeedsDrone = out.NeedsDrone || o.NeedsDrone
	out.NeedsSameDayEdit = out.NeedsSameDayEdit || o.NeedsSameDayEdit
	out.NeedsOutdoor = out.NeedsOutdoor || o.NeedsOutdoor
	out.NeedsParking = out.NeedsParking || o.NeedsParking
	return out
}

// CategoryFilters narrows a findMatches call to one category.
type CategoryFilters struct {
	Category    Category     `json:"category"`
	Preferences *Preferences `json:"preferences,omitempty"`
	VendorIDs   []string     `json:"vendorIds,omitempty"`
}

// MatchOptions tune ranking. Zero values fall back to engine defaults.
type MatchOptions struct {
	Limit             int      `json:"limit,omitempty"`
	MinScore          *int     `json:"minScore,omitempty"`
	BudgetFlexibility *float64 `json:"budgetFlexibility,omitempty"`
	IncludeExcluded   bool     `json:"includeExcluded,omitempty"`
	SkipCache         bool     `json:"skipCache,omitempty"`
}

// internal/matching/category_scoring.go
package matching

import (
	"strings"

	"vendor-matching-workers/internal/models"
)

// categorySpecificScore dispatches on the vendor's category. Categories
// without a scorer contribute 0.
func categorySpecificScore(v *models.Vendor, req *models.WeddingRequest, prefs models.Preferences, reasons *reasonSet) int {
	switch v.Category {
	case models.CategoryVenue:
		attrs, _ := v.Attributes.(*models.VenueAttributes)
		return venueScore(v, attrs, req, prefs, reasons)
	case models.CategoryCaterer:
		attrs, _ := v.Attributes.(*models.CatererAttributes)
		return catererScore(v, attrs, req, prefs, reasons)
	case models.CategoryPhotographer, models.CategoryVideographer:
		attrs, _ := v.Attributes.(*models.MediaAttributes)
		return mediaScore(attrs, req, prefs, reasons)
	case models.CategoryMusic:
		attrs, _ := v.Attributes.(*models.MusicAttributes)
		return musicScore(attrs, prefs, reasons)
	case models.CategoryDecorator, models.CategoryFlorist:
		attrs, _ := v.Attributes.(*models.DecorAttributes)
		return decorScore(attrs, reasons)
	default:
		return 0
	}
}

func venueScore(v *models.Vendor, attrs *models.VenueAttributes, req *models.WeddingRequest, prefs models.Preferences, reasons *reasonSet) int {
	score := 0

	min, hasMin := v.MinCapacity()
	max, hasMax := v.MaxCapacity()
	if (hasMin || hasMax) &&
		(!hasMin || req.GuestCount >= min) &&
		(!hasMax || req.GuestCount <= max) {
		score += 15
		reasons.add(models.ReasonFeature, 15, "fits %d guests", req.GuestCount)
	}

	if attrs == nil {
		return score
	}

	if prefs.VenueType != "" && strings.EqualFold(attrs.VenueType, prefs.VenueType) {
		score += 10
		reasons.add(models.ReasonFeature, 10, "%s venue as requested", attrs.VenueType)
	}
	if prefs.NeedsParking && attrs.HasParking {
		score += 5
		reasons.add(models.ReasonFeature, 5, "parking available")
	}
	if prefs.NeedsOutdoor && attrs.HasOutdoor {
		score += 5
		reasons.add(models.ReasonFeature, 5, "outdoor space available")
	}
	return score
}

func catererScore(v *models.Vendor, attrs *models.CatererAttributes, req *models.WeddingRequest, prefs models.Preferences, reasons *reasonSet) int {
	score := 0

	if attrs != nil {
		if matched := intersectFold(prefs.Cuisines, attrs.Cuisines); len(matched) > 0 {
			pts := minInt(15, 5*len(matched))
			score += pts
			reasons.add(models.ReasonFeature, pts, "serves %s cuisine", strings.Join(matched, ", "))
		}
		if matched := intersectFold(prefs.DietaryNeeds, attrs.DietaryOptions); len(matched) > 0 {
			score += 10
			reasons.add(models.ReasonFeature, 10, "caters for %s", strings.Join(matched, ", "))
		}
	}

	if max, ok := v.MaxCapacity(); ok && max >= req.GuestCount {
		score += 10
		reasons.add(models.ReasonFeature, 10, "can cater for %d guests", req.GuestCount)
	}
	return score
}

func mediaScore(attrs *models.MediaAttributes, req *models.WeddingRequest, prefs models.Preferences, reasons *reasonSet) int {
	if attrs == nil {
		return 0
	}
	score := 0

	if prefs.PhotoStyle != "" && strings.EqualFold(attrs.Style, prefs.PhotoStyle) {
		score += 15
		reasons.add(models.ReasonFeature, 15, "%s shooting style", attrs.Style)
	}
	if prefs.NeedsDrone && attrs.Drone {
		score += 10
		reasons.add(models.ReasonFeature, 10, "drone coverage")
	}
	if prefs.NeedsSameDayEdit && attrs.SameDayEdit {
		score += 10
		reasons.add(models.ReasonFeature, 10, "same-day edit")
	}
	if req.GuestCount > 200 && attrs.SecondShooter {
		score += 10
		reasons.add(models.ReasonFeature, 10, "second shooter for a large wedding")
	}
	return score
}

func musicScore(attrs *models.MusicAttributes, prefs models.Preferences, reasons *reasonSet) int {
	if attrs == nil {
		return 0
	}
	score := 0

	if matched := intersectFold(prefs.MusicGenres, attrs.Genres); len(matched) > 0 {
		pts := minInt(15, 5*len(matched))
		score += pts
		reasons.add(models.ReasonFeature, pts, "plays %s", strings.Join(matched, ", "))
	}
	if prefs.MusicianType != "" && strings.EqualFold(attrs.MusicianType, prefs.MusicianType) {
		score += 10
		reasons.add(models.ReasonFeature, 10, "%s as requested", attrs.MusicianType)
	}
	if attrs.SoundEquipment {
		score += 5
		reasons.add(models.ReasonFeature, 5, "sound equipment included")
	}
	return score
}

func decorScore(attrs *models.DecorAttributes, reasons *reasonSet) int {
	if attrs == nil {
		return 0
	}
	score := 0

	if attrs.Visualization3D {
		score += 10
		reasons.add(models.ReasonFeature, 10, "3D design visualisation")
	}
	if attrs.ReusesItems {
		score += 5
		reasons.add(models.ReasonFeature, 5, "reuses decor items")
	}
	return score
}

// internal/models/attributes.go
package models

import (
	"encoding/json"
	"fmt"
)

// Attributes is the category-specific part of a vendor record. Exactly one
// variant exists per category family; categories without one carry nil.
type Attributes interface {
	attributes()
}

type VenueAttributes struct {
	CapacityMin *int   `json:"capacityMin,omitempty"`
	CapacityMax *int   `json:"capacityMax,omitempty"`
	VenueType   string `json:"venueType,omitempty"`
	HasParking  bool   `json:"hasParking,omitempty"`
	HasOutdoor  bool   `json:"hasOutdoor,omitempty"`
}

type CatererAttributes struct {
	Cuisines       []string `json:"cuisines,omitempty"`
	DietaryOptions []string `json:"dietaryOptions,omitempty"`
}

// MediaAttributes covers photographers and videographers.
type MediaAttributes struct {
	Style         string `json:"style,omitempty"`
	Drone         bool   `json:"drone,omitempty"`
	SameDayEdit   bool   `json:"sameDayEdit,omitempty"`
	SecondShooter bool   `json:"secondShooter,omitempty"`
}

type MusicAttributes struct {
	Genres         []string `json:"genres,omitempty"`
	MusicianType   string   `json:"musicianType,omitempty"`
	SoundEquipment bool     `json:"soundEquipment,omitempty"`
}

// DecorAttributes covers decorators and florists.
type DecorAttributes struct {
	Visualization3D bool `json:"visualization3d,omitempty"`
	ReusesItems     bool `json:"reusesItems,omitempty"`
}

func (*VenueAttributes) attributes()   {}
func (*CatererAttributes) attributes() {}
func (*MediaAttributes) attributes()   {}
func (*MusicAttributes) attributes()   {}
func (*DecorAttributes) attributes()   {}

// DecodeAttributes decodes the raw attribute bag of a vendor in category c.
// Empty input and categories without attributes yield nil.
func DecodeAttributes(c Category, raw []byte) (Attributes, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var target Attributes
	switch c {
	case CategoryVenue:
		target = &VenueAttributes{}
	case CategoryCaterer:
		target = &CatererAttributes{}
	case CategoryPhotographer, CategoryVideographer:
		target = &MediaAttributes{}
	case CategoryMusic:
		target = &MusicAttributes{}
	case CategoryDecorator, CategoryFlorist:
		target = &DecorAttributes{}
	default:
		return nil, nil
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("decode %s attributes: %w", c, err)
	}
	return target, nil
}

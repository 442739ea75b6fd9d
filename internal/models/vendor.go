// internal/models/vendor.go
package models

import "encoding/json"

// Vendor is a catalog entry. Nullable numeric fields are pointers; a nil
// value means "unknown" and never triggers a filter.
type Vendor struct {
	ID                    string     `json:"id"`
	Name                  string     `json:"name"`
	Category              Category   `json:"category"`
	StartingPrice         *float64   `json:"startingPrice,omitempty"`
	MinGuests             *int       `json:"minGuests,omitempty"`
	MaxGuests             *int       `json:"maxGuests,omitempty"`
	Location              string     `json:"location,omitempty"`
	ServiceAreas          []string   `json:"serviceAreas,omitempty"`
	Styles                []string   `json:"styles,omitempty"`
	Rating                *float64   `json:"rating,omitempty"`
	ReviewCount           int        `json:"reviewCount"`
	Verified              bool       `json:"verified"`
	ExperienceYears       int        `json:"experienceYears"`
	Packages              []Package  `json:"packages,omitempty"`
	Bonuses               []string   `json:"bonuses,omitempty"`
	AdditionalServices    []string   `json:"additionalServices,omitempty"`
	DepositPercent        *float64   `json:"depositPercent,omitempty"`
	HasCancellationPolicy bool       `json:"hasCancellationPolicy"`
	DeliveryDays          *int       `json:"deliveryDays,omitempty"`
	Attributes            Attributes `json:"attributes,omitempty"`
}

type Package struct {
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Includes []string `json:"includes,omitempty"`
}

// UnmarshalJSON decodes the attribute bag into the variant for the vendor's category.
func (v *Vendor) UnmarshalJSON(data []byte) error {
	type plain Vendor
	var aux struct {
		plain
		Attributes json.RawMessage `json:"attributes,omitempty"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	attrs, err := DecodeAttributes(aux.Category, aux.Attributes)
	if err != nil {
		return err
	}

	*v = Vendor(aux.plain)
	v.Attributes = attrs
	return nil
}

// MaxCapacity prefers the generic max-guests field over the venue capacity.
func (v *Vendor) MaxCapacity() (int, bool) {
	if v.MaxGuests != nil {
		return *v.MaxGuests, true
	}
	if venue, ok := v.Attributes.(*VenueAttributes); ok && venue.CapacityMax != nil {
		return *venue.CapacityMax, true
	}
	return 0, false
}

// MinCapacity prefers the generic min-guests field over the venue capacity.
func (v *Vendor) MinCapacity() (int, bool) {
	if v.MinGuests != nil {
		return *v.MinGuests, true
	}
	if venue, ok := v.Attributes.(*VenueAttributes); ok && venue.CapacityMin != nil {
		return *venue.CapacityMin, true
	}
	return 0, false
}

// EstimatedPrice is the starting price, else the cheapest package, else 0.
func (v *Vendor) EstimatedPrice() float64 {
	if v.StartingPrice != nil {
		return *v.StartingPrice
	}
	var cheapest float64
	for i, p := range v.Packages {
		if i == 0 || p.Price < cheapest {
			cheapest = p.Price
		}
	}
	return cheapest
}

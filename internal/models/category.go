// internal/models/category.go
package models

import (
	"fmt"
	"strings"
)

// Category is a vendor service category.
type Category string

const (
	CategoryVenue        Category = "venue"
	CategoryCaterer      Category = "caterer"
	CategoryPhotographer Category = "photographer"
	CategoryVideographer Category = "videographer"
	CategoryMusic        Category = "music"
	CategoryDecorator    Category = "decorator"
	CategoryFlorist      Category = "florist"
	CategoryMakeup       Category = "makeup"
	CategoryTransport    Category = "transport"
	CategoryClothing     Category = "clothing"
	CategoryOther        Category = "other"
)

// AllCategories lists every category in declaration order.
var AllCategories = []Category{
	CategoryVenue,
	CategoryCaterer,
	CategoryPhotographer,
	CategoryVideographer,
	CategoryMusic,
	CategoryDecorator,
	CategoryFlorist,
	CategoryMakeup,
	CategoryTransport,
	CategoryClothing,
	CategoryOther,
}

// ParseCategory accepts a category name in any case.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

func (c Category) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// Priority expresses how much a couple cares about a category.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Multiplier scales the base budget share. Unknown priorities count as medium.
func (p Priority) Multiplier() float64 {
	switch p {
	case PriorityHigh:
		return 1.5
	case PriorityLow:
		return 0.7
	default:
		return 1.0
	}
}

// Rank orders priorities high to low; lower is more important.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

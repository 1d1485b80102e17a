package domain

import (
	"slices"
	"strings"
)

// Price level reported when the places service omits one.
const DefaultPriceLevel = 2

// Candidate is a discovered point of interest that may be admitted to the itinerary.
// PlaceID is the identity key: the same place found by several category searches
// collapses to a single Candidate.
type Candidate struct {
	PlaceID    string
	Name       string
	Vicinity   string
	Location   Coordinates
	Types      []string
	PriceLevel *int
}

func (c Candidate) HasType(t string) bool {
	return slices.Contains(c.Types, t)
}

// EffectivePriceLevel clamps the reported price level to 1..4, defaulting to 2.
func (c Candidate) EffectivePriceLevel() int {
	if c.PriceLevel == nil {
		return DefaultPriceLevel
	}
	return min(max(*c.PriceLevel, 1), 4)
}

// PriceLabel renders the price level as "$" through "$$$$".
func (c Candidate) PriceLabel() string {
	return strings.Repeat("$", c.EffectivePriceLevel())
}

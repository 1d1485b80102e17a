package ports

import (
	"context"
	"itinerary-service/internal/domain"
)

// One nearby-search request: a circle and a single place category.
type SearchQuery struct {
	Center       domain.Coordinates
	RadiusMeters float64
	Category     string
}

// Raw place record as returned by the places service.
type PlaceRecord struct {
	ID         string
	Name       string
	Vicinity   string
	Location   domain.Coordinates
	Types      []string
	PriceLevel *int
}

// Contract for discovering places of one category around a point.
type PlaceSearchProvider interface {
	// Return places of query.Category within the query circle.
	SearchNearby(ctx context.Context, query SearchQuery) ([]PlaceRecord, error)
}

// Optional cache of nearby-search results, consulted by search providers.
type PlaceSearchCache interface {
	Get(ctx context.Context, query SearchQuery) ([]PlaceRecord, bool, error)
	Put(ctx context.Context, query SearchQuery, records []PlaceRecord) error
}

package ports

import (
	"context"
	"itinerary-service/internal/domain"
)

// Request for a driving route from origin to destination through waypoints.
type DirectionsRequest struct {
	Origin      domain.Coordinates
	Destination domain.Coordinates
	Waypoints   []domain.Coordinates
	// Let the provider reorder waypoints to shorten the route.
	Optimize bool
}

// Route returned by a directions service.
type DirectionsResult struct {
	Polyline string
	// Provider's visiting order as indexes into the request waypoints.
	WaypointOrder []int
	// Per-leg durations, each the sum of that leg's step durations.
	LegDurationsSeconds []int
}

// TotalSeconds sums every leg.
func (r DirectionsResult) TotalSeconds() int {
	total := 0
	for _, d := range r.LegDurationsSeconds {
		total += d
	}
	return total
}

// Contract for computing routes between ordered stops.
type DirectionsProvider interface {
	Route(ctx context.Context, req DirectionsRequest) (DirectionsResult, error)
}

// Optional extension of DirectionsProvider for cached anchor-to-anchor estimates.
type TravelEstimator interface {
	DirectionsProvider
	// Return the driving time from origin to destination without waypoints.
	EstimateTravel(ctx context.Context, origin, destination domain.Coordinates) (domain.TravelEstimate, error)
}

// Persistent cache of anchor-to-anchor travel estimates.
type TravelEstimateCache interface {
	Get(ctx context.Context, origin, destination domain.Coordinates) (domain.TravelEstimate, bool, error)
	Put(ctx context.Context, origin, destination domain.Coordinates, est domain.TravelEstimate) error
}

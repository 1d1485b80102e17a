package google

import (
	"context"
	"itinerary-service/internal/ports"
	"sync"
)

// MockDirectionsProvider returns a fixed-duration route per leg, or delegates
// to RouteFunc when set.
type MockDirectionsProvider struct {
	LegSeconds int
	Polyline   string
	RouteFunc  func(ctx context.Context, req ports.DirectionsRequest) (ports.DirectionsResult, error)

	mu    sync.Mutex
	calls []ports.DirectionsRequest
}

func NewMockDirectionsProvider(legSeconds int) *MockDirectionsProvider {
	return &MockDirectionsProvider{LegSeconds: legSeconds}
}

func (d *MockDirectionsProvider) Route(ctx context.Context, req ports.DirectionsRequest) (ports.DirectionsResult, error) {
	d.mu.Lock()
	d.calls = append(d.calls, req)
	fn := d.RouteFunc
	d.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}

	order := make([]int, len(req.Waypoints))
	legs := make([]int, len(req.Waypoints)+1)
	for i := range order {
		order[i] = i
	}
	for i := range legs {
		legs[i] = d.LegSeconds
	}
	return ports.DirectionsResult{Polyline: d.Polyline, WaypointOrder: order, LegDurationsSeconds: legs}, nil
}

func (d *MockDirectionsProvider) Calls() []ports.DirectionsRequest {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]ports.DirectionsRequest(nil), d.calls...)
}

// SetRouteFunc swaps the route behavior while the mock is in use.
func (d *MockDirectionsProvider) SetRouteFunc(fn func(ctx context.Context, req ports.DirectionsRequest) (ports.DirectionsResult, error)) {
	d.mu.Lock()
	d.RouteFunc = fn
	d.mu.Unlock()
}

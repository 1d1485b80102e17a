package domain

// TravelEstimate is the total driving time of a route, summed over every step of every leg.
type TravelEstimate struct {
	TotalSeconds int
}

type StopKind string

const (
	StopStart    StopKind = "start"
	StopWaypoint StopKind = "waypoint"
	StopEnd      StopKind = "end"
)

// RouteStop is one entry of a route's ordered stop list.
type RouteStop struct {
	Kind     StopKind
	PlaceID  string
	Name     string
	Location Coordinates
}

// Route is the drawn path through the anchors and admitted candidates.
// Each recompute produces a new Route that replaces the previous one wholesale.
//
// Stops is the requested order: start, selection in insertion order, end.
// VisitOrder is the provider's optimized waypoint order as indexes into the
// waypoint portion of Stops.
type Route struct {
	Generation   uint64
	Stops        []RouteStop
	VisitOrder   []int
	Polyline     string
	Path         []Coordinates
	Bounds       Bounds
	LegDurations []int
	Travel       TravelEstimate
}

// Waypoints returns the stops between the two anchors.
func (r *Route) Waypoints() []RouteStop {
	if len(r.Stops) < 2 {
		return nil
	}
	return r.Stops[1 : len(r.Stops)-1]
}

// OptimizedStops returns the stops in the order the provider chose to visit them.
func (r *Route) OptimizedStops() []RouteStop {
	wps := r.Waypoints()
	if len(r.VisitOrder) != len(wps) {
		return r.Stops
	}

	out := make([]RouteStop, 0, len(r.Stops))
	out = append(out, r.Stops[0])
	for _, idx := range r.VisitOrder {
		if idx < 0 || idx >= len(wps) {
			return r.Stops
		}
		out = append(out, wps[idx])
	}
	out = append(out, r.Stops[len(r.Stops)-1])
	return out
}

type MarkerKind string

const (
	MarkerStart MarkerKind = "start"
	MarkerEnd   MarkerKind = "end"
	MarkerStop  MarkerKind = "stop"
)

// Marker is a pin shown on the map for an anchor or an admitted candidate.
type Marker struct {
	Kind     MarkerKind
	PlaceID  string
	Title    string
	Location Coordinates
}

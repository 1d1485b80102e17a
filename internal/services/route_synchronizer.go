package services

import (
	"context"
	"errors"
	"fmt"
	"itinerary-service/internal/domain"
	"itinerary-service/internal/platform/obs"
	"itinerary-service/internal/ports"
	"sync"

	"github.com/twpayne/go-polyline"
	"go.uber.org/zap"
)

// RouteSynchronizer keeps one session's route in step with its selection.
//
// Every Recompute takes a new generation number before calling the
// directions provider. Only the result of the latest generation is committed
// and published; older results that arrive late are discarded.
type RouteSynchronizer struct {
	sessionID string
	provider  ports.DirectionsProvider
	renderer  ports.MapRenderer
	metrics   *obs.Metrics

	mu         sync.Mutex
	generation uint64
	current    *domain.Route
}

func NewRouteSynchronizer(
	sessionID string,
	provider ports.DirectionsProvider,
	renderer ports.MapRenderer,
	metrics *obs.Metrics,
) *RouteSynchronizer {
	return &RouteSynchronizer{
		sessionID: sessionID,
		provider:  provider,
		renderer:  renderer,
		metrics:   metrics,
	}
}

// BuildStops orders the stops as start, admitted candidates, end. Candidates
// that duplicate an anchor are skipped.
func BuildStops(start, end domain.Anchor, selection []domain.Candidate) []domain.RouteStop {
	stops := make([]domain.RouteStop, 0, len(selection)+2)
	stops = append(stops, domain.RouteStop{
		Kind: domain.StopStart, PlaceID: start.PlaceID, Name: start.Name, Location: start.Location,
	})
	for _, c := range selection {
		if c.PlaceID == start.PlaceID || c.PlaceID == end.PlaceID {
			continue
		}
		stops = append(stops, domain.RouteStop{
			Kind: domain.StopWaypoint, PlaceID: c.PlaceID, Name: c.Name, Location: c.Location,
		})
	}
	stops = append(stops, domain.RouteStop{
		Kind: domain.StopEnd, PlaceID: end.PlaceID, Name: end.Name, Location: end.Location,
	})
	return stops
}

// RouteRequest is a recompute that has been assigned its generation but not
// yet sent to the directions provider.
type RouteRequest struct {
	Generation uint64
	Stops      []domain.RouteStop
}

// Prepare claims the next generation for the selection. Callers that guard
// the selection with their own lock must call Prepare under that lock, so
// generations follow the order in which selections were taken.
func (s *RouteSynchronizer) Prepare(start, end domain.Anchor, selection []domain.Candidate) RouteRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	return RouteRequest{Generation: s.generation, Stops: BuildStops(start, end, selection)}
}

// Recompute requests a fresh route for the selection and commits it unless a
// newer recompute started in the meantime.
func (s *RouteSynchronizer) Recompute(
	ctx context.Context,
	start domain.Anchor,
	end domain.Anchor,
	selection []domain.Candidate,
) (*domain.Route, error) {
	return s.Run(ctx, s.Prepare(start, end, selection))
}

// Run sends a prepared request to the directions provider and commits the
// result if no later request was prepared in the meantime.
//
// Provider failures return an error wrapping domain.ErrRouteUnavailable and
// leave the committed route untouched. A superseded result returns ErrStaleRoute.
func (s *RouteSynchronizer) Run(ctx context.Context, req RouteRequest) (_ *domain.Route, err error) {
	defer obs.Time(ctx, "routes.Recompute")(&err)

	gen := req.Generation
	stops := req.Stops
	waypoints := make([]domain.Coordinates, 0, len(stops)-2)
	for _, st := range stops[1 : len(stops)-1] {
		waypoints = append(waypoints, st.Location)
	}

	res, err := s.provider.Route(ctx, ports.DirectionsRequest{
		Origin:      stops[0].Location,
		Destination: stops[len(stops)-1].Location,
		Waypoints:   waypoints,
		Optimize:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("recompute route gen=%d: %w: %w", gen, domain.ErrRouteUnavailable, err)
	}

	route, err := buildRoute(gen, stops, res)
	if err != nil {
		return nil, fmt.Errorf("recompute route gen=%d: %w: %w", gen, domain.ErrRouteUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.metrics.ObserveStaleRoute()
		zap.L().Debug("discarding stale route",
			zap.String("session_id", s.sessionID),
			zap.Uint64("generation", gen),
			zap.Uint64("latest", s.generation),
		)
		return nil, fmt.Errorf("recompute route gen=%d latest=%d: %w", gen, s.generation, ErrStaleRoute)
	}

	s.current = route
	if s.renderer != nil {
		s.renderer.PublishRoute(s.sessionID, *route)
	}

	out := *route
	return &out, nil
}

// Current returns the committed route, if any.
func (s *RouteSynchronizer) Current() (domain.Route, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return domain.Route{}, false
	}
	return *s.current, true
}

var errNoLegs = errors.New("directions result has no legs")

func buildRoute(gen uint64, stops []domain.RouteStop, res ports.DirectionsResult) (*domain.Route, error) {
	if len(res.LegDurationsSeconds) == 0 {
		return nil, errNoLegs
	}

	travel := 0
	for _, d := range res.LegDurationsSeconds {
		if d < 0 {
			return nil, fmt.Errorf("negative leg duration %d", d)
		}
		travel += d
	}

	nWaypoints := len(stops) - 2
	order := res.WaypointOrder
	if len(order) != nWaypoints {
		order = make([]int, nWaypoints)
		for i := range order {
			order[i] = i
		}
	}

	var path []domain.Coordinates
	if res.Polyline != "" {
		coords, _, err := polyline.DecodeCoords([]byte(res.Polyline))
		if err != nil {
			return nil, fmt.Errorf("decode polyline: %w", err)
		}
		path = make([]domain.Coordinates, 0, len(coords))
		for _, c := range coords {
			path = append(path, domain.Coordinates{Lat: c[0], Lon: c[1]})
		}
	}

	boundsOf := path
	if len(boundsOf) == 0 {
		boundsOf = make([]domain.Coordinates, 0, len(stops))
		for _, st := range stops {
			boundsOf = append(boundsOf, st.Location)
		}
	}

	return &domain.Route{
		Generation:   gen,
		Stops:        stops,
		VisitOrder:   order,
		Polyline:     res.Polyline,
		Path:         path,
		Bounds:       domain.BoundsOf(boundsOf),
		LegDurations: append([]int(nil), res.LegDurationsSeconds...),
		Travel:       domain.TravelEstimate{TotalSeconds: travel},
	}, nil
}

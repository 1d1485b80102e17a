package services

import (
	"context"
	"errors"
	"fmt"
	"itinerary-service/internal/domain"
	"itinerary-service/internal/platform/obs"
	"itinerary-service/internal/ports"
	"sync"
	"time"
)

// Session is one planning session: fixed anchors and time window, the free-time
// ledger, the candidate pool and selection, and the synchronized route.
//
// Ledger and selection changes are serialized by mu. Route recomputes run
// outside mu so a later toggle can supersede an in-flight recompute.
type Session struct {
	ID         string
	UserID     string
	Start      domain.Anchor
	End        domain.Anchor
	Window     domain.TimeWindow
	BaseTravel domain.TravelEstimate
	Region     domain.SearchRegion
	Categories []string
	CreatedAt  time.Time

	aggregator *CandidateAggregator
	renderer   ports.MapRenderer
	metrics    *obs.Metrics
	routes     *RouteSynchronizer

	mu        sync.Mutex
	ledger    *domain.TimeLedger
	selection *domain.SelectionSet
	failures  map[string]error
}

// ToggleOutcome is the committed result of a toggle plus what happened to the route.
type ToggleOutcome struct {
	domain.ToggleResult
	Route *domain.Route
	// Set when the route could not be refreshed; the previous route stays in place.
	RouteErr error
	// True when a newer toggle superseded this toggle's route recompute.
	RouteStale bool
}

// Toggle admits an available candidate or removes an admitted one, then
// recomputes the route. A rejected admission returns an error wrapping
// domain.ErrInsufficientTime and changes nothing.
func (s *Session) Toggle(ctx context.Context, placeID string) (ToggleOutcome, error) {
	s.mu.Lock()
	res, err := s.selection.Toggle(placeID, s.ledger)
	if err != nil {
		s.mu.Unlock()
		if errors.Is(err, domain.ErrInsufficientTime) {
			s.metrics.ObserveToggle("rejected")
		}
		return ToggleOutcome{ToggleResult: res}, fmt.Errorf("session %s: %w", s.ID, err)
	}
	// Claim the route generation before releasing mu so a later toggle
	// always gets the later generation.
	req := s.routes.Prepare(s.Start, s.End, s.selection.Admitted())
	s.publishLocked()
	s.mu.Unlock()

	if res.Admitted {
		s.metrics.ObserveToggle("admitted")
	} else {
		s.metrics.ObserveToggle("removed")
	}

	out := ToggleOutcome{ToggleResult: res}
	route, err := s.routes.Run(ctx, req)
	switch {
	case errors.Is(err, ErrStaleRoute):
		out.RouteStale = true
	case err != nil:
		out.RouteErr = err
	default:
		out.Route = route
	}
	return out, nil
}

// RefreshCandidates reruns the category fan-out and replaces the available pool.
// Admitted candidates are kept. The error is non-nil only when every category failed.
func (s *Session) RefreshCandidates(ctx context.Context) (SearchResult, error) {
	res := s.aggregator.Search(ctx, s.Region, s.Categories)

	s.mu.Lock()
	s.selection.ReplacePool(res.Candidates)
	s.failures = res.Failures
	s.mu.Unlock()

	if res.AllFailed() {
		return res, fmt.Errorf("session %s: %w", s.ID, errAllCategoriesFailed)
	}
	return res, nil
}

// RefreshRoute recomputes the route for the current selection.
func (s *Session) RefreshRoute(ctx context.Context) (*domain.Route, error) {
	s.mu.Lock()
	req := s.routes.Prepare(s.Start, s.End, s.selection.Admitted())
	s.mu.Unlock()

	return s.routes.Run(ctx, req)
}

// CandidateView is a candidate with its selection state.
type CandidateView struct {
	domain.Candidate
	State        domain.CandidateState
	VisitSeconds int
}

// Snapshot is a consistent read of a session's mutable state.
type Snapshot struct {
	FreeSeconds     int
	CapacitySeconds int
	Pool            []CandidateView
	Admitted        []CandidateView
	Route           *domain.Route
	// Extra driving time of the current route over the direct anchor-to-anchor trip.
	DetourSeconds int
	Failures      map[string]string
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	snap := Snapshot{
		FreeSeconds:     s.ledger.FreeSeconds(),
		CapacitySeconds: s.ledger.CapacitySeconds(),
		Pool:            views(s.selection.Pool(), domain.StateAvailable),
		Admitted:        views(s.selection.Admitted(), domain.StateAdmitted),
		Failures:        make(map[string]string, len(s.failures)),
	}
	for cat, err := range s.failures {
		snap.Failures[cat] = err.Error()
	}
	s.mu.Unlock()

	if r, ok := s.routes.Current(); ok {
		snap.Route = &r
		snap.DetourSeconds = r.Travel.TotalSeconds - s.BaseTravel.TotalSeconds
	}
	return snap
}

// HandoffURL links to turn-by-turn directions for the current itinerary.
// Waypoints follow the committed route's optimized order when one exists.
func (s *Session) HandoffURL() string {
	s.mu.Lock()
	admitted := s.selection.Admitted()
	s.mu.Unlock()

	stops := BuildStops(s.Start, s.End, admitted)
	// The committed route may lag the selection; only follow it when it matches.
	if r, ok := s.routes.Current(); ok && sameStops(r.Waypoints(), admitted) {
		stops = r.OptimizedStops()
	}
	return BuildHandoffURL(s.Start, s.End, stops[1:len(stops)-1])
}

func (s *Session) publishState() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishLocked()
}

func (s *Session) publishLocked() {
	if s.renderer == nil {
		return
	}
	s.renderer.PublishMarkers(s.ID, s.selection.Markers())
	s.renderer.PublishFreeTime(s.ID, s.ledger.FreeSeconds())
}

func views(cs []domain.Candidate, state domain.CandidateState) []CandidateView {
	out := make([]CandidateView, 0, len(cs))
	for _, c := range cs {
		out = append(out, CandidateView{Candidate: c, State: state, VisitSeconds: c.VisitSeconds()})
	}
	return out
}

func sameStops(stops []domain.RouteStop, admitted []domain.Candidate) bool {
	if len(stops) != len(admitted) {
		return false
	}
	for i := range stops {
		if stops[i].PlaceID != admitted[i].PlaceID {
			return false
		}
	}
	return true
}

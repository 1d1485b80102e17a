package services

import (
	"context"
	"errors"
	"itinerary-service/internal/adapters/google"
	"itinerary-service/internal/adapters/render"
	"itinerary-service/internal/adapters/repositories"
	"itinerary-service/internal/domain"
	"itinerary-service/internal/platform/obs"
	"itinerary-service/internal/ports"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"
)

var nineAM = time.Date(2026, 6, 6, 9, 0, 0, 0, time.UTC)

type fixture struct {
	places   *google.MockPlacesProvider
	dirs     *google.MockDirectionsProvider
	prefs    *repositories.MemoryPreferenceRepository
	recorder *render.Recorder
	planner  *Planner
}

func newFixture(legSeconds int, categories map[string]google.MockCategory) *fixture {
	f := &fixture{
		places:   google.NewMockPlacesProvider(categories),
		dirs:     google.NewMockDirectionsProvider(legSeconds),
		prefs:    repositories.NewMemoryPreferenceRepository(),
		recorder: render.NewRecorder(),
	}
	f.planner = NewPlanner(NewCandidateAggregator(f.places, 4), f.dirs, f.prefs, f.recorder, nil)
	return f
}

func beginRequest(hours int, interests ...string) BeginSessionRequest {
	start, end := anchors()
	return BeginSessionRequest{
		Start:     start,
		End:       end,
		StartAt:   nineAM,
		EndAt:     nineAM.Add(time.Duration(hours) * time.Hour),
		Interests: interests,
	}
}

func restaurants() map[string]google.MockCategory {
	return map[string]google.MockCategory{
		"restaurant": {Records: []ports.PlaceRecord{
			{ID: "r1", Name: "Noodles", Location: domain.Coordinates{Lat: 37.80, Lon: -122.30}, Types: []string{"restaurant"}},
			{ID: "r2", Name: "Tacos", Location: domain.Coordinates{Lat: 37.81, Lon: -122.31}, Types: []string{"restaurant"}},
		}},
	}
}

func TestSessionRestaurantBudgetScenario(t *testing.T) {
	// 3h window minus 1h of travel leaves 2h of capacity.
	f := newFixture(3600, restaurants())

	s, err := f.planner.BeginSession(context.Background(), beginRequest(3, "food"))
	if err != nil {
		t.Fatalf("begin session: %v", err)
	}
	if s.Snapshot().CapacitySeconds != 7200 {
		t.Fatalf("capacity = %d, want 7200", s.Snapshot().CapacitySeconds)
	}

	out, err := s.Toggle(context.Background(), "r1")
	if err != nil {
		t.Fatalf("admit r1: %v", err)
	}
	if !out.Admitted || out.FreeSeconds != 3600 {
		t.Fatalf("admit r1 = %+v, want admitted with 3600 free", out.ToggleResult)
	}
	if out.Route == nil || len(out.Route.Waypoints()) != 1 {
		t.Fatalf("route after admit = %+v, want one waypoint", out.Route)
	}

	_, err = s.Toggle(context.Background(), "r2")
	if !errors.Is(err, domain.ErrInsufficientTime) {
		t.Fatalf("admit r2 err = %v, want ErrInsufficientTime", err)
	}

	out, err = s.Toggle(context.Background(), "r1")
	if err != nil {
		t.Fatalf("remove r1: %v", err)
	}
	if out.Admitted || out.FreeSeconds != 7200 {
		t.Fatalf("remove r1 = %+v, want 7200 free", out.ToggleResult)
	}

	view, ok := f.recorder.View(s.ID)
	if !ok {
		t.Fatalf("nothing published")
	}
	if view.FreeSeconds != 7200 || len(view.Markers) != 2 {
		t.Fatalf("published view = free %d markers %d, want 7200 and 2", view.FreeSeconds, len(view.Markers))
	}
	if view.Route == nil || len(view.Route.Waypoints()) != 0 {
		t.Fatalf("published route = %+v, want no waypoints", view.Route)
	}
}

func TestBeginSessionRejectsDuplicateAnchor(t *testing.T) {
	f := newFixture(600, restaurants())
	req := beginRequest(3, "food")
	req.End = req.Start

	_, err := f.planner.BeginSession(context.Background(), req)
	if !errors.Is(err, domain.ErrDuplicateAnchor) {
		t.Fatalf("err = %v, want ErrDuplicateAnchor", err)
	}
	if len(f.dirs.Calls()) != 0 || len(f.places.Calls()) != 0 {
		t.Fatalf("providers called for rejected session")
	}
}

func TestBeginSessionRejectsInsufficientWindow(t *testing.T) {
	f := newFixture(4000, restaurants())

	_, err := f.planner.BeginSession(context.Background(), beginRequest(1, "food"))
	if !errors.Is(err, domain.ErrInvalidCapacity) {
		t.Fatalf("err = %v, want ErrInvalidCapacity", err)
	}

	var ce *domain.InvalidCapacityError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want *InvalidCapacityError", err)
	}
	if ce.MinutesShort() != 7 {
		t.Fatalf("minutes short = %d, want 7", ce.MinutesShort())
	}
	if len(f.places.Calls()) != 0 {
		t.Fatalf("candidate search ran before capacity was validated")
	}
}

func TestBeginSessionRejectsBadWindow(t *testing.T) {
	f := newFixture(600, restaurants())
	req := beginRequest(0, "food")

	if _, err := f.planner.BeginSession(context.Background(), req); !errors.Is(err, domain.ErrInvalidTimeWindow) {
		t.Fatalf("err = %v, want ErrInvalidTimeWindow", err)
	}
}

func TestBeginSessionSurvivesCategoryFailure(t *testing.T) {
	cats := restaurants()
	cats["park"] = google.MockCategory{Err: errors.New("park search failed")}
	f := newFixture(600, cats)

	s, err := f.planner.BeginSession(context.Background(), beginRequest(4, "gardens", "food"))
	if err != nil {
		t.Fatalf("begin session: %v", err)
	}

	snap := s.Snapshot()
	if len(snap.Pool) != 2 {
		t.Fatalf("pool = %d, want 2", len(snap.Pool))
	}
	for _, c := range snap.Pool {
		if !c.HasType("restaurant") {
			t.Fatalf("unexpected candidate %+v", c.Candidate)
		}
	}
	if _, ok := snap.Failures["park"]; !ok {
		t.Fatalf("failures = %v, want park", snap.Failures)
	}
}

func TestBeginSessionUsesStoredInterests(t *testing.T) {
	f := newFixture(600, restaurants())
	if err := f.prefs.SaveInterests(context.Background(), "alice", []string{"food"}); err != nil {
		t.Fatalf("save interests: %v", err)
	}

	req := beginRequest(3)
	req.UserID = "alice"
	s, err := f.planner.BeginSession(context.Background(), req)
	if err != nil {
		t.Fatalf("begin session: %v", err)
	}
	if len(s.Categories) != 1 || s.Categories[0] != "restaurant" {
		t.Fatalf("categories = %v, want [restaurant]", s.Categories)
	}

	req.UserID = "nobody"
	if _, err := f.planner.BeginSession(context.Background(), req); !errors.Is(err, domain.ErrNoCategories) {
		t.Fatalf("err = %v, want ErrNoCategories", err)
	}
}

// pausingContext blocks the first request-id lookup, which happens once the
// toggle has released the session lock and is about to call the provider.
type pausingContext struct {
	context.Context
	once    sync.Once
	paused  chan struct{}
	release chan struct{}
}

func newPausingContext() *pausingContext {
	return &pausingContext{
		Context: context.Background(),
		paused:  make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (c *pausingContext) Value(key any) any {
	if key == obs.RequestIDKey {
		c.once.Do(func() {
			close(c.paused)
			<-c.release
		})
	}
	return c.Context.Value(key)
}

func TestSessionOverlappingTogglesCommitLatestSelection(t *testing.T) {
	f := newFixture(600, restaurants())
	s, err := f.planner.BeginSession(context.Background(), beginRequest(5, "food"))
	if err != nil {
		t.Fatalf("begin session: %v", err)
	}

	slow := newPausingContext()
	var (
		first    ToggleOutcome
		firstErr error
		done     = make(chan struct{})
	)
	go func() {
		defer close(done)
		first, firstErr = s.Toggle(slow, "r1")
	}()
	<-slow.paused

	second, err := s.Toggle(context.Background(), "r2")
	if err != nil {
		t.Fatalf("toggle r2: %v", err)
	}
	if second.Route == nil || len(second.Route.Waypoints()) != 2 {
		t.Fatalf("r2 route = %+v, want both waypoints", second.Route)
	}

	close(slow.release)
	<-done
	if firstErr != nil {
		t.Fatalf("toggle r1: %v", firstErr)
	}
	if !first.RouteStale {
		t.Fatalf("r1 outcome = %+v, want stale route", first)
	}

	snap := s.Snapshot()
	if snap.Route == nil {
		t.Fatalf("no committed route")
	}
	wps := snap.Route.Waypoints()
	if len(wps) != len(snap.Admitted) {
		t.Fatalf("route waypoints = %d, admitted = %d", len(wps), len(snap.Admitted))
	}
	for i := range wps {
		if wps[i].PlaceID != snap.Admitted[i].PlaceID {
			t.Fatalf("waypoint %d = %s, want %s", i, wps[i].PlaceID, snap.Admitted[i].PlaceID)
		}
	}

	view, ok := f.recorder.View(s.ID)
	if !ok || view.Route == nil || len(view.Route.Waypoints()) != 2 || len(view.Markers) != 4 {
		t.Fatalf("published view = %+v, want route through both stops and 4 markers", view)
	}
}

func TestSessionToggleKeepsStateWhenRouteFails(t *testing.T) {
	f := newFixture(600, restaurants())
	s, err := f.planner.BeginSession(context.Background(), beginRequest(4, "food"))
	if err != nil {
		t.Fatalf("begin session: %v", err)
	}
	before, _ := s.routes.Current()

	f.dirs.SetRouteFunc(func(ctx context.Context, req ports.DirectionsRequest) (ports.DirectionsResult, error) {
		return ports.DirectionsResult{}, errors.New("directions down")
	})

	out, err := s.Toggle(context.Background(), "r1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !errors.Is(out.RouteErr, domain.ErrRouteUnavailable) {
		t.Fatalf("route err = %v, want ErrRouteUnavailable", out.RouteErr)
	}
	if !out.Admitted {
		t.Fatalf("toggle not committed")
	}

	after, _ := s.routes.Current()
	if after.Generation != before.Generation {
		t.Fatalf("route changed after failure: gen %d -> %d", before.Generation, after.Generation)
	}
}

func TestSessionHandoffURL(t *testing.T) {
	f := newFixture(600, restaurants())
	s, err := f.planner.BeginSession(context.Background(), beginRequest(5, "food"))
	if err != nil {
		t.Fatalf("begin session: %v", err)
	}
	if _, err := s.Toggle(context.Background(), "r1"); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	u, err := url.Parse(s.HandoffURL())
	if err != nil {
		t.Fatalf("parse handoff url: %v", err)
	}
	q := u.Query()
	if q.Get("api") != "1" || q.Get("origin") != s.Start.Location.String() || q.Get("destination") != s.End.Location.String() {
		t.Fatalf("handoff query = %v", q)
	}
	if q.Get("waypoints") != "37.8,-122.3" {
		t.Fatalf("waypoints = %q, want 37.8,-122.3", q.Get("waypoints"))
	}
	if !strings.HasPrefix(s.HandoffURL(), "https://www.google.com/maps/dir/?") {
		t.Fatalf("handoff url = %q", s.HandoffURL())
	}
}

func TestSessionManagerReplacesUserSession(t *testing.T) {
	f := newFixture(600, restaurants())
	m := NewSessionManager(f.planner, f.recorder, nil)

	req := beginRequest(3, "food")
	req.UserID = "alice"
	first, err := m.Begin(context.Background(), req)
	if err != nil {
		t.Fatalf("begin first: %v", err)
	}
	second, err := m.Begin(context.Background(), req)
	if err != nil {
		t.Fatalf("begin second: %v", err)
	}

	if _, err := m.Get(first.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("first session still live: %v", err)
	}
	if _, ok := f.recorder.View(first.ID); ok {
		t.Fatalf("first session view not discarded")
	}
	if got, err := m.Get(second.ID); err != nil || got != second {
		t.Fatalf("second session lookup = %v, %v", got, err)
	}
	if m.Len() != 1 {
		t.Fatalf("sessions = %d, want 1", m.Len())
	}

	if err := m.Discard(second.ID); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if err := m.Discard(second.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("second discard err = %v, want ErrSessionNotFound", err)
	}
}

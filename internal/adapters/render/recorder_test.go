package render

import (
	"itinerary-service/internal/domain"
	"testing"
)

func TestRecorderReplacesRoute(t *testing.T) {
	r := NewRecorder()

	r.PublishRoute("s1", domain.Route{Generation: 1, Polyline: "old"})
	r.PublishRoute("s1", domain.Route{Generation: 2, Polyline: "new"})
	r.PublishFreeTime("s1", 1800)
	r.PublishMarkers("s1", []domain.Marker{{Kind: domain.MarkerStart}})

	v, ok := r.View("s1")
	if !ok {
		t.Fatalf("view missing")
	}
	if v.Route == nil || v.Route.Generation != 2 || v.Route.Polyline != "new" {
		t.Fatalf("route = %+v, want generation 2", v.Route)
	}
	if v.FreeSeconds != 1800 || len(v.Markers) != 1 || v.Version != 4 {
		t.Fatalf("unexpected view: %+v", v)
	}

	r.Discard("s1")
	if _, ok := r.View("s1"); ok {
		t.Fatalf("view still present after discard")
	}
}

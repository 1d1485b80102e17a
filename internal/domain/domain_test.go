package domain

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestVisitSecondsPriority(t *testing.T) {
	cases := []struct {
		types []string
		want  time.Duration
	}{
		{[]string{"bar", "night_club"}, 4 * time.Hour},
		{[]string{"amusement_park", "park"}, 8 * time.Hour},
		{[]string{"aquarium"}, 4 * time.Hour},
		{[]string{"bowling_alley"}, 2 * time.Hour},
		{[]string{"movie_theater"}, 3 * time.Hour},
		{[]string{"zoo", "park"}, 4 * time.Hour},
		{[]string{"park"}, 1 * time.Hour},
		{[]string{"restaurant", "bar"}, 2 * time.Hour},
		{[]string{"bar"}, 2 * time.Hour},
		{[]string{"restaurant", "food"}, 1 * time.Hour},
		{[]string{"museum"}, 0},
		{nil, 0},
	}

	for _, tc := range cases {
		if got := VisitSeconds(tc.types); got != int(tc.want.Seconds()) {
			t.Errorf("VisitSeconds(%v) = %d, want %d", tc.types, got, int(tc.want.Seconds()))
		}
	}
}

func TestMidpointAndRadius(t *testing.T) {
	a := Coordinates{Lat: 0, Lon: 0}
	b := Coordinates{Lat: 0, Lon: 90}

	mid := Midpoint(a, b)
	if math.Abs(mid.Lat) > 1e-9 || math.Abs(mid.Lon-45) > 1e-9 {
		t.Fatalf("midpoint = %+v, want (0, 45)", mid)
	}

	// Quarter of the equator.
	want := earthRadiusMeters * math.Pi / 4
	if got := SearchRadiusMeters(a, b); math.Abs(got-want) > 1e-6 {
		t.Fatalf("radius = %f, want %f", got, want)
	}

	if got := SearchRadiusMeters(a, a); got != 0 {
		t.Fatalf("radius of identical anchors = %f, want 0", got)
	}
}

func TestMidpointIsEquidistant(t *testing.T) {
	sf := Coordinates{Lat: 37.7749, Lon: -122.4194}
	oak := Coordinates{Lat: 37.8044, Lon: -122.2712}

	region := NewSearchRegion(sf, oak)
	da := DistanceMeters(sf, region.Center)
	db := DistanceMeters(oak, region.Center)
	if math.Abs(da-db) > 0.01 {
		t.Fatalf("distances to midpoint differ: %f vs %f", da, db)
	}
	if math.Abs(region.RadiusMeters-da) > 0.01 {
		t.Fatalf("radius = %f, want %f", region.RadiusMeters, da)
	}
}

func TestValidateAnchors(t *testing.T) {
	start, end := testAnchors()
	if err := ValidateAnchors(start, end); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dup := end
	dup.PlaceID = start.PlaceID
	if err := ValidateAnchors(start, dup); !errors.Is(err, ErrDuplicateAnchor) {
		t.Fatalf("err = %v, want ErrDuplicateAnchor", err)
	}

	colocated := end
	colocated.Location = start.Location
	if err := ValidateAnchors(start, colocated); !errors.Is(err, ErrDuplicateAnchor) {
		t.Fatalf("colocated err = %v, want ErrDuplicateAnchor", err)
	}
}

func TestNewTimeWindow(t *testing.T) {
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	if _, err := NewTimeWindow(start, start.Add(30*time.Second)); !errors.Is(err, ErrInvalidTimeWindow) {
		t.Fatalf("same-minute window err = %v, want ErrInvalidTimeWindow", err)
	}

	w, err := NewTimeWindow(start, start.Add(3*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.DurationSeconds() != 10800 {
		t.Fatalf("duration = %d, want 10800", w.DurationSeconds())
	}
}

func TestInvalidCapacityErrorMinutesShort(t *testing.T) {
	err := &InvalidCapacityError{UserSeconds: 3600, TravelSeconds: 3725}
	if got := err.MinutesShort(); got != 3 {
		t.Fatalf("MinutesShort = %d, want 3", got)
	}
	if !errors.Is(err, ErrInvalidCapacity) {
		t.Fatalf("InvalidCapacityError does not match ErrInvalidCapacity")
	}
}

func TestExpandInterests(t *testing.T) {
	got := ExpandInterests([]string{"Drinks", "food", "bar", "museum", ""})
	want := []string{"bar", "night_club", "restaurant", "museum"}
	if len(got) != len(want) {
		t.Fatalf("ExpandInterests = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ExpandInterests = %v, want %v", got, want)
		}
	}
}

func TestCandidatePriceLabel(t *testing.T) {
	c := Candidate{}
	if c.PriceLabel() != "$$" {
		t.Fatalf("default label = %q, want $$", c.PriceLabel())
	}
	lvl := 4
	c.PriceLevel = &lvl
	if c.PriceLabel() != "$$$$" {
		t.Fatalf("label = %q, want $$$$", c.PriceLabel())
	}
}

func TestRouteOptimizedStops(t *testing.T) {
	r := &Route{
		Stops: []RouteStop{
			{Kind: StopStart, PlaceID: "s"},
			{Kind: StopWaypoint, PlaceID: "a"},
			{Kind: StopWaypoint, PlaceID: "b"},
			{Kind: StopEnd, PlaceID: "e"},
		},
		VisitOrder: []int{1, 0},
	}

	got := r.OptimizedStops()
	ids := []string{got[0].PlaceID, got[1].PlaceID, got[2].PlaceID, got[3].PlaceID}
	want := []string{"s", "b", "a", "e"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("optimized = %v, want %v", ids, want)
		}
	}
}

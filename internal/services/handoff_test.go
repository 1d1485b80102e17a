package services

import (
	"itinerary-service/internal/domain"
	"net/url"
	"testing"
)

func TestBuildHandoffURLKeepsWaypointOrder(t *testing.T) {
	start, end := anchors()
	waypoints := []domain.RouteStop{
		{Kind: domain.StopWaypoint, PlaceID: "b", Location: domain.Coordinates{Lat: 37.81, Lon: -122.3}},
		{Kind: domain.StopWaypoint, PlaceID: "a", Location: domain.Coordinates{Lat: 37.8, Lon: -122.3}},
	}

	u, err := url.Parse(BuildHandoffURL(start, end, waypoints))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if u.Host != "www.google.com" || u.Path != "/maps/dir/" {
		t.Fatalf("url = %s", u)
	}

	q := u.Query()
	if got := q.Get("waypoints"); got != "37.81,-122.3|37.8,-122.3" {
		t.Fatalf("waypoints = %q", got)
	}
	if q.Get("origin_place_id") != "start" || q.Get("destination_place_id") != "end" {
		t.Fatalf("place ids = %q/%q", q.Get("origin_place_id"), q.Get("destination_place_id"))
	}
}

func TestBuildHandoffURLWithoutWaypoints(t *testing.T) {
	start, end := anchors()
	start.PlaceID = ""

	u, err := url.Parse(BuildHandoffURL(start, end, nil))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	q := u.Query()
	if q.Has("waypoints") || q.Has("origin_place_id") {
		t.Fatalf("unexpected params: %v", q)
	}
	if q.Get("origin") != "37.7955,-122.3937" {
		t.Fatalf("origin = %q", q.Get("origin"))
	}
}

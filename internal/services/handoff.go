package services

import (
	"itinerary-service/internal/domain"
	"net/url"
	"strings"
)

const handoffBaseURL = "https://www.google.com/maps/dir/"

// BuildHandoffURL links to Google Maps directions from start to end through
// the waypoints, in the given order.
func BuildHandoffURL(start, end domain.Anchor, waypoints []domain.RouteStop) string {
	q := url.Values{}
	q.Set("api", "1")
	q.Set("origin", start.Location.String())
	q.Set("destination", end.Location.String())
	if start.PlaceID != "" {
		q.Set("origin_place_id", start.PlaceID)
	}
	if end.PlaceID != "" {
		q.Set("destination_place_id", end.PlaceID)
	}

	if len(waypoints) > 0 {
		points := make([]string, 0, len(waypoints))
		for _, wp := range waypoints {
			points = append(points, wp.Location.String())
		}
		q.Set("waypoints", strings.Join(points, "|"))
	}

	return handoffBaseURL + "?" + q.Encode()
}

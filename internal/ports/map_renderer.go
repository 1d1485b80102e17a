package ports

import "itinerary-service/internal/domain"

// MapRenderer receives engine state changes for display.
// PublishRoute replaces any previously published route for the session.
type MapRenderer interface {
	PublishRoute(sessionID string, route domain.Route)
	PublishMarkers(sessionID string, markers []domain.Marker)
	PublishFreeTime(sessionID string, freeSeconds int)
	// Forget everything published for the session.
	Discard(sessionID string)
}

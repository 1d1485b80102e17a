package dto

import "time"

type CoordinatesDTO struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lng float64 `json:"lng" validate:"longitude"`
}

type AnchorRequest struct {
	PlaceID  string         `json:"place_id" validate:"required"`
	Name     string         `json:"name"`
	Address  string         `json:"address"`
	Location CoordinatesDTO `json:"location"`
}

type CreateSessionRequest struct {
	UserID    string        `json:"user_id" validate:"omitempty,max=128"`
	Start     AnchorRequest `json:"start"`
	End       AnchorRequest `json:"end"`
	StartAt   time.Time     `json:"start_at" validate:"required"`
	EndAt     time.Time     `json:"end_at" validate:"required"`
	Interests []string      `json:"interests" validate:"omitempty,max=32,dive,required"`
}

type AnchorResponse struct {
	PlaceID  string         `json:"place_id"`
	Name     string         `json:"name"`
	Address  string         `json:"address,omitempty"`
	Location CoordinatesDTO `json:"location"`
}

type CandidateResponse struct {
	PlaceID      string         `json:"place_id"`
	Name         string         `json:"name"`
	Vicinity     string         `json:"vicinity,omitempty"`
	Location     CoordinatesDTO `json:"location"`
	Types        []string       `json:"types"`
	PriceLevel   int            `json:"price_level"`
	PriceLabel   string         `json:"price_label"`
	VisitSeconds int            `json:"visit_seconds"`
	State        string         `json:"state"`
}

type StopResponse struct {
	Kind     string         `json:"kind"`
	PlaceID  string         `json:"place_id"`
	Name     string         `json:"name"`
	Location CoordinatesDTO `json:"location"`
}

type BoundsResponse struct {
	NorthEast CoordinatesDTO `json:"north_east"`
	SouthWest CoordinatesDTO `json:"south_west"`
}

type RouteResponse struct {
	Generation     uint64           `json:"generation"`
	Stops          []StopResponse   `json:"stops"`
	OptimizedStops []StopResponse   `json:"optimized_stops"`
	Polyline       string           `json:"polyline"`
	Path           []CoordinatesDTO `json:"path,omitempty"`
	Bounds         BoundsResponse   `json:"bounds"`
	LegSeconds     []int            `json:"leg_seconds"`
	TravelSeconds  int              `json:"travel_seconds"`
}

type SessionResponse struct {
	ID                string              `json:"id"`
	UserID            string              `json:"user_id,omitempty"`
	Start             AnchorResponse      `json:"start"`
	End               AnchorResponse      `json:"end"`
	StartAt           time.Time           `json:"start_at"`
	EndAt             time.Time           `json:"end_at"`
	Categories        []string            `json:"categories"`
	CapacitySeconds   int                 `json:"capacity_seconds"`
	FreeSeconds       int                 `json:"free_seconds"`
	BaseTravelSeconds int                 `json:"base_travel_seconds"`
	DetourSeconds     int                 `json:"detour_seconds"`
	Candidates        []CandidateResponse `json:"candidates"`
	Selection         []CandidateResponse `json:"selection"`
	Route             *RouteResponse      `json:"route"`
	SearchFailures    map[string]string   `json:"search_failures,omitempty"`
}

type ListCandidatesResponse struct {
	Candidates     []CandidateResponse `json:"candidates"`
	SearchFailures map[string]string   `json:"search_failures,omitempty"`
}

type ToggleResponse struct {
	PlaceID      string         `json:"place_id"`
	Admitted     bool           `json:"admitted"`
	VisitSeconds int            `json:"visit_seconds"`
	FreeSeconds  int            `json:"free_seconds"`
	Route        *RouteResponse `json:"route,omitempty"`
	// Set when the route could not be refreshed or was superseded.
	Notice string `json:"notice,omitempty"`
}

type RouteRefreshResponse struct {
	Route  *RouteResponse `json:"route"`
	Notice string         `json:"notice,omitempty"`
}

type HandoffResponse struct {
	URL string `json:"url"`
}

type MarkerResponse struct {
	Kind     string         `json:"kind"`
	PlaceID  string         `json:"place_id"`
	Title    string         `json:"title"`
	Location CoordinatesDTO `json:"location"`
}

type MapViewResponse struct {
	Version     uint64           `json:"version"`
	FreeSeconds int              `json:"free_seconds"`
	Markers     []MarkerResponse `json:"markers"`
	Route       *RouteResponse   `json:"route"`
}

type ErrorResponse struct {
	Error        string `json:"error"`
	MinutesShort int    `json:"minutes_short,omitempty"`
}

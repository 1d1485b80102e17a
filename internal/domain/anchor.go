package domain

import (
	"fmt"
	"strings"
	"time"
)

type AnchorRole string

const (
	AnchorStart AnchorRole = "start"
	AnchorEnd   AnchorRole = "end"
)

// Anchor is a fixed start or end location resolved by place autocomplete.
// It is immutable for the life of a planning session.
type Anchor struct {
	Role     AnchorRole
	PlaceID  string
	Name     string
	Address  string
	Location Coordinates
}

// SamePlace reports whether two anchors refer to the same place.
// Place ids are authoritative; coordinates are compared only when an id is missing.
func (a Anchor) SamePlace(b Anchor) bool {
	if a.PlaceID != "" && b.PlaceID != "" {
		return a.PlaceID == b.PlaceID
	}
	return a.Location == b.Location
}

// ValidateAnchors checks that both anchors are usable and distinct.
func ValidateAnchors(start, end Anchor) error {
	if strings.TrimSpace(start.PlaceID) == "" && start.Location == (Coordinates{}) {
		return fmt.Errorf("validate anchors: start anchor is empty")
	}
	if strings.TrimSpace(end.PlaceID) == "" && end.Location == (Coordinates{}) {
		return fmt.Errorf("validate anchors: end anchor is empty")
	}
	if start.SamePlace(end) {
		return fmt.Errorf("validate anchors: %w", ErrDuplicateAnchor)
	}
	// Distinct places at one point leave no search radius.
	if DistanceMeters(start.Location, end.Location) == 0 {
		return fmt.Errorf("validate anchors: %q and %q share a location: %w",
			start.PlaceID, end.PlaceID, ErrDuplicateAnchor)
	}
	return nil
}

// TimeWindow is the span the user has for the whole trip.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// NewTimeWindow accepts a window only when end is at least a minute after start.
func NewTimeWindow(start, end time.Time) (TimeWindow, error) {
	if !end.Truncate(time.Minute).After(start.Truncate(time.Minute)) {
		return TimeWindow{}, fmt.Errorf("new time window: %w", ErrInvalidTimeWindow)
	}
	return TimeWindow{Start: start, End: end}, nil
}

// DurationSeconds is the user's total time budget.
func (w TimeWindow) DurationSeconds() int {
	return int(w.End.Sub(w.Start) / time.Second)
}

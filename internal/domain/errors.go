package domain

import (
	"errors"
	"fmt"
)

var (
	// The user's time window is already consumed by anchor-to-anchor travel.
	ErrInvalidCapacity = errors.New("travel time exceeds the planned time window")
	// Admitting a candidate would exhaust the free-time budget.
	ErrInsufficientTime = errors.New("not enough free time for this stop")
	// Directions lookup failed or returned malformed data; prior route is kept.
	ErrRouteUnavailable = errors.New("route unavailable")
	// Start and end anchors refer to the same place.
	ErrDuplicateAnchor = errors.New("start and end locations must be different")
	// End of the time window is not after its start.
	ErrInvalidTimeWindow = errors.New("end time must be later than start time")
	// Candidate id is neither in the pool nor in the selection.
	ErrUnknownCandidate = errors.New("unknown candidate")
	// No interest categories were provided or stored for the user.
	ErrNoCategories = errors.New("no interest categories selected")
)

// InvalidCapacityError reports how far the base travel time overshoots the time window.
type InvalidCapacityError struct {
	UserSeconds   int
	TravelSeconds int
}

func (e *InvalidCapacityError) Error() string {
	return fmt.Sprintf(
		"%v: travel=%ds window=%ds, provide at least %d more minutes",
		ErrInvalidCapacity, e.TravelSeconds, e.UserSeconds, e.MinutesShort(),
	)
}

func (e *InvalidCapacityError) Unwrap() error { return ErrInvalidCapacity }

// MinutesShort rounds the shortfall up to whole minutes, always at least one.
func (e *InvalidCapacityError) MinutesShort() int {
	return (e.TravelSeconds-e.UserSeconds)/60 + 1
}

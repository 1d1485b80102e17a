package services

import "errors"

var (
	// No session with the requested id is live.
	ErrSessionNotFound = errors.New("session not found")
	// A newer route recompute superseded this one; its result was discarded.
	ErrStaleRoute = errors.New("route superseded by a newer recompute")

	errAllCategoriesFailed = errors.New("every category search failed")
)

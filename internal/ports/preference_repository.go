package ports

import "context"

// Port: a boundary for the user's stored interest selections.
type PreferenceRepository interface {
	// Return the interests saved for userID; empty when none are stored.
	GetInterests(ctx context.Context, userID string) ([]string, error)
	// Replace the interests saved for userID.
	SaveInterests(ctx context.Context, userID string, interests []string) error
}

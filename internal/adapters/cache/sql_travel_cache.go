package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"itinerary-service/internal/domain"
	"itinerary-service/internal/platform/obs"
)

// SQLTravelCache is a Postgres-backed cache of anchor-to-anchor travel estimates.
// Keys are the "lat,lng" renderings of the two anchors.
type SQLTravelCache struct {
	DB *sql.DB
}

func NewSQLTravelCache(db *sql.DB) *SQLTravelCache {
	return &SQLTravelCache{DB: db}
}

// Fetch the cached estimate for an origin/destination pair.
func (s *SQLTravelCache) Get(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (_ domain.TravelEstimate, _ bool, err error) {
	defer obs.Time(ctx, "travel.cache.Get")(&err)

	if s.DB == nil {
		return domain.TravelEstimate{}, false, errors.New("travel cache: db is nil")
	}

	q := `
	SELECT duration_seconds
    FROM travel_estimate_cache
    WHERE origin = $1
        AND destination = $2;
	`

	var seconds int
	err = s.DB.QueryRowContext(ctx, q, origin.String(), destination.String()).Scan(&seconds)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.TravelEstimate{}, false, nil
	}
	if err != nil {
		return domain.TravelEstimate{}, false, fmt.Errorf("get travel cache: query travel_estimate_cache table: %w", err)
	}

	return domain.TravelEstimate{TotalSeconds: seconds}, true, nil
}

// Store an estimate, replacing any existing entry for the pair.
func (s *SQLTravelCache) Put(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
	est domain.TravelEstimate,
) error {
	if s.DB == nil {
		return errors.New("travel cache: db is nil")
	}
	if est.TotalSeconds < 0 {
		return fmt.Errorf("insert travel cache: negative duration %d", est.TotalSeconds)
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT INTO travel_estimate_cache (origin, destination, duration_seconds)
    VALUES ($1, $2, $3)
	ON CONFLICT (origin, destination) DO UPDATE
	SET duration_seconds = EXCLUDED.duration_seconds,
		updated_at = now();
	`, origin.String(), destination.String(), est.TotalSeconds)
	if err != nil {
		return fmt.Errorf("insert travel cache %s -> %s: %w", origin, destination, err)
	}

	return nil
}

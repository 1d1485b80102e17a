package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"itinerary-service/internal/ports"
	"os"
	"strings"
)

// Initialize the Postgres database schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createInterestsQuery := `
	CREATE TABLE IF NOT EXISTS user_interests (
		user_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		interest TEXT NOT NULL,
		PRIMARY KEY (user_id, interest)
	);
	`

	createTravelCacheQuery := `
	CREATE TABLE IF NOT EXISTS travel_estimate_cache (
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        duration_seconds INTEGER NOT NULL CHECK (duration_seconds >= 0),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        PRIMARY KEY (origin, destination)
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_user_interests_user_position
    ON user_interests(user_id, position);
	`

	statements := []string{
		createInterestsQuery,
		createTravelCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type InterestSeed struct {
	UserID    string   `json:"user_id"`
	Interests []string `json:"interests"`
}

// ReadInterestSeeds parses and validates an interest seed file.
func ReadInterestSeeds(jsonPath string) ([]InterestSeed, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed interests: read %q: %w", jsonPath, err)
	}

	var data []InterestSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("seed interests: parse json: %w", err)
	}

	for i, item := range data {
		if strings.TrimSpace(item.UserID) == "" {
			return nil, fmt.Errorf("seed interests: item at index %d: user_id cannot be empty", i+1)
		}
		if len(item.Interests) == 0 {
			return nil, fmt.Errorf("seed interests: item at index %d: interests cannot be empty", i+1)
		}
	}

	return data, nil
}

// SeedInterests saves every seed through the repository.
func SeedInterests(ctx context.Context, repo ports.PreferenceRepository, seeds []InterestSeed) error {
	for _, s := range seeds {
		if err := repo.SaveInterests(ctx, s.UserID, s.Interests); err != nil {
			return fmt.Errorf("seed interests: user_id=%s: %w", s.UserID, err)
		}
	}
	return nil
}

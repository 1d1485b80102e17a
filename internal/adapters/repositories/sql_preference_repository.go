package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"itinerary-service/internal/platform/obs"
	"strings"
)

// Postgres-backed implementation of the PreferenceRepository port.
type SQLPreferenceRepository struct{ DB *sql.DB }

func NewSQLPreferenceRepository(db *sql.DB) *SQLPreferenceRepository {
	return &SQLPreferenceRepository{DB: db}
}

// Return the user's interests in the order they were saved.
func (s *SQLPreferenceRepository) GetInterests(ctx context.Context, userID string) (_ []string, err error) {
	defer obs.Time(ctx, "preferences.GetInterests")(&err)

	if s.DB == nil {
		return nil, errors.New("sql preference repository: DB is nil")
	}

	query := `
	SELECT interest
	FROM user_interests
	WHERE user_id = $1
	ORDER BY position;
	`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get interests: query user_interests table: %w", err)
	}
	defer rows.Close()

	interests := make([]string, 0, 8)
	for rows.Next() {
		var interest string
		if err := rows.Scan(&interest); err != nil {
			return nil, fmt.Errorf("get interests: scan row: %w", err)
		}
		interests = append(interests, interest)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get interests: row iteration: %w", err)
	}

	return interests, nil
}

// Replace the user's interests atomically.
func (s *SQLPreferenceRepository) SaveInterests(ctx context.Context, userID string, interests []string) error {
	if s.DB == nil {
		return errors.New("sql preference repository: DB is nil")
	}
	if strings.TrimSpace(userID) == "" {
		return errors.New("save interests: user id must not be empty")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save interests: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_interests WHERE user_id = $1;`, userID); err != nil {
		return fmt.Errorf("save interests: clear user_id=%s: %w", userID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO user_interests (user_id, position, interest)
	VALUES ($1, $2, $3)
	ON CONFLICT (user_id, interest) DO NOTHING;
	`)
	if err != nil {
		return fmt.Errorf("save interests: db prepare: %w", err)
	}
	defer stmt.Close()

	for i, interest := range normalizeInterests(interests) {
		if _, err := stmt.ExecContext(ctx, userID, i, interest); err != nil {
			return fmt.Errorf("save interests: insert %q: %w", interest, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save interests: commit: %w", err)
	}

	return nil
}

func normalizeInterests(interests []string) []string {
	seen := make(map[string]struct{}, len(interests))
	out := make([]string, 0, len(interests))
	for _, i := range interests {
		i = strings.ToLower(strings.TrimSpace(i))
		if i == "" {
			continue
		}
		if _, ok := seen[i]; ok {
			continue
		}
		seen[i] = struct{}{}
		out = append(out, i)
	}
	return out
}

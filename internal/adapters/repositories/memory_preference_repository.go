package repositories

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// In-memory PreferenceRepository used when no database is configured.
type MemoryPreferenceRepository struct {
	mu    sync.RWMutex
	users map[string][]string
}

func NewMemoryPreferenceRepository() *MemoryPreferenceRepository {
	return &MemoryPreferenceRepository{users: make(map[string][]string)}
}

func (m *MemoryPreferenceRepository) GetInterests(ctx context.Context, userID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.users[userID]...), nil
}

func (m *MemoryPreferenceRepository) SaveInterests(ctx context.Context, userID string, interests []string) error {
	if strings.TrimSpace(userID) == "" {
		return errors.New("save interests: user id must not be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[userID] = normalizeInterests(interests)
	return nil
}

package services

import (
	"context"
	"fmt"
	"itinerary-service/internal/platform/obs"
	"itinerary-service/internal/ports"
	"sync"
)

// SessionManager holds live sessions. Starting a new plan for a user discards
// that user's previous session.
type SessionManager struct {
	planner  *Planner
	renderer ports.MapRenderer
	metrics  *obs.Metrics

	mu       sync.RWMutex
	sessions map[string]*Session
	byUser   map[string]string
}

func NewSessionManager(planner *Planner, renderer ports.MapRenderer, metrics *obs.Metrics) *SessionManager {
	return &SessionManager{
		planner:  planner,
		renderer: renderer,
		metrics:  metrics,
		sessions: make(map[string]*Session),
		byUser:   make(map[string]string),
	}
}

// Begin starts a session and registers it.
func (m *SessionManager) Begin(ctx context.Context, req BeginSessionRequest) (*Session, error) {
	s, err := m.planner.BeginSession(ctx, req)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if req.UserID != "" {
		if prev, ok := m.byUser[req.UserID]; ok {
			m.discardLocked(prev)
		}
		m.byUser[req.UserID] = s.ID
	}
	m.sessions[s.ID] = s
	m.metrics.SetActiveSessions(len(m.sessions))

	return s, nil
}

func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("get session %q: %w", id, ErrSessionNotFound)
	}
	return s, nil
}

// Discard drops a session and everything published for it.
func (m *SessionManager) Discard(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("discard session %q: %w", id, ErrSessionNotFound)
	}
	m.discardLocked(id)
	return nil
}

func (m *SessionManager) discardLocked(id string) {
	s, ok := m.sessions[id]
	if !ok {
		return
	}
	delete(m.sessions, id)
	if s.UserID != "" && m.byUser[s.UserID] == id {
		delete(m.byUser, s.UserID)
	}
	if m.renderer != nil {
		m.renderer.Discard(id)
	}
	m.metrics.SetActiveSessions(len(m.sessions))
}

func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

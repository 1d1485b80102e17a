package render

import (
	"itinerary-service/internal/domain"
	"sync"
)

// View is the latest state published for one session.
type View struct {
	Route       *domain.Route
	Markers     []domain.Marker
	FreeSeconds int
	// Incremented on every publish.
	Version uint64
}

// Recorder is a MapRenderer that keeps the latest published view per session
// so clients can poll it. It is safe for concurrent use.
type Recorder struct {
	mu    sync.RWMutex
	views map[string]*View
}

func NewRecorder() *Recorder {
	return &Recorder{views: make(map[string]*View)}
}

func (r *Recorder) view(sessionID string) *View {
	v, ok := r.views[sessionID]
	if !ok {
		v = &View{}
		r.views[sessionID] = v
	}
	return v
}

// PublishRoute retires the previous route before exposing the new one.
func (r *Recorder) PublishRoute(sessionID string, route domain.Route) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := r.view(sessionID)
	v.Route = &route
	v.Version++
}

func (r *Recorder) PublishMarkers(sessionID string, markers []domain.Marker) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := r.view(sessionID)
	v.Markers = append([]domain.Marker(nil), markers...)
	v.Version++
}

func (r *Recorder) PublishFreeTime(sessionID string, freeSeconds int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := r.view(sessionID)
	v.FreeSeconds = freeSeconds
	v.Version++
}

func (r *Recorder) Discard(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.views, sessionID)
}

// View returns a copy of the session's latest view.
func (r *Recorder) View(sessionID string) (View, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.views[sessionID]
	if !ok {
		return View{}, false
	}
	out := *v
	out.Markers = append([]domain.Marker(nil), v.Markers...)
	return out, true
}

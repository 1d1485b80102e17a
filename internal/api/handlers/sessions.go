package handlers

import (
	"errors"
	"itinerary-service/internal/adapters/render"
	"itinerary-service/internal/api/dto"
	"itinerary-service/internal/domain"
	"itinerary-service/internal/platform/obs"
	"itinerary-service/internal/services"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	noticeRouteUnavailable = "route could not be refreshed; showing the previous route"
	noticeRouteSuperseded  = "route superseded by a newer change"
)

// MapViews exposes the latest state published to the map for a session.
type MapViews interface {
	View(sessionID string) (render.View, bool)
}

// SessionHandler exposes the planning session lifecycle: begin, inspect,
// toggle candidates, refresh and hand off.
type SessionHandler struct {
	Sessions *services.SessionManager
	Views    MapViews
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*services.Session, bool) {
	s, err := h.Sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeServiceError(w, r, "get session", err)
		return nil, false
	}
	return s, true
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	s, err := h.Sessions.Begin(r.Context(), services.BeginSessionRequest{
		UserID:    req.UserID,
		Start:     anchorFrom(req.Start),
		End:       anchorFrom(req.End),
		StartAt:   req.StartAt,
		EndAt:     req.EndAt,
		Interests: req.Interests,
	})
	if err != nil {
		writeServiceError(w, r, "begin session", err)
		return
	}

	w.Header().Set("Location", "/sessions/"+s.ID)
	writeJSON(w, r, http.StatusCreated, sessionResponse(s))
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, sessionResponse(s))
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Discard(chi.URLParam(r, "sessionID")); err != nil {
		writeServiceError(w, r, "discard session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	snap := s.Snapshot()
	writeJSON(w, r, http.StatusOK, dto.ListCandidatesResponse{
		Candidates:     candidateResponses(snap.Pool),
		SearchFailures: snap.Failures,
	})
}

// RefreshCandidates reruns the category search. Failed categories are
// reported alongside whatever the others returned.
func (h *SessionHandler) RefreshCandidates(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	if _, err := s.RefreshCandidates(r.Context()); err != nil {
		zap.L().Warn("candidate refresh returned nothing",
			zap.String("req_id", obs.RequestID(r.Context())),
			zap.String("session_id", s.ID),
			zap.Error(err))
	}

	snap := s.Snapshot()
	writeJSON(w, r, http.StatusOK, dto.ListCandidatesResponse{
		Candidates:     candidateResponses(snap.Pool),
		SearchFailures: snap.Failures,
	})
}

// Toggle admits or removes one candidate. A route failure after a committed
// toggle is reported as a notice; the selection change stands.
func (h *SessionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	out, err := s.Toggle(r.Context(), chi.URLParam(r, "placeID"))
	if err != nil {
		writeServiceError(w, r, "toggle candidate", err)
		return
	}

	res := dto.ToggleResponse{
		PlaceID:      out.Candidate.PlaceID,
		Admitted:     out.Admitted,
		VisitSeconds: out.VisitSeconds,
		FreeSeconds:  out.FreeSeconds,
		Route:        routeResponse(out.Route),
	}
	switch {
	case out.RouteStale:
		res.Notice = noticeRouteSuperseded
	case out.RouteErr != nil:
		zap.L().Warn("route refresh after toggle failed",
			zap.String("req_id", obs.RequestID(r.Context())),
			zap.String("session_id", s.ID),
			zap.Error(out.RouteErr))
		res.Notice = noticeRouteUnavailable
	}

	writeJSON(w, r, http.StatusOK, res)
}

// RefreshRoute recomputes the route for the current selection. When that
// fails the last committed route is returned with a notice.
func (h *SessionHandler) RefreshRoute(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	route, err := s.RefreshRoute(r.Context())
	if err == nil {
		writeJSON(w, r, http.StatusOK, dto.RouteRefreshResponse{Route: routeResponse(route)})
		return
	}

	res := dto.RouteRefreshResponse{Route: routeResponse(s.Snapshot().Route)}
	switch {
	case errors.Is(err, services.ErrStaleRoute):
		res.Notice = noticeRouteSuperseded
	case errors.Is(err, domain.ErrRouteUnavailable):
		zap.L().Warn("route refresh failed",
			zap.String("req_id", obs.RequestID(r.Context())),
			zap.String("session_id", s.ID),
			zap.Error(err))
		res.Notice = noticeRouteUnavailable
	default:
		writeServiceError(w, r, "refresh route", err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *SessionHandler) Handoff(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, dto.HandoffResponse{URL: s.HandoffURL()})
}

// Map returns what was last published to the map for the session.
func (h *SessionHandler) Map(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	view, ok := h.Views.View(s.ID)
	if !ok {
		writeError(w, r, http.StatusNotFound, "nothing published for session")
		return
	}
	writeJSON(w, r, http.StatusOK, dto.MapViewResponse{
		Version:     view.Version,
		FreeSeconds: view.FreeSeconds,
		Markers:     markerResponses(view.Markers),
		Route:       routeResponse(view.Route),
	})
}

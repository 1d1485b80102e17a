package api

import (
	"itinerary-service/internal/api/handlers"
	"itinerary-service/internal/platform/obs"
	"itinerary-service/internal/ports"
	"itinerary-service/internal/services"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Sessions *services.SessionManager
	Prefs    ports.PreferenceRepository
	Views    handlers.MapViews
	Metrics  *obs.Metrics
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(d.Metrics))
	r.Use(middleware.Recoverer)

	sessions := &handlers.SessionHandler{Sessions: d.Sessions, Views: d.Views}
	prefs := &handlers.PreferenceHandler{Repo: d.Prefs}

	r.Get("/health", handlers.Health)
	r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", sessions.Create)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", sessions.Get)
			r.Delete("/", sessions.Delete)
			r.Get("/candidates", sessions.Candidates)
			r.Post("/candidates/refresh", sessions.RefreshCandidates)
			r.Post("/candidates/{placeID}/toggle", sessions.Toggle)
			r.Post("/route", sessions.RefreshRoute)
			r.Get("/handoff", sessions.Handoff)
			r.Get("/map", sessions.Map)
		})
	})

	r.Route("/users/{userID}", func(r chi.Router) {
		r.Get("/interests", prefs.Get)
		r.Put("/interests", prefs.Put)
	})

	return r
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/raido/internal/storyservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *storyservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Domain catalog.
	r.Get("/domains", h.ListDomains)
	r.Post("/domains", h.CreateDomain)
	r.Get("/domains/*", h.GetDomain)

	// Referential consistency report.
	r.Get("/validate", h.Validate)

	// Graph projection.
	r.Get("/graph", h.Graph)

	// Trajectory exploration.
	r.Get("/trajectories", h.Trajectories)
	r.Get("/trajectories/random", h.RandomTrajectory)

	// Story rendering and archive.
	r.Post("/stories", h.RenderStory)
	r.Get("/stories", h.ListStories)
	r.Get("/stories/{id}", h.GetStory)

	// Story search.
	r.Get("/search", h.Search)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}

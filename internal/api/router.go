package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/threads/internal/threadservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *threadservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/threads", h.ListThreads)
	r.Post("/threads", h.AddThread)
	r.Post("/threads/open/{n}/done", h.CompleteThread)
	r.Get("/counts", h.Counts)
	r.Post("/reorder", h.Reorder)
	r.Get("/search", h.Search)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}

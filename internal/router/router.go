// Package router sets up all HTTP routes and middleware chains for the
// Forge Journal API. It organizes routes into public, admin, and sweep
// groups with appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"forgejournal/internal/handlers"
	"forgejournal/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. sweepSecret guards the sweep trigger; when
// empty the endpoint is disabled.
func New(pub *handlers.Publish, admin *handlers.Admin, public *handlers.Public, sweepSecret string) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	// Health check.
	r.Get("/health", healthHandler)

	// Scheduling lifecycle.
	r.Post("/schedule", pub.Schedule)
	r.Delete("/schedule", pub.CancelSchedule)

	// Sweep trigger, for cron or operators. Requires the shared secret.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSweepSecret(sweepSecret))
		r.Post("/sweep", pub.Sweep)
	})

	// Back-office routes.
	r.Route("/admin", func(r chi.Router) {
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", admin.PostsList)
			r.Post("/", admin.PostCreate)
			r.Get("/{id}", admin.PostGet)
			r.Put("/{id}", admin.PostUpdate)
			r.Delete("/{id}", admin.PostDelete)
			r.Post("/{id}/publish", pub.PublishNow)
			r.Post("/{id}/archive", pub.Archive)
		})

		r.Route("/ads", func(r chi.Router) {
			r.Get("/", admin.AdsList)
			r.Post("/", admin.AdCreate)
			r.Put("/{id}", admin.AdUpdate)
			r.Delete("/{id}", admin.AdDelete)
		})
	})

	// Reader-facing routes.
	r.Get("/feed", public.Feed)
	r.Get("/posts/{slug}", public.PostBySlug)
	r.Get("/topics", public.Topics)
	r.Get("/topics/{slug}/posts", public.TopicPosts)
	r.Get("/authors", public.Authors)
	r.Get("/authors/{id}/posts", public.AuthorPosts)
	r.Get("/ads/active", public.ActiveAds)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

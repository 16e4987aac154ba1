// Package ui exposes the ingestion-and-summarization pipeline over HTTP.
// Authentication lives upstream: every request arrives with the caller's
// identity in the X-User-ID header, installed by the gateway.
package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/NIHAL-JAGDALE/CHEMVIZ/internal/ingest"
	"github.com/NIHAL-JAGDALE/CHEMVIZ/internal/render"
	"github.com/NIHAL-JAGDALE/CHEMVIZ/internal/report"
	"github.com/NIHAL-JAGDALE/CHEMVIZ/ports"
)

// App represents the HTTP application
type App struct {
	router   *chi.Mux
	ingest   *ingest.Service
	repo     ports.DatasetRepository
	renderer *render.Renderer
	composer *report.Composer
}

// NewApp wires the HTTP surface around the core services
func NewApp(svc *ingest.Service, repo ports.DatasetRepository, renderer *render.Renderer, composer *report.Composer) *App {
	app := &App{
		router:   chi.NewRouter(),
		ingest:   svc,
		repo:     repo,
		renderer: renderer,
		composer: composer,
	}
	app.setupMiddleware()
	app.setupRoutes()
	return app
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/healthz", a.handleHealth)

	a.router.Route("/api/datasets", func(r chi.Router) {
		r.Use(a.requireOwner)
		r.Post("/", a.handleUpload)
		r.Get("/", a.handleList)
		r.Get("/{id}", a.handleGet)
		r.Get("/{id}/data", a.handleData)
		r.Get("/{id}/chart", a.handleChart)
		r.Get("/{id}/report", a.handleReport)
		r.Delete("/{id}", a.handleDelete)
	})
}

// Router returns the configured handler
func (a *App) Router() http.Handler {
	return a.router
}

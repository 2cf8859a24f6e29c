package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/", h.Index)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Get("/entries", h.ListEntries)
		r.Post("/entries", h.AddEntry)
		// clear must be registered before the {id} routes so chi does not
		// treat "clear" as an id.
		r.Post("/entries/clear", h.ClearDay)
		r.Put("/entries/{id}", h.UpdateEntry)
		r.Delete("/entries/{id}", h.DeleteEntry)

		r.Get("/histogram/all", h.Histogram)
		r.Get("/summary", h.Summary)
	})

	r.Route("/export", func(r chi.Router) {
		r.Get("/entries.csv", h.ExportEntries)
		r.Get("/histogram_24h.csv", h.ExportHistogram)
	})

	return r
}

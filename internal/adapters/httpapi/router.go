package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterOptions carries cross-cutting middleware supplied by the composition
// root.
type RouterOptions struct {
	ManagerMiddleware func(http.Handler) http.Handler
	RequestLogger     func(http.Handler) http.Handler
}

// NewRouter constructs the API HTTP router.
//
// This is intentionally a thin adapter: it wires routes/middleware and
// delegates everything else to the Server handlers.
func NewRouter(s *Server, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	// Baseline production-safe middleware (minimal but useful).
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if opts.RequestLogger != nil {
		r.Use(opts.RequestLogger)
	}

	// Health endpoint for infra checks; not part of the schedule API.
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		if opts.ManagerMiddleware != nil {
			r.Use(opts.ManagerMiddleware)
		}

		r.Post("/v1/schedule", s.handleBuildDay)
		r.Put("/v1/schedule/visits/{waypointID}/time", s.handleSetVisitTime)
		r.Post("/v1/schedule/visits/{waypointID}/complete", s.handleMarkComplete)
		r.Post("/v1/schedule/items", s.handleUpsertItem)
		r.Delete("/v1/schedule/items/{itemID}", s.handleDeleteItem)
		r.Post("/v1/schedule/calendar", s.handleCalendar)
		r.Post("/v1/schedule/navigation-link", s.handleNavigationLink)
	})

	return r
}

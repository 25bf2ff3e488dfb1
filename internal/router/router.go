// Package router sets up the HTTP routes and middleware chains for the
// StackShelf API. Discovery endpoints live under /api; /health and
// /metrics sit outside it.
package router

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stackshelf/internal/handlers"
	"stackshelf/internal/middleware"
)

// PoolHealth reports the circuit breaker state of the candidate pool.
type PoolHealth interface {
	PoolState() string
}

// Options configures the cross-cutting parts of the API.
type Options struct {
	// CORSOrigins lists allowed origins. "*" allows any origin without
	// credentials.
	CORSOrigins []string

	// SearchLimiter throttles the search and submit endpoints per client
	// IP. Nil disables throttling.
	SearchLimiter *middleware.RateLimiter
}

// New creates the configured chi router.
func New(sessions middleware.SessionLookup, api *handlers.Discovery, health PoolHealth, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler(health))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(corsHandler(opts.CORSOrigins))
		r.Use(middleware.LoadSession(sessions))

		r.Get("/categories", api.Categories)
		r.Get("/categories/{slug}/products", api.Category)
		r.Get("/techstack/{tech}/products", api.TechStack)
		r.Get("/leaderboard", api.Leaderboard)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", api.Browse)
			r.Get("/{slug}", api.Product)

			r.Group(func(r chi.Router) {
				r.Use(throttle(opts.SearchLimiter))
				r.Use(middleware.RequireJSON)
				r.Use(middleware.RequireViewer)
				r.Post("/", api.Submit)
			})
		})

		r.With(throttle(opts.SearchLimiter)).Get("/search", api.Search)
	})

	return r
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Retry-After", "X-Request-Id"},
		AllowCredentials: !slices.Contains(origins, "*"),
		MaxAge:           300,
	})
}

func throttle(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
	if rl == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rl.Middleware
}

// healthHandler reports liveness. An open pool breaker marks the service
// degraded but still answers 200; listings degrade to empty pages.
func healthHandler(pool PoolHealth) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]string{"status": "ok"}
		if pool != nil {
			state := pool.PoolState()
			body["pool"] = state
			if state == "open" {
				body["status"] = "degraded"
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(body)
	}
}

package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig configures the HTTP surface around a Handler
type RouterConfig struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// Router mounts every endpoint under chi with the standard middleware stack.
func (h *Handler) Router(cfg RouterConfig) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestIDHeader)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Admin-Token"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.RequestTimeout))

		r.Get("/", h.Index)

		r.Route("/predict", func(r chi.Router) {
			r.Get("/player", h.PredictPlayer)
			r.Post("/batch", h.PredictBatch)
		})

		r.Get("/players", h.ListPlayers)
		r.Get("/players/search", h.SearchPlayers)
		r.Get("/teams", h.ListTeams)

		r.Route("/system", func(r chi.Router) {
			r.Get("/snapshot", h.SnapshotInfo)
			r.With(h.AdminAuthMiddleware).Post("/reload", h.ReloadSnapshot)
		})
	})

	return r
}

// requestIDHeader echoes the request ID assigned by middleware.RequestID so
// clients can quote it when reporting problems.
func requestIDHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			w.Header().Set(middleware.RequestIDHeader, id)
		}
		next.ServeHTTP(w, r)
	})
}

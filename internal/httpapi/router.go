// Package httpapi exposes the manual trigger, product presentations, health and metrics over HTTP.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"SalesDriveSync/internal/metrics"
)

// RouterConfig holds the handlers mounted by NewRouter.
type RouterConfig struct {
	Sync     *SyncHandler
	Products *ProductHandler
	Media    *MediaHandler
	Logger   *slog.Logger
}

// NewRouter creates and configures the HTTP router.
func NewRouter(cfg RouterConfig) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(Recovery(logger))
	r.Use(RequestID)
	r.Use(Logging(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", Health)

		if cfg.Sync != nil {
			r.Post("/sync/token", cfg.Sync.IssueToken)
			r.Post("/sync", cfg.Sync.Trigger)
		}

		if cfg.Media != nil {
			r.Post("/attachments", cfg.Media.Register)
		}

		if cfg.Products != nil {
			r.Get("/products/{externalID}", cfg.Products.Get)
		}
	})

	return r
}

// NewServer wraps handler with conservative timeouts. Write timeout covers a full sync run.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}
}

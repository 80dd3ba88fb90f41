package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pricewatch/pricewatch/internal/handler"
	"github.com/pricewatch/pricewatch/internal/metrics"
	"github.com/pricewatch/pricewatch/internal/middleware"
	"github.com/pricewatch/pricewatch/internal/service"
)

// RouterConfig carries everything NewRouter wires together.
type RouterConfig struct {
	Logger        *slog.Logger
	IsDevelopment bool
	MaxBodySize   int64

	Auth      middleware.AuthConfig
	RateLimit middleware.RateLimitConfig

	Catalog *service.CatalogService
	Usage   *service.UsageMeter
	Health  *handler.HealthHandler
	Metrics metrics.Snapshotter
}

// NewRouter configures the chi router with all routes and middleware.
// Mutating catalog routes are metered; reads are not.
func NewRouter(cfg RouterConfig) http.Handler {
	products := handler.NewProductHandler(cfg.Catalog, cfg.Logger)
	folders := handler.NewFolderHandler(cfg.Catalog, cfg.Logger)
	usage := handler.NewUsageHandler(cfg.Usage, cfg.Logger)
	metered := middleware.Metering(cfg.Usage)

	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.APIHeaders(cfg.IsDevelopment))
	if cfg.MaxBodySize > 0 {
		r.Use(middleware.MaxBodySize(cfg.MaxBodySize))
	}

	r.Get("/healthz", cfg.Health.Healthz)
	r.Get("/readyz", cfg.Health.Readyz)
	if cfg.Metrics != nil {
		r.Get("/metrics", handler.NewMetricsHandler(cfg.Metrics).Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Auth))
		r.Use(middleware.RateLimitUser(cfg.RateLimit))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", products.List)
			r.With(metered).Post("/", products.Create)
			r.With(metered).Put("/{id}", products.Update)
			r.With(metered).Post("/{productId}/folder", products.AddFolder)
		})

		r.Route("/folders", func(r chi.Router) {
			r.Get("/", folders.List)
			r.With(metered).Post("/", folders.Create)
			r.Get("/{folderId}/products", folders.Products)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin())
			r.Get("/admin/products", products.ListAll)
			r.Get("/use/time", usage.List)
		})
	})

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	return r
}

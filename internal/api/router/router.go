package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fleetscope/fleetscope/internal/api/handlers"
	"github.com/fleetscope/fleetscope/internal/api/middleware"
	"github.com/fleetscope/fleetscope/internal/config"
	"github.com/fleetscope/fleetscope/internal/pkg/logger"
	"github.com/fleetscope/fleetscope/internal/pkg/metrics"
)

// Handlers groups everything the router wires up.
type Handlers struct {
	Health    *handlers.HealthHandler
	Account   *handlers.AccountHandler
	Inventory *handlers.InventoryHandler
}

// New builds the HTTP surface: account lifecycle under /api/v1/accounts,
// aggregated listings under /api/v1/inventory.
func New(cfg *config.Config, log *logger.Logger, h *Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(metrics.Middleware)
	r.Use(middleware.DefaultCORS(cfg.Server.FrontendURL))
	r.Use(middleware.RateLimit(100, 200))

	// Probes and metrics stay outside the API-key gate.
	r.Group(func(r chi.Router) {
		r.Get("/health", h.Health.Healthz)
		r.Get("/healthz", h.Health.Healthz)
		r.Get("/readyz", h.Health.Readyz)
		r.Handle("/metrics", metrics.Handler())
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKey(cfg.Server.APIKey))

		r.Route("/api/v1/accounts", func(r chi.Router) {
			r.Get("/", h.Account.List)
			r.Post("/", h.Account.Link)
			r.Get("/{id}", h.Account.Get)
			r.Patch("/{id}", h.Account.Update)
			r.Delete("/{id}", h.Account.Unlink)
			r.Post("/{id}/verify", h.Account.Verify)
			r.Post("/{id}/disable", h.Account.Disable)
		})

		r.Route("/api/v1/inventory", func(r chi.Router) {
			r.Get("/instances", h.Inventory.Instances)
			r.Get("/databases", h.Inventory.Databases)
			r.Get("/buckets", h.Inventory.Buckets)
			r.Get("/networks", h.Inventory.Networks)
		})
	})

	return r
}

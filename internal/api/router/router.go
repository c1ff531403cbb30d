package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/planbill/planbill/internal/api/handlers"
	"github.com/planbill/planbill/internal/api/middleware"
	"github.com/planbill/planbill/internal/config"
	"github.com/planbill/planbill/internal/domain/user"
	"github.com/planbill/planbill/internal/pkg/logger"
	"github.com/planbill/planbill/internal/pkg/metrics"
)

type Handlers struct {
	Health       *handlers.HealthHandler
	Auth         *handlers.AuthHandler
	Plan         *handlers.PlanHandler
	Team         *handlers.TeamHandler
	Subscription *handlers.SubscriptionHandler
}

func New(cfg *config.Config, log *logger.Logger, users user.Service, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.DefaultCORS(cfg.Server.FrontendURL))
	r.Use(middleware.RateLimit(100, 200)) // 100 req/sec, burst of 200
	r.Use(metrics.Middleware)

	// Public routes
	r.Group(func(r chi.Router) {
		// Swagger documentation
		r.Get("/swagger/*", httpSwagger.WrapHandler)

		// Prometheus metrics
		r.Handle("/metrics", metrics.Handler())

		// Health checks
		r.Get("/health", h.Health.Healthz)
		r.Get("/healthz", h.Health.Healthz)
		r.Get("/readyz", h.Health.Readyz)

		// Auth endpoints
		r.Post("/api/v1/auth/register", h.Auth.Register)
		r.Post("/api/v1/auth/login", h.Auth.Login)
		r.Post("/api/v1/auth/refresh", h.Auth.RefreshToken)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticated(cfg.Auth.JWTSecret, log))

		// Auth
		r.Get("/api/v1/auth/me", h.Auth.Me)

		// Plans (read side)
		r.Route("/api/v1/plans", func(r chi.Router) {
			r.Get("/", h.Plan.List)
			r.Get("/prorated-upgrade-price", h.Plan.ProratedUpgradePrice)
			r.Get("/{id}", h.Plan.Get)
		})

		// Teams and subscriptions
		r.Route("/api/v1/teams", func(r chi.Router) {
			r.Get("/", h.Team.List)
			r.Post("/", h.Team.Create)
			r.Get("/{id}", h.Team.Get)
			r.Delete("/{id}", h.Team.Delete)
			r.Post("/{id}/subscriptions", h.Subscription.Activate)
			r.Get("/{id}/subscriptions", h.Subscription.List)
			r.Delete("/{id}/subscriptions", h.Subscription.Cancel)
			r.Get("/{id}/subscriptions/active", h.Subscription.Active)
		})

		// Subscription details
		r.Route("/api/v1/subscriptions", func(r chi.Router) {
			r.Get("/{id}/orders", h.Subscription.Orders)
			r.Get("/{id}/activations", h.Subscription.Activations)
		})
	})

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.AdminOnly(cfg.Auth.JWTSecret, users, log))

		// Plan management
		r.Post("/api/v1/plans", h.Plan.Create)
		r.Put("/api/v1/plans/{id}", h.Plan.Update)

		// Order settlement
		r.Post("/api/v1/orders/{id}/pay", h.Subscription.PayOrder)
	})

	return r
}

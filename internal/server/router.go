// Package server assembles the HTTP router.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Lixing-Zhang/brewery-service/internal/config"
	"github.com/Lixing-Zhang/brewery-service/internal/handlers"
	"github.com/Lixing-Zhang/brewery-service/internal/middleware"
	"github.com/Lixing-Zhang/brewery-service/pkg/tracing"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
)

// Options holds everything the router needs. Metrics and Tracer are
// optional.
type Options struct {
	Beers     *handlers.BeerHandler
	Orders    *handlers.BeerOrderHandler
	Customers *handlers.CustomerHandler
	Health    *handlers.HealthHandler
	Auth      config.AuthConfig
	Keys      middleware.CustomerLookup
	Metrics   *middleware.Metrics
	Gatherer  prometheus.Gatherer
	Tracer    tracing.Tracer
	Logger    *slog.Logger
}

// NewRouter builds the service's chi router
func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if opts.Tracer != nil {
		r.Use(tracing.NewTracingMiddleware(opts.Tracer))
	}
	r.Use(middleware.Logger(opts.Logger))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token", middleware.APIKeyHeader, "traceparent"},
		ExposedHeaders:   []string{"Location", "traceparent"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", opts.Health.ServeHTTP)
	if opts.Metrics != nil && opts.Gatherer != nil {
		r.Handle("/metrics", middleware.MetricsHandler(opts.Gatherer))
	}

	requireKey := middleware.APIKeyAuth(opts.Auth, opts.Keys, opts.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		// Beer catalog
		r.Get("/beer", opts.Beers.ListBeers)
		r.Get("/beer/{beerId}", opts.Beers.GetBeer)

		r.Get("/customers/{customerId}", opts.Customers.GetCustomer)

		// Customer orders
		r.Route("/customers/{customerId}/orders", func(r chi.Router) {
			r.Get("/", opts.Orders.ListOrders)
			r.Get("/{orderId}", opts.Orders.GetOrder)
			r.With(requireKey).Post("/", opts.Orders.PlaceOrder)
			r.With(requireKey).Put("/{orderId}/pickup", opts.Orders.PickupOrder)
		})
	})

	return r
}

package router

import (
	"time"

	"github.com/gigmile/ledger-service/internal/interface/http/handler"
	"github.com/gigmile/ledger-service/internal/interface/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Options struct {
	IdentityHeader     string
	CORSAllowedOrigins []string
	MetricsEnabled     bool
}

func NewRouter(handlers *handler.Handlers, resolver middleware.CustomerResolver, opts Options, logger *zap.Logger) *chi.Mux {
	if opts.IdentityHeader == "" {
		opts.IdentityHeader = "cpf"
	}
	if len(opts.CORSAllowedOrigins) == 0 {
		opts.CORSAllowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	if opts.MetricsEnabled {
		r.Use(middleware.Metrics)
	}
	r.Use(chimiddleware.Compress(5))
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", opts.IdentityHeader, handler.IdempotencyKeyHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Routes
	r.Get("/health", handlers.Health.HealthCheck)
	if opts.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Post("/account", handlers.Account.CreateAccount)

	r.Group(func(r chi.Router) {
		r.Use(middleware.ResolveCustomer(resolver, opts.IdentityHeader, logger))

		r.Get("/account", handlers.Account.GetAccount)
		r.Put("/account", handlers.Account.UpdateAccount)
		r.Delete("/account", handlers.Account.DeleteAccount)

		r.Get("/balance", handlers.Statement.GetBalance)
		r.Get("/statement", handlers.Statement.GetStatement)
		r.Get("/statement/date", handlers.Statement.GetStatementByDate)

		r.Post("/deposit", handlers.Statement.Deposit)
		r.Post("/withdraw", handlers.Statement.Withdraw)
	})

	return r
}

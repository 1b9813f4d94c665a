package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"github.com/oticavision/backoffice/internal/api/handler"
	"github.com/oticavision/backoffice/internal/api/middleware"
	"github.com/oticavision/backoffice/internal/api/spec"
	"github.com/oticavision/backoffice/internal/config"
	"github.com/oticavision/backoffice/internal/service"
	"github.com/oticavision/backoffice/internal/worker"
)

// Router wires handlers and middleware into the HTTP surface.
type Router struct {
	cfg       *config.Config
	logger    *zap.Logger
	db        *pgxpool.Pool
	redis     redis.Cmdable
	scheduler *worker.SyncScheduler
	syncSvc   *service.SyncService
	payments  service.PaymentStore
	customers service.CustomerStore
	legacy    service.LegacyClientStore
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *pgxpool.Pool,
	rdb redis.Cmdable,
	scheduler *worker.SyncScheduler,
	syncSvc *service.SyncService,
	payments service.PaymentStore,
	customers service.CustomerStore,
	legacy service.LegacyClientStore,
) *Router {
	return &Router{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		redis:     rdb,
		scheduler: scheduler,
		syncSvc:   syncSvc,
		payments:  payments,
		customers: customers,
		legacy:    legacy,
	}
}

func (api *Router) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware)
	r.Use(middleware.LoggingMiddleware(api.logger))
	r.Use(middleware.MetricsMiddleware)
	r.Use(middleware.RecoverMiddleware(api.logger))

	healthHandler := handler.NewHealthHandler(api.db, api.redis)
	syncHandler := handler.NewSyncHandler(api.scheduler, api.syncSvc)
	paymentHandler := handler.NewPaymentHandler(api.payments)
	customerHandler := handler.NewCustomerHandler(api.customers, api.legacy)

	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.PublicRateLimiter(api.cfg.PublicRateLimitRPS))
		r.Get("/healthz", healthHandler.Live)
		r.Get("/readyz", healthHandler.Ready)
		r.Get("/v1/openapi.yaml", spec.OpenAPIHandler())
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/v1/openapi.yaml")))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Authenticated reads
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)
		r.Use(middleware.AuthRateLimiter(api.cfg.AuthRateLimitRPS))

		r.Get("/v1/payments", paymentHandler.List)
		r.Get("/v1/customers/{id}", customerHandler.GetCustomer)
		r.Get("/v1/legacy-clients/{id}", customerHandler.GetLegacyClient)
	})

	// Sync controls are admin-only
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)
		r.Use(middleware.RequireRole("admin"))
		r.Use(middleware.AuthRateLimiter(api.cfg.AuthRateLimitRPS))

		r.Post("/v1/sync/start", syncHandler.Start)
		r.Post("/v1/sync/stop", syncHandler.Stop)
		r.Get("/v1/sync/status", syncHandler.Status)
		r.Get("/v1/sync/stats", syncHandler.Stats)
		r.Post("/v1/sync/run", syncHandler.Run)
		r.Post("/v1/sync/clients/{id}/run", syncHandler.RunClient)
	})

	return r
}

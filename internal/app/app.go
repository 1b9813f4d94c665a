package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/oticavision/backoffice/internal/api"
	"github.com/oticavision/backoffice/internal/api/middleware"
	"github.com/oticavision/backoffice/internal/config"
	"github.com/oticavision/backoffice/internal/db"
	"github.com/oticavision/backoffice/internal/gateway"
	"github.com/oticavision/backoffice/internal/observability"
	"github.com/oticavision/backoffice/internal/repository"
	"github.com/oticavision/backoffice/internal/service"
	"github.com/oticavision/backoffice/internal/worker"
)

// Run bootstraps the HTTP server and the boleto sync scheduler, blocking
// until shutdown.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	observability.Init()
	middleware.SetJWTSecret(cfg.JWTSecret)
	middleware.SetJWTValidation(cfg.JWTIssuer, cfg.JWTAudience)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	// Redis only backs the gateway status cache; reconciliation works
	// without it, so an unreachable redis degrades instead of aborting.
	var statusCache redis.Cmdable
	redisClient, err := newRedisClient(cfg.RedisURL)
	if err != nil {
		logger.Warn("redis unavailable, gateway status cache disabled", zap.Error(err))
	} else {
		defer redisClient.Close()
		statusCache = redisClient
	}

	paymentRepo := repository.NewPaymentRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	legacyRepo := repository.NewLegacyClientRepository(pool)

	// The real Sicredi wire protocol lives outside this service; the mock
	// stands in behind the same Gateway interface.
	mockGateway := gateway.NewMockGateway()
	mockGateway.FailureRate = cfg.GatewayFailureRate
	bankGateway := gateway.NewCachedGateway(mockGateway, statusCache, cfg.GatewayCacheTTL)

	ledger := service.NewDebtLedger(customerRepo, legacyRepo)
	reconciler := service.NewReconciler(paymentRepo, bankGateway, ledger)
	syncSvc := service.NewSyncService(paymentRepo, reconciler)
	scheduler := worker.NewSyncScheduler(syncSvc)

	if cfg.SyncAutoStart {
		if err := scheduler.Start(cfg.SyncIntervalMinutes); err != nil {
			return fmt.Errorf("start auto sync: %w", err)
		}
		logger.Info("auto sync enabled at startup", zap.Int("interval_minutes", cfg.SyncIntervalMinutes))
	}

	router := api.NewRouter(cfg, logger, pool, statusCache, scheduler, syncSvc, paymentRepo, customerRepo, legacyRepo)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("port", cfg.HTTPPort))
		serverErr <- server.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("stopping sync scheduler")
	scheduler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}

	logger.Info("shutdown complete")
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	switch strings.ToLower(level) {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info", "":
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

func newRedisClient(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

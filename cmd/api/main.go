package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gigmile/ledger-service/internal/application/service"
	"github.com/gigmile/ledger-service/internal/config"
	"github.com/gigmile/ledger-service/internal/domain"
	"github.com/gigmile/ledger-service/internal/infrastructure/messaging"
	"github.com/gigmile/ledger-service/internal/infrastructure/repository"
	"github.com/gigmile/ledger-service/internal/interface/http/handler"
	"github.com/gigmile/ledger-service/internal/interface/http/router"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	ctx := context.Background()

	var redisClient *redis.Client
	if cfg.NeedsRedis() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		logger.Info("connected to Redis successfully", zap.String("host", cfg.Redis.Host))
	}

	repos := repository.NewRepositories(cfg.Idempotency, redisClient, logger)

	var eventPublisher domain.EventPublisher
	if cfg.Events.Enabled {
		eventPublisher = messaging.NewRedisEventPublisher(redisClient, logger)
		logger.Info("event publishing enabled")
	}

	accountService := service.NewAccountService(
		repos.Customer,
		repos.Idempotency,
		eventPublisher,
		cfg.Ledger.Location(),
		logger,
	)

	handlers := handler.NewHandlers(accountService, logger)
	r := router.NewRouter(handlers, accountService, router.Options{
		IdentityHeader:     cfg.Ledger.IdentityHeader,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		MetricsEnabled:     cfg.Metrics.Enabled,
	}, logger)

	serverAddr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server",
			zap.String("address", serverAddr),
			zap.String("identity_header", cfg.Ledger.IdentityHeader),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gigmile/ledger-service/internal/application/service"
	"github.com/gigmile/ledger-service/internal/config"
	"github.com/gigmile/ledger-service/internal/domain"
	"github.com/gigmile/ledger-service/internal/infrastructure/messaging"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	cfg := config.Load()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	defer redisClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect to Redis", zap.Error(err))
	}
	logger.Info("connected to Redis successfully")

	notificationService := service.NewNotificationService(logger)

	hostname, _ := os.Hostname()
	consumerName := fmt.Sprintf("worker-%s-%d", hostname, os.Getpid())
	eventSubscriber := messaging.NewRedisEventSubscriber(redisClient, logger, consumerName)

	subscriptions := map[string]domain.EventHandler{
		domain.EventTypeStatementCredited: notificationService.HandleStatementEvent,
		domain.EventTypeStatementDebited:  notificationService.HandleStatementEvent,
		domain.EventTypeAccountCreated:    notificationService.HandleAccountEvent,
		domain.EventTypeAccountUpdated:    notificationService.HandleAccountEvent,
		domain.EventTypeAccountDeleted:    notificationService.HandleAccountEvent,
	}
	for eventType, handler := range subscriptions {
		if err := eventSubscriber.Subscribe(ctx, eventType, handler); err != nil {
			logger.Fatal("failed to subscribe to events",
				zap.Error(err),
				zap.String("event_type", eventType),
			)
		}
	}

	logger.Info("worker started",
		zap.String("consumer", consumerName),
		zap.Int("subscriptions", len(subscriptions)),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("shutting down worker...")
		cancel()
	}()

	if err := eventSubscriber.Start(ctx); err != nil {
		logger.Info("worker stopped", zap.Error(err))
	}

	logger.Info("worker exited")
}

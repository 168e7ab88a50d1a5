package repository

import (
	"github.com/gigmile/ledger-service/internal/config"
	"github.com/gigmile/ledger-service/internal/domain"
	memoryrepository "github.com/gigmile/ledger-service/internal/infrastructure/repository/memory"
	redisrepository "github.com/gigmile/ledger-service/internal/infrastructure/repository/redis"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type Repositories struct {
	Customer    domain.CustomerRepository
	Idempotency domain.IdempotencyRepository
}

// NewRepositories builds the process-scoped store. redisClient may be nil
// unless the Redis idempotency backend is selected.
func NewRepositories(cfg config.IdempotencyConfig, redisClient *redis.Client, logger *zap.Logger) *Repositories {
	var idempotency domain.IdempotencyRepository
	switch {
	case cfg.Backend == config.IdempotencyBackendRedis && redisClient != nil:
		idempotency = redisrepository.NewIdempotencyRepository(redisClient, cfg.TTL)
	default:
		if cfg.Backend == config.IdempotencyBackendRedis {
			logger.Warn("redis idempotency backend requested without a redis client, using memory")
		}
		idempotency = memoryrepository.NewIdempotencyRepository(cfg.TTL)
	}

	logger.Info("repositories initialized",
		zap.String("customer_store", "memory"),
		zap.String("idempotency_backend", cfg.Backend),
	)

	return &Repositories{
		Customer:    memoryrepository.NewCustomerRepository(),
		Idempotency: idempotency,
	}
}

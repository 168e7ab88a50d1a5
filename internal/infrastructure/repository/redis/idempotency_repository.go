package redisrepository

import (
	"context"
	"fmt"
	"time"

	"github.com/gigmile/ledger-service/internal/domain"
	"github.com/go-redis/redis/v8"
)

// IdempotencyRepository reserves request keys with SETNX so retries across
// API instances are recognised.
type IdempotencyRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewIdempotencyRepository(client *redis.Client, ttl time.Duration) *IdempotencyRepository {
	return &IdempotencyRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *IdempotencyRepository) Reserve(ctx context.Context, key string) (bool, error) {
	wasSet, err := r.client.SetNX(ctx, r.idempotencyKey(key), time.Now().Unix(), r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	return wasSet, nil
}

func (r *IdempotencyRepository) Release(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.idempotencyKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}

func (r *IdempotencyRepository) idempotencyKey(key string) string {
	return fmt.Sprintf("idempotency:%s", key)
}

var _ domain.IdempotencyRepository = (*IdempotencyRepository)(nil)

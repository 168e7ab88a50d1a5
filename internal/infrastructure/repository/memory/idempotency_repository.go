package memoryrepository

import (
	"context"
	"sync"
	"time"

	"github.com/gigmile/ledger-service/internal/domain"
)

type IdempotencyRepository struct {
	mu   sync.Mutex
	keys map[string]time.Time
	ttl  time.Duration
	now  func() time.Time
}

// NewIdempotencyRepository keeps keys for ttl; ttl <= 0 keeps them forever.
func NewIdempotencyRepository(ttl time.Duration) *IdempotencyRepository {
	return &IdempotencyRepository{
		keys: make(map[string]time.Time),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (r *IdempotencyRepository) Reserve(ctx context.Context, key string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if expiresAt, ok := r.keys[key]; ok && (expiresAt.IsZero() || now.Before(expiresAt)) {
		return false, nil
	}

	var expiresAt time.Time
	if r.ttl > 0 {
		expiresAt = now.Add(r.ttl)
	}
	r.keys[key] = expiresAt
	return true, nil
}

func (r *IdempotencyRepository) Release(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.keys, key)
	return nil
}

var _ domain.IdempotencyRepository = (*IdempotencyRepository)(nil)

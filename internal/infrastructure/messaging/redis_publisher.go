package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gigmile/ledger-service/internal/domain"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const streamMaxLen = 100000

// StreamKey is the Redis stream that carries events of eventType
func StreamKey(eventType string) string {
	return fmt.Sprintf("ledger:events:%s", eventType)
}

type RedisEventPublisher struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisEventPublisher(client *redis.Client, logger *zap.Logger) *RedisEventPublisher {
	return &RedisEventPublisher{
		client: client,
		logger: logger,
	}
}

func (p *RedisEventPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	streamKey := StreamKey(event.GetEventType())

	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	_, err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: streamKey,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"event_id":     event.GetEventID(),
			"event_type":   event.GetEventType(),
			"aggregate_id": event.GetAggregateID(),
			"occurred_at":  event.GetOccurredAt().Unix(),
			"data":         string(eventData),
		},
	}).Result()
	if err != nil {
		p.logger.Error("failed to publish ledger event",
			zap.Error(err),
			zap.String("event_type", event.GetEventType()),
			zap.String("aggregate_id", event.GetAggregateID()),
		)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("ledger event published",
		zap.String("event_type", event.GetEventType()),
		zap.String("event_id", event.GetEventID()),
		zap.String("stream", streamKey),
	)

	return nil
}

var _ domain.EventPublisher = (*RedisEventPublisher)(nil)

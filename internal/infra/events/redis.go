package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "appointments:"

// RedisBroker шина событий поверх Redis Pub/Sub
// Позволяет нескольким экземплярам сервиса отдавать события одним и тем же подписчикам
type RedisBroker struct {
	rdb    *redis.Client
	logger Logger
}

// NewRedisBroker создает шину на клиенте Redis
func NewRedisBroker(rdb *redis.Client, logger Logger) *RedisBroker {
	return &RedisBroker{rdb: rdb, logger: logger}
}

// Channel имя канала тенанта
func Channel(tenantID int64) string {
	return fmt.Sprintf("%s%d", channelPrefix, tenantID)
}

// Publish публикует событие в канал тенанта
func (b *RedisBroker) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events.RedisBroker: marshal event: %w", err)
	}
	if err := b.rdb.Publish(ctx, Channel(event.TenantID), payload).Err(); err != nil {
		return fmt.Errorf("events.RedisBroker: publish: %w", err)
	}
	return nil
}

// Subscribe подписывается на канал тенанта до отмены ctx или вызова отписки
func (b *RedisBroker) Subscribe(ctx context.Context, tenantID int64, handler Handler) (func(), error) {
	pubsub := b.rdb.Subscribe(ctx, Channel(tenantID))

	// Дожидаемся подтверждения подписки, чтобы не потерять первые события
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("events.RedisBroker: subscribe: %w", err)
	}

	go func() {
		for msg := range pubsub.Channel() {
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Warn("events.RedisBroker: skip malformed event on %s: %v", msg.Channel, err)
				continue
			}
			handler(event)
		}
	}()

	stop := make(chan struct{})
	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			close(stop)
			_ = pubsub.Close()
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			unsubscribe()
		case <-stop:
		}
	}()

	return unsubscribe, nil
}

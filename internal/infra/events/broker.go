package events

import (
	"context"
	"sync"
)

const subscriberBuffer = 64

// Broker внутрипроцессная шина событий
// Медленный подписчик теряет события, но не блокирует публикацию
type Broker struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int64]map[int]chan Event
	logger Logger
}

// NewBroker создает пустую шину
func NewBroker(logger Logger) *Broker {
	return &Broker{
		subs:   make(map[int64]map[int]chan Event),
		logger: logger,
	}
}

// Publish рассылает событие подписчикам тенанта
func (b *Broker) Publish(_ context.Context, event Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subs[event.TenantID] {
		select {
		case ch <- event:
		default:
			b.logger.Warn("events.Broker: subscriber %d of tenant=%d is slow, dropping event %s",
				id, event.TenantID, event.ID)
		}
	}
	return nil
}

// Subscribe регистрирует обработчик; он вызывается из отдельной горутины
func (b *Broker) Subscribe(ctx context.Context, tenantID int64, handler Handler) (func(), error) {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	if b.subs[tenantID] == nil {
		b.subs[tenantID] = make(map[int]chan Event)
	}
	b.subs[tenantID][id] = ch
	b.mu.Unlock()

	go func() {
		for event := range ch {
			handler(event)
		}
	}()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[tenantID], id)
			if len(b.subs[tenantID]) == 0 {
				delete(b.subs, tenantID)
			}
			b.mu.Unlock()
			close(ch)
		})
	}

	go func() {
		<-ctx.Done()
		unsubscribe()
	}()

	return unsubscribe, nil
}

// Subscribers количество активных подписок тенанта
func (b *Broker) Subscribers(tenantID int64) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[tenantID])
}

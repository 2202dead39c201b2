package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/zatekoja/hospitaladmin/internal/domain/entities"
	"github.com/zatekoja/hospitaladmin/internal/domain/providers"
	redisclient "github.com/zatekoja/hospitaladmin/internal/infrastructure/clients/redis"
	"github.com/zatekoja/hospitaladmin/internal/infrastructure/observability"
)

// RedisEventBus relays store events between API replicas over Redis
// Pub/Sub. One pattern subscription covers every store channel; events
// are routed to local subscribers by the store they name.
type RedisEventBus struct {
	client      *redisclient.Client
	prefix      string
	pubsub      *redis.PubSub
	subscribers map[string]map[chan *entities.StoreEvent]struct{}
	closed      bool
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	logger      zerolog.Logger
}

// NewRedisEventBus creates a new Redis-based event bus. Channel names are
// namespaced with prefix.
func NewRedisEventBus(client *redisclient.Client, prefix string) *RedisEventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client:      client,
		prefix:      prefix,
		subscribers: make(map[string]map[chan *entities.StoreEvent]struct{}),
		ctx:         ctx,
		cancel:      cancel,
		logger:      observability.ComponentLogger("redis_event_bus"),
	}
}

var _ providers.EventBus = (*RedisEventBus)(nil)

// Publish sends event to every replica listening on the store channel
func (b *RedisEventBus) Publish(ctx context.Context, channel string, event *entities.StoreEvent) error {
	if !providers.IsEventChannel(channel) {
		return fmt.Errorf("unknown store channel %q", channel)
	}

	b.mu.RLock()
	closed := b.closed
	b.mu.RUnlock()
	if closed {
		return ErrBusClosed
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Client().Publish(ctx, b.prefix+channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug().Str("channel", channel).Str("event_id", event.ID).Str("type", string(event.Type)).Msg("Published event")
	return nil
}

// Subscribe registers a local subscriber for one store. The returned
// channel is closed when ctx is done or the bus shuts down.
func (b *RedisEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.StoreEvent, error) {
	if !providers.IsEventChannel(channel) {
		return nil, fmt.Errorf("unknown store channel %q", channel)
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrBusClosed
	}
	if b.pubsub == nil {
		b.pubsub = b.client.Client().PSubscribe(b.ctx, b.prefix+"*")
		go b.listen(b.pubsub.Channel())
	}
	eventChan := b.addSubscriberLocked(channel)
	b.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-b.ctx.Done():
		}
		b.removeSubscriber(channel, eventChan)
	}()

	return eventChan, nil
}

func (b *RedisEventBus) addSubscriberLocked(channel string) chan *entities.StoreEvent {
	if b.subscribers[channel] == nil {
		b.subscribers[channel] = make(map[chan *entities.StoreEvent]struct{})
	}
	eventChan := make(chan *entities.StoreEvent, 100)
	b.subscribers[channel][eventChan] = struct{}{}
	b.logger.Debug().Str("channel", channel).Int("subscribers", len(b.subscribers[channel])).Msg("Subscribed to store")
	return eventChan
}

func (b *RedisEventBus) listen(messages <-chan *redis.Message) {
	for {
		select {
		case <-b.ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			b.deliver(msg.Channel, msg.Payload)
		}
	}
}

// deliver routes one Redis message to the subscribers of its store.
// Messages for other prefixes, unknown stores, or whose body names a
// different store than the channel they arrived on are dropped.
func (b *RedisEventBus) deliver(redisChannel, payload string) {
	if !strings.HasPrefix(redisChannel, b.prefix) {
		return
	}
	store := strings.TrimPrefix(redisChannel, b.prefix)
	if !providers.IsEventChannel(store) {
		b.logger.Debug().Str("channel", redisChannel).Msg("Ignoring message for unknown store")
		return
	}

	var event entities.StoreEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		b.logger.Warn().Err(err).Str("store", store).Msg("Failed to unmarshal event")
		return
	}
	if event.Store != store {
		b.logger.Warn().Str("store", store).Str("event_store", event.Store).Str("event_id", event.ID).Msg("Dropping event published on the wrong store")
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for subscriber := range b.subscribers[store] {
		select {
		case subscriber <- &event:
		default:
			b.logger.Warn().Str("store", store).Str("event_id", event.ID).Msg("Subscriber channel full, skipping event")
		}
	}
}

func (b *RedisEventBus) removeSubscriber(channel string, eventChan chan *entities.StoreEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subscribers, exists := b.subscribers[channel]
	if !exists {
		return
	}
	if _, ok := subscribers[eventChan]; !ok {
		return
	}

	delete(subscribers, eventChan)
	close(eventChan)
	if len(subscribers) == 0 {
		delete(b.subscribers, channel)
	}
}

// Unsubscribe drops every local subscriber of a store
func (b *RedisEventBus) Unsubscribe(ctx context.Context, channel string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for subscriber := range b.subscribers[channel] {
		close(subscriber)
	}
	delete(b.subscribers, channel)
	return nil
}

// Close stops the pattern subscription and closes every subscriber
func (b *RedisEventBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	b.cancel()

	for channel, subscribers := range b.subscribers {
		for subscriber := range subscribers {
			close(subscriber)
		}
		delete(b.subscribers, channel)
	}

	if b.pubsub != nil {
		if err := b.pubsub.Close(); err != nil {
			return fmt.Errorf("failed to close subscription: %w", err)
		}
	}

	b.logger.Info().Msg("Event bus closed")
	return nil
}

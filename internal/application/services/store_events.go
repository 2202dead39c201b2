package services

import (
	"context"

	"github.com/zatekoja/hospitaladmin/internal/domain/entities"
	"github.com/zatekoja/hospitaladmin/internal/domain/providers"
	"github.com/zatekoja/hospitaladmin/internal/infrastructure/observability"
)

// EventPublisher announces store changes. Publishing is best effort: a
// failed publish is logged and never fails the mutation that caused it.
type EventPublisher struct {
	bus     providers.EventBus
	metrics *observability.Metrics
}

// NewEventPublisher creates a publisher; a nil bus disables publishing.
func NewEventPublisher(bus providers.EventBus, metrics *observability.Metrics) *EventPublisher {
	return &EventPublisher{bus: bus, metrics: metrics}
}

// Publish sends an event on channel.
func (p *EventPublisher) Publish(ctx context.Context, channel string, eventType entities.StoreEventType, payload map[string]interface{}) {
	if p == nil || p.bus == nil {
		return
	}

	event := entities.NewStoreEvent(channel, eventType, payload)
	if err := p.bus.Publish(ctx, channel, event); err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("channel", channel).
			Str("type", string(eventType)).
			Msg("Failed to publish store event")
		return
	}
	observability.RecordStoreEvent(ctx, p.metrics, channel, string(eventType))
}

package providers

import (
	"context"

	"github.com/zatekoja/hospitaladmin/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to store events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.StoreEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.StoreEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// Store channels
const (
	EventChannelDirectory = "directory"
	EventChannelBookings  = "bookings"
	EventChannelSession   = "session"
)

// EventChannels lists every channel a client may stream
var EventChannels = []string{EventChannelDirectory, EventChannelBookings, EventChannelSession}

// IsEventChannel reports whether name is a known store channel
func IsEventChannel(name string) bool {
	for _, c := range EventChannels {
		if c == name {
			return true
		}
	}
	return false
}

package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/hospitaladmin/internal/domain/entities"
	"github.com/zatekoja/hospitaladmin/internal/domain/providers"
)

func waitForEvent(t *testing.T, ch <-chan *entities.StoreEvent) *entities.StoreEvent {
	t.Helper()
	select {
	case event, ok := <-ch:
		require.True(t, ok, "subscriber channel closed")
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestMemoryEventBus_FanOut(t *testing.T) {
	bus := NewMemoryEventBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub1, err := bus.Subscribe(ctx, providers.EventChannelDirectory)
	require.NoError(t, err)
	sub2, err := bus.Subscribe(ctx, providers.EventChannelDirectory)
	require.NoError(t, err)
	other, err := bus.Subscribe(ctx, providers.EventChannelBookings)
	require.NoError(t, err)

	event := entities.NewStoreEvent(providers.EventChannelDirectory, entities.StoreEventDoctorAdded, map[string]interface{}{"id": "D016"})
	require.NoError(t, bus.Publish(context.Background(), providers.EventChannelDirectory, event))

	assert.Equal(t, event.ID, waitForEvent(t, sub1).ID)
	assert.Equal(t, event.ID, waitForEvent(t, sub2).ID)
	select {
	case <-other:
		t.Fatal("bookings subscriber received a directory event")
	default:
	}
}

func TestMemoryEventBus_ContextCancelClosesChannel(t *testing.T) {
	bus := NewMemoryEventBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := bus.Subscribe(ctx, providers.EventChannelSession)
	require.NoError(t, err)

	cancel()

	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-sub:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

func TestMemoryEventBus_Close(t *testing.T) {
	bus := NewMemoryEventBus()
	sub, err := bus.Subscribe(context.Background(), providers.EventChannelBookings)
	require.NoError(t, err)

	require.NoError(t, bus.Close())
	_, ok := <-sub
	assert.False(t, ok)

	err = bus.Publish(context.Background(), providers.EventChannelBookings, entities.NewStoreEvent("bookings", entities.StoreEventBookingCreated, nil))
	assert.ErrorIs(t, err, ErrBusClosed)
	_, err = bus.Subscribe(context.Background(), providers.EventChannelBookings)
	assert.ErrorIs(t, err, ErrBusClosed)
}

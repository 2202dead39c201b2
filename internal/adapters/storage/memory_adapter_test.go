package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/hospitaladmin/internal/domain/providers"
)

func TestMemoryAdapter_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryAdapter()

	_, err := store.Get(ctx, "bookedAppointments")
	assert.ErrorIs(t, err, providers.ErrKeyNotFound)

	value := []byte(`[]`)
	require.NoError(t, store.Set(ctx, "bookedAppointments", value, 0))
	value[0] = 'x'

	got, err := store.Get(ctx, "bookedAppointments")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	exists, err := store.Exists(ctx, "bookedAppointments")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.Delete(ctx, "bookedAppointments"))
	exists, err = store.Exists(ctx, "bookedAppointments")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryAdapter_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 8, 15, 9, 0, 0, 0, time.UTC)
	store := NewMemoryAdapterWithClock(func() time.Time { return now })

	require.NoError(t, store.Set(ctx, "session:abc:isAdmin", []byte("true"), 60))

	now = now.Add(59 * time.Second)
	_, err := store.Get(ctx, "session:abc:isAdmin")
	assert.NoError(t, err)

	now = now.Add(time.Second)
	_, err = store.Get(ctx, "session:abc:isAdmin")
	assert.ErrorIs(t, err, providers.ErrKeyNotFound)

	exists, _ := store.Exists(ctx, "session:abc:isAdmin")
	assert.False(t, exists)
}

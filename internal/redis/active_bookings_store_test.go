package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *Store {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, time.Hour)
}

func TestSaveGetDelete(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	booking := ActiveBooking{
		BookingID:     42,
		Reference:     "ref-42",
		UserID:        7,
		StationID:     3,
		ChargerNumber: "C1",
		StartTime:     start,
		EndTime:       start.Add(2 * time.Hour),
	}

	require.NoError(t, store.Save(ctx, booking))

	got, err := store.Get(ctx, 3, "C1")
	require.NoError(t, err)
	assert.Equal(t, booking.BookingID, got.BookingID)
	assert.Equal(t, booking.Reference, got.Reference)
	assert.True(t, got.EndTime.Equal(booking.EndTime))

	require.NoError(t, store.Delete(ctx, 3, "C1"))

	_, err = store.Get(ctx, 3, "C1")
	assert.ErrorIs(t, err, redis.Nil)
}

func TestGetMissingCharger(t *testing.T) {
	store := setupStore(t)

	_, err := store.Get(context.Background(), 9, "C9")
	assert.ErrorIs(t, err, redis.Nil)
}

package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, time.Hour, nil), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t)

	s, err := store.GetOrCreate(ctx, "r1")
	require.NoError(t, err)

	s.AddMessage("scammer", "send to fraud@ybl", time.Time{})
	s.ScamDetected = true
	s.ScamConfidence = 0.72
	s.Intel.UPIIDs = []string{"fraud@ybl"}
	require.NoError(t, store.Save(ctx, s))

	loaded, err := store.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, s.ID, loaded.ID)
	assert.Equal(t, 1, loaded.MessageCount())
	assert.True(t, loaded.ScamDetected)
	assert.Equal(t, 0.72, loaded.ScamConfidence)
	assert.Equal(t, []string{"fraud@ybl"}, loaded.Intel.UPIIDs)
}

func TestRedisStoreNotFound(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t)

	_, err := store.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreTTL(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	s, err := store.GetOrCreate(ctx, "expiring")
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, s))

	mr.FastForward(2 * time.Hour)

	_, err = store.Get(ctx, "expiring")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreListAndStats(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t)

	a, err := store.GetOrCreate(ctx, "a")
	require.NoError(t, err)
	a.ScamDetected = true
	require.NoError(t, store.Save(ctx, a))

	_, err = store.GetOrCreate(ctx, "b")
	require.NoError(t, err)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{TotalSessions: 2, ScamSessions: 1}, stats)
}

func TestRedisStoreDelete(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t)

	_, err := store.GetOrCreate(ctx, "gone")
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "gone"))

	_, err = store.Get(ctx, "gone")
	assert.ErrorIs(t, err, ErrNotFound)
}

package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-generator/internal/domain"
)

func setupRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	store, err := NewRedisStore(context.Background(), client, "", ttl)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store, mr
}

func TestNewRedisStore_PingFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	client := redis.NewClient(&redis.Options{Addr: addr, MaxRetries: -1})
	defer client.Close()

	_, err := NewRedisStore(context.Background(), client, "", time.Hour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping redis")
}

func TestRedisStore_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	store, mr := setupRedisStore(t, time.Hour)

	require.NoError(t, store.Save(ctx, readyRecord("s1")))
	assert.True(t, mr.Exists(DefaultKeyPrefix+"s1"))
	assert.Equal(t, time.Hour, mr.TTL(DefaultKeyPrefix+"s1"))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "tok-s1", got.Credentials.AccessToken)
	assert.Equal(t, "u-s1", got.Credentials.User.ID)
	assert.True(t, got.CreatedAt.Equal(readyRecord("s1").CreatedAt))

	require.NoError(t, store.Delete(ctx, "s1"))

	_, err = store.Get(ctx, "s1")
	assert.True(t, domain.IsNotFound(err))
}

func TestRedisStore_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	store, mr := setupRedisStore(t, time.Minute)

	require.NoError(t, store.Save(ctx, readyRecord("s1")))
	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "s1")
	assert.True(t, domain.IsNotFound(err))
}

func TestRedisStore_CorruptRecord(t *testing.T) {
	store, mr := setupRedisStore(t, time.Hour)
	require.NoError(t, mr.Set(DefaultKeyPrefix+"bad", "{not json"))

	_, err := store.Get(context.Background(), "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding session")
}

func TestRedisStore_ServerDown(t *testing.T) {
	store, mr := setupRedisStore(t, time.Hour)
	mr.Close()

	_, err := store.Get(context.Background(), "s1")
	assert.True(t, domain.IsUnavailable(err))

	assert.True(t, domain.IsUnavailable(store.Save(context.Background(), readyRecord("s1"))))
	assert.Error(t, store.Check(context.Background()))
}

func TestRedisStore_HealthChecker(t *testing.T) {
	store, _ := setupRedisStore(t, time.Hour)

	assert.Equal(t, "session-store", store.Name())
	assert.NoError(t, store.Check(context.Background()))
}

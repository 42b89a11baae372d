package state

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const awaiting State = "awaiting_reg_number"

func storeContract(t *testing.T, s Store) {
	ctx := context.Background()

	st, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, Idle, st, "unknown user defaults to idle")

	require.NoError(t, s.Set(ctx, 1, awaiting))
	st, err = s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, awaiting, st)

	st, err = s.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, Idle, st, "states are per user")

	require.NoError(t, s.Clear(ctx, 1))
	st, err = s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, Idle, st)

	require.NoError(t, s.Set(ctx, 3, awaiting))
	require.NoError(t, s.Set(ctx, 3, ""))
	st, err = s.Get(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, Idle, st, "setting an empty state clears it")

	require.NoError(t, s.Clear(ctx, 42), "clearing an idle user is a no-op")
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	storeContract(t, s)
	assert.Zero(t, s.Len())
}

func TestMemoryStoreConcurrentUsers(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := int64(0); i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_ = s.Set(ctx, id, awaiting)
			_, _ = s.Get(ctx, id)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, s.Len())
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := Connect(ctx, addr, os.Getenv("REDIS_PASSWORD"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	prefix := fmt.Sprintf("nsk:test:%d", time.Now().UnixNano())
	s := NewRedisStore(client, prefix, time.Minute)
	storeContract(t, s)

	require.NoError(t, s.Set(ctx, 7, awaiting))
	ttl, err := client.TTL(ctx, prefix+":7").Result()
	require.NoError(t, err)
	assert.Positive(t, ttl)
	require.NoError(t, s.Clear(ctx, 7))
}

func TestRedisStoreUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	s := NewRedisStore(client, "", 0)

	_, err := s.Get(context.Background(), 1)
	assert.Error(t, err)
	assert.Error(t, s.Set(context.Background(), 1, awaiting))
}

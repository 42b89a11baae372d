package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dobryakk5/nsk/core/logger"
)

// RedisStore keeps states as plain string keys "<prefix>:<user id>".
// Idle is represented by the key being absent.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore wraps an existing client. A zero ttl keeps keys forever.
func NewRedisStore(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "state"
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

// Connect dials Redis and verifies the connection with PING.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	start := time.Now()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	logger.Info(ctx, "tg.state", "redis.connect",
		slog.String("status", "ok"),
		slog.String("host", addr),
		slog.Int("db", db),
		slog.Duration("duration", logger.Took(start)),
	)
	return client, nil
}

func (r *RedisStore) key(userID int64) string {
	return r.prefix + ":" + strconv.FormatInt(userID, 10)
}

// Get returns the stored state or Idle when the key is missing.
func (r *RedisStore) Get(ctx context.Context, userID int64) (State, error) {
	val, err := r.client.Get(ctx, r.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return Idle, nil
	}
	if err != nil {
		return Idle, fmt.Errorf("state get %d: %w", userID, err)
	}
	return normalize(State(val)), nil
}

// Set writes st with the configured ttl. Setting Idle deletes the key.
func (r *RedisStore) Set(ctx context.Context, userID int64, st State) error {
	st = normalize(st)
	if st == Idle {
		return r.Clear(ctx, userID)
	}
	if err := r.client.Set(ctx, r.key(userID), string(st), r.ttl).Err(); err != nil {
		return fmt.Errorf("state set %d: %w", userID, err)
	}
	return nil
}

// Clear deletes the user's key.
func (r *RedisStore) Clear(ctx context.Context, userID int64) error {
	if err := r.client.Del(ctx, r.key(userID)).Err(); err != nil {
		return fmt.Errorf("state clear %d: %w", userID, err)
	}
	return nil
}

package version

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// Store persists a visitor's resolved version identity server side.
// It complements the cookie: reads prefer the store, fall back to the
// cookie, and a cookie hit is back-filled into the store.
type Store interface {
	Get(ctx context.Context, visitorID string) (string, error)
	Set(ctx context.Context, visitorID, version string) error
}

// RedisStore keeps visitor versions in Redis.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed version store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) key(visitorID string) string {
	return "version:visitor:" + visitorID
}

// Get returns the stored version for a visitor, or "" when absent.
func (s *RedisStore) Get(ctx context.Context, visitorID string) (string, error) {
	val, err := s.client.Get(ctx, s.key(visitorID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// Set stores the version for a visitor.
func (s *RedisStore) Set(ctx context.Context, visitorID, version string) error {
	return s.client.Set(ctx, s.key(visitorID), version, s.ttl).Err()
}

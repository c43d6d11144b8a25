package tenantconfig

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const redisKeyPrefix = "tenantconfig:"

// RedisStore is a Store backed by Redis, for sharing the configuration cache
// across instances. Values are written with a single SET of the full JSON
// document; Redis guarantees readers see either the previous or the new
// document. TTL expiry is delegated to Redis.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection. A zero ttl
// stores entries without expiry.
func NewRedisStore(addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

// NewRedisStoreWithClient wraps an existing client, mainly for tests.
func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Close closes the underlying Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Get(ctx context.Context, tenantID uuid.UUID) (*Config, bool) {
	raw, err := s.client.Get(ctx, redisKey(tenantID)).Result()
	if err != nil {
		// Treat any Redis failure as a miss; the resolver falls through to
		// the platform fetch.
		return nil, false
	}
	var cfg Config
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, false
	}
	return &cfg, true
}

func (s *RedisStore) Set(ctx context.Context, tenantID uuid.UUID, cfg *Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config for tenant %s: %w", tenantID, err)
	}
	if err := s.client.Set(ctx, redisKey(tenantID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("store config for tenant %s: %w", tenantID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, tenantID uuid.UUID) error {
	return s.client.Del(ctx, redisKey(tenantID)).Err()
}

func (s *RedisStore) Contains(ctx context.Context, tenantID uuid.UUID) bool {
	n, err := s.client.Exists(ctx, redisKey(tenantID)).Result()
	return err == nil && n > 0
}

func (s *RedisStore) Clear(ctx context.Context) error {
	keys, err := s.client.Keys(ctx, redisKeyPrefix+"*").Result()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

func redisKey(tenantID uuid.UUID) string {
	return redisKeyPrefix + tenantID.String()
}

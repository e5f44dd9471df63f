// Package cache keeps environmental risk profiles in a two-tier cache: an
// in-process LRU in front of an optional shared Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/health-signal-classifier/internal/domain"
)

// RemoteStore is the shared tier. RedisStore is the production
// implementation.
type RemoteStore interface {
	GetProfile(ctx context.Context, key string) (*domain.RiskProfile, bool, error)
	SetProfile(ctx context.Context, key string, profile *domain.RiskProfile, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// RedisStore wraps a Redis client holding JSON encoded profiles.
type RedisStore struct {
	redis      *redis.Client
	defaultTTL time.Duration
	now        func() time.Time
}

// cachedProfile is the stored envelope.
type cachedProfile struct {
	Data      *domain.RiskProfile `json:"data"`
	CachedAt  time.Time           `json:"cached_at"`
	ExpiresAt time.Time           `json:"expires_at"`
}

// NewRedisStore connects to config.RedisURL and verifies the connection.
func NewRedisStore(ctx context.Context, config domain.CacheConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	if config.PoolSize > 0 {
		opts.PoolSize = config.PoolSize
	}
	if config.PoolTimeout > 0 {
		opts.PoolTimeout = config.PoolTimeout
	}
	opts.MaxRetries = config.MaxRetries

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStoreFromClient(client, config.DefaultTTL), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, defaultTTL time.Duration) *RedisStore {
	return &RedisStore{redis: client, defaultTTL: defaultTTL, now: time.Now}
}

// GetProfile reads a profile. Corrupt or expired entries are deleted and
// reported as a miss.
func (s *RedisStore) GetProfile(ctx context.Context, key string) (*domain.RiskProfile, bool, error) {
	val, err := s.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get profile cache: %w", err)
	}

	var cached cachedProfile
	if err := json.Unmarshal(val, &cached); err != nil || cached.Data == nil {
		s.redis.Del(ctx, key)
		return nil, false, nil
	}
	if s.now().After(cached.ExpiresAt) {
		s.redis.Del(ctx, key)
		return nil, false, nil
	}
	return cached.Data, true, nil
}

// SetProfile stores profile for ttl, or the default TTL when ttl is zero.
func (s *RedisStore) SetProfile(ctx context.Context, key string, profile *domain.RiskProfile, ttl time.Duration) error {
	if ttl == 0 {
		ttl = s.defaultTTL
	}
	now := s.now()
	data, err := json.Marshal(cachedProfile{
		Data:      profile,
		CachedAt:  now,
		ExpiresAt: now.Add(ttl),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal profile cache data: %w", err)
	}
	return s.redis.Set(ctx, key, data, ttl).Err()
}

// Delete removes key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.redis.Del(ctx, key).Err()
}

// InvalidatePattern removes every key matching pattern.
func (s *RedisStore) InvalidatePattern(ctx context.Context, pattern string) error {
	iter := s.redis.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return s.redis.Del(ctx, keys...).Err()
}

// Ping checks the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.redis.Close()
}

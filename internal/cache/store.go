// Package cache is a get-or-compute layer over Redis. Cache failures are
// never surfaced to callers: every operation degrades to a miss or no-op
// with a logged warning so the request proceeds against the real backends.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Store struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewStore(rdb *redis.Client, logger *zap.Logger) *Store {
	return &Store{rdb: rdb, logger: logger}
}

// Get unmarshals the cached value for key into dest. Returns false on a
// miss or on any cache failure.
func (s *Store) Get(ctx context.Context, key string, dest any) bool {
	if s == nil || s.rdb == nil {
		return false
	}

	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		s.logger.Warn("cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Set stores value under key with the given TTL. Failures are logged and
// swallowed.
func (s *Store) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if s == nil || s.rdb == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Delete removes the given keys. Used for invalidation after session
// mutations.
func (s *Store) Delete(ctx context.Context, keys ...string) {
	if s == nil || s.rdb == nil || len(keys) == 0 {
		return
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn("cache delete failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// GetOrSet returns the cached value for key, or invokes factory, caches
// the result with the given TTL, and returns it. The factory error is
// returned as-is; factory results are cached only on success.
func GetOrSet[T any](ctx context.Context, s *Store, key string, ttl time.Duration, factory func() (T, error)) (T, error) {
	var cached T
	if s.Get(ctx, key, &cached) {
		return cached, nil
	}

	value, err := factory()
	if err != nil {
		return value, err
	}

	s.Set(ctx, key, value, ttl)
	return value, nil
}

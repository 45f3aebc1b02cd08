package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// clearBatchSize is the SCAN count hint and DEL batch size used by Clear.
const clearBatchSize = 100

// RedisStore keeps values in Redis under a namespace prefix.
type RedisStore struct {
	redis     *redis.Client
	namespace string
	logger    zerolog.Logger
}

// NewRedisStore creates a store whose keys are prefixed with "namespace:".
func NewRedisStore(redisClient *redis.Client, namespace string, logger zerolog.Logger) *RedisStore {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &RedisStore{
		redis:     redisClient,
		namespace: namespace,
		logger:    logger,
	}
}

func (s *RedisStore) key(key string) string {
	if s.namespace == "" {
		return key
	}
	return s.namespace + ":" + key
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := s.redis.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		storeErrors.WithLabelValues("redis", "get").Inc()
		return false, fmt.Errorf("redis get: %w", err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		storeErrors.WithLabelValues("redis", "decode").Inc()
		s.logger.Warn().Err(err).Str("key", key).Msg("Failed to decode stored value")
		return false, nil
	}
	return true, nil
}

// Set implements Store.
func (s *RedisStore) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		storeErrors.WithLabelValues("redis", "encode").Inc()
		return fmt.Errorf("marshal value: %w", err)
	}

	if err := s.redis.Set(ctx, s.key(key), data, 0).Err(); err != nil {
		storeErrors.WithLabelValues("redis", "set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Remove implements Store.
func (s *RedisStore) Remove(ctx context.Context, key string) error {
	if err := s.redis.Del(ctx, s.key(key)).Err(); err != nil {
		storeErrors.WithLabelValues("redis", "remove").Inc()
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Clear implements Store. Only keys under the namespace are removed; with an
// empty namespace the whole database is flushed.
func (s *RedisStore) Clear(ctx context.Context) error {
	if s.namespace == "" {
		if err := s.redis.FlushDB(ctx).Err(); err != nil {
			storeErrors.WithLabelValues("redis", "clear").Inc()
			return fmt.Errorf("redis flushdb: %w", err)
		}
		return nil
	}

	// Deleting while SCAN is still walking can make the cursor skip keys, so
	// the whole match set is collected before anything is removed.
	var keys []string
	iter := s.redis.Scan(ctx, 0, s.namespace+":*", clearBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		storeErrors.WithLabelValues("redis", "clear").Inc()
		return fmt.Errorf("redis scan: %w", err)
	}

	for start := 0; start < len(keys); start += clearBatchSize {
		end := min(start+clearBatchSize, len(keys))
		if err := s.redis.Del(ctx, keys[start:end]...).Err(); err != nil {
			storeErrors.WithLabelValues("redis", "clear").Inc()
			return fmt.Errorf("redis del: %w", err)
		}
	}
	return nil
}

// Has implements Store.
func (s *RedisStore) Has(ctx context.Context, key string) (bool, error) {
	n, err := s.redis.Exists(ctx, s.key(key)).Result()
	if err != nil {
		storeErrors.WithLabelValues("redis", "has").Inc()
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

// Ping implements Store.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

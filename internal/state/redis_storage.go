package state

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisKV is the subset of the application Redis client used by RedisStorage.
// Both *appredis.Client and *appredis.MetricsClient satisfy it.
type RedisKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RedisStorage persists bot state in Redis without expiry.
type RedisStorage struct {
	client RedisKV
	log    *slog.Logger
}

var _ Store = (*RedisStorage)(nil)

// NewRedisStorage initializes a Redis-backed Store implementation.
func NewRedisStorage(client RedisKV, log *slog.Logger) *RedisStorage {
	if log == nil {
		log = slog.Default()
	}

	return &RedisStorage{
		client: client,
		log:    log,
	}
}

// Get returns the stored value or ErrNotFound when absent.
func (s *RedisStorage) Get(ctx context.Context, key Key) (string, error) {
	value, err := s.client.Get(ctx, string(key))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}

		s.log.Error("failed to get value from redis", "key", key, "error", err)
		return "", err
	}

	return value, nil
}

// Put saves value under key.
func (s *RedisStorage) Put(ctx context.Context, key Key, value string) error {
	if err := s.client.Set(ctx, string(key), value, 0); err != nil {
		s.log.Error("failed to save value in redis", "key", key, "error", err)
		return err
	}

	return nil
}

// Delete removes the stored value.
func (s *RedisStorage) Delete(ctx context.Context, key Key) error {
	if err := s.client.Delete(ctx, string(key)); err != nil {
		s.log.Error("failed to delete value from redis", "key", key, "error", err)
		return err
	}

	return nil
}

package services

import (
	"context"
	"time"

	"ecocreds/pkg/cache"
)

// CacheService abstracts the Redis layer for services and repositories.
type CacheService interface {
	// Basic cache operations
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)

	// Advanced operations
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	Increment(ctx context.Context, key string) (int64, error)
	SetExpire(ctx context.Context, key string, expiration time.Duration) error
}

type redisCacheService struct {
	redis *cache.RedisCache
}

func NewCacheService(redis *cache.RedisCache) CacheService {
	return &redisCacheService{redis: redis}
}

func (s *redisCacheService) Get(ctx context.Context, key string, dest interface{}) error {
	return s.redis.Get(ctx, key, dest)
}

func (s *redisCacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return s.redis.Set(ctx, key, value, expiration)
}

func (s *redisCacheService) Delete(ctx context.Context, keys ...string) error {
	return s.redis.Delete(ctx, keys...)
}

func (s *redisCacheService) Exists(ctx context.Context, key string) (bool, error) {
	return s.redis.Exists(ctx, key)
}

func (s *redisCacheService) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return s.redis.SetNX(ctx, key, value, expiration)
}

func (s *redisCacheService) Increment(ctx context.Context, key string) (int64, error) {
	return s.redis.Increment(ctx, key)
}

func (s *redisCacheService) SetExpire(ctx context.Context, key string, expiration time.Duration) error {
	return s.redis.SetExpire(ctx, key, expiration)
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache implements [Cache] as one JSON document under a fixed key.
type RedisCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed Cache.
func NewRedisCache(client *redis.Client, key string, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, key: key, ttl: ttl}
}

/*
Get reads the cached list.

Returns:
  - []Category: Cached entries
  - bool: false on a miss
  - error: Connectivity or decoding failures
*/
func (cache *RedisCache) Get(context context.Context) ([]Category, bool, error) {
	payload, err := cache.client.Get(context, cache.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis_category_cache_get_failed: %w", err)
	}

	var categories []Category
	if err := json.Unmarshal(payload, &categories); err != nil {
		return nil, false, fmt.Errorf("redis_category_cache_decode_failed: %w", err)
	}
	return categories, true, nil
}

func (cache *RedisCache) Set(context context.Context, categories []Category) error {
	payload, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("redis_category_cache_encode_failed: %w", err)
	}

	if err := cache.client.Set(context, cache.key, payload, cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis_category_cache_set_failed: %w", err)
	}
	return nil
}

func (cache *RedisCache) Invalidate(context context.Context) error {
	if err := cache.client.Del(context, cache.key).Err(); err != nil {
		return fmt.Errorf("redis_category_cache_delete_failed: %w", err)
	}
	return nil
}

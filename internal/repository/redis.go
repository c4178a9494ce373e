package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"shareit/internal/config"
	"shareit/internal/models"

	"github.com/redis/go-redis/v9"
)

const searchKeyPrefix = "item_search:"

// RedisSearchCache keeps item search results in Redis with a TTL.
type RedisSearchCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}
	return redis.NewClient(options)
}

func NewRedisSearchCache(client *redis.Client, ttl time.Duration) *RedisSearchCache {
	return &RedisSearchCache{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisSearchCache) GetSearch(ctx context.Context, text string) ([]models.Item, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, searchKey(text)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get search results from redis: %w", err)
	}

	var items []models.Item
	if err := json.Unmarshal([]byte(val), &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal search results: %w", err)
	}
	if items == nil {
		items = []models.Item{}
	}
	return items, nil
}

func (r *RedisSearchCache) SetSearch(ctx context.Context, text string, items []models.Item) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal search results: %w", err)
	}
	if err := r.client.Set(ctx, searchKey(text), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set search results in redis: %w", err)
	}
	return nil
}

// Invalidate drops every cached search result. Called after item
// mutations so stale availability never leaks into search.
func (r *RedisSearchCache) Invalidate(ctx context.Context) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, searchKeyPrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan search keys: %w", err)
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete search keys: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func searchKey(text string) string {
	return searchKeyPrefix + strings.ToLower(text)
}

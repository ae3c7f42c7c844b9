package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// Key helpers for the gamification cache. Stats entries are short-lived; the
// stats document is the source of truth and every award invalidates the key.
func StatsKey(userID string) string {
	return fmt.Sprintf("gamification:stats:%s", userID)
}

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(addr, password string, db int) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisCache{client: client}
}

// Client exposes the underlying connection for the leaderboard ZSET.
func (r *RedisCache) Client() *redis.Client {
	return r.client
}

func (r *RedisCache) Set(key string, value interface{}, expiration time.Duration) error {
	err := r.client.Set(context.Background(), key, value, expiration).Err()
	if err != nil {
		log.Printf("Cache ERROR: Failed to set key '%s': %v", key, err)
		return fmt.Errorf("failed to set key %s in cache: %v", key, err)
	}
	return nil
}

func (r *RedisCache) Get(key string) (interface{}, error) {
	val, err := r.client.Get(context.Background(), key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		log.Printf("Cache ERROR: Failed to get key '%s': %v", key, err)
		return nil, fmt.Errorf("failed to get key %s from cache: %v", key, err)
	}
	return val, nil
}

func (r *RedisCache) Delete(key string) error {
	err := r.client.Del(context.Background(), key).Err()
	if err != nil {
		log.Printf("Cache ERROR: Failed to delete key '%s': %v", key, err)
		return fmt.Errorf("failed to delete key %s from cache: %v", key, err)
	}
	return nil
}

func (r *RedisCache) Exists(key string) (bool, error) {
	result, err := r.client.Exists(context.Background(), key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check existence of key %s in cache: %v", key, err)
	}
	return result > 0, nil
}

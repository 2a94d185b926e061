package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"nba-season-dashboard/internal/model"
	"nba-season-dashboard/internal/pipeline"

	"github.com/redis/go-redis/v9"
)

// DefaultSeriesTTL bounds how long filtered rows survive a dataset reload
const DefaultSeriesTTL = 24 * time.Hour

const keyPrefix = "nba:series"

// RedisCache stores filtered season rows in Redis as JSON. Dataset IDs are
// part of the key, so rows of a previous load are never served.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a cache on an existing client
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultSeriesTTL
	}
	return &RedisCache{
		client: client,
		ttl:    ttl,
	}
}

// Connect parses a redis:// URL and pings the server
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return client, nil
}

func redisKey(key pipeline.CacheKey) string {
	return fmt.Sprintf("%s:%s", keyPrefix, key.String())
}

// Get returns cached rows. Redis errors are logged and reported as a miss.
func (c *RedisCache) Get(ctx context.Context, key pipeline.CacheKey) ([]model.GameRecord, bool) {
	data, err := c.client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		log.Printf("⚠️ redis get %s: %v", redisKey(key), err)
		return nil, false
	}

	var rows []model.GameRecord
	if err := json.Unmarshal(data, &rows); err != nil {
		log.Printf("⚠️ redis decode %s: %v", redisKey(key), err)
		return nil, false
	}
	return rows, true
}

// Set stores rows with the cache TTL. Failures only cost a recomputation.
func (c *RedisCache) Set(ctx context.Context, key pipeline.CacheKey, rows []model.GameRecord) {
	if rows == nil {
		rows = []model.GameRecord{}
	}
	data, err := json.Marshal(rows)
	if err != nil {
		log.Printf("⚠️ redis encode %s: %v", redisKey(key), err)
		return
	}
	if err := c.client.Set(ctx, redisKey(key), data, c.ttl).Err(); err != nil {
		log.Printf("⚠️ redis set %s: %v", redisKey(key), err)
	}
}

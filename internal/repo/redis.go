package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-akashdhara/internal/config"
	"go-akashdhara/internal/domain"

	redis "github.com/redis/go-redis/v9"
)

const keyPrefix = "akashdhara:cache"

// RedisCache keeps the latest payload per source and key, expiring after ttl
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

type redisEntry struct {
	FetchedAt time.Time       `json:"fetched_at"`
	Payload   json.RawMessage `json:"payload"`
}

// NewRedisClient connects to redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis address required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// NewRedisCache creates a cache over client
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, now: time.Now}
}

// Write replaces the payload for source and key
func (c *RedisCache) Write(ctx context.Context, source, key string, payload json.RawMessage) error {
	data, err := json.Marshal(redisEntry{FetchedAt: c.now().UTC(), Payload: payload})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(source, key), data, c.ttl).Err()
}

// GetLatest returns the live entry for source and key, or nil when it is missing or expired
func (c *RedisCache) GetLatest(ctx context.Context, source, key string) (*domain.SpaceCache, error) {
	raw, err := c.client.Get(ctx, cacheKey(source, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entry redisEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("decode cache entry %s/%s: %w", source, key, err)
	}
	return &domain.SpaceCache{
		Source:    source,
		Key:       key,
		FetchedAt: entry.FetchedAt,
		Payload:   entry.Payload,
	}, nil
}

func cacheKey(source, key string) string {
	return keyPrefix + ":" + source + ":" + key
}

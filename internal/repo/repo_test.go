package repo

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"go-akashdhara/internal/config"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

func TestCacheKey(t *testing.T) {
	if got := cacheKey("launches", "2024-03-10"); got != "akashdhara:cache:launches:2024-03-10" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestCacheRepoRoundTrip(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()
	if err := InitDB(ctx, pool); err != nil {
		t.Fatalf("InitDB: %v", err)
	}

	cache := NewCacheRepo(pool)
	key := "test-" + uuid.NewString()
	if got, err := cache.GetLatest(ctx, "apod", key); err != nil || got != nil {
		t.Fatalf("expected miss, got %+v %v", got, err)
	}
	for _, title := range []string{"first", "second"} {
		if err := cache.Write(ctx, "apod", key, json.RawMessage(`{"title":"`+title+`"}`)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	got, err := cache.GetLatest(ctx, "apod", key)
	if err != nil || got == nil {
		t.Fatalf("expected hit, got %+v %v", got, err)
	}
	var payload struct{ Title string }
	if err := json.Unmarshal(got.Payload, &payload); err != nil || payload.Title != "second" {
		t.Fatalf("expected newest payload, got %s", got.Payload)
	}

	if _, err := cache.Prune(ctx); err != nil {
		t.Fatalf("Prune: %v", err)
	}
	var n int
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM space_cache WHERE cache_key = $1", key).Scan(&n); err != nil || n != 1 {
		t.Fatalf("expected one row after prune, got %d %v", n, err)
	}
}

func TestRedisCacheRoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	client, err := NewRedisClient(ctx, config.RedisConfig{Addr: addr})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	cache := NewRedisCache(client, time.Minute)
	key := "test-" + uuid.NewString()
	if got, err := cache.GetLatest(ctx, "launches", key); err != nil || got != nil {
		t.Fatalf("expected miss, got %+v %v", got, err)
	}
	if err := cache.Write(ctx, "launches", key, json.RawMessage(`[{"id":"l1"}]`)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := cache.GetLatest(ctx, "launches", key)
	if err != nil || got == nil || string(got.Payload) != `[{"id":"l1"}]` {
		t.Fatalf("unexpected entry %+v %v", got, err)
	}
	ttl, err := client.TTL(ctx, cacheKey("launches", key)).Result()
	if err != nil || ttl <= 0 || ttl > time.Minute {
		t.Fatalf("unexpected ttl %v %v", ttl, err)
	}
}

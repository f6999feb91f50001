// Package repo provides cache repositories for upstream payloads
package repo

import (
	"context"
	"encoding/json"
	"errors"

	"go-akashdhara/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CacheRepo handles space cache persistence
type CacheRepo struct {
	pool *pgxpool.Pool
}

// NewCacheRepo creates a new cache repository
func NewCacheRepo(pool *pgxpool.Pool) *CacheRepo {
	return &CacheRepo{pool: pool}
}

// Write appends a payload for source and key
func (r *CacheRepo) Write(ctx context.Context, source, key string, payload json.RawMessage) error {
	_, err := r.pool.Exec(ctx,
		"INSERT INTO space_cache(source, cache_key, payload) VALUES ($1,$2,$3)",
		source, key, payload)
	return err
}

// GetLatest gets the newest entry for source and key, or nil when there is none
func (r *CacheRepo) GetLatest(ctx context.Context, source, key string) (*domain.SpaceCache, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, source, cache_key, fetched_at, payload FROM space_cache
		 WHERE source = $1 AND cache_key = $2 ORDER BY id DESC LIMIT 1`,
		source, key)

	var cache domain.SpaceCache
	err := row.Scan(&cache.ID, &cache.Source, &cache.Key, &cache.FetchedAt, &cache.Payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cache, nil
}

// Prune deletes all but the newest entry per source and key
func (r *CacheRepo) Prune(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM space_cache c
		USING space_cache newer
		WHERE newer.source = c.source AND newer.cache_key = c.cache_key AND newer.id > c.id`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// InitDB initializes database tables
func InitDB(ctx context.Context, pool *pgxpool.Pool) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS space_cache(
			id BIGSERIAL PRIMARY KEY,
			source TEXT NOT NULL,
			cache_key TEXT NOT NULL,
			fetched_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			payload JSONB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS ix_space_cache_source_key
		 ON space_cache(source, cache_key, id DESC)`,
	}

	for _, q := range queries {
		if _, err := pool.Exec(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

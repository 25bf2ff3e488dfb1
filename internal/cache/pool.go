// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// pool.go keeps a short-lived snapshot of the full candidate pool in Valkey
// so concurrent discovery requests across instances share one database read.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"stackshelf/internal/metrics"
	"stackshelf/internal/models"
)

const (
	// poolKeyPrefix is the Valkey key prefix for pool snapshots.
	poolKeyPrefix = "pool:"

	// poolKey holds the snapshot of every product.
	poolKey = poolKeyPrefix + "all"

	// DefaultPoolTTL is how long a snapshot stays cached.
	DefaultPoolTTL = time.Minute
)

// PoolCache stores the candidate pool snapshot in Valkey. Errors are logged
// and reported as misses; the cache never fails a request.
type PoolCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPoolCache creates a new pool cache backed by the given Valkey client.
func NewPoolCache(client *redis.Client, ttl time.Duration) *PoolCache {
	if ttl <= 0 {
		ttl = DefaultPoolTTL
	}
	return &PoolCache{client: client, ttl: ttl}
}

// Get returns the cached pool. The boolean is false on a miss, on a Valkey
// error, and on an undecodable payload.
func (pc *PoolCache) Get(ctx context.Context) ([]models.Product, bool) {
	val, err := pc.client.Get(ctx, poolKey).Bytes()
	if err == redis.Nil {
		metrics.PoolCacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	if err != nil {
		slog.Warn("pool cache get error", "error", err)
		metrics.PoolCacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}

	var products []models.Product
	if err := json.Unmarshal(val, &products); err != nil {
		slog.Warn("pool cache decode error", "error", err)
		metrics.PoolCacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}

	slog.Debug("pool cache hit", "products", len(products))
	metrics.PoolCacheLookups.WithLabelValues("hit").Inc()
	return products, true
}

// Set stores the pool with the configured TTL.
func (pc *PoolCache) Set(ctx context.Context, products []models.Product) {
	if products == nil {
		products = []models.Product{}
	}
	payload, err := json.Marshal(products)
	if err != nil {
		slog.Warn("pool cache encode error", "error", err)
		return
	}
	if err := pc.client.Set(ctx, poolKey, payload, pc.ttl).Err(); err != nil {
		slog.Warn("pool cache set error", "error", err)
	}
}

// Invalidate drops the snapshot so the next request reads the database.
func (pc *PoolCache) Invalidate(ctx context.Context) {
	if err := pc.client.Del(ctx, poolKey).Err(); err != nil {
		slog.Warn("pool cache invalidate error", "error", err)
		return
	}
	slog.Debug("pool cache invalidated")
}

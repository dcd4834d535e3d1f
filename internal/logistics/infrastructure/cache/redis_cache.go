// Package cache provides a Redis-backed idempotency and result cache for
// solve runs.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alessandroavenali/fuel-logistics/internal/logistics/domain"
)

// ErrNotFound is returned when a request hash has no cached solution.
var ErrNotFound = errors.New("cache: solution not found")

// keyPrefix namespaces every cache entry this package writes.
const keyPrefix = "fuelsched:run:"

// RequestHash returns the stable cache key for a planning request: the hex
// SHA-256 of its canonical JSON encoding. Two requests that normalize to the
// same document (same days, fleet state, grid, limits, solver config) hash
// identically, so a resubmission short-circuits a fresh solve.
func RequestHash(req domain.Request) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:]), nil
}

// RedisCache implements a result cache keyed by RequestHash, backed by Redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a new Redis-backed solution cache with the given TTL.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get retrieves a previously cached solution for a request hash.
func (c *RedisCache) Get(ctx context.Context, hash string) (*domain.Solution, error) {
	val, err := c.client.Get(ctx, keyPrefix+hash).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var solution domain.Solution
	if err := json.Unmarshal(val, &solution); err != nil {
		return nil, err
	}
	return &solution, nil
}

// Set stores a solution under a request hash, with the cache's configured TTL.
func (c *RedisCache) Set(ctx context.Context, hash string, solution domain.Solution) error {
	body, err := json.Marshal(solution)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, keyPrefix+hash, body, c.ttl).Err()
}

// Delete removes a cached solution.
func (c *RedisCache) Delete(ctx context.Context, hash string) error {
	return c.client.Del(ctx, keyPrefix+hash).Err()
}

// InMemoryCache is a map-backed Cache for tests and local/offline mode,
// mirroring the teacher's InMemoryStorageAPI fallback.
type InMemoryCache struct {
	data map[string]domain.Solution
}

// NewInMemoryCache creates a new in-memory solution cache.
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{data: make(map[string]domain.Solution)}
}

func (c *InMemoryCache) Get(_ context.Context, hash string) (*domain.Solution, error) {
	solution, ok := c.data[hash]
	if !ok {
		return nil, ErrNotFound
	}
	return &solution, nil
}

func (c *InMemoryCache) Set(_ context.Context, hash string, solution domain.Solution) error {
	c.data[hash] = solution
	return nil
}

func (c *InMemoryCache) Delete(_ context.Context, hash string) error {
	delete(c.data, hash)
	return nil
}

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alkhair/demand-analytics/internal/config"
	"github.com/alkhair/demand-analytics/internal/domain"
)

const (
	marketShareKeyPrefix    = "market_share"
	marketShareScanBatchSize = 100
)

// MarketShareCache stores computed Pareto breakdowns keyed by customer
// and threshold percent. Entries must be cleared when the dataset is
// replaced; the breakdown is otherwise valid indefinitely.
type MarketShareCache interface {
	Get(ctx context.Context, customer string, percent float64) (*domain.MarketShareResult, bool, error)
	Set(ctx context.Context, customer string, percent float64, result *domain.MarketShareResult) error
	Invalidate(ctx context.Context, customer string, percent float64) error
	InvalidateAll(ctx context.Context) error
}

type redisMarketShareCache struct {
	client *redis.Client
	ttl    time.Duration
}

// memoryMarketShareCache backs deployments without Redis. Market-share
// results are small, so an unbounded map is acceptable between dataset
// reloads.
type memoryMarketShareCache struct {
	mu      sync.RWMutex
	entries map[string]*domain.MarketShareResult
}

// NewMarketShareCache returns a Redis-backed cache when caching is
// enabled and an in-process cache otherwise.
func NewMarketShareCache(cfg config.CacheConfig) (MarketShareCache, error) {
	if !cfg.Enabled {
		return NewMemoryMarketShareCache(), nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisMarketShareCache{client: client, ttl: ttl}, nil
}

func NewMemoryMarketShareCache() MarketShareCache {
	return &memoryMarketShareCache{entries: make(map[string]*domain.MarketShareResult)}
}

func marketShareKey(customer string, percent float64) string {
	return fmt.Sprintf("%s:%s:%.2f", marketShareKeyPrefix, strings.ToLower(strings.TrimSpace(customer)), percent)
}

func (c *redisMarketShareCache) Get(ctx context.Context, customer string, percent float64) (*domain.MarketShareResult, bool, error) {
	payload, err := c.client.Get(ctx, marketShareKey(customer, percent)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var result domain.MarketShareResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, false, fmt.Errorf("decode market share cache: %w", err)
	}

	return &result, true, nil
}

func (c *redisMarketShareCache) Set(ctx context.Context, customer string, percent float64, result *domain.MarketShareResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode market share cache: %w", err)
	}

	if err := c.client.Set(ctx, marketShareKey(customer, percent), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisMarketShareCache) Invalidate(ctx context.Context, customer string, percent float64) error {
	return c.client.Del(ctx, marketShareKey(customer, percent)).Err()
}

func (c *redisMarketShareCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, marketShareKeyPrefix, marketShareScanBatchSize)
}

func (c *memoryMarketShareCache) Get(_ context.Context, customer string, percent float64) (*domain.MarketShareResult, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result, ok := c.entries[marketShareKey(customer, percent)]
	return result, ok, nil
}

func (c *memoryMarketShareCache) Set(_ context.Context, customer string, percent float64, result *domain.MarketShareResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[marketShareKey(customer, percent)] = result
	return nil
}

func (c *memoryMarketShareCache) Invalidate(_ context.Context, customer string, percent float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, marketShareKey(customer, percent))
	return nil
}

func (c *memoryMarketShareCache) InvalidateAll(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*domain.MarketShareResult)
	return nil
}

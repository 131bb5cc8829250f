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
	orderKeyPrefix     = "recommended_orders"
	orderScanBatchSize = 100
)

// OrderCache stores recommended-order runs keyed by target date and
// customer filter.
type OrderCache interface {
	Get(ctx context.Context, date, customer string) (*domain.OrderResult, bool, error)
	Set(ctx context.Context, date, customer string, result *domain.OrderResult) error
	InvalidateAll(ctx context.Context) error
}

type redisOrderCache struct {
	client *redis.Client
	ttl    time.Duration
}

type memoryOrderCache struct {
	mu      sync.RWMutex
	entries map[string]*domain.OrderResult
}

func NewOrderCache(cfg config.CacheConfig) (OrderCache, error) {
	if !cfg.Enabled {
		return NewMemoryOrderCache(), nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisOrderCache{client: client, ttl: ttl}, nil
}

func NewMemoryOrderCache() OrderCache {
	return &memoryOrderCache{entries: make(map[string]*domain.OrderResult)}
}

func orderKey(date, customer string) string {
	customer = strings.ToLower(strings.TrimSpace(customer))
	if customer == "" {
		customer = "all"
	}
	return fmt.Sprintf("%s:%s:%s", orderKeyPrefix, date, customer)
}

func (c *redisOrderCache) Get(ctx context.Context, date, customer string) (*domain.OrderResult, bool, error) {
	payload, err := c.client.Get(ctx, orderKey(date, customer)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var result domain.OrderResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, false, fmt.Errorf("decode order cache: %w", err)
	}

	return &result, true, nil
}

func (c *redisOrderCache) Set(ctx context.Context, date, customer string, result *domain.OrderResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode order cache: %w", err)
	}

	if err := c.client.Set(ctx, orderKey(date, customer), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisOrderCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, orderKeyPrefix, orderScanBatchSize)
}

func (c *memoryOrderCache) Get(_ context.Context, date, customer string) (*domain.OrderResult, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result, ok := c.entries[orderKey(date, customer)]
	return result, ok, nil
}

func (c *memoryOrderCache) Set(_ context.Context, date, customer string, result *domain.OrderResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[orderKey(date, customer)] = result
	return nil
}

func (c *memoryOrderCache) InvalidateAll(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*domain.OrderResult)
	return nil
}

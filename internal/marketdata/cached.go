package marketdata

import (
	"context"
	"time"

	"github.com/wonny/quantlens/backend/internal/contracts"
	"github.com/wonny/quantlens/backend/pkg/logger"
	"github.com/wonny/quantlens/backend/pkg/redis"
)

// CachedProvider wraps a provider with read-through Redis caching.
// Each fetch type carries its own TTL: metadata rarely changes,
// snapshots go stale in minutes. With Redis disabled every call is a
// transparent passthrough.
type CachedProvider struct {
	inner  contracts.MarketDataProvider
	cache  *redis.Cache
	logger *logger.Logger
}

// NewCachedProvider decorates inner with the shared cache
func NewCachedProvider(inner contracts.MarketDataProvider, cache *redis.Cache, log *logger.Logger) *CachedProvider {
	return &CachedProvider{inner: inner, cache: cache, logger: log}
}

var _ contracts.MarketDataProvider = (*CachedProvider)(nil)

func (c *CachedProvider) GetMetadata(ctx context.Context, symbol string) (*contracts.Metadata, error) {
	symbol = contracts.NormalizeSymbol(symbol)
	key := redis.MetadataKey(symbol)

	var cached contracts.Metadata
	if hit, err := c.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	meta, err := c.inner.GetMetadata(ctx, symbol)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, meta, redis.TTLMetadata)
	return meta, nil
}

func (c *CachedProvider) GetPriceHistory(ctx context.Context, symbol string, period string) (*contracts.PriceSeries, error) {
	symbol = contracts.NormalizeSymbol(symbol)
	key := redis.HistoryKey(symbol, period)

	var cached contracts.PriceSeries
	if hit, err := c.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	series, err := c.inner.GetPriceHistory(ctx, symbol, period)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, series, redis.TTLHistory)
	return series, nil
}

func (c *CachedProvider) GetMetricSnapshot(ctx context.Context, symbol string) (*contracts.MetricSnapshot, error) {
	symbol = contracts.NormalizeSymbol(symbol)
	key := redis.SnapshotKey(symbol)

	var cached contracts.MetricSnapshot
	if hit, err := c.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	snap, err := c.inner.GetMetricSnapshot(ctx, symbol)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, snap, redis.TTLSnapshot)
	return snap, nil
}

func (c *CachedProvider) GetFinancialHistory(ctx context.Context, symbol string, periodicity contracts.Periodicity) (*contracts.FinancialHistory, error) {
	symbol = contracts.NormalizeSymbol(symbol)
	key := redis.FinancialKey(symbol, string(periodicity))

	var cached contracts.FinancialHistory
	if hit, err := c.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	history, err := c.inner.GetFinancialHistory(ctx, symbol, periodicity)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, history, redis.TTLFinancial)
	return history, nil
}

// store writes through to the cache; a cache write failure is logged,
// never surfaced to the caller
func (c *CachedProvider) store(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if err := c.cache.Set(ctx, key, value, ttl); err != nil {
		c.logger.WithField("key", key).WithError(err).Warn("cache write failed")
	}
}

package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Cache provides typed caching utilities
// ⭐ SSOT: 캐시 헬퍼는 여기서만
type Cache struct {
	client *Client
	prefix string
}

// NewCache creates a new cache helper
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
	}
}

// Get retrieves a cached value
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.client.Enabled() {
		return false, nil
	}

	fullKey := fmt.Sprintf("%s:cache:%s", c.prefix, key)
	data, err := c.client.Redis().Get(ctx, fullKey).Bytes()
	if err != nil {
		// Key not found is not an error
		return false, nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}

	return true, nil
}

// Set stores a value in cache with TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.client.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	fullKey := fmt.Sprintf("%s:cache:%s", c.prefix, key)
	return c.client.Redis().Set(ctx, fullKey, data, ttl).Err()
}

// Delete removes a cached value
func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.client.Enabled() {
		return nil
	}

	fullKey := fmt.Sprintf("%s:cache:%s", c.prefix, key)
	return c.client.Redis().Del(ctx, fullKey).Err()
}

// Predefined TTLs
const (
	TTLSnapshot  = 10 * time.Minute // 밸류에이션 스냅샷
	TTLMetadata  = 1 * time.Hour    // 섹터/업종 메타데이터
	TTLHistory   = 4 * time.Hour    // 가격 히스토리
	TTLFinancial = 24 * time.Hour   // 재무제표
)

// Common cache key generators
func MetadataKey(symbol string) string {
	return fmt.Sprintf("metadata:%s", symbol)
}

func HistoryKey(symbol, period string) string {
	return fmt.Sprintf("history:%s:%s", symbol, period)
}

func SnapshotKey(symbol string) string {
	return fmt.Sprintf("snapshot:%s", symbol)
}

func FinancialKey(symbol, periodicity string) string {
	return fmt.Sprintf("financial:%s:%s", symbol, periodicity)
}

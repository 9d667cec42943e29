// Package cache keeps the category seed data in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zizouhuweidi/trivia/internal/domain"
)

const categoriesKey = "trivia:categories"

// ErrMiss is returned when nothing is cached
var ErrMiss = errors.New("cache miss")

// CategoryCache stores the full category list under a single key
type CategoryCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewCategoryCache creates a category cache whose entries expire after ttl
func NewCategoryCache(client *redis.Client, ttl time.Duration) *CategoryCache {
	return &CategoryCache{redis: client, ttl: ttl}
}

// Get returns the cached categories or ErrMiss
func (c *CategoryCache) Get(ctx context.Context) ([]domain.Category, error) {
	data, err := c.redis.Get(ctx, categoriesKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	var categories []domain.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("failed to unmarshal categories: %w", err)
	}
	return categories, nil
}

// Set replaces the cached categories
func (c *CategoryCache) Set(ctx context.Context, categories []domain.Category) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("failed to marshal categories: %w", err)
	}
	return c.redis.Set(ctx, categoriesKey, data, c.ttl).Err()
}

// Invalidate drops the cached categories
func (c *CategoryCache) Invalidate(ctx context.Context) error {
	if err := c.redis.Del(ctx, categoriesKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate categories: %w", err)
	}
	return nil
}

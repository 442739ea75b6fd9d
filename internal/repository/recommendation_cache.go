// internal/repository/recommendation_cache.go
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"vendor-matching-workers/internal/matching"
	"vendor-matching-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

var ErrEntryExpired = errors.New("cache entry already expired")

var _ matching.RecommendationCache = (*RecommendationCache)(nil)

// RecommendationCache stores one JSON document per (wedding, category). A
// single SET with expiry replaces the previous entry, so readers see either
// the old or the new list and never an empty one in between.
type RecommendationCache struct {
	client *redis.Client
}

func NewRecommendationCache(client *redis.Client) *RecommendationCache {
	return &RecommendationCache{client: client}
}

func cacheKey(weddingID string, category models.Category) string {
	return fmt.Sprintf("recommendations:%s:%s", weddingID, category)
}

// Put writes the entry with a TTL of ExpiresAt - CreatedAt.
func (c *RecommendationCache) Put(ctx context.Context, entry models.CachedRecommendations) error {
	ttl := entry.ExpiresAt.Sub(entry.CreatedAt)
	if ttl <= 0 {
		return ErrEntryExpired
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal recommendations: %w", err)
	}

	key := cacheKey(entry.WeddingRequestID, entry.Category)
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Get fetches every requested category in one round trip and returns the
// entries that exist, in the order asked for. Undecodable entries are skipped.
func (c *RecommendationCache) Get(ctx context.Context, weddingID string, categories []models.Category) ([]models.CachedRecommendations, error) {
	if len(categories) == 0 {
		return []models.CachedRecommendations{}, nil
	}

	keys := make([]string, len(categories))
	for i, cat := range categories {
		keys[i] = cacheKey(weddingID, cat)
	}

	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("mget recommendations: %w", err)
	}

	entries := make([]models.CachedRecommendations, 0, len(vals))
	for _, val := range vals {
		raw, ok := val.(string)
		if !ok {
			continue
		}
		var entry models.CachedRecommendations
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

package adplatform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisAdCache stores ad metadata documents in Redis, keyed per user
// and ad id. The metadata sync job writes the same keys; the pipeline
// treats a missing key as a cache miss, not an error.
type RedisAdCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisAdCache creates a Redis-backed ad metadata cache.
func NewRedisAdCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisAdCache {
	return &RedisAdCache{client: client, ttl: ttl, logger: logger}
}

func adKey(userID, adID string) string {
	return fmt.Sprintf("ad:details:%s:%s", userID, adID)
}

// Get returns the cached ad for the user, or a zero Ad on a miss.
func (c *RedisAdCache) Get(ctx context.Context, userID, adID string) (Ad, error) {
	raw, err := c.client.Get(ctx, adKey(userID, adID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Ad{}, nil
	}
	if err != nil {
		return Ad{}, fmt.Errorf("ad cache get %s: %w", adID, err)
	}

	var ad Ad
	if err := json.Unmarshal(raw, &ad); err != nil {
		return Ad{}, fmt.Errorf("ad cache decode %s: %w", adID, err)
	}
	return ad, nil
}

// Put stores an ad document under the user's key.
func (c *RedisAdCache) Put(ctx context.Context, userID string, ad Ad) error {
	id := ad.ID
	if id == "" && ad.Details != nil {
		id = ad.Details.AdID
	}
	if id == "" {
		return fmt.Errorf("ad cache put: ad has no id")
	}

	raw, err := json.Marshal(ad)
	if err != nil {
		return fmt.Errorf("ad cache encode %s: %w", id, err)
	}
	return c.client.Set(ctx, adKey(userID, id), raw, c.ttl).Err()
}

package gateway

import (
	"context"
	"encoding/json"
	"time"

	"travel-assistant/internal/common/logger"

	"github.com/redis/go-redis/v9"
)

// RedisGeocodeCache stores geocoded coordinates in Redis with a TTL. A cache
// miss or a Redis failure is always treated as "not cached"; the weather
// fetcher falls through to the live geocoding call.
type RedisGeocodeCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewRedisGeocodeCache(client *redis.Client, ttl time.Duration, log logger.Logger) *RedisGeocodeCache {
	return &RedisGeocodeCache{
		client: client,
		ttl:    ttl,
		logger: log.With(map[string]interface{}{"component": "geocode-cache"}),
	}
}

func (c *RedisGeocodeCache) Get(ctx context.Context, city string) (*Coordinates, bool) {
	val, err := c.client.Get(ctx, c.key(city)).Result()
	if err != nil {
		return nil, false
	}
	var coords Coordinates
	if err := json.Unmarshal([]byte(val), &coords); err != nil {
		return nil, false
	}
	return &coords, true
}

func (c *RedisGeocodeCache) Set(ctx context.Context, city string, coords *Coordinates) {
	data, err := json.Marshal(coords)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(city), data, c.ttl).Err(); err != nil {
		c.logger.Warn("geocode cache write failed", map[string]interface{}{
			"city":  city,
			"error": err.Error(),
		})
	}
}

func (c *RedisGeocodeCache) key(city string) string {
	return "geocode:" + city
}

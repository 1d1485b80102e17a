package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"itinerary-service/internal/domain"
	"itinerary-service/internal/platform/obs"
	"itinerary-service/internal/ports"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPlaceCache caches nearby-search results in Redis with a TTL.
type RedisPlaceCache struct {
	rdb    redis.UniversalClient
	ttl    time.Duration
	prefix string
}

func NewRedisPlaceCache(rdb redis.UniversalClient, ttl time.Duration) *RedisPlaceCache {
	return &RedisPlaceCache{rdb: rdb, ttl: ttl, prefix: "places:nearby:"}
}

// Cache keys round the center to ~1m and the radius to whole meters.
func (c *RedisPlaceCache) key(q ports.SearchQuery) string {
	return c.prefix +
		strconv.FormatFloat(q.Center.Lat, 'f', 5, 64) + "," +
		strconv.FormatFloat(q.Center.Lon, 'f', 5, 64) + ":" +
		strconv.FormatFloat(q.RadiusMeters, 'f', 0, 64) + ":" +
		q.Category
}

type cachedPlace struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Vicinity   string   `json:"vicinity,omitempty"`
	Lat        float64  `json:"lat"`
	Lon        float64  `json:"lon"`
	Types      []string `json:"types,omitempty"`
	PriceLevel *int     `json:"price_level,omitempty"`
}

// Get returns cached records; ok is false on a miss.
func (c *RedisPlaceCache) Get(ctx context.Context, q ports.SearchQuery) (_ []ports.PlaceRecord, _ bool, err error) {
	defer obs.Time(ctx, "place.cache.Get")(&err)

	raw, err := c.rdb.Get(ctx, c.key(q)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get place cache: %w", err)
	}

	var stored []cachedPlace
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, false, fmt.Errorf("get place cache: decode: %w", err)
	}

	out := make([]ports.PlaceRecord, 0, len(stored))
	for _, p := range stored {
		out = append(out, ports.PlaceRecord{
			ID:         p.ID,
			Name:       p.Name,
			Vicinity:   p.Vicinity,
			Location:   domain.Coordinates{Lat: p.Lat, Lon: p.Lon},
			Types:      p.Types,
			PriceLevel: p.PriceLevel,
		})
	}
	return out, true, nil
}

// Put stores records for the query; an empty result is cached too.
func (c *RedisPlaceCache) Put(ctx context.Context, q ports.SearchQuery, records []ports.PlaceRecord) error {
	stored := make([]cachedPlace, 0, len(records))
	for _, r := range records {
		stored = append(stored, cachedPlace{
			ID:         r.ID,
			Name:       r.Name,
			Vicinity:   r.Vicinity,
			Lat:        r.Location.Lat,
			Lon:        r.Location.Lon,
			Types:      r.Types,
			PriceLevel: r.PriceLevel,
		})
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("put place cache: encode: %w", err)
	}
	if err := c.rdb.Set(ctx, c.key(q), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("put place cache: %w", err)
	}
	return nil
}

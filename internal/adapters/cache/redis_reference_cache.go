package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"drone-delivery-planner/internal/domain"
	"drone-delivery-planner/internal/platform/logger"
	"drone-delivery-planner/internal/platform/obs"
	"drone-delivery-planner/internal/ports"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "refdata:"

const (
	kindDrones             = "drones"
	kindServicePoints      = "service-points"
	kindServicePointDrones = "drones-for-service-points"
	kindRestrictedAreas    = "restricted-areas"
)

var allKinds = []string{kindDrones, kindServicePoints, kindServicePointDrones, kindRestrictedAreas}

// RedisReferenceCache decorates a ReferenceDataProvider with a Redis
// read-through cache. Entries are JSON-encoded under refdata:<kind> with a
// fixed TTL.
//
// Redis is best effort: read and write failures are logged and the request
// falls through to the wrapped provider.
type RedisReferenceCache struct {
	client redis.UniversalClient
	next   ports.ReferenceDataProvider
	ttl    time.Duration
	log    logger.Logger
}

func NewRedisReferenceCache(
	client redis.UniversalClient,
	next ports.ReferenceDataProvider,
	ttl time.Duration,
	log logger.Logger,
) *RedisReferenceCache {
	if log == nil {
		log = logger.NewNop()
	}
	return &RedisReferenceCache{client: client, next: next, ttl: ttl, log: log}
}

func readThrough[T any](
	ctx context.Context,
	c *RedisReferenceCache,
	kind string,
	load func(context.Context) ([]T, error),
) (_ []T, err error) {
	defer obs.Time(ctx, c.log, "refdata.cache."+kind)(&err)

	key := keyPrefix + kind

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var out []T
		jerr := json.Unmarshal(raw, &out)
		if jerr == nil {
			return out, nil
		}
		c.log.Warn("discarding undecodable cache entry", "key", key, "err", jerr)
	case errors.Is(err, redis.Nil):
	default:
		c.log.Warn("cache read failed", "key", key, "err", err)
	}

	out, err := load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", kind, err)
	}

	payload, jerr := json.Marshal(out)
	if jerr != nil {
		c.log.Warn("cache encode failed", "key", key, "err", jerr)
		return out, nil
	}
	if serr := c.client.Set(ctx, key, payload, c.ttl).Err(); serr != nil {
		c.log.Warn("cache write failed", "key", key, "err", serr)
	}

	return out, nil
}

func (c *RedisReferenceCache) Drones(ctx context.Context) ([]domain.Drone, error) {
	return readThrough(ctx, c, kindDrones, c.next.Drones)
}

func (c *RedisReferenceCache) ServicePoints(ctx context.Context) ([]domain.ServicePoint, error) {
	return readThrough(ctx, c, kindServicePoints, c.next.ServicePoints)
}

func (c *RedisReferenceCache) ServicePointDrones(ctx context.Context) ([]domain.ServicePointDrones, error) {
	return readThrough(ctx, c, kindServicePointDrones, c.next.ServicePointDrones)
}

func (c *RedisReferenceCache) RestrictedAreas(ctx context.Context) ([]domain.RestrictedArea, error) {
	return readThrough(ctx, c, kindRestrictedAreas, c.next.RestrictedAreas)
}

// Invalidate drops every cached reference data entry.
func (c *RedisReferenceCache) Invalidate(ctx context.Context) error {
	keys := make([]string, 0, len(allKinds))
	for _, k := range allKinds {
		keys = append(keys, keyPrefix+k)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate reference cache: %w", err)
	}
	return nil
}

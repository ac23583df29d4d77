package echoapi

import (
	"context"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/kymanzi/ofisi/core"
)

// ViewCache caches rendered calendar view payloads keyed by the
// request parameters. Event writes bump a generation counter instead
// of tracking which windows an event touches, so an invalidation
// drops every cached view at once.
type ViewCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, payload []byte)
	Invalidate(ctx context.Context)
}

const viewCachePrefix = "calendar:view"

type redisViewCache struct {
	client *redis.Client
	ttl    time.Duration
	logger core.Logger
}

var _ ViewCache = (*redisViewCache)(nil)

func NewRedisViewCache(conf *core.Config, logger core.Logger) (ViewCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Cache.Addr,
		Password: conf.Cache.Password,
		DB:       conf.Cache.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, errors.Wrap(err, "pinging redis")
	}
	return &redisViewCache{client: client, ttl: conf.Cache.TTL, logger: logger}, nil
}

func (c *redisViewCache) generation(ctx context.Context) string {
	gen, err := c.client.Get(ctx, viewCachePrefix+":gen").Int64()
	if err != nil && err != redis.Nil {
		c.logger.Warn("view cache generation lookup failed", err)
	}
	return strconv.FormatInt(gen, 10)
}

func (c *redisViewCache) fullKey(ctx context.Context, key string) string {
	return viewCachePrefix + ":" + c.generation(ctx) + ":" + key
}

func (c *redisViewCache) Get(ctx context.Context, key string) ([]byte, bool) {
	payload, err := c.client.Get(ctx, c.fullKey(ctx, key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("view cache get failed", err)
		}
		return nil, false
	}
	return payload, true
}

func (c *redisViewCache) Set(ctx context.Context, key string, payload []byte) {
	// stale generations expire on their own via the TTL
	if err := c.client.Set(ctx, c.fullKey(ctx, key), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("view cache set failed", err)
	}
}

func (c *redisViewCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, viewCachePrefix+":gen").Err(); err != nil {
		c.logger.Warn("view cache invalidation failed", err)
	}
}

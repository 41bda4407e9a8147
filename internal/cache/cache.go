package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const lastSyncKey = "pickup:sync:last"

// Cache keeps small operational bookkeeping in redis. A nil *Cache is a valid
// no-op so deployments without redis still run; the data behind it always has
// a database fallback.
type Cache struct {
	rdb *redis.Client
}

func New(addr, password string) *Cache {
	if addr == "" {
		return nil
	}
	return &Cache{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
	}
}

func (c *Cache) SetLastSync(ctx context.Context, t time.Time) {
	if c == nil {
		return
	}
	c.rdb.Set(ctx, lastSyncKey, t.Format(time.RFC3339), 0)
}

func (c *Cache) LastSync(ctx context.Context) *time.Time {
	if c == nil {
		return nil
	}
	v, err := c.rdb.Get(ctx, lastSyncKey).Result()
	if err != nil {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil
	}
	return &t
}

package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// DedupeCache is a fast-path check in front of the delivery ledger. It
// remembers recently reserved event keys so repeated cron firings skip the
// postgres round trip. The unique index on the ledger stays authoritative;
// any cache failure just falls through to the database.
type DedupeCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDedupeCache(client *redis.Client, ttl time.Duration) *DedupeCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &DedupeCache{
		client: client,
		ttl:    ttl,
	}
}

// Seen reports whether the event key was recently reserved. Errors are
// treated as a miss.
func (c *DedupeCache) Seen(ctx context.Context, eventKey string) bool {
	if c == nil || c.client == nil {
		return false
	}
	n, err := c.client.Exists(ctx, "delivery:"+eventKey).Result()
	if err != nil {
		return false
	}
	return n > 0
}

// MarkSeen records an event key after a successful reservation. Best-effort.
func (c *DedupeCache) MarkSeen(ctx context.Context, eventKey string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Set(ctx, "delivery:"+eventKey, "1", c.ttl)
}

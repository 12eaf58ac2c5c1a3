package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"innsync/internal/domain/calendar"
)

var ErrMiss = errors.New("cache: miss")

const snapshotKeyPrefix = "innsync:calendar:"

// SnapshotCache stores serialized calendars in Redis so a restarted
// instance can warm a unit without hitting the PMS.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSnapshotCache(client *redis.Client, ttl time.Duration) *SnapshotCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SnapshotCache{client: client, ttl: ttl}
}

func (c *SnapshotCache) Save(ctx context.Context, id calendar.UnitID, data []byte) error {
	return c.client.Set(ctx, snapshotKey(id), data, c.ttl).Err()
}

func (c *SnapshotCache) Load(ctx context.Context, id calendar.UnitID) ([]byte, error) {
	val, err := c.client.Get(ctx, snapshotKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, err
	}
	return val, nil
}

func (c *SnapshotCache) Drop(ctx context.Context, id calendar.UnitID) error {
	return c.client.Del(ctx, snapshotKey(id)).Err()
}

func snapshotKey(id calendar.UnitID) string {
	return snapshotKeyPrefix + string(id) + ":snapshot"
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/frankss230/tew-map-AFE/module/core/domain"
)

// snapshotTTL bounds staleness when the write path dies between the DB
// commit and the cache refresh; readers fall back to postgres on a miss.
const snapshotTTL = 5 * time.Minute

// ZoneCache keeps the latest zone snapshot per tracking key in Redis so the
// polling clients do not hit postgres every few seconds.
type ZoneCache struct {
	client *redis.Client
}

func NewZoneCache(client *redis.Client) *ZoneCache {
	return &ZoneCache{client: client}
}

func snapshotKey(key domain.TrackingKey) string {
	return fmt.Sprintf("safezone:current:%d:%d", key.UserID, key.TakecareID)
}

func (c *ZoneCache) SetSnapshot(ctx context.Context, snap *domain.ZoneSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal zone snapshot: %w", err)
	}
	if err := c.client.Set(ctx, snapshotKey(snap.Key), data, snapshotTTL).Err(); err != nil {
		return fmt.Errorf("set zone snapshot: %w", err)
	}
	return nil
}

func (c *ZoneCache) GetSnapshot(ctx context.Context, key domain.TrackingKey) (*domain.ZoneSnapshot, error) {
	val, err := c.client.Get(ctx, snapshotKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get zone snapshot: %w", err)
	}

	var snap domain.ZoneSnapshot
	if err := json.Unmarshal([]byte(val), &snap); err != nil {
		return nil, fmt.Errorf("unmarshal zone snapshot: %w", err)
	}
	return &snap, nil
}

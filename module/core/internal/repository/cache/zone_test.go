package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frankss230/tew-map-AFE/module/core/domain"
)

func newTestCache(t *testing.T) (*ZoneCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewZoneCache(client), mr
}

func TestZoneCache_RoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	snap := &domain.ZoneSnapshot{
		Key:       domain.TrackingKey{UserID: 1, TakecareID: 7},
		Position:  domain.Position{Latitude: 13.7563, Longitude: 100.5018},
		ZoneState: domain.ZoneAlert,
		Distance:  17.5,
		AsOf:      time.Unix(1715003456, 0).UTC(),
	}

	require.NoError(t, c.SetSnapshot(ctx, snap))

	got, err := c.GetSnapshot(ctx, snap.Key)
	require.NoError(t, err)
	assert.Equal(t, domain.ZoneAlert, got.ZoneState)
	assert.Equal(t, 17.5, got.Distance)
	assert.True(t, got.AsOf.Equal(snap.AsOf))
}

func TestZoneCache_Miss(t *testing.T) {
	c, _ := newTestCache(t)

	_, err := c.GetSnapshot(context.Background(), domain.TrackingKey{UserID: 9, TakecareID: 9})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestZoneCache_KeysAreIndependent(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	a := &domain.ZoneSnapshot{Key: domain.TrackingKey{UserID: 1, TakecareID: 1}, ZoneState: domain.ZoneInside}
	b := &domain.ZoneSnapshot{Key: domain.TrackingKey{UserID: 1, TakecareID: 2}, ZoneState: domain.ZoneBreach}
	require.NoError(t, c.SetSnapshot(ctx, a))
	require.NoError(t, c.SetSnapshot(ctx, b))

	gotA, err := c.GetSnapshot(ctx, a.Key)
	require.NoError(t, err)
	gotB, err := c.GetSnapshot(ctx, b.Key)
	require.NoError(t, err)
	assert.Equal(t, domain.ZoneInside, gotA.ZoneState)
	assert.Equal(t, domain.ZoneBreach, gotB.ZoneState)
}

func TestZoneCache_SnapshotExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	snap := &domain.ZoneSnapshot{Key: domain.TrackingKey{UserID: 1, TakecareID: 1}, ZoneState: domain.ZoneCaution}
	require.NoError(t, c.SetSnapshot(ctx, snap))

	mr.FastForward(snapshotTTL + time.Second)

	_, err := c.GetSnapshot(ctx, snap.Key)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

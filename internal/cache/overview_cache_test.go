package cache

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairlance/treasury_backend/internal/core/domain"
)

func newTestCache(t *testing.T, ttl time.Duration) (*RedisSnapshotCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisSnapshotCache(client, ttl, slog.Default()), mr
}

func TestSnapshotCache_MissThenHit(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	assert.Nil(t, c.Get(ctx, "ws-1"))

	snapshot := &domain.OverviewSnapshot{
		WorkspaceID: "ws-1",
		Currency:    "USD",
		Totals: domain.OverviewTotals{
			TotalBalance:        decimal.RequireFromString("6400"),
			PendingPayoutAmount: decimal.Zero,
		},
		RefreshedAt: time.Now().UTC().Truncate(time.Second),
	}
	c.Set(ctx, "ws-1", snapshot)

	got := c.Get(ctx, "ws-1")
	require.NotNil(t, got)
	assert.Equal(t, "ws-1", got.WorkspaceID)
	assert.Equal(t, "USD", got.Currency)
	assert.True(t, got.Totals.TotalBalance.Equal(decimal.RequireFromString("6400")))
}

func TestSnapshotCache_WorkspaceIsolation(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	c.Set(ctx, "ws-1", &domain.OverviewSnapshot{WorkspaceID: "ws-1"})

	assert.NotNil(t, c.Get(ctx, "ws-1"))
	assert.Nil(t, c.Get(ctx, "ws-2"))
}

func TestSnapshotCache_ExpiresAfterTTL(t *testing.T) {
	c, mr := newTestCache(t, 30*time.Second)
	ctx := context.Background()

	c.Set(ctx, "ws-1", &domain.OverviewSnapshot{WorkspaceID: "ws-1"})
	require.NotNil(t, c.Get(ctx, "ws-1"))

	mr.FastForward(31 * time.Second)
	assert.Nil(t, c.Get(ctx, "ws-1"))
}

func TestSnapshotCache_CorruptEntryDegradesToMiss(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, mr.Set(keyPrefix+"ws-1", "{not json"))
	assert.Nil(t, c.Get(ctx, "ws-1"))
}

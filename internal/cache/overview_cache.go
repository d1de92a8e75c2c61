// Package cache provides a short-lived Redis cache for overview snapshots.
// The overview is best effort by contract, so a stale-by-seconds snapshot is
// acceptable and cache failures always degrade to recomputing.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fairlance/treasury_backend/internal/core/domain"
)

const keyPrefix = "wallet:overview:"

// SnapshotCache stores computed overview snapshots keyed by workspace.
type SnapshotCache interface {
	// Get returns the cached snapshot for a workspace, or nil on miss.
	Get(ctx context.Context, workspaceID string) *domain.OverviewSnapshot

	// Set stores a snapshot, best effort.
	Set(ctx context.Context, workspaceID string, snapshot *domain.OverviewSnapshot)
}

// RedisSnapshotCache caches snapshots in Redis with a fixed TTL.
type RedisSnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ SnapshotCache = (*RedisSnapshotCache)(nil)

// NewRedisSnapshotCache wraps an existing Redis client.
func NewRedisSnapshotCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisSnapshotCache {
	return &RedisSnapshotCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisSnapshotCache) Get(ctx context.Context, workspaceID string) *domain.OverviewSnapshot {
	raw, err := c.client.Get(ctx, keyPrefix+workspaceID).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("overview cache read failed",
				slog.String("workspace_id", workspaceID),
				slog.String("error", err.Error()))
		}
		return nil
	}
	var snapshot domain.OverviewSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		c.logger.Warn("overview cache entry corrupt, ignoring",
			slog.String("workspace_id", workspaceID),
			slog.String("error", err.Error()))
		return nil
	}
	return &snapshot
}

func (c *RedisSnapshotCache) Set(ctx context.Context, workspaceID string, snapshot *domain.OverviewSnapshot) {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		c.logger.Warn("overview snapshot marshal failed",
			slog.String("workspace_id", workspaceID),
			slog.String("error", err.Error()))
		return
	}
	if err := c.client.Set(ctx, keyPrefix+workspaceID, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("overview cache write failed",
			slog.String("workspace_id", workspaceID),
			slog.String("error", err.Error()))
	}
}

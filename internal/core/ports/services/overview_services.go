package services

import (
	"context"

	"github.com/fairlance/treasury_backend/internal/core/domain"
)

// OverviewSvc assembles the read-only treasury overview for a workspace.
type OverviewSvc interface {
	// GetOverview builds the overview snapshot. It never mutates state; every
	// figure is derived from the stores at call time (or served from a short
	// lived cache when one is configured).
	GetOverview(ctx context.Context, workspaceID string, actor domain.Actor) (*domain.OverviewSnapshot, error)
}

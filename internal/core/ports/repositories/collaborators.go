package repositories

import "context"

// FundingSourceReader exposes the funding source facts the overview needs.
type FundingSourceReader interface {
	// CountActiveByWorkspace returns how many active funding sources the
	// workspace has on file.
	CountActiveByWorkspace(ctx context.Context, workspaceID string) (int, error)
}

// TransferRuleReader exposes the transfer rule facts the overview needs.
type TransferRuleReader interface {
	// CountEnabledByWorkspace returns how many enabled transfer rules the
	// workspace has configured.
	CountEnabledByWorkspace(ctx context.Context, workspaceID string) (int, error)
}

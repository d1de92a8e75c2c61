package repositories

import (
	"context"
	"time"

	"github.com/fairlance/treasury_backend/internal/core/domain"
)

// ListEntriesFilter bounds a ledger listing.
type ListEntriesFilter struct {
	Since *time.Time
	Until *time.Time
}

// LedgerWriter defines the append-only write path for ledger entries.
//
// Implementations must execute each append inside a per-account critical
// section (row lock on the wallet account) so the entry insert and the
// balance recomputation are atomic and serialized per account. An entry
// whose (account, reference) already exists is returned as stored, without
// a second application.
type LedgerWriter interface {
	// AppendEntry appends one entry and atomically persists the recomputed
	// account balances. The returned entry carries its BalanceAfter snapshot.
	AppendEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error)

	// AppendEntries appends several entries for the same account in order,
	// atomically: either all apply or none. Used for paired writes such as
	// settlement (release + debit).
	AppendEntries(ctx context.Context, entries []domain.LedgerEntry) ([]domain.LedgerEntry, error)
}

// LedgerReader defines read operations over the ledger.
type LedgerReader interface {
	// ListEntriesByAccount retrieves a page of entries, newest first, with an
	// opaque cursor for restart.
	ListEntriesByAccount(ctx context.Context, workspaceID, accountID string, limit int, nextToken *string, filter ListEntriesFilter) ([]domain.LedgerEntry, *string, error)

	// FindAllEntriesByAccount retrieves every entry for an account in
	// occurred-at order (oldest first). Used by reconciliation replay.
	FindAllEntriesByAccount(ctx context.Context, accountID string) ([]domain.LedgerEntry, error)

	// ListRecentEntriesByWorkspace retrieves the most recent entries across
	// all of a workspace's accounts, newest first.
	ListRecentEntriesByWorkspace(ctx context.Context, workspaceID string, limit int) ([]domain.LedgerEntry, error)

	// ListEntriesByWorkspaceSince retrieves entries across the workspace
	// within the observation window, oldest first (chronological).
	ListEntriesByWorkspaceSince(ctx context.Context, workspaceID string, since time.Time) ([]domain.LedgerEntry, error)
}

// LedgerRepositoryFacade combines ledger read and write interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}

package services

import (
	"context"

	"github.com/fairlance/treasury_backend/internal/core/domain"
	"github.com/fairlance/treasury_backend/internal/core/ports/repositories"
	"github.com/fairlance/treasury_backend/internal/dto"
)

// LedgerReaderSvc defines read operations over ledger entries
type LedgerReaderSvc interface {
	// ListEntries retrieves a page of an account's entries, newest first.
	ListEntries(ctx context.Context, workspaceID string, accountID string, limit int, nextToken *string, filter repositories.ListEntriesFilter) ([]domain.LedgerEntry, *string, error)
}

// LedgerWriterSvc defines write operations over ledger entries
type LedgerWriterSvc interface {
	// AppendEntry validates and records a single ledger entry against an
	// account. Replaying a reference returns the original entry unchanged.
	AppendEntry(ctx context.Context, workspaceID string, req dto.AppendEntryRequest, actor domain.Actor) (*domain.LedgerEntry, error)
}

// LedgerSvcFacade combines ledger read and write service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}

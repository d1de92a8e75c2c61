package services

import (
	"context"

	"github.com/fairlance/treasury_backend/internal/core/domain"
	"github.com/fairlance/treasury_backend/internal/dto"
)

// WalletReaderSvc defines read operations for wallet accounts
type WalletReaderSvc interface {
	// GetAccountByID retrieves a specific wallet account by its unique identifier.
	GetAccountByID(ctx context.Context, workspaceID string, accountID string) (*domain.WalletAccount, error)

	// ListAccounts retrieves every wallet account registered under a workspace.
	ListAccounts(ctx context.Context, workspaceID string) ([]domain.WalletAccount, error)
}

// WalletWriterSvc defines write operations for wallet accounts
type WalletWriterSvc interface {
	// CreateAccount registers a new wallet account in pending status. When a
	// non-closed account already exists for the (owner, type, currency)
	// tuple, the existing account is returned (get-or-create).
	CreateAccount(ctx context.Context, workspaceID string, req dto.CreateWalletAccountRequest, actor domain.Actor) (*domain.WalletAccount, error)

	// ChangeAccountStatus moves an account between pending, active, suspended
	// and closed.
	ChangeAccountStatus(ctx context.Context, workspaceID string, accountID string, req dto.ChangeAccountStatusRequest, actor domain.Actor) (*domain.WalletAccount, error)
}

// WalletReconcilerSvc defines consistency checks over wallet accounts
type WalletReconcilerSvc interface {
	// Reconcile replays an account's full ledger history and compares the
	// result against the persisted balance snapshot.
	Reconcile(ctx context.Context, workspaceID string, accountID string, actor domain.Actor) (*domain.ReconciliationReport, error)
}

// WalletSvcFacade combines all wallet-account service interfaces
type WalletSvcFacade interface {
	WalletReaderSvc
	WalletWriterSvc
	WalletReconcilerSvc
}

package repositories

import (
	"context"
	"time"

	"github.com/fairlance/treasury_backend/internal/core/domain"
)

// WalletAccountReader defines read operations for wallet account data.
type WalletAccountReader interface {
	// FindAccountByID retrieves a specific wallet account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.WalletAccount, error)

	// FindAccountByOwner retrieves the non-closed account for an
	// (owner, account type, currency) tuple.
	FindAccountByOwner(ctx context.Context, ownerID string, accountType domain.AccountType, currencyCode string) (*domain.WalletAccount, error)

	// ListAccountsByWorkspace retrieves all wallet accounts for a workspace in
	// a stable (creation) order.
	ListAccountsByWorkspace(ctx context.Context, workspaceID string) ([]domain.WalletAccount, error)
}

// WalletAccountWriter defines write operations for wallet account data.
type WalletAccountWriter interface {
	// SaveAccount persists a new wallet account.
	SaveAccount(ctx context.Context, account domain.WalletAccount) error

	// UpdateAccountStatus transitions an account's lifecycle status.
	UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, actorID string, now time.Time) error
}

// WalletAccountRepositoryFacade combines all wallet-account repository interfaces.
type WalletAccountRepositoryFacade interface {
	WalletAccountReader
	WalletAccountWriter
}

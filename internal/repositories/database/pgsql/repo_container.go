package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/fairlance/treasury_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider builds the full pgsql-backed repository set over a
// shared connection pool.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		WalletRepo:        newPgxWalletRepository(pool),
		LedgerRepo:        newPgxLedgerRepository(pool),
		PayoutRepo:        newPgxPayoutRepository(pool),
		SettingsRepo:      newPgxSettingsRepository(pool),
		FundingSourceRepo: newPgxFundingSourceRepository(pool),
		TransferRuleRepo:  newPgxTransferRuleRepository(pool),
	}
}

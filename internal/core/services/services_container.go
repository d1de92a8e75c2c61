package services

import (
	"github.com/fairlance/treasury_backend/internal/cache"
	portsrepo "github.com/fairlance/treasury_backend/internal/core/ports/repositories"
	portssvc "github.com/fairlance/treasury_backend/internal/core/ports/services"
	"github.com/fairlance/treasury_backend/internal/events"
	"github.com/fairlance/treasury_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	provider portssvc.SettlementProvider,
	publisher events.Publisher,
	snapshotCache cache.SnapshotCache,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Wallet = NewWalletService(repos.WalletRepo, repos.LedgerRepo)
	container.Ledger = NewLedgerService(repos.LedgerRepo, repos.WalletRepo)
	container.Settings = NewSettingsService(repos.SettingsRepo)
	container.Payout = NewPayoutService(
		repos.PayoutRepo,
		repos.WalletRepo,
		repos.LedgerRepo,
		repos.SettingsRepo,
		provider,
		publisher,
		cfg.PayoutMaxRetries,
	)
	container.Overview = NewOverviewService(
		repos,
		snapshotCache,
		cfg.RecentTransferLimit,
		cfg.NetFlowWindow,
	)

	return container
}

// Compile-time interface checks for the service implementations.
var (
	_ portssvc.WalletSvcFacade   = (*walletService)(nil)
	_ portssvc.LedgerSvcFacade   = (*ledgerService)(nil)
	_ portssvc.PayoutSvcFacade   = (*payoutService)(nil)
	_ portssvc.SettingsSvcFacade = (*settingsService)(nil)
	_ portssvc.OverviewSvc       = (*overviewService)(nil)
)

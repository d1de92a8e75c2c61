package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fairlance/treasury_backend/internal/apperrors"
	"github.com/fairlance/treasury_backend/internal/core/domain"
	portsrepo "github.com/fairlance/treasury_backend/internal/core/ports/repositories"
	portssvc "github.com/fairlance/treasury_backend/internal/core/ports/services"
	"github.com/fairlance/treasury_backend/internal/dto"
	"github.com/fairlance/treasury_backend/internal/utils/ledgermath"
)

// accountTransitions enumerates the legal lifecycle edges for wallet accounts.
var accountTransitions = map[domain.AccountStatus][]domain.AccountStatus{
	domain.AccountStatusPending:   {domain.AccountStatusActive},
	domain.AccountStatusActive:    {domain.AccountStatusSuspended, domain.AccountStatusClosed},
	domain.AccountStatusSuspended: {domain.AccountStatusActive, domain.AccountStatusClosed},
}

func canTransitionAccount(from, to domain.AccountStatus) bool {
	for _, next := range accountTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// walletService manages the wallet account registry.
type walletService struct {
	BaseService
	walletRepo portsrepo.WalletAccountRepositoryFacade
	ledgerRepo portsrepo.LedgerReader
	now        func() time.Time
}

// NewWalletService creates a new WalletService.
func NewWalletService(walletRepo portsrepo.WalletAccountRepositoryFacade, ledgerRepo portsrepo.LedgerReader) portssvc.WalletSvcFacade {
	return &walletService{
		walletRepo: walletRepo,
		ledgerRepo: ledgerRepo,
		now:        time.Now,
	}
}

var _ portssvc.WalletSvcFacade = (*walletService)(nil)

// CreateAccount provisions a pending wallet account, or returns the existing
// non-closed account for the same (owner, type, currency) tuple. The unique
// partial index backs the second leg of the race.
func (s *walletService) CreateAccount(ctx context.Context, workspaceID string, req dto.CreateWalletAccountRequest, actor domain.Actor) (*domain.WalletAccount, error) {
	if err := s.RequireOperator(ctx, actor); err != nil {
		return nil, err
	}
	if !isISOCurrency(req.CurrencyCode) {
		return nil, fmt.Errorf("%w: currency code must be 3 uppercase letters", apperrors.ErrValidation)
	}

	existing, err := s.walletRepo.FindAccountByOwner(ctx, req.OwnerID, req.AccountType, req.CurrencyCode)
	if err == nil {
		s.LogDebug(ctx, "Account already provisioned, returning existing",
			"account_id", existing.AccountID, "owner_id", req.OwnerID)
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := s.now()
	account := domain.WalletAccount{
		AccountID:    uuid.NewString(),
		WorkspaceID:  workspaceID,
		OwnerID:      req.OwnerID,
		AccountType:  req.AccountType,
		CurrencyCode: req.CurrencyCode,
		ProviderKey:  req.ProviderKey,
		Status:       domain.AccountStatusPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.ID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.ID,
		},
	}

	if err := s.walletRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Lost the race; the concurrent writer's row wins.
			return s.walletRepo.FindAccountByOwner(ctx, req.OwnerID, req.AccountType, req.CurrencyCode)
		}
		s.LogError(ctx, err, "Failed to save wallet account", "owner_id", req.OwnerID)
		return nil, err
	}

	s.LogInfo(ctx, "Wallet account provisioned",
		"account_id", account.AccountID, "workspace_id", workspaceID,
		"owner_id", req.OwnerID, "currency", req.CurrencyCode)
	return &account, nil
}

// GetAccountByID retrieves an account scoped to its workspace.
func (s *walletService) GetAccountByID(ctx context.Context, workspaceID string, accountID string) (*domain.WalletAccount, error) {
	account, err := s.walletRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.WorkspaceID != workspaceID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("account %s not found in workspace", accountID))
	}
	return account, nil
}

// ListAccounts retrieves every wallet account in a workspace.
func (s *walletService) ListAccounts(ctx context.Context, workspaceID string) ([]domain.WalletAccount, error) {
	return s.walletRepo.ListAccountsByWorkspace(ctx, workspaceID)
}

// ChangeAccountStatus applies a lifecycle transition. Closing requires that
// no funds are held: a close with outstanding holds is rejected so a payout
// in flight can never strand its hold on a closed account.
func (s *walletService) ChangeAccountStatus(ctx context.Context, workspaceID string, accountID string, req dto.ChangeAccountStatusRequest, actor domain.Actor) (*domain.WalletAccount, error) {
	if err := s.RequireOperator(ctx, actor); err != nil {
		return nil, err
	}

	account, err := s.GetAccountByID(ctx, workspaceID, accountID)
	if err != nil {
		return nil, err
	}

	if account.Status == req.Status {
		return account, nil
	}
	if !canTransitionAccount(account.Status, req.Status) {
		return nil, fmt.Errorf("%w: cannot move account from %s to %s", apperrors.ErrConflict, account.Status, req.Status)
	}
	if req.Status == domain.AccountStatusClosed && !account.PendingHoldBalance.IsZero() {
		return nil, fmt.Errorf("%w: account has %s still held", apperrors.ErrConflict, account.PendingHoldBalance.String())
	}

	now := s.now()
	if err := s.walletRepo.UpdateAccountStatus(ctx, accountID, req.Status, actor.ID, now); err != nil {
		s.LogError(ctx, err, "Failed to update account status", "account_id", accountID)
		return nil, err
	}

	s.LogInfo(ctx, "Wallet account status changed",
		"account_id", accountID, "from", string(account.Status), "to", string(req.Status),
		"actor_id", actor.ID, "reason", req.Reason)

	account.Status = req.Status
	account.LastUpdatedAt = now
	account.LastUpdatedBy = actor.ID
	return account, nil
}

// Reconcile replays the account's full ledger from zero and compares the
// result with the cached balance columns. Divergence is reported, never
// auto-corrected; operators repair with an explicit adjustment entry.
func (s *walletService) Reconcile(ctx context.Context, workspaceID string, accountID string, actor domain.Actor) (*domain.ReconciliationReport, error) {
	if err := s.RequireOperator(ctx, actor); err != nil {
		return nil, err
	}

	account, err := s.GetAccountByID(ctx, workspaceID, accountID)
	if err != nil {
		return nil, err
	}

	entries, err := s.ledgerRepo.FindAllEntriesByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	replayed, firstBadEntryID, replayErr := ledgermath.Replay(entries)

	report := &domain.ReconciliationReport{
		AccountID:           accountID,
		CachedCurrent:       account.CurrentBalance,
		ReplayedCurrent:     replayed.Current,
		CachedPendingHold:   account.PendingHoldBalance,
		ReplayedPendingHold: replayed.PendingHold,
		FirstBadEntryID:     firstBadEntryID,
		EntryCount:          len(entries),
	}
	report.Consistent = replayErr == nil &&
		account.CurrentBalance.Equal(replayed.Current) &&
		account.AvailableBalance.Equal(replayed.Available) &&
		account.PendingHoldBalance.Equal(replayed.PendingHold)

	if !report.Consistent {
		s.LogError(ctx, fmt.Errorf("%w: account %s", apperrors.ErrReconciliation, accountID),
			"Reconciliation divergence detected",
			"account_id", accountID,
			"cached_current", account.CurrentBalance.String(),
			"replayed_current", replayed.Current.String(),
			"first_bad_entry_id", firstBadEntryID)
		return report, fmt.Errorf("%w: account %s diverges from its ledger", apperrors.ErrReconciliation, accountID)
	}

	s.LogInfo(ctx, "Reconciliation clean", "account_id", accountID, "entry_count", len(entries))
	return report, nil
}

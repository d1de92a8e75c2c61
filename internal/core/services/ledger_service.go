package services

import (
	"context"
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

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// ledgerService provides the append-only ledger operations.
type ledgerService struct {
	BaseService
	ledgerRepo portsrepo.LedgerRepositoryFacade
	walletRepo portsrepo.WalletAccountReader
	now        func() time.Time
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade, walletRepo portsrepo.WalletAccountReader) portssvc.LedgerSvcFacade {
	return &ledgerService{
		ledgerRepo: ledgerRepo,
		walletRepo: walletRepo,
		now:        time.Now,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func isISOCurrency(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// AppendEntry validates and appends one ledger entry. The repository performs
// the authoritative checks again inside the account's critical section; the
// validation here exists to fail fast and to keep error messages close to the
// caller's input.
func (s *ledgerService) AppendEntry(ctx context.Context, workspaceID string, req dto.AppendEntryRequest, actor domain.Actor) (*domain.LedgerEntry, error) {
	if err := s.RequireOperator(ctx, actor); err != nil {
		return nil, err
	}

	if !domain.ValidEntryType(req.EntryType) {
		return nil, fmt.Errorf("%w: unknown entry type %q", apperrors.ErrValidation, req.EntryType)
	}
	if err := ledgermath.ValidateAmount(req.EntryType, req.Amount); err != nil {
		return nil, err
	}
	if req.Reference == "" {
		return nil, fmt.Errorf("%w: reference is required", apperrors.ErrValidation)
	}
	if !isISOCurrency(req.CurrencyCode) {
		return nil, fmt.Errorf("%w: currency code must be 3 uppercase letters", apperrors.ErrValidation)
	}
	if req.EntryType == domain.EntryAdjustment && req.Note == "" {
		return nil, fmt.Errorf("%w: adjustments require an explanatory note", apperrors.ErrValidation)
	}

	account, err := s.walletRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if account.WorkspaceID != workspaceID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("account %s not found in workspace", req.AccountID))
	}
	if account.CurrencyCode != req.CurrencyCode {
		return nil, fmt.Errorf("%w: entry currency %s, account currency %s", apperrors.ErrCurrencyMismatch, req.CurrencyCode, account.CurrencyCode)
	}
	if !account.IsWritable(req.EntryType) {
		return nil, fmt.Errorf("%w: account %s is %s and cannot accept %s entries", apperrors.ErrConflict, account.AccountID, account.Status, req.EntryType)
	}

	now := s.now()
	occurredAt := now
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	entry := domain.LedgerEntry{
		EntryID:           uuid.NewString(),
		AccountID:         req.AccountID,
		EntryType:         req.EntryType,
		Amount:            req.Amount,
		CurrencyCode:      req.CurrencyCode,
		Reference:         req.Reference,
		ExternalReference: req.ExternalReference,
		ActorID:           actor.ID,
		Note:              req.Note,
		Metadata:          req.Metadata,
		OccurredAt:        occurredAt,
		CreatedAt:         now,
		CreatedBy:         actor.ID,
	}

	saved, err := s.ledgerRepo.AppendEntry(ctx, entry)
	if err != nil {
		s.LogError(ctx, err, "Failed to append ledger entry",
			"account_id", req.AccountID, "entry_type", string(req.EntryType), "reference", req.Reference)
		return nil, err
	}

	s.LogInfo(ctx, "Ledger entry appended",
		"entry_id", saved.EntryID, "account_id", saved.AccountID,
		"entry_type", string(saved.EntryType), "amount", saved.Amount.String())
	return saved, nil
}

// ListEntries retrieves a page of an account's entries, newest first.
func (s *ledgerService) ListEntries(ctx context.Context, workspaceID string, accountID string, limit int, nextToken *string, filter portsrepo.ListEntriesFilter) ([]domain.LedgerEntry, *string, error) {
	account, err := s.walletRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	if account.WorkspaceID != workspaceID {
		return nil, nil, apperrors.NewNotFoundError(fmt.Sprintf("account %s not found in workspace", accountID))
	}

	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	return s.ledgerRepo.ListEntriesByAccount(ctx, workspaceID, accountID, limit, nextToken, filter)
}

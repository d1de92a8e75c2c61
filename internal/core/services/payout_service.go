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
	"github.com/fairlance/treasury_backend/internal/events"
	"github.com/shopspring/decimal"
)

// payoutService runs the payout approval workflow.
type payoutService struct {
	BaseService
	payoutRepo   portsrepo.PayoutRepositoryFacade
	walletRepo   portsrepo.WalletAccountReader
	ledgerRepo   portsrepo.LedgerWriter
	settingsRepo portsrepo.SettingsReader
	provider     portssvc.SettlementProvider
	publisher    events.Publisher
	maxRetries   int
	now          func() time.Time
}

// NewPayoutService creates a new PayoutService. maxRetries bounds how many
// times a payout may bounce back to review after provider failures before it
// is rejected outright.
func NewPayoutService(
	payoutRepo portsrepo.PayoutRepositoryFacade,
	walletRepo portsrepo.WalletAccountReader,
	ledgerRepo portsrepo.LedgerWriter,
	settingsRepo portsrepo.SettingsReader,
	provider portssvc.SettlementProvider,
	publisher events.Publisher,
	maxRetries int,
) portssvc.PayoutSvcFacade {
	return &payoutService{
		payoutRepo:   payoutRepo,
		walletRepo:   walletRepo,
		ledgerRepo:   ledgerRepo,
		settingsRepo: settingsRepo,
		provider:     provider,
		publisher:    publisher,
		maxRetries:   maxRetries,
		now:          time.Now,
	}
}

var _ portssvc.PayoutSvcFacade = (*payoutService)(nil)

// payoutReference builds the ledger idempotency key for one leg of a payout.
// Retried attempts get a numbered suffix so each approval cycle places a
// fresh hold instead of replaying the first one.
func payoutReference(p *domain.PayoutRequest, leg string) string {
	if p.RetryCount > 0 {
		return fmt.Sprintf("payout:%s:%s:%d", p.PayoutID, leg, p.RetryCount)
	}
	return fmt.Sprintf("payout:%s:%s", p.PayoutID, leg)
}

// publish sends a lifecycle event, best effort. Broker trouble never fails
// the payout operation itself.
func (s *payoutService) publish(ctx context.Context, payout *domain.PayoutRequest, event domain.PayoutEvent) {
	if s.publisher == nil {
		return
	}
	msg := events.NewPayoutEventMessage(*payout, event)
	if err := s.publisher.PublishPayoutEvent(ctx, msg); err != nil {
		s.LogError(ctx, err, "Failed to publish payout event",
			"payout_id", payout.PayoutID, "to_status", string(event.ToStatus))
	}
}

func (s *payoutService) newEvent(payout *domain.PayoutRequest, from, to domain.PayoutStatus, actorID, reason string, at time.Time) domain.PayoutEvent {
	return domain.PayoutEvent{
		EventID:    uuid.NewString(),
		PayoutID:   payout.PayoutID,
		FromStatus: from,
		ToStatus:   to,
		ActorID:    actorID,
		Reason:     reason,
		OccurredAt: at,
	}
}

// transition persists a status change plus its audit event and publishes it.
func (s *payoutService) transition(ctx context.Context, payout *domain.PayoutRequest, to domain.PayoutStatus, actorID, reason string) error {
	from := payout.Status
	if !domain.CanTransition(from, to) {
		return fmt.Errorf("%w: payout is %s, cannot move to %s", apperrors.ErrConflict, from, to)
	}

	now := s.now()
	payout.Status = to
	payout.LastUpdatedAt = now
	payout.LastUpdatedBy = actorID

	event := s.newEvent(payout, from, to, actorID, reason, now)
	if err := s.payoutRepo.UpdatePayoutTransition(ctx, *payout, event); err != nil {
		payout.Status = from
		return err
	}

	s.LogInfo(ctx, "Payout transitioned",
		"payout_id", payout.PayoutID, "from", string(from), "to", string(to), "actor_id", actorID)
	s.publish(ctx, payout, event)
	return nil
}

func (s *payoutService) getScoped(ctx context.Context, workspaceID, payoutID string) (*domain.PayoutRequest, error) {
	payout, err := s.payoutRepo.FindPayoutByID(ctx, payoutID)
	if err != nil {
		return nil, err
	}
	if payout.WorkspaceID != workspaceID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("payout %s not found in workspace", payoutID))
	}
	return payout, nil
}

// GetPayoutByID retrieves a payout scoped to its workspace.
func (s *payoutService) GetPayoutByID(ctx context.Context, workspaceID string, payoutID string) (*domain.PayoutRequest, error) {
	return s.getScoped(ctx, workspaceID, payoutID)
}

// ListPayouts retrieves a page of the workspace's payouts.
func (s *payoutService) ListPayouts(ctx context.Context, workspaceID string, statuses []domain.PayoutStatus, limit int, nextToken *string) ([]domain.PayoutRequest, *string, error) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return s.payoutRepo.ListPayoutsByWorkspace(ctx, workspaceID, statuses, limit, nextToken)
}

// ListPayoutEvents retrieves a payout's transition trail.
func (s *payoutService) ListPayoutEvents(ctx context.Context, workspaceID string, payoutID string) ([]domain.PayoutEvent, error) {
	if _, err := s.getScoped(ctx, workspaceID, payoutID); err != nil {
		return nil, err
	}
	return s.payoutRepo.ListPayoutEvents(ctx, payoutID)
}

// CreatePayout opens a payout request in pending_review. The balance check
// here is advisory; the authoritative reservation happens at approval when
// the hold entry is appended under the account lock.
func (s *payoutService) CreatePayout(ctx context.Context, workspaceID string, req dto.CreatePayoutRequest, actor domain.Actor) (*domain.PayoutRequest, error) {
	if err := s.RequireOperator(ctx, actor); err != nil {
		return nil, err
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: payout amount must be positive", apperrors.ErrValidation)
	}
	if !isISOCurrency(req.CurrencyCode) {
		return nil, fmt.Errorf("%w: currency code must be 3 uppercase letters", apperrors.ErrValidation)
	}

	account, err := s.walletRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if account.WorkspaceID != workspaceID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("account %s not found in workspace", req.AccountID))
	}
	if account.CurrencyCode != req.CurrencyCode {
		return nil, fmt.Errorf("%w: payout currency %s, account currency %s", apperrors.ErrCurrencyMismatch, req.CurrencyCode, account.CurrencyCode)
	}
	if account.Status != domain.AccountStatusActive {
		return nil, fmt.Errorf("%w: account %s is %s, payouts require an active account", apperrors.ErrConflict, account.AccountID, account.Status)
	}
	if req.Amount.GreaterThan(account.AvailableBalance) {
		return nil, fmt.Errorf("%w: payout %s exceeds available %s", apperrors.ErrInsufficientFunds, req.Amount.String(), account.AvailableBalance.String())
	}

	now := s.now()
	payout := domain.PayoutRequest{
		PayoutID:         uuid.NewString(),
		WorkspaceID:      workspaceID,
		AccountID:        req.AccountID,
		FundingSourceID:  req.FundingSourceID,
		Amount:           req.Amount,
		CurrencyCode:     req.CurrencyCode,
		Status:           domain.PayoutPendingReview,
		RequesterID:      actor.ID,
		Note:             req.Note,
		DestinationLabel: req.DestinationLabel,
		Channel:          req.Channel,
		ScheduledFor:     req.ScheduledFor,
		Metadata:         req.Metadata,
		RequestedAt:      now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.ID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.ID,
		},
	}

	event := s.newEvent(&payout, "", domain.PayoutPendingReview, actor.ID, req.Note, now)
	if err := s.payoutRepo.SavePayout(ctx, payout, event); err != nil {
		s.LogError(ctx, err, "Failed to save payout request", "account_id", req.AccountID)
		return nil, err
	}

	s.LogInfo(ctx, "Payout requested",
		"payout_id", payout.PayoutID, "account_id", req.AccountID, "amount", req.Amount.String())
	s.publish(ctx, &payout, event)
	return &payout, nil
}

// ApprovePayout reviews a pending payout and reserves its funds with a hold
// entry. The hold re-validates available cover under the account row lock,
// which is what prevents two approvals from double-spending one balance.
func (s *payoutService) ApprovePayout(ctx context.Context, workspaceID string, payoutID string, req dto.ReviewPayoutRequest, actor domain.Actor) (*domain.PayoutRequest, error) {
	if err := s.RequireOperator(ctx, actor); err != nil {
		return nil, err
	}

	payout, err := s.getScoped(ctx, workspaceID, payoutID)
	if err != nil {
		return nil, err
	}
	if payout.Status != domain.PayoutPendingReview {
		return nil, fmt.Errorf("%w: payout is %s, only pending_review can be approved", apperrors.ErrConflict, payout.Status)
	}

	settings, err := s.settingsRepo.FindSettingsByWorkspace(ctx, workspaceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		defaults := domain.DefaultSettings(workspaceID)
		settings = &defaults
	}
	if settings.DualControlEnabled && actor.ID == payout.RequesterID {
		return nil, fmt.Errorf("%w: dual control requires a reviewer other than the requester", apperrors.ErrForbidden)
	}

	now := s.now()
	hold := domain.LedgerEntry{
		EntryID:      uuid.NewString(),
		AccountID:    payout.AccountID,
		EntryType:    domain.EntryHold,
		Amount:       payout.Amount,
		CurrencyCode: payout.CurrencyCode,
		Reference:    payoutReference(payout, "hold"),
		ActorID:      actor.ID,
		Note:         fmt.Sprintf("hold for payout %s", payout.PayoutID),
		OccurredAt:   now,
		CreatedAt:    now,
		CreatedBy:    actor.ID,
	}
	if _, err := s.ledgerRepo.AppendEntry(ctx, hold); err != nil {
		s.LogError(ctx, err, "Failed to place payout hold", "payout_id", payoutID)
		return nil, err
	}

	payout.ReviewerID = &actor.ID
	payout.ReviewedAt = &now
	if err := s.transition(ctx, payout, domain.PayoutApproved, actor.ID, req.Reason); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// A concurrent review closed the payout after the hold committed.
			// Give the funds back before reporting the conflict.
			if relErr := s.releaseHold(ctx, payout, actor,
				fmt.Sprintf("hold released, payout %s was closed by a concurrent review", payout.PayoutID)); relErr != nil {
				s.LogError(ctx, relErr, "Failed to release hold after lost approval race", "payout_id", payoutID)
			}
		}
		return nil, err
	}
	return payout, nil
}

// releaseHold appends the compensating release for a payout's hold. The
// reference matches the settle-time release, so whichever of the two lands
// first wins and the other replays as a no-op.
func (s *payoutService) releaseHold(ctx context.Context, payout *domain.PayoutRequest, actor domain.Actor, note string) error {
	now := s.now()
	release := domain.LedgerEntry{
		EntryID:      uuid.NewString(),
		AccountID:    payout.AccountID,
		EntryType:    domain.EntryRelease,
		Amount:       payout.Amount,
		CurrencyCode: payout.CurrencyCode,
		Reference:    payoutReference(payout, "release"),
		ActorID:      actor.ID,
		Note:         note,
		OccurredAt:   now,
		CreatedAt:    now,
		CreatedBy:    actor.ID,
	}
	_, err := s.ledgerRepo.AppendEntry(ctx, release)
	return err
}

// RejectPayout declines a pending payout. A reason is mandatory.
func (s *payoutService) RejectPayout(ctx context.Context, workspaceID string, payoutID string, req dto.ReviewPayoutRequest, actor domain.Actor) (*domain.PayoutRequest, error) {
	if err := s.RequireOperator(ctx, actor); err != nil {
		return nil, err
	}
	if req.Reason == "" {
		return nil, fmt.Errorf("%w: a rejection reason is required", apperrors.ErrValidation)
	}

	payout, err := s.getScoped(ctx, workspaceID, payoutID)
	if err != nil {
		return nil, err
	}
	if payout.Status != domain.PayoutPendingReview {
		return nil, fmt.Errorf("%w: payout is %s, only pending_review can be rejected", apperrors.ErrConflict, payout.Status)
	}

	now := s.now()
	payout.ReviewerID = &actor.ID
	payout.ReviewedAt = &now
	if err := s.transition(ctx, payout, domain.PayoutRejected, actor.ID, req.Reason); err != nil {
		return nil, err
	}
	return payout, nil
}

// CancelPayout withdraws a pending payout.
func (s *payoutService) CancelPayout(ctx context.Context, workspaceID string, payoutID string, req dto.ReviewPayoutRequest, actor domain.Actor) (*domain.PayoutRequest, error) {
	if err := s.RequireOperator(ctx, actor); err != nil {
		return nil, err
	}

	payout, err := s.getScoped(ctx, workspaceID, payoutID)
	if err != nil {
		return nil, err
	}
	if payout.Status != domain.PayoutPendingReview {
		return nil, fmt.Errorf("%w: payout is %s, only pending_review can be cancelled", apperrors.ErrConflict, payout.Status)
	}

	if err := s.transition(ctx, payout, domain.PayoutCancelled, actor.ID, req.Reason); err != nil {
		return nil, err
	}
	return payout, nil
}

// SettlePayout drives an approved payout through the settlement provider.
// Success appends the release and debit pair atomically before the payout is
// marked processed, so a processed payout always has its debit entry on the
// ledger. Provider failure releases the hold and requeues the payout for
// review until the retry ceiling, after which it is rejected.
func (s *payoutService) SettlePayout(ctx context.Context, workspaceID string, payoutID string, actor domain.Actor) (*domain.PayoutRequest, error) {
	if err := s.RequireOperator(ctx, actor); err != nil {
		return nil, err
	}

	payout, err := s.getScoped(ctx, workspaceID, payoutID)
	if err != nil {
		return nil, err
	}
	if payout.Status != domain.PayoutApproved {
		return nil, fmt.Errorf("%w: payout is %s, only approved can be settled", apperrors.ErrConflict, payout.Status)
	}

	payout.ProcessorID = &actor.ID
	if err := s.transition(ctx, payout, domain.PayoutProcessing, actor.ID, ""); err != nil {
		return nil, err
	}

	externalRef, settleErr := s.provider.Settle(ctx, *payout)
	if settleErr != nil {
		return s.handleSettlementFailure(ctx, payout, actor, settleErr)
	}

	now := s.now()
	pair := []domain.LedgerEntry{
		{
			EntryID:      uuid.NewString(),
			AccountID:    payout.AccountID,
			EntryType:    domain.EntryRelease,
			Amount:       payout.Amount,
			CurrencyCode: payout.CurrencyCode,
			Reference:    payoutReference(payout, "release"),
			ActorID:      actor.ID,
			Note:         fmt.Sprintf("release for payout %s", payout.PayoutID),
			OccurredAt:   now,
			CreatedAt:    now,
			CreatedBy:    actor.ID,
		},
		{
			EntryID:           uuid.NewString(),
			AccountID:         payout.AccountID,
			EntryType:         domain.EntryDebit,
			Amount:            payout.Amount,
			CurrencyCode:      payout.CurrencyCode,
			Reference:         payoutReference(payout, "debit"),
			ExternalReference: &externalRef,
			ActorID:           actor.ID,
			Note:              fmt.Sprintf("settlement debit for payout %s", payout.PayoutID),
			OccurredAt:        now,
			CreatedAt:         now,
			CreatedBy:         actor.ID,
		},
	}
	if _, err := s.ledgerRepo.AppendEntries(ctx, pair); err != nil {
		s.LogError(ctx, err, "Failed to record settlement entries", "payout_id", payoutID)
		return nil, err
	}

	payout.ProcessedAt = &now
	if err := s.transition(ctx, payout, domain.PayoutProcessed, actor.ID, ""); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Payout settled",
		"payout_id", payoutID, "external_reference", externalRef, "amount", payout.Amount.String())
	return payout, nil
}

// handleSettlementFailure releases the hold, bumps the retry counter and
// either requeues the payout for review or rejects it once the ceiling is
// exceeded.
func (s *payoutService) handleSettlementFailure(ctx context.Context, payout *domain.PayoutRequest, actor domain.Actor, settleErr error) (*domain.PayoutRequest, error) {
	s.LogError(ctx, settleErr, "Settlement provider failed",
		"payout_id", payout.PayoutID, "retry_count", payout.RetryCount)

	if err := s.releaseHold(ctx, payout, actor,
		fmt.Sprintf("hold released after settlement failure for payout %s", payout.PayoutID)); err != nil {
		s.LogError(ctx, err, "Failed to release hold after settlement failure", "payout_id", payout.PayoutID)
		return nil, err
	}

	payout.RetryCount++
	reason := fmt.Sprintf("settlement failed: %s", settleErr.Error())
	if payout.RetryCount > s.maxRetries {
		if err := s.transition(ctx, payout, domain.PayoutRejected, actor.ID,
			fmt.Sprintf("%s (retry ceiling %d exceeded)", reason, s.maxRetries)); err != nil {
			return nil, err
		}
		return payout, fmt.Errorf("%w: %s", apperrors.ErrProviderSettlement, settleErr.Error())
	}

	if err := s.transition(ctx, payout, domain.PayoutPendingReview, actor.ID, reason); err != nil {
		return nil, err
	}
	return payout, fmt.Errorf("%w: %s", apperrors.ErrProviderSettlement, settleErr.Error())
}

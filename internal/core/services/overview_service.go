package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fairlance/treasury_backend/internal/apperrors"
	"github.com/fairlance/treasury_backend/internal/cache"
	"github.com/fairlance/treasury_backend/internal/core/domain"
	portsrepo "github.com/fairlance/treasury_backend/internal/core/ports/repositories"
	portssvc "github.com/fairlance/treasury_backend/internal/core/ports/services"
)

// pendingPayoutStatuses are the in-flight states counted by the overview.
var pendingPayoutStatuses = []domain.PayoutStatus{
	domain.PayoutPendingReview,
	domain.PayoutApproved,
	domain.PayoutProcessing,
}

// overviewService assembles the read-only treasury overview. It takes no
// locks and never writes; the snapshot is best effort and stamped with
// RefreshedAt.
type overviewService struct {
	BaseService
	walletRepo          portsrepo.WalletAccountReader
	ledgerRepo          portsrepo.LedgerReader
	payoutRepo          portsrepo.PayoutReader
	settingsRepo        portsrepo.SettingsReader
	fundingSourceRepo   portsrepo.FundingSourceReader
	transferRuleRepo    portsrepo.TransferRuleReader
	snapshotCache       cache.SnapshotCache
	recentTransferLimit int
	netFlowWindow       time.Duration
	now                 func() time.Time
}

// NewOverviewService creates a new OverviewService. snapshotCache may be nil,
// in which case every call computes a fresh snapshot.
func NewOverviewService(
	repos portsrepo.RepositoryProvider,
	snapshotCache cache.SnapshotCache,
	recentTransferLimit int,
	netFlowWindow time.Duration,
) portssvc.OverviewSvc {
	return &overviewService{
		walletRepo:          repos.WalletRepo,
		ledgerRepo:          repos.LedgerRepo,
		payoutRepo:          repos.PayoutRepo,
		settingsRepo:        repos.SettingsRepo,
		fundingSourceRepo:   repos.FundingSourceRepo,
		transferRuleRepo:    repos.TransferRuleRepo,
		snapshotCache:       snapshotCache,
		recentTransferLimit: recentTransferLimit,
		netFlowWindow:       netFlowWindow,
		now:                 time.Now,
	}
}

var _ portssvc.OverviewSvc = (*overviewService)(nil)

// GetOverview builds the decision-ready snapshot for one workspace.
func (s *overviewService) GetOverview(ctx context.Context, workspaceID string, actor domain.Actor) (*domain.OverviewSnapshot, error) {
	if err := s.RequireOperator(ctx, actor); err != nil {
		return nil, err
	}

	if s.snapshotCache != nil {
		if cached := s.snapshotCache.Get(ctx, workspaceID); cached != nil {
			s.LogDebug(ctx, "Overview served from cache", "workspace_id", workspaceID)
			return cached, nil
		}
	}

	snapshot, err := s.computeSnapshot(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	if s.snapshotCache != nil {
		s.snapshotCache.Set(ctx, workspaceID, snapshot)
	}
	return snapshot, nil
}

func (s *overviewService) computeSnapshot(ctx context.Context, workspaceID string) (*domain.OverviewSnapshot, error) {
	now := s.now()

	accounts, err := s.walletRepo.ListAccountsByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	pendingPayouts, err := s.collectPendingPayouts(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	settings, err := s.loadSettings(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	totals := domain.OverviewTotals{TotalBalance: decimal.Zero, PendingPayoutAmount: decimal.Zero}
	for _, acc := range accounts {
		totals.TotalBalance = totals.TotalBalance.Add(acc.CurrentBalance)
	}

	pendingSummary := domain.PendingPayoutSummary{Amount: decimal.Zero}
	for _, p := range pendingPayouts {
		pendingSummary.Count++
		pendingSummary.Amount = pendingSummary.Amount.Add(p.Amount)
	}
	totals.PendingPayoutAmount = pendingSummary.Amount

	breakdown, dominant := currencyBreakdown(accounts)

	upcoming := make([]domain.UpcomingPayout, 0, len(pendingPayouts))
	for _, p := range pendingPayouts {
		upcoming = append(upcoming, domain.UpcomingPayout{
			Amount:       p.Amount,
			ScheduledFor: p.EffectiveTime(),
			Destination:  p.DestinationLabel,
			Channel:      p.Channel,
		})
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].ScheduledFor.Before(upcoming[j].ScheduledFor)
	})

	recent, err := s.recentTransfers(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	netFlows, err := s.netFlows(ctx, workspaceID, now)
	if err != nil {
		return nil, err
	}

	alerts, err := s.collectAlerts(ctx, workspaceID, accounts, settings, pendingSummary)
	if err != nil {
		return nil, err
	}

	return &domain.OverviewSnapshot{
		WorkspaceID:       workspaceID,
		Currency:          dominant,
		Totals:            totals,
		PendingPayouts:    pendingSummary,
		CurrencyBreakdown: breakdown,
		UpcomingPayouts:   upcoming,
		RecentTransfers:   recent,
		NetFlows:          netFlows,
		Alerts:            alerts,
		Compliance: domain.ComplianceSummary{
			DualControlEnabled:    settings.DualControlEnabled,
			AutoSweepEnabled:      settings.AutoSweepEnabled,
			RiskTier:              settings.RiskTier,
			ReconciliationCadence: settings.ReconciliationCadence,
			PayoutWindow:          settings.PayoutWindow,
			ComplianceContact:     settings.ComplianceContact,
			KYCStatus:             "complete",
		},
		RefreshedAt: now,
	}, nil
}

// collectPendingPayouts pages through every in-flight payout of the workspace.
func (s *overviewService) collectPendingPayouts(ctx context.Context, workspaceID string) ([]domain.PayoutRequest, error) {
	var all []domain.PayoutRequest
	var token *string
	for {
		page, next, err := s.payoutRepo.ListPayoutsByWorkspace(ctx, workspaceID, pendingPayoutStatuses, maxPageLimit, token)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if next == nil {
			return all, nil
		}
		token = next
	}
}

func (s *overviewService) loadSettings(ctx context.Context, workspaceID string) (*domain.OperationalSettings, error) {
	settings, err := s.settingsRepo.FindSettingsByWorkspace(ctx, workspaceID)
	if err == nil {
		return settings, nil
	}
	// Absent settings degrade to defaults; other failures propagate.
	if errors.Is(err, apperrors.ErrNotFound) {
		defaults := domain.DefaultSettings(workspaceID)
		return &defaults, nil
	}
	return nil, err
}

// currencyBreakdown groups accounts by currency in first-encountered order
// and picks the dominant currency: the largest group total, ties resolved to
// the lexicographically smaller code.
func currencyBreakdown(accounts []domain.WalletAccount) ([]domain.CurrencyExposure, string) {
	order := make([]string, 0, 4)
	groups := make(map[string]*domain.CurrencyExposure, 4)
	for _, acc := range accounts {
		g, ok := groups[acc.CurrencyCode]
		if !ok {
			order = append(order, acc.CurrencyCode)
			g = &domain.CurrencyExposure{CurrencyCode: acc.CurrencyCode, TotalBalance: decimal.Zero}
			groups[acc.CurrencyCode] = g
		}
		g.TotalBalance = g.TotalBalance.Add(acc.CurrentBalance)
		g.AccountCount++
	}

	breakdown := make([]domain.CurrencyExposure, 0, len(order))
	dominant := ""
	var dominantTotal decimal.Decimal
	for _, code := range order {
		g := groups[code]
		breakdown = append(breakdown, *g)
		switch {
		case dominant == "",
			g.TotalBalance.GreaterThan(dominantTotal),
			g.TotalBalance.Equal(dominantTotal) && code < dominant:
			dominant = code
			dominantTotal = g.TotalBalance
		}
	}
	return breakdown, dominant
}

// transferChannel projects a ledger entry onto the overview feed's channel
// label: the metadata channel when tagged, the entry type otherwise.
func transferChannel(e domain.LedgerEntry) string {
	if ch, ok := e.Metadata["channel"].(string); ok && ch != "" {
		return ch
	}
	return string(e.EntryType)
}

func (s *overviewService) recentTransfers(ctx context.Context, workspaceID string) ([]domain.RecentTransfer, error) {
	entries, err := s.ledgerRepo.ListRecentEntriesByWorkspace(ctx, workspaceID, s.recentTransferLimit)
	if err != nil {
		return nil, err
	}
	transfers := make([]domain.RecentTransfer, 0, len(entries))
	for _, e := range entries {
		transfers = append(transfers, domain.RecentTransfer{
			Channel:    transferChannel(e),
			Amount:     e.Amount,
			OccurredAt: e.OccurredAt,
		})
	}
	return transfers, nil
}

func (s *overviewService) netFlows(ctx context.Context, workspaceID string, now time.Time) ([]decimal.Decimal, error) {
	since := now.Add(-s.netFlowWindow)
	entries, err := s.ledgerRepo.ListEntriesByWorkspaceSince(ctx, workspaceID, since)
	if err != nil {
		return nil, err
	}
	flows := make([]decimal.Decimal, 0, len(entries))
	for _, e := range entries {
		flows = append(flows, e.SignedAmount())
	}
	return flows, nil
}

// collectAlerts evaluates every guardrail independently; all tripped alerts
// are returned, not just the first.
func (s *overviewService) collectAlerts(ctx context.Context, workspaceID string, accounts []domain.WalletAccount, settings *domain.OperationalSettings, pending domain.PendingPayoutSummary) ([]domain.Alert, error) {
	alerts := make([]domain.Alert, 0, 4)

	fundingCount, err := s.fundingSourceRepo.CountActiveByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if fundingCount == 0 {
		alerts = append(alerts, domain.Alert{
			ID:       domain.AlertFundingSourceMissing,
			Severity: domain.SeverityWarning,
			Message:  "no active funding source is configured for this workspace",
		})
	}

	ruleCount, err := s.transferRuleRepo.CountEnabledByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if ruleCount == 0 {
		alerts = append(alerts, domain.Alert{
			ID:       domain.AlertTransferRulesMissing,
			Severity: domain.SeverityWarning,
			Message:  "no transfer rules are configured for this workspace",
		})
	}

	for _, acc := range accounts {
		if acc.AvailableBalance.LessThan(settings.LowBalanceAlertThreshold) {
			alerts = append(alerts, domain.Alert{
				ID:       domain.AlertLowBalance,
				Severity: domain.SeverityWarning,
				Message: fmt.Sprintf("account %s available balance %s is below the low-balance guardrail of %s",
					acc.AccountID, acc.AvailableBalance.String(), settings.LowBalanceAlertThreshold.String()),
			})
			break
		}
	}

	if pending.Count > 0 {
		alerts = append(alerts, domain.Alert{
			ID:       domain.AlertPayoutQueue,
			Severity: domain.SeverityWarning,
			Message:  fmt.Sprintf("%d payout requests are waiting in the queue", pending.Count),
		})
	}

	return alerts, nil
}

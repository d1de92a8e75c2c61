package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fairlance/treasury_backend/internal/apperrors"
	"github.com/fairlance/treasury_backend/internal/core/domain"
	portsrepo "github.com/fairlance/treasury_backend/internal/core/ports/repositories"
	portssvc "github.com/fairlance/treasury_backend/internal/core/ports/services"
	"github.com/fairlance/treasury_backend/internal/core/services"
)

// stubSnapshotCache is an in-memory SnapshotCache for exercising the cache path.
type stubSnapshotCache struct {
	entries map[string]*domain.OverviewSnapshot
	sets    int
}

func newStubSnapshotCache() *stubSnapshotCache {
	return &stubSnapshotCache{entries: make(map[string]*domain.OverviewSnapshot)}
}

func (c *stubSnapshotCache) Get(_ context.Context, workspaceID string) *domain.OverviewSnapshot {
	return c.entries[workspaceID]
}

func (c *stubSnapshotCache) Set(_ context.Context, workspaceID string, snapshot *domain.OverviewSnapshot) {
	c.entries[workspaceID] = snapshot
	c.sets++
}

type OverviewServiceTestSuite struct {
	suite.Suite
	mockWalletRepo   *MockWalletRepository
	mockLedgerRepo   *MockLedgerRepository
	mockPayoutRepo   *MockPayoutRepository
	mockSettingsRepo *MockSettingsRepository
	mockFundingRepo  *MockFundingSourceRepository
	mockRuleRepo     *MockTransferRuleRepository
	service          portssvc.OverviewSvc
	workspaceID      string
	actor            domain.Actor
}

func (suite *OverviewServiceTestSuite) SetupTest() {
	suite.mockWalletRepo = new(MockWalletRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockPayoutRepo = new(MockPayoutRepository)
	suite.mockSettingsRepo = new(MockSettingsRepository)
	suite.mockFundingRepo = new(MockFundingSourceRepository)
	suite.mockRuleRepo = new(MockTransferRuleRepository)
	suite.service = services.NewOverviewService(portsrepo.RepositoryProvider{
		WalletRepo:        suite.mockWalletRepo,
		LedgerRepo:        suite.mockLedgerRepo,
		PayoutRepo:        suite.mockPayoutRepo,
		SettingsRepo:      suite.mockSettingsRepo,
		FundingSourceRepo: suite.mockFundingRepo,
		TransferRuleRepo:  suite.mockRuleRepo,
	}, nil, 10, 30*24*time.Hour)
	suite.workspaceID = uuid.NewString()
	suite.actor = operatorActor(uuid.NewString())
}

// arrangeDefaults wires the happy-path mocks; individual tests override what
// they care about before calling this.
func (suite *OverviewServiceTestSuite) arrangeDefaults(accounts []domain.WalletAccount, payouts []domain.PayoutRequest, fundingCount, ruleCount int) {
	suite.mockWalletRepo.On("ListAccountsByWorkspace", mock.Anything, suite.workspaceID).Return(accounts, nil).Maybe()
	suite.mockPayoutRepo.On("ListPayoutsByWorkspace", mock.Anything, suite.workspaceID, mock.Anything, mock.Anything, mock.Anything).
		Return(payouts, nil, nil).Maybe()
	suite.mockSettingsRepo.On("FindSettingsByWorkspace", mock.Anything, suite.workspaceID).
		Return(nil, apperrors.NewNotFoundError("no settings")).Maybe()
	suite.mockLedgerRepo.On("ListRecentEntriesByWorkspace", mock.Anything, suite.workspaceID, 10).
		Return([]domain.LedgerEntry{}, nil).Maybe()
	suite.mockLedgerRepo.On("ListEntriesByWorkspaceSince", mock.Anything, suite.workspaceID, mock.Anything).
		Return([]domain.LedgerEntry{}, nil).Maybe()
	suite.mockFundingRepo.On("CountActiveByWorkspace", mock.Anything, suite.workspaceID).Return(fundingCount, nil).Maybe()
	suite.mockRuleRepo.On("CountEnabledByWorkspace", mock.Anything, suite.workspaceID).Return(ruleCount, nil).Maybe()
}

func account(workspaceID, currency, current, available string) domain.WalletAccount {
	return domain.WalletAccount{
		AccountID:        uuid.NewString(),
		WorkspaceID:      workspaceID,
		CurrencyCode:     currency,
		Status:           domain.AccountStatusActive,
		CurrentBalance:   decimal.RequireFromString(current),
		AvailableBalance: decimal.RequireFromString(available),
	}
}

func (suite *OverviewServiceTestSuite) TestGetOverview_ForbiddenWithoutOperatorRole() {
	_, err := suite.service.GetOverview(context.Background(), suite.workspaceID, outsiderActor(uuid.NewString()))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockWalletRepo.AssertNotCalled(suite.T(), "ListAccountsByWorkspace")
}

func (suite *OverviewServiceTestSuite) TestGetOverview_PendingPayoutAggregation() {
	payouts := []domain.PayoutRequest{
		{PayoutID: uuid.NewString(), Status: domain.PayoutApproved, Amount: decimal.RequireFromString("4200.75")},
		{PayoutID: uuid.NewString(), Status: domain.PayoutPendingReview, Amount: decimal.RequireFromString("1850.50")},
	}
	suite.arrangeDefaults([]domain.WalletAccount{account(suite.workspaceID, "USD", "10000", "10000")}, payouts, 1, 1)

	snapshot, err := suite.service.GetOverview(context.Background(), suite.workspaceID, suite.actor)

	suite.Require().NoError(err)
	suite.Equal(2, snapshot.PendingPayouts.Count)
	suite.True(snapshot.PendingPayouts.Amount.Equal(decimal.RequireFromString("6051.25")))
	suite.True(snapshot.Totals.PendingPayoutAmount.Equal(decimal.RequireFromString("6051.25")))
}

func (suite *OverviewServiceTestSuite) TestGetOverview_MultiCurrencyDominance() {
	accounts := []domain.WalletAccount{
		account(suite.workspaceID, "USD", "1200", "1200"),
		account(suite.workspaceID, "EUR", "5200", "5200"),
	}
	suite.arrangeDefaults(accounts, nil, 1, 1)

	snapshot, err := suite.service.GetOverview(context.Background(), suite.workspaceID, suite.actor)

	suite.Require().NoError(err)
	suite.Equal("EUR", snapshot.Currency)
	suite.True(snapshot.Totals.TotalBalance.Equal(decimal.RequireFromString("6400")))
	suite.Require().Len(snapshot.CurrencyBreakdown, 2)
	suite.Equal("USD", snapshot.CurrencyBreakdown[0].CurrencyCode)
	suite.Equal("EUR", snapshot.CurrencyBreakdown[1].CurrencyCode)
}

func (suite *OverviewServiceTestSuite) TestGetOverview_DominanceTieBreaksLexicographically() {
	accounts := []domain.WalletAccount{
		account(suite.workspaceID, "USD", "100", "100"),
		account(suite.workspaceID, "EUR", "100", "100"),
	}
	suite.arrangeDefaults(accounts, nil, 1, 1)

	snapshot, err := suite.service.GetOverview(context.Background(), suite.workspaceID, suite.actor)

	suite.Require().NoError(err)
	suite.Equal("EUR", snapshot.Currency)
}

func (suite *OverviewServiceTestSuite) TestGetOverview_LowBalanceAlertReferencesGuardrail() {
	settings := domain.DefaultSettings(suite.workspaceID)
	settings.LowBalanceAlertThreshold = decimal.RequireFromString("10000")

	suite.mockSettingsRepo.On("FindSettingsByWorkspace", mock.Anything, suite.workspaceID).Return(&settings, nil).Once()
	suite.arrangeDefaults([]domain.WalletAccount{account(suite.workspaceID, "USD", "5000", "5000")}, nil, 1, 1)

	snapshot, err := suite.service.GetOverview(context.Background(), suite.workspaceID, suite.actor)

	suite.Require().NoError(err)
	var low *domain.Alert
	for i := range snapshot.Alerts {
		if snapshot.Alerts[i].ID == domain.AlertLowBalance {
			low = &snapshot.Alerts[i]
		}
	}
	suite.Require().NotNil(low, "expected a low-balance alert")
	suite.Equal(domain.SeverityWarning, low.Severity)
	suite.Contains(low.Message, "guardrail")
}

func (suite *OverviewServiceTestSuite) TestGetOverview_MissingGuardrailsRaiseBothAlerts() {
	suite.arrangeDefaults([]domain.WalletAccount{account(suite.workspaceID, "USD", "100", "100")}, nil, 0, 0)

	snapshot, err := suite.service.GetOverview(context.Background(), suite.workspaceID, suite.actor)

	suite.Require().NoError(err)
	ids := make([]string, 0, len(snapshot.Alerts))
	for _, a := range snapshot.Alerts {
		ids = append(ids, a.ID)
	}
	suite.Contains(ids, domain.AlertFundingSourceMissing)
	suite.Contains(ids, domain.AlertTransferRulesMissing)
}

func (suite *OverviewServiceTestSuite) TestGetOverview_PayoutQueueAlert() {
	payouts := []domain.PayoutRequest{
		{PayoutID: uuid.NewString(), Status: domain.PayoutPendingReview, Amount: decimal.RequireFromString("50")},
	}
	suite.arrangeDefaults([]domain.WalletAccount{account(suite.workspaceID, "USD", "100", "100")}, payouts, 1, 1)

	snapshot, err := suite.service.GetOverview(context.Background(), suite.workspaceID, suite.actor)

	suite.Require().NoError(err)
	var found bool
	for _, a := range snapshot.Alerts {
		if a.ID == domain.AlertPayoutQueue {
			found = true
		}
	}
	suite.True(found, "expected a payout-queue alert")
}

func (suite *OverviewServiceTestSuite) TestGetOverview_EmptyWorkspaceDegradesGracefully() {
	suite.arrangeDefaults([]domain.WalletAccount{}, nil, 1, 1)

	snapshot, err := suite.service.GetOverview(context.Background(), suite.workspaceID, suite.actor)

	suite.Require().NoError(err)
	suite.True(snapshot.Totals.TotalBalance.IsZero())
	suite.Equal(0, snapshot.PendingPayouts.Count)
	suite.Empty(snapshot.CurrencyBreakdown)
	suite.Empty(snapshot.UpcomingPayouts)
	suite.Empty(snapshot.RecentTransfers)
	suite.Empty(snapshot.NetFlows)
	suite.Equal("", snapshot.Currency)
	suite.Equal("complete", snapshot.Compliance.KYCStatus)
	suite.WithinDuration(time.Now(), snapshot.RefreshedAt, time.Second)
}

func (suite *OverviewServiceTestSuite) TestGetOverview_NetFlowsChronological() {
	now := time.Now()
	entries := []domain.LedgerEntry{
		{EntryType: domain.EntryCredit, Amount: decimal.RequireFromString("100"), OccurredAt: now.Add(-2 * time.Hour)},
		{EntryType: domain.EntryDebit, Amount: decimal.RequireFromString("40"), OccurredAt: now.Add(-1 * time.Hour)},
		{EntryType: domain.EntryHold, Amount: decimal.RequireFromString("25"), OccurredAt: now},
	}
	suite.mockLedgerRepo.On("ListEntriesByWorkspaceSince", mock.Anything, suite.workspaceID, mock.Anything).
		Return(entries, nil).Once()
	suite.arrangeDefaults([]domain.WalletAccount{account(suite.workspaceID, "USD", "60", "35")}, nil, 1, 1)

	snapshot, err := suite.service.GetOverview(context.Background(), suite.workspaceID, suite.actor)

	suite.Require().NoError(err)
	suite.Require().Len(snapshot.NetFlows, 3)
	suite.True(snapshot.NetFlows[0].Equal(decimal.RequireFromString("100")))
	suite.True(snapshot.NetFlows[1].Equal(decimal.RequireFromString("-40")))
	suite.True(snapshot.NetFlows[2].IsZero())
}

func (suite *OverviewServiceTestSuite) TestGetOverview_UpcomingPayoutsAscending() {
	now := time.Now()
	later := now.Add(48 * time.Hour)
	payouts := []domain.PayoutRequest{
		{PayoutID: uuid.NewString(), Status: domain.PayoutApproved, Amount: decimal.RequireFromString("10"),
			ScheduledFor: &later, DestinationLabel: "Main bank", Channel: "bank_transfer"},
		{PayoutID: uuid.NewString(), Status: domain.PayoutPendingReview, Amount: decimal.RequireFromString("20"),
			RequestedAt: now, DestinationLabel: "Card", Channel: "card"},
	}
	suite.arrangeDefaults([]domain.WalletAccount{account(suite.workspaceID, "USD", "100", "100")}, payouts, 1, 1)

	snapshot, err := suite.service.GetOverview(context.Background(), suite.workspaceID, suite.actor)

	suite.Require().NoError(err)
	suite.Require().Len(snapshot.UpcomingPayouts, 2)
	suite.Equal("Card", snapshot.UpcomingPayouts[0].Destination)
	suite.Equal("Main bank", snapshot.UpcomingPayouts[1].Destination)
}

func (suite *OverviewServiceTestSuite) TestGetOverview_CacheHitSkipsComputation() {
	cache := newStubSnapshotCache()
	service := services.NewOverviewService(portsrepo.RepositoryProvider{
		WalletRepo:        suite.mockWalletRepo,
		LedgerRepo:        suite.mockLedgerRepo,
		PayoutRepo:        suite.mockPayoutRepo,
		SettingsRepo:      suite.mockSettingsRepo,
		FundingSourceRepo: suite.mockFundingRepo,
		TransferRuleRepo:  suite.mockRuleRepo,
	}, cache, 10, 30*24*time.Hour)
	suite.arrangeDefaults([]domain.WalletAccount{account(suite.workspaceID, "USD", "100", "100")}, nil, 1, 1)

	cached, err := service.GetOverview(context.Background(), suite.workspaceID, suite.actor)
	suite.Require().NoError(err)
	suite.Equal(1, cache.sets)

	again, err := service.GetOverview(context.Background(), suite.workspaceID, suite.actor)
	suite.Require().NoError(err)
	suite.Equal(1, cache.sets, "cache hit must not recompute")
	suite.Equal(cached.RefreshedAt, again.RefreshedAt)
}

func TestOverviewServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OverviewServiceTestSuite))
}

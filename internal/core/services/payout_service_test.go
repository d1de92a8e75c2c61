package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fairlance/treasury_backend/internal/apperrors"
	"github.com/fairlance/treasury_backend/internal/core/domain"
	portssvc "github.com/fairlance/treasury_backend/internal/core/ports/services"
	"github.com/fairlance/treasury_backend/internal/core/services"
	"github.com/fairlance/treasury_backend/internal/dto"
)

const testMaxRetries = 3

type PayoutServiceTestSuite struct {
	suite.Suite
	mockPayoutRepo   *MockPayoutRepository
	mockWalletRepo   *MockWalletRepository
	mockLedgerRepo   *MockLedgerRepository
	mockSettingsRepo *MockSettingsRepository
	mockProvider     *MockSettlementProvider
	mockPublisher    *MockPublisher
	service          portssvc.PayoutSvcFacade
	workspaceID      string
	actor            domain.Actor
}

func (suite *PayoutServiceTestSuite) SetupTest() {
	suite.mockPayoutRepo = new(MockPayoutRepository)
	suite.mockWalletRepo = new(MockWalletRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockSettingsRepo = new(MockSettingsRepository)
	suite.mockProvider = new(MockSettlementProvider)
	suite.mockPublisher = new(MockPublisher)
	suite.service = services.NewPayoutService(
		suite.mockPayoutRepo,
		suite.mockWalletRepo,
		suite.mockLedgerRepo,
		suite.mockSettingsRepo,
		suite.mockProvider,
		suite.mockPublisher,
		testMaxRetries,
	)
	suite.workspaceID = uuid.NewString()
	suite.actor = operatorActor(uuid.NewString())

	// Event publication is best effort and exercised incidentally everywhere.
	suite.mockPublisher.On("PublishPayoutEvent", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func (suite *PayoutServiceTestSuite) activeAccount(available string) *domain.WalletAccount {
	avail := decimal.RequireFromString(available)
	return &domain.WalletAccount{
		AccountID:        uuid.NewString(),
		WorkspaceID:      suite.workspaceID,
		CurrencyCode:     "USD",
		Status:           domain.AccountStatusActive,
		CurrentBalance:   avail,
		AvailableBalance: avail,
	}
}

func (suite *PayoutServiceTestSuite) pendingPayout(amount string) *domain.PayoutRequest {
	return &domain.PayoutRequest{
		PayoutID:     uuid.NewString(),
		WorkspaceID:  suite.workspaceID,
		AccountID:    uuid.NewString(),
		Amount:       decimal.RequireFromString(amount),
		CurrencyCode: "USD",
		Status:       domain.PayoutPendingReview,
		RequesterID:  uuid.NewString(),
	}
}

func (suite *PayoutServiceTestSuite) defaultSettings(dualControl bool) *domain.OperationalSettings {
	s := domain.DefaultSettings(suite.workspaceID)
	s.DualControlEnabled = dualControl
	return &s
}

func (suite *PayoutServiceTestSuite) TestCreatePayout_Success() {
	ctx := context.Background()
	account := suite.activeAccount("1000")
	req := dto.CreatePayoutRequest{
		AccountID:       account.AccountID,
		FundingSourceID: uuid.NewString(),
		Amount:          decimal.RequireFromString("250.75"),
		CurrencyCode:    "USD",
		Channel:         "bank_transfer",
	}

	suite.mockWalletRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockPayoutRepo.On("SavePayout", ctx, mock.AnythingOfType("domain.PayoutRequest"), mock.AnythingOfType("domain.PayoutEvent")).
		Run(func(args mock.Arguments) {
			payout := args.Get(1).(domain.PayoutRequest)
			event := args.Get(2).(domain.PayoutEvent)
			suite.Equal(domain.PayoutPendingReview, payout.Status)
			suite.Equal(suite.actor.ID, payout.RequesterID)
			suite.Equal(domain.PayoutPendingReview, event.ToStatus)
		}).
		Return(nil).Once()

	payout, err := suite.service.CreatePayout(ctx, suite.workspaceID, req, suite.actor)

	suite.Require().NoError(err)
	suite.Equal(domain.PayoutPendingReview, payout.Status)
	suite.Equal(0, payout.RetryCount)
	suite.mockPayoutRepo.AssertExpectations(suite.T())
}

func (suite *PayoutServiceTestSuite) TestCreatePayout_InsufficientAvailable() {
	ctx := context.Background()
	account := suite.activeAccount("100")
	req := dto.CreatePayoutRequest{
		AccountID:       account.AccountID,
		FundingSourceID: uuid.NewString(),
		Amount:          decimal.RequireFromString("100.01"),
		CurrencyCode:    "USD",
		Channel:         "bank_transfer",
	}

	suite.mockWalletRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()

	_, err := suite.service.CreatePayout(ctx, suite.workspaceID, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.mockPayoutRepo.AssertNotCalled(suite.T(), "SavePayout")
}

func (suite *PayoutServiceTestSuite) TestApprovePayout_PlacesHoldAndTransitions() {
	ctx := context.Background()
	payout := suite.pendingPayout("250")

	suite.mockPayoutRepo.On("FindPayoutByID", ctx, payout.PayoutID).Return(payout, nil).Once()
	suite.mockSettingsRepo.On("FindSettingsByWorkspace", ctx, suite.workspaceID).
		Return(suite.defaultSettings(false), nil).Once()
	suite.mockLedgerRepo.On("AppendEntry", ctx, mock.AnythingOfType("domain.LedgerEntry")).
		Run(func(args mock.Arguments) {
			hold := args.Get(1).(domain.LedgerEntry)
			suite.Equal(domain.EntryHold, hold.EntryType)
			suite.Equal(fmt.Sprintf("payout:%s:hold", payout.PayoutID), hold.Reference)
			suite.True(hold.Amount.Equal(payout.Amount))
		}).
		Return(&domain.LedgerEntry{EntryID: "hold-1"}, nil).Once()
	suite.mockPayoutRepo.On("UpdatePayoutTransition", ctx, mock.AnythingOfType("domain.PayoutRequest"), mock.AnythingOfType("domain.PayoutEvent")).
		Return(nil).Once()

	approved, err := suite.service.ApprovePayout(ctx, suite.workspaceID, payout.PayoutID, dto.ReviewPayoutRequest{}, suite.actor)

	suite.Require().NoError(err)
	suite.Equal(domain.PayoutApproved, approved.Status)
	suite.Require().NotNil(approved.ReviewerID)
	suite.Equal(suite.actor.ID, *approved.ReviewerID)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *PayoutServiceTestSuite) TestApprovePayout_DualControlRejectsSelfReview() {
	ctx := context.Background()
	payout := suite.pendingPayout("250")
	payout.RequesterID = suite.actor.ID

	suite.mockPayoutRepo.On("FindPayoutByID", ctx, payout.PayoutID).Return(payout, nil).Once()
	suite.mockSettingsRepo.On("FindSettingsByWorkspace", ctx, suite.workspaceID).
		Return(suite.defaultSettings(true), nil).Once()

	_, err := suite.service.ApprovePayout(ctx, suite.workspaceID, payout.PayoutID, dto.ReviewPayoutRequest{}, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "AppendEntry")
	suite.mockPayoutRepo.AssertNotCalled(suite.T(), "UpdatePayoutTransition")
}

func (suite *PayoutServiceTestSuite) TestApprovePayout_SelfReviewAllowedWithoutDualControl() {
	ctx := context.Background()
	payout := suite.pendingPayout("250")
	payout.RequesterID = suite.actor.ID

	suite.mockPayoutRepo.On("FindPayoutByID", ctx, payout.PayoutID).Return(payout, nil).Once()
	suite.mockSettingsRepo.On("FindSettingsByWorkspace", ctx, suite.workspaceID).
		Return(suite.defaultSettings(false), nil).Once()
	suite.mockLedgerRepo.On("AppendEntry", ctx, mock.AnythingOfType("domain.LedgerEntry")).
		Return(&domain.LedgerEntry{EntryID: "hold-1"}, nil).Once()
	suite.mockPayoutRepo.On("UpdatePayoutTransition", ctx, mock.AnythingOfType("domain.PayoutRequest"), mock.AnythingOfType("domain.PayoutEvent")).
		Return(nil).Once()

	approved, err := suite.service.ApprovePayout(ctx, suite.workspaceID, payout.PayoutID, dto.ReviewPayoutRequest{}, suite.actor)

	suite.Require().NoError(err)
	suite.Equal(domain.PayoutApproved, approved.Status)
}

func (suite *PayoutServiceTestSuite) TestApprovePayout_LostRaceReleasesHold() {
	ctx := context.Background()
	payout := suite.pendingPayout("250")

	suite.mockPayoutRepo.On("FindPayoutByID", ctx, payout.PayoutID).Return(payout, nil).Once()
	suite.mockSettingsRepo.On("FindSettingsByWorkspace", ctx, suite.workspaceID).
		Return(suite.defaultSettings(false), nil).Once()
	suite.mockLedgerRepo.On("AppendEntry", ctx, mock.MatchedBy(func(e domain.LedgerEntry) bool {
		return e.EntryType == domain.EntryHold
	})).Return(&domain.LedgerEntry{EntryID: "hold-1"}, nil).Once()
	// A concurrent cancel wins the status guard after the hold commits.
	suite.mockPayoutRepo.On("UpdatePayoutTransition", ctx, mock.AnythingOfType("domain.PayoutRequest"), mock.AnythingOfType("domain.PayoutEvent")).
		Return(fmt.Errorf("%w: payout %s is no longer pending_review", apperrors.ErrConflict, payout.PayoutID)).Once()
	suite.mockLedgerRepo.On("AppendEntry", ctx, mock.MatchedBy(func(e domain.LedgerEntry) bool {
		return e.EntryType == domain.EntryRelease
	})).Run(func(args mock.Arguments) {
		release := args.Get(1).(domain.LedgerEntry)
		suite.Equal(fmt.Sprintf("payout:%s:release", payout.PayoutID), release.Reference)
		suite.True(release.Amount.Equal(payout.Amount))
	}).Return(&domain.LedgerEntry{EntryID: "release-1"}, nil).Once()

	_, err := suite.service.ApprovePayout(ctx, suite.workspaceID, payout.PayoutID, dto.ReviewPayoutRequest{}, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *PayoutServiceTestSuite) TestApprovePayout_HoldFailurePreservesState() {
	ctx := context.Background()
	payout := suite.pendingPayout("250")

	suite.mockPayoutRepo.On("FindPayoutByID", ctx, payout.PayoutID).Return(payout, nil).Once()
	suite.mockSettingsRepo.On("FindSettingsByWorkspace", ctx, suite.workspaceID).
		Return(suite.defaultSettings(false), nil).Once()
	suite.mockLedgerRepo.On("AppendEntry", ctx, mock.AnythingOfType("domain.LedgerEntry")).
		Return(nil, fmt.Errorf("%w: hold 250 exceeds available 10", apperrors.ErrInsufficientFunds)).Once()

	_, err := suite.service.ApprovePayout(ctx, suite.workspaceID, payout.PayoutID, dto.ReviewPayoutRequest{}, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.mockPayoutRepo.AssertNotCalled(suite.T(), "UpdatePayoutTransition")
}

func (suite *PayoutServiceTestSuite) TestRejectPayout_RequiresReason() {
	ctx := context.Background()

	_, err := suite.service.RejectPayout(ctx, suite.workspaceID, uuid.NewString(), dto.ReviewPayoutRequest{}, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PayoutServiceTestSuite) TestCancelPayout_OnlyFromPendingReview() {
	ctx := context.Background()
	payout := suite.pendingPayout("250")
	payout.Status = domain.PayoutApproved

	suite.mockPayoutRepo.On("FindPayoutByID", ctx, payout.PayoutID).Return(payout, nil).Once()

	_, err := suite.service.CancelPayout(ctx, suite.workspaceID, payout.PayoutID, dto.ReviewPayoutRequest{Reason: "changed my mind"}, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *PayoutServiceTestSuite) TestSettlePayout_SuccessAppendsReleaseAndDebit() {
	ctx := context.Background()
	payout := suite.pendingPayout("250")
	payout.Status = domain.PayoutApproved

	suite.mockPayoutRepo.On("FindPayoutByID", ctx, payout.PayoutID).Return(payout, nil).Once()
	suite.mockPayoutRepo.On("UpdatePayoutTransition", ctx, mock.AnythingOfType("domain.PayoutRequest"), mock.AnythingOfType("domain.PayoutEvent")).
		Return(nil).Twice()
	suite.mockProvider.On("Settle", ctx, mock.AnythingOfType("domain.PayoutRequest")).
		Return("ext-ref-99", nil).Once()
	suite.mockLedgerRepo.On("AppendEntries", ctx, mock.AnythingOfType("[]domain.LedgerEntry")).
		Run(func(args mock.Arguments) {
			pair := args.Get(1).([]domain.LedgerEntry)
			suite.Require().Len(pair, 2)
			suite.Equal(domain.EntryRelease, pair[0].EntryType)
			suite.Equal(fmt.Sprintf("payout:%s:release", payout.PayoutID), pair[0].Reference)
			suite.Equal(domain.EntryDebit, pair[1].EntryType)
			suite.Equal(fmt.Sprintf("payout:%s:debit", payout.PayoutID), pair[1].Reference)
			suite.Require().NotNil(pair[1].ExternalReference)
			suite.Equal("ext-ref-99", *pair[1].ExternalReference)
		}).
		Return([]domain.LedgerEntry{}, nil).Once()

	settled, err := suite.service.SettlePayout(ctx, suite.workspaceID, payout.PayoutID, suite.actor)

	suite.Require().NoError(err)
	suite.Equal(domain.PayoutProcessed, settled.Status)
	suite.Require().NotNil(settled.ProcessedAt)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *PayoutServiceTestSuite) TestSettlePayout_ProviderFailureRequeues() {
	ctx := context.Background()
	payout := suite.pendingPayout("250")
	payout.Status = domain.PayoutApproved

	suite.mockPayoutRepo.On("FindPayoutByID", ctx, payout.PayoutID).Return(payout, nil).Once()
	suite.mockPayoutRepo.On("UpdatePayoutTransition", ctx, mock.AnythingOfType("domain.PayoutRequest"), mock.AnythingOfType("domain.PayoutEvent")).
		Return(nil).Twice()
	suite.mockProvider.On("Settle", ctx, mock.AnythingOfType("domain.PayoutRequest")).
		Return("", assert.AnError).Once()
	suite.mockLedgerRepo.On("AppendEntry", ctx, mock.AnythingOfType("domain.LedgerEntry")).
		Run(func(args mock.Arguments) {
			release := args.Get(1).(domain.LedgerEntry)
			suite.Equal(domain.EntryRelease, release.EntryType)
			suite.True(release.Amount.Equal(payout.Amount))
		}).
		Return(&domain.LedgerEntry{EntryID: "rel-1"}, nil).Once()

	requeued, err := suite.service.SettlePayout(ctx, suite.workspaceID, payout.PayoutID, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrProviderSettlement)
	suite.Require().NotNil(requeued)
	suite.Equal(domain.PayoutPendingReview, requeued.Status)
	suite.Equal(1, requeued.RetryCount)
}

func (suite *PayoutServiceTestSuite) TestSettlePayout_RetryCeilingEscalatesToRejected() {
	ctx := context.Background()
	payout := suite.pendingPayout("250")
	payout.Status = domain.PayoutApproved
	payout.RetryCount = testMaxRetries

	suite.mockPayoutRepo.On("FindPayoutByID", ctx, payout.PayoutID).Return(payout, nil).Once()
	suite.mockPayoutRepo.On("UpdatePayoutTransition", ctx, mock.AnythingOfType("domain.PayoutRequest"), mock.AnythingOfType("domain.PayoutEvent")).
		Return(nil).Twice()
	suite.mockProvider.On("Settle", ctx, mock.AnythingOfType("domain.PayoutRequest")).
		Return("", assert.AnError).Once()
	suite.mockLedgerRepo.On("AppendEntry", ctx, mock.AnythingOfType("domain.LedgerEntry")).
		Return(&domain.LedgerEntry{EntryID: "rel-1"}, nil).Once()

	rejected, err := suite.service.SettlePayout(ctx, suite.workspaceID, payout.PayoutID, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrProviderSettlement)
	suite.Require().NotNil(rejected)
	suite.Equal(domain.PayoutRejected, rejected.Status)
	suite.Equal(testMaxRetries+1, rejected.RetryCount)
}

func (suite *PayoutServiceTestSuite) TestSettlePayout_OnlyApprovedCanSettle() {
	ctx := context.Background()
	payout := suite.pendingPayout("250")

	suite.mockPayoutRepo.On("FindPayoutByID", ctx, payout.PayoutID).Return(payout, nil).Once()

	_, err := suite.service.SettlePayout(ctx, suite.workspaceID, payout.PayoutID, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockProvider.AssertNotCalled(suite.T(), "Settle")
}

func (suite *PayoutServiceTestSuite) TestPayoutOutsideWorkspaceIsNotFound() {
	ctx := context.Background()
	payout := suite.pendingPayout("250")
	payout.WorkspaceID = uuid.NewString()

	suite.mockPayoutRepo.On("FindPayoutByID", ctx, payout.PayoutID).Return(payout, nil).Once()

	_, err := suite.service.GetPayoutByID(ctx, suite.workspaceID, payout.PayoutID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestPayoutServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PayoutServiceTestSuite))
}

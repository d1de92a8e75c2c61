package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/fairlance/treasury_backend/internal/core/domain"
	portsrepo "github.com/fairlance/treasury_backend/internal/core/ports/repositories"
	"github.com/fairlance/treasury_backend/internal/events"
)

// MockWalletRepository is a mock type for the WalletAccountRepositoryFacade interface
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.WalletAccount, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalletAccount), args.Error(1)
}

func (m *MockWalletRepository) FindAccountByOwner(ctx context.Context, ownerID string, accountType domain.AccountType, currencyCode string) (*domain.WalletAccount, error) {
	args := m.Called(ctx, ownerID, accountType, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalletAccount), args.Error(1)
}

func (m *MockWalletRepository) ListAccountsByWorkspace(ctx context.Context, workspaceID string) ([]domain.WalletAccount, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WalletAccount), args.Error(1)
}

func (m *MockWalletRepository) SaveAccount(ctx context.Context, account domain.WalletAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockWalletRepository) UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, actorID string, now time.Time) error {
	args := m.Called(ctx, accountID, status, actorID, now)
	return args.Error(0)
}

// MockLedgerRepository is a mock type for the LedgerRepositoryFacade interface
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) AppendEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) AppendEntries(ctx context.Context, entries []domain.LedgerEntry) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, entries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) ListEntriesByAccount(ctx context.Context, workspaceID, accountID string, limit int, nextToken *string, filter portsrepo.ListEntriesFilter) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, workspaceID, accountID, limit, nextToken, filter)
	var entries []domain.LedgerEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.LedgerEntry)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return entries, token, args.Error(2)
}

func (m *MockLedgerRepository) FindAllEntriesByAccount(ctx context.Context, accountID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) ListRecentEntriesByWorkspace(ctx context.Context, workspaceID string, limit int) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, workspaceID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) ListEntriesByWorkspaceSince(ctx context.Context, workspaceID string, since time.Time) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, workspaceID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

// MockPayoutRepository is a mock type for the PayoutRepositoryFacade interface
type MockPayoutRepository struct {
	mock.Mock
}

func (m *MockPayoutRepository) FindPayoutByID(ctx context.Context, payoutID string) (*domain.PayoutRequest, error) {
	args := m.Called(ctx, payoutID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayoutRequest), args.Error(1)
}

func (m *MockPayoutRepository) ListPayoutsByWorkspace(ctx context.Context, workspaceID string, statuses []domain.PayoutStatus, limit int, nextToken *string) ([]domain.PayoutRequest, *string, error) {
	args := m.Called(ctx, workspaceID, statuses, limit, nextToken)
	var payouts []domain.PayoutRequest
	if args.Get(0) != nil {
		payouts = args.Get(0).([]domain.PayoutRequest)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return payouts, token, args.Error(2)
}

func (m *MockPayoutRepository) ListPayoutEvents(ctx context.Context, payoutID string) ([]domain.PayoutEvent, error) {
	args := m.Called(ctx, payoutID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayoutEvent), args.Error(1)
}

func (m *MockPayoutRepository) SavePayout(ctx context.Context, payout domain.PayoutRequest, event domain.PayoutEvent) error {
	args := m.Called(ctx, payout, event)
	return args.Error(0)
}

func (m *MockPayoutRepository) UpdatePayoutTransition(ctx context.Context, payout domain.PayoutRequest, event domain.PayoutEvent) error {
	args := m.Called(ctx, payout, event)
	return args.Error(0)
}

// MockSettingsRepository is a mock type for the SettingsRepositoryFacade interface
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) FindSettingsByWorkspace(ctx context.Context, workspaceID string) (*domain.OperationalSettings, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OperationalSettings), args.Error(1)
}

func (m *MockSettingsRepository) UpsertSettings(ctx context.Context, settings domain.OperationalSettings) (*domain.OperationalSettings, error) {
	args := m.Called(ctx, settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OperationalSettings), args.Error(1)
}

// MockFundingSourceRepository is a mock type for the FundingSourceReader interface
type MockFundingSourceRepository struct {
	mock.Mock
}

func (m *MockFundingSourceRepository) CountActiveByWorkspace(ctx context.Context, workspaceID string) (int, error) {
	args := m.Called(ctx, workspaceID)
	return args.Int(0), args.Error(1)
}

// MockTransferRuleRepository is a mock type for the TransferRuleReader interface
type MockTransferRuleRepository struct {
	mock.Mock
}

func (m *MockTransferRuleRepository) CountEnabledByWorkspace(ctx context.Context, workspaceID string) (int, error) {
	args := m.Called(ctx, workspaceID)
	return args.Int(0), args.Error(1)
}

// MockSettlementProvider is a mock type for the SettlementProvider port
type MockSettlementProvider struct {
	mock.Mock
}

func (m *MockSettlementProvider) Settle(ctx context.Context, payout domain.PayoutRequest) (string, error) {
	args := m.Called(ctx, payout)
	return args.String(0), args.Error(1)
}

// MockPublisher is a mock type for the events.Publisher interface
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishPayoutEvent(ctx context.Context, msg events.PayoutEventMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockPublisher) Close() {
	m.Called()
}

// operatorActor returns an actor carrying a wallet operator role.
func operatorActor(id string) domain.Actor {
	return domain.Actor{ID: id, Roles: []domain.Role{domain.RoleFinance}}
}

// outsiderActor returns an actor with no operator capability.
func outsiderActor(id string) domain.Actor {
	return domain.Actor{ID: id, Roles: []domain.Role{domain.RoleClient}}
}

package pgsql

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fairlance/treasury_backend/internal/apperrors"
	"github.com/fairlance/treasury_backend/internal/core/domain"
)

func testAccount(status domain.AccountStatus, current, available, hold string) domain.WalletAccount {
	return domain.WalletAccount{
		AccountID:          "acc-1",
		WorkspaceID:        "ws-1",
		CurrencyCode:       "USD",
		Status:             status,
		CurrentBalance:     decimal.RequireFromString(current),
		AvailableBalance:   decimal.RequireFromString(available),
		PendingHoldBalance: decimal.RequireFromString(hold),
	}
}

func testEntry(entryType domain.EntryType, amount, reference string) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:      "entry-" + reference,
		AccountID:    "acc-1",
		EntryType:    entryType,
		Amount:       decimal.RequireFromString(amount),
		CurrencyCode: "USD",
		Reference:    reference,
		ActorID:      "actor-1",
	}
}

func TestAppendStateSameReferenceReplaysOnce(t *testing.T) {
	state := newAppendState(testAccount(domain.AccountStatusActive, "100", "100", "0"))

	first, applied, err := state.resolve(testEntry(domain.EntryCredit, "50", "dep-1"), nil)
	require.NoError(t, err)
	require.True(t, applied)
	require.True(t, first.BalanceAfter.Equal(decimal.RequireFromString("150")))

	// The same submission arrives again; the stored row is what the
	// reference lookup would find.
	second, applied, err := state.resolve(testEntry(domain.EntryCredit, "50", "dep-1"), &first)
	require.NoError(t, err)
	require.False(t, applied)
	require.Equal(t, first, second)
	require.True(t, state.balances.Current.Equal(decimal.RequireFromString("150")),
		"replay must not move the running balance a second time")
}

func TestAppendStateBalanceAfterChainsAcrossBatch(t *testing.T) {
	state := newAppendState(testAccount(domain.AccountStatusActive, "100", "100", "0"))

	hold, applied, err := state.resolve(testEntry(domain.EntryHold, "40", "hold-1"), nil)
	require.NoError(t, err)
	require.True(t, applied)
	require.True(t, hold.BalanceAfter.Equal(decimal.RequireFromString("100")))

	release, _, err := state.resolve(testEntry(domain.EntryRelease, "40", "rel-1"), nil)
	require.NoError(t, err)
	require.True(t, release.BalanceAfter.Equal(decimal.RequireFromString("100")))

	debit, _, err := state.resolve(testEntry(domain.EntryDebit, "40", "deb-1"), nil)
	require.NoError(t, err)
	require.True(t, debit.BalanceAfter.Equal(decimal.RequireFromString("60")))
	require.True(t, state.balances.Consistent())
}

func TestAppendStateRejectsCurrencyMismatch(t *testing.T) {
	state := newAppendState(testAccount(domain.AccountStatusActive, "100", "100", "0"))

	entry := testEntry(domain.EntryCredit, "50", "dep-1")
	entry.CurrencyCode = "EUR"
	_, _, err := state.resolve(entry, nil)
	require.ErrorIs(t, err, apperrors.ErrCurrencyMismatch)
}

func TestAppendStateFirstCreditActivatesPendingAccount(t *testing.T) {
	state := newAppendState(testAccount(domain.AccountStatusPending, "0", "0", "0"))

	_, _, err := state.resolve(testEntry(domain.EntryDebit, "10", "deb-1"), nil)
	require.ErrorIs(t, err, apperrors.ErrConflict)

	_, applied, err := state.resolve(testEntry(domain.EntryCredit, "10", "dep-1"), nil)
	require.NoError(t, err)
	require.True(t, applied)
	require.Equal(t, domain.AccountStatusActive, state.status)

	_, applied, err = state.resolve(testEntry(domain.EntryDebit, "10", "deb-1"), nil)
	require.NoError(t, err)
	require.True(t, applied)
}

func TestAppendStateDebitNeedsAvailableCover(t *testing.T) {
	state := newAppendState(testAccount(domain.AccountStatusActive, "100", "30", "70"))

	_, _, err := state.resolve(testEntry(domain.EntryDebit, "50", "deb-1"), nil)
	require.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
	require.True(t, state.balances.Current.Equal(decimal.RequireFromString("100")),
		"a rejected entry must not move the running balance")
}

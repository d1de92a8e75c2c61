package ledgermath_test

import (
	"testing"
	"time"

	"github.com/fairlance/treasury_backend/internal/apperrors"
	"github.com/fairlance/treasury_backend/internal/core/domain"
	"github.com/fairlance/treasury_backend/internal/utils/ledgermath"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestApply_CreditDebit(t *testing.T) {
	b := ledgermath.Balances{}

	b, err := ledgermath.Apply(b, domain.EntryCredit, dec("100.50"))
	require.NoError(t, err)
	assert.True(t, b.Current.Equal(dec("100.50")))
	assert.True(t, b.Available.Equal(dec("100.50")))

	b, err = ledgermath.Apply(b, domain.EntryDebit, dec("40.25"))
	require.NoError(t, err)
	assert.True(t, b.Current.Equal(dec("60.25")))
	assert.True(t, b.Available.Equal(dec("60.25")))
	assert.True(t, b.Consistent())
}

func TestApply_HoldKeepsCurrentBalance(t *testing.T) {
	b := ledgermath.Balances{Current: dec("125000.50"), Available: dec("125000.50")}

	b, err := ledgermath.Apply(b, domain.EntryHold, dec("27000.25"))
	require.NoError(t, err)

	assert.True(t, b.Current.Equal(dec("125000.50")))
	assert.True(t, b.PendingHold.Equal(dec("27000.25")))
	assert.True(t, b.Available.Equal(dec("98000.25")))
	assert.True(t, b.Consistent())
}

func TestApply_DebitExceedingAvailable(t *testing.T) {
	b := ledgermath.Balances{Current: dec("100"), Available: dec("60"), PendingHold: dec("40")}

	_, err := ledgermath.Apply(b, domain.EntryDebit, dec("61"))
	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
}

func TestApply_ReleaseMoreThanHeld(t *testing.T) {
	b := ledgermath.Balances{Current: dec("100"), Available: dec("70"), PendingHold: dec("30")}

	_, err := ledgermath.Apply(b, domain.EntryRelease, dec("30.01"))
	assert.ErrorIs(t, err, apperrors.ErrInvariantViolation)

	// Partial release is permitted.
	next, err := ledgermath.Apply(b, domain.EntryRelease, dec("10"))
	require.NoError(t, err)
	assert.True(t, next.PendingHold.Equal(dec("20")))
	assert.True(t, next.Available.Equal(dec("80")))
}

func TestApply_NegativeAdjustment(t *testing.T) {
	b := ledgermath.Balances{Current: dec("50"), Available: dec("50")}

	b, err := ledgermath.Apply(b, domain.EntryAdjustment, dec("-20"))
	require.NoError(t, err)
	assert.True(t, b.Current.Equal(dec("30")))

	_, err = ledgermath.Apply(b, domain.EntryAdjustment, dec("-30.01"))
	assert.ErrorIs(t, err, apperrors.ErrInvariantViolation)
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ledgermath.ValidateAmount(domain.EntryCredit, dec("1")))
	assert.ErrorIs(t, ledgermath.ValidateAmount(domain.EntryCredit, dec("0")), apperrors.ErrValidation)
	assert.ErrorIs(t, ledgermath.ValidateAmount(domain.EntryDebit, dec("-5")), apperrors.ErrValidation)
	assert.NoError(t, ledgermath.ValidateAmount(domain.EntryAdjustment, dec("-5")))
	assert.ErrorIs(t, ledgermath.ValidateAmount(domain.EntryAdjustment, dec("0")), apperrors.ErrValidation)
}

func TestReplay_RoundTrip(t *testing.T) {
	now := time.Now().UTC()
	entries := []domain.LedgerEntry{
		{EntryID: "e1", EntryType: domain.EntryCredit, Amount: dec("500"), BalanceAfter: dec("500"), OccurredAt: now},
		{EntryID: "e2", EntryType: domain.EntryHold, Amount: dec("120"), BalanceAfter: dec("500"), OccurredAt: now.Add(time.Second)},
		{EntryID: "e3", EntryType: domain.EntryRelease, Amount: dec("120"), BalanceAfter: dec("500"), OccurredAt: now.Add(2 * time.Second)},
		{EntryID: "e4", EntryType: domain.EntryDebit, Amount: dec("120"), BalanceAfter: dec("380"), OccurredAt: now.Add(3 * time.Second)},
	}

	final, badID, err := ledgermath.Replay(entries)
	require.NoError(t, err)
	assert.Empty(t, badID)
	assert.True(t, final.Current.Equal(dec("380")))
	assert.True(t, final.PendingHold.IsZero())
}

func TestReplay_DetectsTamperedSnapshot(t *testing.T) {
	entries := []domain.LedgerEntry{
		{EntryID: "e1", EntryType: domain.EntryCredit, Amount: dec("500"), BalanceAfter: dec("500")},
		{EntryID: "e2", EntryType: domain.EntryDebit, Amount: dec("100"), BalanceAfter: dec("399")}, // tampered
	}

	_, badID, err := ledgermath.Replay(entries)
	assert.ErrorIs(t, err, apperrors.ErrReconciliation)
	assert.Equal(t, "e2", badID)
}

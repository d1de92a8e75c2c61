package ledgermath

import (
	"fmt"

	"github.com/fairlance/treasury_backend/internal/apperrors"
	"github.com/fairlance/treasury_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Balances is the triple of cached balances kept on a wallet account.
// Invariant: Current == Available + PendingHold.
type Balances struct {
	Current     decimal.Decimal
	Available   decimal.Decimal
	PendingHold decimal.Decimal
}

// Consistent reports whether the balance invariant holds.
func (b Balances) Consistent() bool {
	return b.Current.Equal(b.Available.Add(b.PendingHold))
}

// Apply computes the balances after applying one entry of the given type and
// amount. It is used by both the service layer (pre-validation) and the
// repository (authoritative, inside the account's critical section) so the
// two can never disagree on the arithmetic.
//
// Rules:
//   - credit: current and available increase.
//   - debit: current and available decrease; must be covered by available.
//   - hold: available moves into pending hold; must be covered by available.
//   - release: pending hold moves back to available; releasing more than is
//     currently held violates the ledger invariant.
//   - adjustment: signed change to current and available; may not drive
//     available negative.
func Apply(b Balances, entryType domain.EntryType, amount decimal.Decimal) (Balances, error) {
	switch entryType {
	case domain.EntryCredit:
		b.Current = b.Current.Add(amount)
		b.Available = b.Available.Add(amount)
	case domain.EntryDebit:
		if amount.GreaterThan(b.Available) {
			return b, fmt.Errorf("%w: debit %s exceeds available %s", apperrors.ErrInsufficientFunds, amount.String(), b.Available.String())
		}
		b.Current = b.Current.Sub(amount)
		b.Available = b.Available.Sub(amount)
	case domain.EntryHold:
		if amount.GreaterThan(b.Available) {
			return b, fmt.Errorf("%w: hold %s exceeds available %s", apperrors.ErrInsufficientFunds, amount.String(), b.Available.String())
		}
		b.Available = b.Available.Sub(amount)
		b.PendingHold = b.PendingHold.Add(amount)
	case domain.EntryRelease:
		if amount.GreaterThan(b.PendingHold) {
			return b, fmt.Errorf("%w: release %s exceeds outstanding hold %s", apperrors.ErrInvariantViolation, amount.String(), b.PendingHold.String())
		}
		b.PendingHold = b.PendingHold.Sub(amount)
		b.Available = b.Available.Add(amount)
	case domain.EntryAdjustment:
		next := b.Available.Add(amount)
		if next.IsNegative() {
			return b, fmt.Errorf("%w: adjustment %s drives available balance negative", apperrors.ErrInvariantViolation, amount.String())
		}
		b.Current = b.Current.Add(amount)
		b.Available = next
	default:
		return b, fmt.Errorf("%w: unknown entry type %q", apperrors.ErrValidation, entryType)
	}

	if !b.Consistent() {
		// Unreachable if the arithmetic above is right; kept as a tripwire.
		return b, fmt.Errorf("%w: balances inconsistent after %s", apperrors.ErrInvariantViolation, entryType)
	}
	return b, nil
}

// ValidateAmount enforces the sign rule per entry type: amounts are strictly
// positive except for adjustments, which carry their sign but may not be zero.
func ValidateAmount(entryType domain.EntryType, amount decimal.Decimal) error {
	if entryType == domain.EntryAdjustment {
		if amount.IsZero() {
			return fmt.Errorf("%w: adjustment amount must be non-zero", apperrors.ErrValidation)
		}
		return nil
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be positive for %s entries", apperrors.ErrValidation, entryType)
	}
	return nil
}

// Replay folds a sequence of entries (in occurred-at order) from zero,
// verifying each stored BalanceAfter against the recomputed current balance.
// It returns the final balances and the ID of the first entry whose stored
// snapshot disagrees, if any.
func Replay(entries []domain.LedgerEntry) (Balances, string, error) {
	var b Balances
	for _, e := range entries {
		next, err := Apply(b, e.EntryType, e.Amount)
		if err != nil {
			return b, e.EntryID, err
		}
		if !next.Current.Equal(e.BalanceAfter) {
			return next, e.EntryID, fmt.Errorf("%w: entry %s stored balanceAfter %s, replay computed %s",
				apperrors.ErrReconciliation, e.EntryID, e.BalanceAfter.String(), next.Current.String())
		}
		b = next
	}
	return b, "", nil
}

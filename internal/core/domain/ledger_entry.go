package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType classifies a ledger entry's effect on account balances.
type EntryType string

const (
	EntryCredit     EntryType = "credit"
	EntryDebit      EntryType = "debit"
	EntryHold       EntryType = "hold"
	EntryRelease    EntryType = "release"
	EntryAdjustment EntryType = "adjustment"
)

// ValidEntryType reports whether t is one of the known entry types.
func ValidEntryType(t EntryType) bool {
	switch t {
	case EntryCredit, EntryDebit, EntryHold, EntryRelease, EntryAdjustment:
		return true
	}
	return false
}

// LedgerEntry is an immutable record of a single balance-affecting event.
// Entries are append-only: corrections are made with a new offsetting entry,
// never by mutating a committed row.
type LedgerEntry struct {
	EntryID           string          `json:"entryID"`
	AccountID         string          `json:"accountID"`
	EntryType         EntryType       `json:"entryType"`
	Amount            decimal.Decimal `json:"amount"` // positive; adjustments may carry a sign
	CurrencyCode      string          `json:"currencyCode"`
	Reference         string          `json:"reference"` // idempotency key, unique per account
	ExternalReference *string         `json:"externalReference,omitempty"`
	ActorID           string          `json:"actorID"`
	Note              string          `json:"note"`
	Metadata          Metadata        `json:"metadata,omitempty"`
	OccurredAt        time.Time       `json:"occurredAt"`
	BalanceAfter      decimal.Decimal `json:"balanceAfter"` // current balance immediately after this entry
	CreatedAt         time.Time       `json:"createdAt"`
	CreatedBy         string          `json:"createdBy"`
}

// SignedAmount is the entry's effect on the account's current balance.
// Holds and releases move funds between available and pending-hold without
// changing the current balance, so their signed effect is zero.
func (e LedgerEntry) SignedAmount() decimal.Decimal {
	switch e.EntryType {
	case EntryCredit:
		return e.Amount
	case EntryDebit:
		return e.Amount.Neg()
	case EntryAdjustment:
		return e.Amount
	default: // hold, release
		return decimal.Zero
	}
}

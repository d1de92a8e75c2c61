package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletLedgerEntry mirrors the wallet_ledger_entries table.
// Rows are append-only: no UPDATE or DELETE is ever issued against them.
type WalletLedgerEntry struct {
	EntryID           string          `db:"entry_id"`
	AccountID         string          `db:"account_id"`
	EntryType         string          `db:"entry_type"`
	Amount            decimal.Decimal `db:"amount"`
	CurrencyCode      string          `db:"currency_code"`
	Reference         string          `db:"reference"`
	ExternalReference *string         `db:"external_reference"`
	ActorID           string          `db:"actor_id"`
	Note              string          `db:"note"`
	Metadata          []byte          `db:"metadata"` // jsonb
	OccurredAt        time.Time       `db:"occurred_at"`
	BalanceAfter      decimal.Decimal `db:"balance_after"`
	CreatedAt         time.Time       `db:"created_at"`
	CreatedBy         string          `db:"created_by"`
}

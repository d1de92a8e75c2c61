package models

import "github.com/shopspring/decimal"

// WalletAccount mirrors the wallet_accounts table.
type WalletAccount struct {
	AccountID          string          `db:"account_id"`
	WorkspaceID        string          `db:"workspace_id"`
	OwnerID            string          `db:"owner_id"`
	AccountType        string          `db:"account_type"`
	CurrencyCode       string          `db:"currency_code"`
	ProviderKey        string          `db:"provider_key"`
	Status             string          `db:"status"`
	CurrentBalance     decimal.Decimal `db:"current_balance"`
	AvailableBalance   decimal.Decimal `db:"available_balance"`
	PendingHoldBalance decimal.Decimal `db:"pending_hold_balance"`
	AuditFields
}
